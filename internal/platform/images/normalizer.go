// File: internal/platform/images/normalizer.go
package images

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const normalizedExt = ".jpg"

// Normalizer rewrites stored listing photos into a bounded-width JPEG.
type Normalizer struct {
	maxWidth int
	quality  int
	logger   *zap.Logger
}

// NewNormalizer creates a Normalizer. maxWidth and quality fall back to
// sane values when the configuration leaves them zero.
func NewNormalizer(maxWidth, quality int, logger *zap.Logger) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = 1200
	}
	if quality <= 0 || quality > 100 {
		quality = 75
	}
	return &Normalizer{maxWidth: maxWidth, quality: quality, logger: logger}
}

// Normalize converts the image at path into a JPEG no wider than maxWidth
// and returns the path of the normalized file. The original file is removed
// when the normalized copy lands under a different name.
//
// Normalization is best effort: any failure is logged and the original
// path is returned unchanged, so a bad photo never blocks a save.
func (n *Normalizer) Normalize(path string) string {
	if n.alreadyNormalized(path) {
		return path
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		n.logger.Warn("Image normalization skipped: decode failed",
			zap.String("path", path), zap.Error(err))
		return path
	}

	if img.Bounds().Dx() > n.maxWidth {
		img = imaging.Resize(img, n.maxWidth, 0, imaging.Lanczos)
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + normalizedExt
	if err := imaging.Save(img, outPath, imaging.JPEGQuality(n.quality)); err != nil {
		n.logger.Warn("Image normalization skipped: encode failed",
			zap.String("path", path), zap.Error(err))
		return path
	}

	if outPath != path {
		if err := os.Remove(path); err != nil {
			n.logger.Warn("Could not remove original image after normalization",
				zap.String("path", path), zap.Error(err))
		}
	}
	return outPath
}

// alreadyNormalized reports whether the file is a JPEG that fits the
// width bound, in which case re-encoding would only lose quality.
func (n *Normalizer) alreadyNormalized(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jpg" && ext != ".jpeg" {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return false
	}
	return cfg.Width <= n.maxWidth
}
