// File: internal/filestorage/service_test.go
package filestorage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupFileStorageService(t *testing.T) (*FileStorageService, string) {
	t.Helper()
	storagePath := t.TempDir()
	fsService, err := NewFileStorageService(storagePath, zap.NewNop())
	require.NoError(t, err)
	return fsService, storagePath
}

// newTestFileHeader builds a multipart.FileHeader the way gin would hand it
// to a handler.
func newTestFileHeader(t *testing.T, fieldname, filename, content, contentType string) *multipart.FileHeader {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldname, filename))
	if contentType != "" {
		partHeader.Set("Content-Type", contentType)
	}

	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	files := form.File[fieldname]
	require.NotEmpty(t, files)
	return files[0]
}

func TestSaveUploadedFileStoresUnderSubDir(t *testing.T) {
	fsService, storagePath := setupFileStorageService(t)

	fh := newTestFileHeader(t, "images", "car_photo.jpg", "jpeg bytes", "image/jpeg")

	relativePath, err := fsService.SaveUploadedFile(fh, "listings")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relativePath, "listings/"))
	assert.True(t, strings.HasSuffix(relativePath, ".jpg"))

	content, err := os.ReadFile(filepath.Join(storagePath, relativePath))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(content))
}

func TestSaveUploadedFileInfersExtensionFromContentType(t *testing.T) {
	fsService, _ := setupFileStorageService(t)

	fh := newTestFileHeader(t, "images", "photo_without_extension", "png bytes", "image/png")

	relativePath, err := fsService.SaveUploadedFile(fh, "listings")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(relativePath, ".png"))
}

func TestSaveUploadedFileRejectsUnsupportedType(t *testing.T) {
	fsService, _ := setupFileStorageService(t)

	fh := newTestFileHeader(t, "images", "document", "some text", "text/plain")

	_, err := fsService.SaveUploadedFile(fh, "listings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type or missing extension")
}

func TestSaveUploadedFileNilHeader(t *testing.T) {
	fsService, _ := setupFileStorageService(t)

	_, err := fsService.SaveUploadedFile(nil, "listings")
	assert.EqualError(t, err, "fileHeader cannot be nil")
}

func TestAbsoluteAndRelativePathRoundTrip(t *testing.T) {
	fsService, storagePath := setupFileStorageService(t)

	abs := fsService.AbsolutePath("listings/photo.jpg")
	assert.Equal(t, filepath.Join(storagePath, "listings", "photo.jpg"), abs)

	rel, err := fsService.RelativePath(abs)
	require.NoError(t, err)
	assert.Equal(t, "listings/photo.jpg", rel)
}

func TestRelativePathRejectsOutsideStorageRoot(t *testing.T) {
	fsService, _ := setupFileStorageService(t)

	_, err := fsService.RelativePath("/etc/passwd")
	require.Error(t, err)
}

func TestDeleteFileRemovesStoredFile(t *testing.T) {
	fsService, storagePath := setupFileStorageService(t)

	subDir := filepath.Join(storagePath, "listings")
	require.NoError(t, os.MkdirAll(subDir, os.ModePerm))
	target := filepath.Join(subDir, "old.jpg")
	require.NoError(t, os.WriteFile(target, []byte("bytes"), 0o644))

	require.NoError(t, fsService.DeleteFile("listings/old.jpg"))

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteFileIgnoresMissingFile(t *testing.T) {
	fsService, _ := setupFileStorageService(t)

	assert.NoError(t, fsService.DeleteFile("listings/never_existed.jpg"))
}

func TestDeleteFileRejectsPathTraversal(t *testing.T) {
	fsService, _ := setupFileStorageService(t)

	err := fsService.DeleteFile("../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file path for deletion")
}
