// File: internal/middleware/locale.go
package middleware

import (
	"strings"

	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"

	"github.com/gin-gonic/gin"
)

// Locale resolves the response language for the request. The lang query
// parameter wins, then the Accept-Language header, then the configured
// site default (Arabic).
func Locale(cfg *config.Config) gin.HandlerFunc {
	defaultLang := common.NormalizeLang(cfg.DefaultLanguage)
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = preferredFromHeader(c.GetHeader("Accept-Language"))
		}
		if lang == "" {
			lang = defaultLang
		}
		c.Set(common.LangKey, common.NormalizeLang(lang))
		c.Next()
	}
}

func preferredFromHeader(header string) string {
	if header == "" {
		return ""
	}
	// "en-US,en;q=0.9,ar;q=0.8" -> first tag's primary subtag.
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	first = strings.Split(first, ";")[0]
	primary := strings.ToLower(strings.Split(first, "-")[0])
	if primary == common.LangEnglish || primary == common.LangArabic {
		return primary
	}
	return ""
}
