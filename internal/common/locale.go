// File: internal/common/locale.go
package common

const (
	LangArabic  = "ar"
	LangEnglish = "en"
)

// NormalizeLang maps an arbitrary language hint onto a supported language.
// Anything that is not English falls back to Arabic, the site default.
func NormalizeLang(lang string) string {
	if lang == LangEnglish {
		return LangEnglish
	}
	return LangArabic
}

// Localized picks the display value for the requested language, falling
// back to the English value when the Arabic one is empty.
func Localized(nameEn, nameAr, lang string) string {
	if NormalizeLang(lang) == LangArabic && nameAr != "" {
		return nameAr
	}
	return nameEn
}
