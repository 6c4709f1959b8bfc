// File: internal/listing/governorates.go
package listing

import "carsouq_backend/internal/common"

// governorateName holds the bilingual display names for a governorate code.
type governorateName struct {
	En string
	Ar string
}

// governorateCodes keeps the canonical ordering for dropdowns.
var governorateCodes = []string{
	"CAIRO", "ALEX", "GIZA", "SHARM", "HURGHADA", "ALAMEIN", "DAHAB",
	"MARSA_ALAM", "SIWA", "QALIUBIYA", "SHARKIA", "DAKAHLIA", "GHARBIA",
	"MENOUFIA", "BEHEIRA", "KAFR_EL_SHEIKH", "DAMIETTA", "PORT_SAID",
	"ISMAILIA", "SUEZ", "NORTH_SINAI", "SOUTH_SINAI", "RED_SEA", "FAIYUM",
	"BENI_SUEF", "MINYA", "ASYUT", "SOHAG", "QENA", "LUXOR", "ASWAN",
	"NEW_VALLEY", "MATROUH",
}

var governorateNames = map[string]governorateName{
	"CAIRO":          {En: "Cairo", Ar: "القاهرة"},
	"ALEX":           {En: "Alexandria", Ar: "الإسكندرية"},
	"GIZA":           {En: "Giza", Ar: "الجيزة"},
	"SHARM":          {En: "Sharm El Sheikh", Ar: "شرم الشيخ"},
	"HURGHADA":       {En: "Hurghada", Ar: "الغردقة"},
	"ALAMEIN":        {En: "El Alamein", Ar: "العلمين"},
	"DAHAB":          {En: "Dahab", Ar: "دهب"},
	"MARSA_ALAM":     {En: "Marsa Alam", Ar: "مرسى علم"},
	"SIWA":           {En: "Siwa Oasis", Ar: "واحة سيوة"},
	"QALIUBIYA":      {En: "Qaliubiya", Ar: "القليوبية"},
	"SHARKIA":        {En: "Sharkia", Ar: "الشرقية"},
	"DAKAHLIA":       {En: "Dakahlia", Ar: "الدقهلية"},
	"GHARBIA":        {En: "Gharbia", Ar: "الغربية"},
	"MENOUFIA":       {En: "Menoufia", Ar: "المنوفية"},
	"BEHEIRA":        {En: "Beheira", Ar: "البحيرة"},
	"KAFR_EL_SHEIKH": {En: "Kafr El Sheikh", Ar: "كفر الشيخ"},
	"DAMIETTA":       {En: "Damietta", Ar: "دمياط"},
	"PORT_SAID":      {En: "Port Said", Ar: "بورسعيد"},
	"ISMAILIA":       {En: "Ismailia", Ar: "الإسماعيلية"},
	"SUEZ":           {En: "Suez", Ar: "السويس"},
	"NORTH_SINAI":    {En: "North Sinai", Ar: "شمال سيناء"},
	"SOUTH_SINAI":    {En: "South Sinai", Ar: "جنوب سيناء"},
	"RED_SEA":        {En: "Red Sea", Ar: "البحر الأحمر"},
	"FAIYUM":         {En: "Faiyum", Ar: "الفيوم"},
	"BENI_SUEF":      {En: "Beni Suef", Ar: "بني سويف"},
	"MINYA":          {En: "Minya", Ar: "المنيا"},
	"ASYUT":          {En: "Asyut", Ar: "أسيوط"},
	"SOHAG":          {En: "Sohag", Ar: "سوهاج"},
	"QENA":           {En: "Qena", Ar: "قنا"},
	"LUXOR":          {En: "Luxor", Ar: "الأقصر"},
	"ASWAN":          {En: "Aswan", Ar: "أسوان"},
	"NEW_VALLEY":     {En: "New Valley", Ar: "الوادي الجديد"},
	"MATROUH":        {En: "Matrouh", Ar: "مطروح"},
}

// IsValidGovernorate reports whether code is a known governorate code.
func IsValidGovernorate(code string) bool {
	_, ok := governorateNames[code]
	return ok
}

// GovernorateDisplay returns the localized display name for a code.
// Unknown codes fall back to the code itself.
func GovernorateDisplay(code, lang string) string {
	name, ok := governorateNames[code]
	if !ok {
		return code
	}
	return common.Localized(name.En, name.Ar, lang)
}

// GovernorateOption is a dropdown entry for listing forms and filters.
type GovernorateOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// GovernorateOptions returns all governorates in canonical order.
func GovernorateOptions(lang string) []GovernorateOption {
	options := make([]GovernorateOption, 0, len(governorateCodes))
	for _, code := range governorateCodes {
		options = append(options, GovernorateOption{
			Code: code,
			Name: GovernorateDisplay(code, lang),
		})
	}
	return options
}
