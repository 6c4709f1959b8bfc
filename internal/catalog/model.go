// File: internal/catalog/model.go
package catalog

import (
	"fmt"
	"time"

	"carsouq_backend/internal/common"

	"github.com/google/uuid"
)

// Transmission values for car trims.
const (
	TransmissionAuto   = "AUTO"
	TransmissionManual = "MANUAL"
)

// Fuel type values for car trims.
const (
	FuelPetrol   = "PETROL"
	FuelDiesel   = "DIESEL"
	FuelElectric = "ELECTRIC"
	FuelHybrid   = "HYBRID"
)

// IsValidTransmission reports whether v is a known transmission value.
func IsValidTransmission(v string) bool {
	return v == TransmissionAuto || v == TransmissionManual
}

// IsValidFuelType reports whether v is a known fuel type value.
func IsValidFuelType(v string) bool {
	switch v {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

// TransmissionDisplay returns the human label for a transmission value.
func TransmissionDisplay(v, lang string) string {
	if common.NormalizeLang(lang) == common.LangArabic {
		switch v {
		case TransmissionAuto:
			return "أوتوماتيك"
		case TransmissionManual:
			return "مانيوال"
		}
		return v
	}
	switch v {
	case TransmissionAuto:
		return "Automatic"
	case TransmissionManual:
		return "Manual"
	}
	return v
}

// Make represents a car manufacturer.
type Make struct {
	common.BaseModel
	NameEn  string     `gorm:"type:varchar(50);not null"`
	NameAr  string     `gorm:"type:varchar(50);not null"`
	Slug    string     `gorm:"type:varchar(60);not null;uniqueIndex"`
	LogoURL *string    `gorm:"type:text"`
	Models  []CarModel `gorm:"foreignKey:MakeID;constraint:OnDelete:CASCADE;"`
}

// TableName specifies the table name for the Make model.
func (Make) TableName() string {
	return "makes"
}

// CarModel represents a car model belonging to a make.
type CarModel struct {
	common.BaseModel
	MakeID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Make     Make      `gorm:"foreignKey:MakeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	NameEn   string    `gorm:"type:varchar(50);not null"`
	NameAr   string    `gorm:"type:varchar(50);not null"`
	Slug     string    `gorm:"type:varchar(60);not null"`
	Category string    `gorm:"type:varchar(20);not null"` // e.g. Sedan, SUV, Coupe
}

// TableName specifies the table name for the CarModel model.
func (CarModel) TableName() string {
	return "car_models"
}

// CarTrim pins down the exact specification of a car so sellers cannot
// enter specs by hand.
type CarTrim struct {
	common.BaseModel
	ModelID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Model           CarModel  `gorm:"foreignKey:ModelID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name            string    `gorm:"type:varchar(100);not null"` // e.g. "1.6L Highline"
	Year            int       `gorm:"not null"`
	EngineCC        int       `gorm:"not null"`
	Horsepower      int       `gorm:"not null"`
	FuelConsumption float64   `gorm:"not null"` // liters per 100km
	Transmission    string    `gorm:"type:varchar(20);not null"`
	FuelType        string    `gorm:"type:varchar(20);not null"`
}

// TableName specifies the table name for the CarTrim model.
func (CarTrim) TableName() string {
	return "car_trims"
}

// Display renders the trim selection label, e.g. "2024 - 1.6L Highline (Automatic)".
func (t *CarTrim) Display(lang string) string {
	return fmt.Sprintf("%d - %s (%s)", t.Year, t.Name, TransmissionDisplay(t.Transmission, lang))
}

// --- DTOs ---

// MakeResponse defines the structure for make data sent in API responses.
type MakeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	NameEn    string    `json:"name_en"`
	NameAr    string    `json:"name_ar"`
	Slug      string    `json:"slug"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMakeResponse converts a Make model to a MakeResponse DTO.
func ToMakeResponse(m *Make, lang string) MakeResponse {
	return MakeResponse{
		ID:        m.ID,
		Name:      common.Localized(m.NameEn, m.NameAr, lang),
		NameEn:    m.NameEn,
		NameAr:    m.NameAr,
		Slug:      m.Slug,
		LogoURL:   m.LogoURL,
		CreatedAt: m.CreatedAt,
	}
}

// ModelOption is the raw shape returned by the cascading model dropdown.
type ModelOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TrimOption is the raw shape returned by the cascading trim dropdown.
type TrimOption struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Year            int       `json:"year"`
	Display         string    `json:"display"`
	Horsepower      int       `json:"horsepower"`
	FuelConsumption float64   `json:"fuel_consumption"`
}

// TrimResponse carries full trim specs for listing detail pages.
type TrimResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Year            int       `json:"year"`
	EngineCC        int       `json:"engine_cc"`
	Horsepower      int       `json:"horsepower"`
	FuelConsumption float64   `json:"fuel_consumption"`
	Transmission    string    `json:"transmission"`
	FuelType        string    `json:"fuel_type"`
	ModelName       string    `json:"model_name"`
	MakeName        string    `json:"make_name"`
}

// ToTrimResponse converts a CarTrim (with Model and Make preloaded) to a DTO.
func ToTrimResponse(t *CarTrim, lang string) TrimResponse {
	return TrimResponse{
		ID:              t.ID,
		Name:            t.Name,
		Year:            t.Year,
		EngineCC:        t.EngineCC,
		Horsepower:      t.Horsepower,
		FuelConsumption: t.FuelConsumption,
		Transmission:    t.Transmission,
		FuelType:        t.FuelType,
		ModelName:       common.Localized(t.Model.NameEn, t.Model.NameAr, lang),
		MakeName:        common.Localized(t.Model.Make.NameEn, t.Model.Make.NameAr, lang),
	}
}

// AdminCreateMakeRequest for admins adding manufacturers.
type AdminCreateMakeRequest struct {
	NameEn  string  `json:"name_en" binding:"required,max=50"`
	NameAr  string  `json:"name_ar" binding:"required,max=50"`
	LogoURL *string `json:"logo_url,omitempty"`
}

// AdminCreateModelRequest for admins adding models under a make.
type AdminCreateModelRequest struct {
	NameEn   string `json:"name_en" binding:"required,max=50"`
	NameAr   string `json:"name_ar" binding:"required,max=50"`
	Category string `json:"category" binding:"required,max=20"`
}

// AdminCreateTrimRequest for admins adding trims under a model.
type AdminCreateTrimRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	Year            int     `json:"year" binding:"required,gte=1950,lte=2100"`
	EngineCC        int     `json:"engine_cc" binding:"required,gt=0"`
	Horsepower      int     `json:"horsepower" binding:"required,gt=0"`
	FuelConsumption float64 `json:"fuel_consumption" binding:"gte=0"`
	Transmission    string  `json:"transmission" binding:"required,oneof=AUTO MANUAL"`
	FuelType        string  `json:"fuel_type" binding:"required,oneof=PETROL DIESEL ELECTRIC HYBRID"`
}
