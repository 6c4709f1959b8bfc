// File: internal/listing/model.go
package listing

import (
	"fmt"
	"strings"
	"time"

	"carsouq_backend/internal/catalog"
	"carsouq_backend/internal/common"
	"carsouq_backend/internal/user"

	"github.com/google/uuid"
)

// --- Main Listing Model ---
type ListingStatus string

const (
	StatusDraft    ListingStatus = "DRAFT"
	StatusPending  ListingStatus = "PENDING"
	StatusActive   ListingStatus = "ACTIVE"
	StatusSold     ListingStatus = "SOLD"
	StatusExpired  ListingStatus = "EXPIRED"
	StatusRejected ListingStatus = "REJECTED"
)

// Listing is a car for sale. Specs come entirely from the referenced trim;
// sellers only describe the individual vehicle.
type Listing struct {
	common.BaseModel
	SellerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Seller        *user.User      `gorm:"foreignKey:SellerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TrimID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Trim          catalog.CarTrim `gorm:"foreignKey:TrimID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Price         float64         `gorm:"type:numeric(12,2);not null"` // EGP
	Odometer      int             `gorm:"not null"`                    // km
	Color         string          `gorm:"type:varchar(30);not null"`
	DescriptionEn string          `gorm:"type:text;not null;default:''"`
	DescriptionAr string          `gorm:"type:text;not null;default:''"`
	Governorate   string          `gorm:"type:varchar(20);not null;index"`
	Status        ListingStatus   `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	ActiveDate    *time.Time      // set when a moderator approves
	Views         int64           `gorm:"not null;default:0"`
	PhoneClicks   int64           `gorm:"not null;default:0"`
	Images        []ListingImage  `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE;"`
}

func (Listing) TableName() string {
	return "listings"
}

// Title renders the display headline, e.g. "Toyota Corolla 2024".
func (l *Listing) Title(lang string) string {
	makeName := common.Localized(l.Trim.Model.Make.NameEn, l.Trim.Model.Make.NameAr, lang)
	modelName := common.Localized(l.Trim.Model.NameEn, l.Trim.Model.NameAr, lang)
	return fmt.Sprintf("%s %s %d", makeName, modelName, l.Trim.Year)
}

// Description returns the description for the requested language, falling
// back to whichever language the seller filled in.
func (l *Listing) Description(lang string) string {
	if desc := common.Localized(l.DescriptionEn, l.DescriptionAr, lang); desc != "" {
		return desc
	}
	return l.DescriptionAr
}

// --- Listing Image Model ---
type ListingImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;index"`
	ImagePath string    `json:"-" gorm:"type:text;not null"` // relative path within IMAGE_STORAGE_PATH
	ImageURL  string    `json:"image_url" gorm:"-"`
	SortOrder int       `json:"sort_order" gorm:"default:0"` // 0 is the main image
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}

// PopulateImageURL generates the public URL for an image path.
func (li *ListingImage) PopulateImageURL(baseURL string) {
	if li.ImagePath != "" {
		li.ImageURL = strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(li.ImagePath, "/")
	}
}

// --- DTOs for API ---

// CreateListingRequest is bound from multipart form fields; photos arrive
// as file parts named "images".
type CreateListingRequest struct {
	MakeID        uuid.UUID `form:"make_id" binding:"required"`
	ModelID       uuid.UUID `form:"model_id" binding:"required"`
	TrimID        uuid.UUID `form:"trim_id" binding:"required"`
	Price         float64   `form:"price" binding:"required,gt=0"`
	Odometer      int       `form:"odometer" binding:"gte=0"`
	Color         string    `form:"color" binding:"required,max=30"`
	DescriptionEn string    `form:"description_en" binding:"omitempty,min=20"`
	DescriptionAr string    `form:"description_ar" binding:"omitempty,min=20"`
	Governorate   string    `form:"governorate" binding:"required,max=20"`
}

// UpdateListingRequest carries the seller-editable fields.
type UpdateListingRequest struct {
	Price         *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	Odometer      *int     `json:"odometer,omitempty" binding:"omitempty,gte=0"`
	Color         *string  `json:"color,omitempty" binding:"omitempty,max=30"`
	DescriptionEn *string  `json:"description_en,omitempty" binding:"omitempty,min=20"`
	DescriptionAr *string  `json:"description_ar,omitempty" binding:"omitempty,min=20"`
	Governorate   *string  `json:"governorate,omitempty" binding:"omitempty,max=20"`
}

type ListingImageResponse struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"image_url"`
	SortOrder int       `json:"sort_order"`
}

// SellerSummary is the public slice of seller data shown on listings.
type SellerSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	IsDealer   bool      `json:"is_dealer"`
	DealerName *string   `json:"dealer_name,omitempty"`
}

// ListingResponse is the full detail payload. Description is served in the
// request locale; both raw columns ride along for the seller's edit form.
type ListingResponse struct {
	ID              uuid.UUID              `json:"id"`
	Title           string                 `json:"title"`
	SellerID        uuid.UUID              `json:"seller_id"`
	Seller          SellerSummary          `json:"seller"`
	Trim            catalog.TrimResponse   `json:"trim"`
	Price           float64                `json:"price"`
	Odometer        int                    `json:"odometer"`
	Color           string                 `json:"color"`
	Description     string                 `json:"description"`
	DescriptionEn   string                 `json:"description_en"`
	DescriptionAr   string                 `json:"description_ar"`
	Governorate     string                 `json:"governorate"`
	GovernorateName string                 `json:"governorate_name"`
	Status          ListingStatus          `json:"status"`
	ActiveDate      *time.Time             `json:"active_date,omitempty"`
	Views           int64                  `json:"views"`
	PhoneClicks     int64                  `json:"phone_clicks"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Images          []ListingImageResponse `json:"images"`
	IsFavorited     *bool                  `json:"is_favorited,omitempty"`
}

// ListingCardResponse is the compact shape used by grids and carousels.
type ListingCardResponse struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Price           float64       `json:"price"`
	Year            int           `json:"year"`
	Odometer        int           `json:"odometer"`
	Transmission    string        `json:"transmission"`
	FuelType        string        `json:"fuel_type"`
	Governorate     string        `json:"governorate"`
	GovernorateName string        `json:"governorate_name"`
	Status          ListingStatus `json:"status"`
	IsDealer        bool          `json:"is_dealer"`
	MainImageURL    *string       `json:"main_image_url,omitempty"`
	Views           int64         `json:"views"`
	IsFavorited     *bool         `json:"is_favorited,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ToListingResponse converts a Listing (with Trim chain, Seller and Images
// preloaded) to the detail DTO. The seller's phone is deliberately absent;
// clients must go through the reveal endpoint so clicks are counted.
func ToListingResponse(l *Listing, lang, imageBaseURL string) ListingResponse {
	resp := ListingResponse{
		ID:              l.ID,
		Title:           l.Title(lang),
		SellerID:        l.SellerID,
		Trim:            catalog.ToTrimResponse(&l.Trim, lang),
		Price:           l.Price,
		Odometer:        l.Odometer,
		Color:           l.Color,
		Description:     l.Description(lang),
		DescriptionEn:   l.DescriptionEn,
		DescriptionAr:   l.DescriptionAr,
		Governorate:     l.Governorate,
		GovernorateName: GovernorateDisplay(l.Governorate, lang),
		Status:          l.Status,
		ActiveDate:      l.ActiveDate,
		Views:           l.Views,
		PhoneClicks:     l.PhoneClicks,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Images:          make([]ListingImageResponse, 0, len(l.Images)),
	}

	if l.Seller != nil {
		resp.Seller = SellerSummary{
			ID:         l.Seller.ID,
			Name:       strings.TrimSpace(l.Seller.FirstName + " " + l.Seller.LastName),
			IsDealer:   l.Seller.IsDealer,
			DealerName: l.Seller.DealerName,
		}
	}

	for _, img := range l.Images {
		img.PopulateImageURL(imageBaseURL)
		resp.Images = append(resp.Images, ListingImageResponse{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			SortOrder: img.SortOrder,
		})
	}
	return resp
}

// ToListingCardResponse converts a Listing to the compact grid DTO.
func ToListingCardResponse(l *Listing, lang, imageBaseURL string) ListingCardResponse {
	card := ListingCardResponse{
		ID:              l.ID,
		Title:           l.Title(lang),
		Price:           l.Price,
		Year:            l.Trim.Year,
		Odometer:        l.Odometer,
		Transmission:    l.Trim.Transmission,
		FuelType:        l.Trim.FuelType,
		Governorate:     l.Governorate,
		GovernorateName: GovernorateDisplay(l.Governorate, lang),
		Status:          l.Status,
		Views:           l.Views,
		CreatedAt:       l.CreatedAt,
	}
	if l.Seller != nil {
		card.IsDealer = l.Seller.IsDealer
	}
	for _, img := range l.Images {
		if img.SortOrder == 0 {
			img.PopulateImageURL(imageBaseURL)
			url := img.ImageURL
			card.MainImageURL = &url
			break
		}
	}
	return card
}

// SearchQuery mirrors the filter panel. All filters are conjunctive.
type SearchQuery struct {
	common.PaginationQuery
	SearchTerm   string   `form:"q"`
	MakeID       *string  `form:"make"`
	ModelID      *string  `form:"model"`
	MinPrice     *float64 `form:"min_price"`
	MaxPrice     *float64 `form:"max_price"`
	MinYear      *int     `form:"min_year"`
	MaxYear      *int     `form:"max_year"`
	Governorate  string   `form:"governorate"`
	Transmission string   `form:"transmission"`
	FuelType     string   `form:"fuel_type"`
	MaxMileage   *int     `form:"max_mileage"`
	Color        string   `form:"color"`
	SellerType   string   `form:"seller_type"` // "dealer" or "private"
	Sort         string   `form:"sort"`        // newest, price_low, price_high, mileage_low, year_new, views
}

// SellerStats summarizes a seller's dashboard numbers.
type SellerStats struct {
	Total            int64 `json:"total"`
	Active           int64 `json:"active"`
	Pending          int64 `json:"pending"`
	Sold             int64 `json:"sold"`
	TotalViews       int64 `json:"total_views"`
	TotalPhoneClicks int64 `json:"total_phone_clicks"`
}

// AdminStats summarizes the moderation dashboard numbers.
type AdminStats struct {
	Pending int64 `json:"pending"`
	Active  int64 `json:"active"`
	Sold    int64 `json:"sold"`
	Total   int64 `json:"total"`
}
