// File: internal/favorite/model.go
package favorite

import (
	"time"

	"carsouq_backend/internal/listing"

	"github.com/google/uuid"
)

// Favorite marks a listing saved by a user. A user can save a listing at
// most once.
type Favorite struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_listing" json:"user_id"`
	ListingID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_listing" json:"listing_id"`
	Listing   *listing.Listing `gorm:"foreignKey:ListingID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Favorite) TableName() string {
	return "favorites"
}

// ToggleResponse tells the client the resulting state after a toggle.
type ToggleResponse struct {
	ListingID uuid.UUID `json:"listing_id"`
	Favorited bool      `json:"favorited"`
}
