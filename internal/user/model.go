// File: internal/user/model.go
package user

import (
	"time"

	"carsouq_backend/internal/common"
	"carsouq_backend/internal/shared"

	"github.com/google/uuid"
)

// User represents the user model in the database. Dealer accounts carry the
// stored paths of their uploaded verification documents.
type User struct {
	common.BaseModel                // Embeds ID, CreatedAt, UpdatedAt
	Email                  string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash           string   `gorm:"type:varchar(255);not null"`
	FirstName              string   `gorm:"type:varchar(100);not null"`
	LastName               string   `gorm:"type:varchar(100);not null"`
	Phone                  string   `gorm:"type:varchar(20);not null;uniqueIndex"`
	Role                   string   `gorm:"type:varchar(50);not null;default:'user'"` // "user" or "admin"
	IsDealer               bool     `gorm:"not null;default:false"`
	DealerName             *string  `gorm:"type:varchar(200)"`
	CommercialRegistryPath *string  `gorm:"type:varchar(255)"`
	TaxCardPath            *string  `gorm:"type:varchar(255)"`
	IsVerifiedDealer       bool     `gorm:"not null;default:false"`
	LastLoginAt            *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}

// UpdateProfileRequest defines the structure for profile edits. Bound from
// form fields so dealers can attach replacement documents as file parts.
type UpdateProfileRequest struct {
	FirstName  *string `form:"first_name" binding:"omitempty,max=100"`
	LastName   *string `form:"last_name" binding:"omitempty,max=100"`
	Phone      *string `form:"phone" binding:"omitempty,max=20"`
	DealerName *string `form:"dealer_name" binding:"omitempty,max=200"`
}

// ToShared converts the database model to the cross-package user view.
func ToShared(u *User) *shared.User {
	return &shared.User{
		ID:                     u.ID,
		Email:                  u.Email,
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		Phone:                  u.Phone,
		Role:                   u.Role,
		IsDealer:               u.IsDealer,
		DealerName:             u.DealerName,
		CommercialRegistryPath: u.CommercialRegistryPath,
		TaxCardPath:            u.TaxCardPath,
		IsVerifiedDealer:       u.IsVerifiedDealer,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
		LastLoginAt:            u.LastLoginAt,
	}
}
