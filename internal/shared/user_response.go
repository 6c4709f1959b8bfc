// File: internal/shared/user_response.go
package shared

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Phone            string     `json:"phone,omitempty"`
	Role             string     `json:"role"`
	IsDealer         bool       `json:"is_dealer"`
	DealerName       *string    `json:"dealer_name,omitempty"`
	IsVerifiedDealer bool       `json:"is_verified_dealer"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
// Dealer paperwork (commercial registry, tax card) stays out of API payloads.
func ToUserResponse(svUser *User) UserResponse {
	return UserResponse{
		ID:               svUser.ID,
		Email:            svUser.Email,
		FirstName:        svUser.FirstName,
		LastName:         svUser.LastName,
		Phone:            svUser.Phone,
		Role:             svUser.Role,
		IsDealer:         svUser.IsDealer,
		DealerName:       svUser.DealerName,
		IsVerifiedDealer: svUser.IsVerifiedDealer,
		CreatedAt:        svUser.CreatedAt,
		UpdatedAt:        svUser.UpdatedAt,
		LastLoginAt:      svUser.LastLoginAt,
	}
}
