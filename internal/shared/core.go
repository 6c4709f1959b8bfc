package shared

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User represents a user in the system, as seen by packages outside
// the user feature package.
type User struct {
	ID                     uuid.UUID
	Email                  string
	FirstName              string
	LastName               string
	Phone                  string
	Role                   string
	IsDealer               bool
	DealerName             *string
	CommercialRegistryPath *string
	TaxCardPath            *string
	IsVerifiedDealer       bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
	LastLoginAt            *time.Time
}

// RegisterUserInput carries the fields needed to create an account.
// Dealer accounts must attach both verification documents as uploads.
type RegisterUserInput struct {
	Email                 string
	Password              string
	FirstName             string
	LastName              string
	Phone                 string
	IsDealer              bool
	DealerName            string
	CommercialRegistryDoc *multipart.FileHeader
	TaxCardDoc            *multipart.FileHeader
}

// Service defines the user operations other packages need.
type Service interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, input RegisterUserInput) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

// TokenResponse represents the response containing JWT tokens.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

// UserDataForToken is an interface to abstract the user data needed for token generation.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() string
	GetRole() string
}

// TokenService defines the interface for JWT operations.
type TokenService interface {
	GenerateAccessToken(userData UserDataForToken) (string, time.Time, error)
	GenerateRefreshToken(userData UserDataForToken) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
	ParseRefreshToken(refreshTokenString string) (*Claims, error)
}

// TokenBlocklist records revoked token IDs until they expire.
type TokenBlocklist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlocked(ctx context.Context, jti string) bool
}

// Claims represents the JWT claims structure
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}
