// File: internal/auth/model.go
package auth

// LoginRequest defines the structure for login requests.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the form fields for account registration. The
// request is multipart; dealer signups attach their commercial registry and
// tax card scans as file parts named "commercial_registry" and "tax_card".
type RegisterRequest struct {
	Email      string `form:"email" binding:"required,email"`
	Password   string `form:"password" binding:"required,min=8"`
	FirstName  string `form:"first_name" binding:"required,max=100"`
	LastName   string `form:"last_name" binding:"required,max=100"`
	Phone      string `form:"phone" binding:"required,max=20"`
	IsDealer   bool   `form:"is_dealer"`
	DealerName string `form:"dealer_name" binding:"max=200"`
}

// RefreshTokenRequest defines the structure for refresh token requests.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
