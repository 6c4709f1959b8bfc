// File: internal/common/roles.go
package common

const (
	// RoleUser is the default role for registered buyers and sellers.
	RoleUser = "user"
	// RoleAdmin marks moderators who can approve or reject listings.
	RoleAdmin = "admin"
)
