// File: internal/notification/model.go
package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	ListingSubmitted NotificationType = "listing_submitted"
	ListingApproved  NotificationType = "listing_approved"
	ListingRejected  NotificationType = "listing_rejected"
	ListingExpired   NotificationType = "listing_expired"
)

// Notification represents a user notification. Notifications are immutable
// once created apart from the read flag.
type Notification struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"user_id"`
	Type             NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Message          string           `gorm:"type:text;not null" json:"message"`
	RelatedListingID *uuid.UUID       `gorm:"type:uuid" json:"related_listing_id,omitempty"`
	IsRead           bool             `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt        time.Time        `gorm:"not null;autoCreateTime;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
