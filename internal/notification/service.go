// File: internal/notification/service.go
package notification

import (
	"context"
	"fmt"

	"carsouq_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles notification creation and retrieval. The NotifyListing*
// methods are best-effort: a failed insert is logged and swallowed so the
// listing operation that triggered it still succeeds.
type Service interface {
	NotifyListingSubmitted(ctx context.Context, sellerID, listingID uuid.UUID, title string)
	NotifyListingApproved(ctx context.Context, sellerID, listingID uuid.UUID, title string)
	NotifyListingRejected(ctx context.Context, sellerID, listingID uuid.UUID, title string)
	NotifyListingExpired(ctx context.Context, sellerID, listingID uuid.UUID, title string)

	GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger}
}

func (s *ServiceImplementation) notify(ctx context.Context, userID, listingID uuid.UUID, nType NotificationType, message string) {
	n := &Notification{
		UserID:           userID,
		Type:             nType,
		Message:          message,
		RelatedListingID: &listingID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.String("type", string(nType)),
			zap.String("userID", userID.String()),
			zap.String("listingID", listingID.String()),
			zap.Error(err))
	}
}

func (s *ServiceImplementation) NotifyListingSubmitted(ctx context.Context, sellerID, listingID uuid.UUID, title string) {
	s.notify(ctx, sellerID, listingID, ListingSubmitted,
		fmt.Sprintf("Your listing '%s' was submitted and is awaiting review.", title))
}

func (s *ServiceImplementation) NotifyListingApproved(ctx context.Context, sellerID, listingID uuid.UUID, title string) {
	s.notify(ctx, sellerID, listingID, ListingApproved,
		fmt.Sprintf("Your listing '%s' was approved and is now live.", title))
}

func (s *ServiceImplementation) NotifyListingRejected(ctx context.Context, sellerID, listingID uuid.UUID, title string) {
	s.notify(ctx, sellerID, listingID, ListingRejected,
		fmt.Sprintf("Your listing '%s' was rejected by a moderator.", title))
}

func (s *ServiceImplementation) NotifyListingExpired(ctx context.Context, sellerID, listingID uuid.UUID, title string) {
	s.notify(ctx, sellerID, listingID, ListingExpired,
		fmt.Sprintf("Your listing '%s' has expired.", title))
}

func (s *ServiceImplementation) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	return s.repo.GetByUserID(ctx, userID, page, pageSize)
}

func (s *ServiceImplementation) MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *ServiceImplementation) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}
