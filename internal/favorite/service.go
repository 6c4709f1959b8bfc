// File: internal/favorite/service.go
package favorite

import (
	"context"
	"errors"

	"carsouq_backend/internal/common"
	"carsouq_backend/internal/listing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles saved listings.
type Service interface {
	// Toggle saves the listing for the user, or removes it when already
	// saved. Returns the resulting state.
	Toggle(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]listing.Listing, error)
	IsFavorited(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	FavoritedListingIDs(ctx context.Context, userID uuid.UUID, listingIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type ServiceImplementation struct {
	repo        Repository
	listingRepo listing.Repository
	logger      *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

func NewService(repo Repository, listingRepo listing.Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:        repo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

func (s *ServiceImplementation) Toggle(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	saved, err := s.repo.Exists(ctx, userID, listingID)
	if err != nil {
		return false, err
	}
	if saved {
		if err := s.repo.Remove(ctx, userID, listingID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return false, err
		}
		return false, nil
	}

	// Only live listings can be saved.
	if _, err := s.listingRepo.FindActiveByID(ctx, listingID); err != nil {
		return false, err
	}
	if err := s.repo.Add(ctx, userID, listingID); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// concurrent toggle, already saved
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ServiceImplementation) ListForUser(ctx context.Context, userID uuid.UUID) ([]listing.Listing, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	listings := make([]listing.Listing, 0, len(favorites))
	for _, fav := range favorites {
		if fav.Listing == nil {
			continue
		}
		listings = append(listings, *fav.Listing)
	}
	return listings, nil
}

func (s *ServiceImplementation) IsFavorited(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, userID, listingID)
}

// FavoritedListingIDs reports which of the given listings the user has saved,
// resolved in one query so result pages can be flagged without N lookups.
func (s *ServiceImplementation) FavoritedListingIDs(ctx context.Context, userID uuid.UUID, listingIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.repo.ListingIDsForUser(ctx, userID, listingIDs)
}
