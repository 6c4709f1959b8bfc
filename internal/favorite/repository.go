// File: internal/favorite/repository.go
package favorite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carsouq_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Add(ctx context.Context, userID, listingID uuid.UUID) error
	Remove(ctx context.Context, userID, listingID uuid.UUID) error
	Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Favorite, error)
	ListingIDsForUser(ctx context.Context, userID uuid.UUID, listingIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	fav := &Favorite{ID: uuid.New(), UserID: userID, ListingID: listingID}
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("Listing is already in favorites.")
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *gormRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *gormRepository) Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Favorite, error) {
	var favorites []Favorite
	err := r.db.WithContext(ctx).
		Preload("Listing.Trim.Model.Make").
		Preload("Listing.Seller").
		Preload("Listing.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.sort_order ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %s: %w", userID, err)
	}
	return favorites, nil
}

// ListingIDsForUser reports which of the given listings the user has saved.
func (r *gormRepository) ListingIDsForUser(ctx context.Context, userID uuid.UUID, listingIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	saved := make(map[uuid.UUID]bool, len(listingIDs))
	if len(listingIDs) == 0 {
		return saved, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ? AND listing_id IN ?", userID, listingIDs).
		Pluck("listing_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve favorites for user %s: %w", userID, err)
	}
	for _, id := range ids {
		saved[id] = true
	}
	return saved, nil
}
