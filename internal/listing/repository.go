// File: internal/listing/repository.go
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carsouq_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence for listings.
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID, onlyActive bool) ([]Listing, error)

	Search(ctx context.Context, query SearchQuery) ([]Listing, int64, error)
	FindFeatured(ctx context.Context, limit int) ([]Listing, error)
	FindRelated(ctx context.Context, makeID, excludeListingID uuid.UUID, limit int) ([]Listing, error)
	FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]Listing, error)
	FindPending(ctx context.Context) ([]Listing, error)

	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementPhoneClicks(ctx context.Context, id uuid.UUID) error

	// UpdateStatusFrom transitions a listing only when its current status
	// matches `from`; returns common.ErrNotFound otherwise. Done as a single
	// conditional UPDATE so two moderators cannot both win.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to ListingStatus, activeDate *time.Time) error
	FindActiveBefore(ctx context.Context, cutoff time.Time) ([]Listing, error)
	ExpireActiveBefore(ctx context.Context, cutoff time.Time) (int64, error)

	SellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error)
	AdminStats(ctx context.Context) (*AdminStats, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM listing repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// preloaded applies the standard association preloads for listing reads.
func (r *gormRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Trim.Model.Make").
		Preload("Seller").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.sort_order ASC")
		})
}

func (r *gormRepository) Create(ctx context.Context, listing *Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *gormRepository) Update(ctx context.Context, listing *Listing) error {
	// Save with associations so image rows added on edit are persisted too.
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(listing).Error
	if err != nil {
		return fmt.Errorf("failed to update listing %s: %w", listing.ID, err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Listing{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var listing Listing
	err := r.preloaded(ctx).First(&listing, "listings.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing %s: %w", id, err)
	}
	return &listing, nil
}

func (r *gormRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var listing Listing
	err := r.preloaded(ctx).
		Where("listings.status = ?", StatusActive).
		First(&listing, "listings.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active listing %s: %w", id, err)
	}
	return &listing, nil
}

func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID, onlyActive bool) ([]Listing, error) {
	var listings []Listing
	query := r.preloaded(ctx).Where("listings.id IN ?", ids)
	if onlyActive {
		query = query.Where("listings.status = ?", StatusActive)
	}
	if err := query.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to find listings by ids: %w", err)
	}
	return listings, nil
}

// searchScope applies every filter from the query. Joins are needed because
// year, transmission and fuel type live on the trim and seller type on the
// user row. All filters are conjunctive.
func (r *gormRepository) searchScope(ctx context.Context, q SearchQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&Listing{}).
		Joins("JOIN car_trims ON car_trims.id = listings.trim_id").
		Joins("JOIN car_models ON car_models.id = car_trims.model_id").
		Joins("JOIN makes ON makes.id = car_models.make_id").
		Joins("JOIN users ON users.id = listings.seller_id").
		Where("listings.status = ?", StatusActive)

	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		db = db.Where(
			"LOWER(car_models.name_en) LIKE ? OR LOWER(car_models.name_ar) LIKE ? OR LOWER(makes.name_en) LIKE ? OR LOWER(makes.name_ar) LIKE ? OR LOWER(listings.description_en) LIKE ? OR LOWER(listings.description_ar) LIKE ?",
			pattern, pattern, pattern, pattern, pattern, pattern,
		)
	}
	if q.MakeID != nil && *q.MakeID != "" {
		db = db.Where("makes.id = ?", *q.MakeID)
	}
	if q.ModelID != nil && *q.ModelID != "" {
		db = db.Where("car_models.id = ?", *q.ModelID)
	}
	if q.MinPrice != nil {
		db = db.Where("listings.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("listings.price <= ?", *q.MaxPrice)
	}
	if q.MinYear != nil {
		db = db.Where("car_trims.year >= ?", *q.MinYear)
	}
	if q.MaxYear != nil {
		db = db.Where("car_trims.year <= ?", *q.MaxYear)
	}
	if q.Governorate != "" {
		db = db.Where("listings.governorate = ?", q.Governorate)
	}
	if q.Transmission != "" {
		db = db.Where("car_trims.transmission = ?", q.Transmission)
	}
	if q.FuelType != "" {
		db = db.Where("car_trims.fuel_type = ?", q.FuelType)
	}
	if q.MaxMileage != nil {
		db = db.Where("listings.odometer <= ?", *q.MaxMileage)
	}
	if q.Color != "" {
		db = db.Where("LOWER(listings.color) = LOWER(?)", q.Color)
	}
	switch q.SellerType {
	case "dealer":
		db = db.Where("users.is_dealer = ?", true)
	case "private":
		db = db.Where("users.is_dealer = ?", false)
	}
	return db
}

func sortOrder(sort string) string {
	switch sort {
	case "price_low":
		return "listings.price ASC"
	case "price_high":
		return "listings.price DESC"
	case "mileage_low":
		return "listings.odometer ASC"
	case "year_new":
		return "car_trims.year DESC"
	case "views":
		return "listings.views DESC"
	default: // newest
		return "listings.created_at DESC"
	}
}

func (r *gormRepository) Search(ctx context.Context, query SearchQuery) ([]Listing, int64, error) {
	var total int64
	if err := r.searchScope(ctx, query).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	var listings []Listing
	err := r.searchScope(ctx, query).
		Preload("Trim.Model.Make").
		Preload("Seller").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.sort_order ASC")
		}).
		Order(sortOrder(query.Sort)).
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&listings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, total, nil
}

func (r *gormRepository) FindFeatured(ctx context.Context, limit int) ([]Listing, error) {
	var listings []Listing
	err := r.preloaded(ctx).
		Where("listings.status = ?", StatusActive).
		Order("listings.created_at DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find featured listings: %w", err)
	}
	return listings, nil
}

func (r *gormRepository) FindRelated(ctx context.Context, makeID, excludeListingID uuid.UUID, limit int) ([]Listing, error) {
	var listings []Listing
	err := r.preloaded(ctx).
		Joins("JOIN car_trims ON car_trims.id = listings.trim_id").
		Joins("JOIN car_models ON car_models.id = car_trims.model_id").
		Where("car_models.make_id = ?", makeID).
		Where("listings.status = ?", StatusActive).
		Where("listings.id <> ?", excludeListingID).
		Order("listings.created_at DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find related listings: %w", err)
	}
	return listings, nil
}

func (r *gormRepository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]Listing, error) {
	var listings []Listing
	err := r.preloaded(ctx).
		Where("listings.seller_id = ?", sellerID).
		Order("listings.created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find listings for seller %s: %w", sellerID, err)
	}
	return listings, nil
}

func (r *gormRepository) FindPending(ctx context.Context) ([]Listing, error) {
	var listings []Listing
	err := r.preloaded(ctx).
		Where("listings.status = ?", StatusPending).
		Order("listings.created_at DESC"). // newest submissions first
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending listings: %w", err)
	}
	return listings, nil
}

func (r *gormRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Listing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *gormRepository) IncrementPhoneClicks(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Listing{}).
		Where("id = ?", id).
		UpdateColumn("phone_clicks", gorm.Expr("phone_clicks + ?", 1)).Error
}

func (r *gormRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to ListingStatus, activeDate *time.Time) error {
	updates := map[string]interface{}{"status": to}
	if activeDate != nil {
		updates["active_date"] = *activeDate
	}
	result := r.db.WithContext(ctx).Model(&Listing{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update status of listing %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// FindActiveBefore lists ACTIVE listings whose active_date predates the
// cutoff, so their sellers can be told before the batch expiry runs.
func (r *gormRepository) FindActiveBefore(ctx context.Context, cutoff time.Time) ([]Listing, error) {
	var listings []Listing
	err := r.db.WithContext(ctx).
		Preload("Trim.Model.Make").
		Where("status = ? AND active_date IS NOT NULL AND active_date < ?", StatusActive, cutoff).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expiring listings: %w", err)
	}
	return listings, nil
}

func (r *gormRepository) ExpireActiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Listing{}).
		Where("status = ? AND active_date IS NOT NULL AND active_date < ?", StatusActive, cutoff).
		Update("status", StatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire listings: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) SellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error) {
	var stats SellerStats
	err := r.db.WithContext(ctx).Model(&Listing{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS sold, "+
				"COALESCE(SUM(views), 0) AS total_views, "+
				"COALESCE(SUM(phone_clicks), 0) AS total_phone_clicks",
			StatusActive, StatusPending, StatusSold,
		).
		Where("seller_id = ?", sellerID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute seller stats: %w", err)
	}
	return &stats, nil
}

func (r *gormRepository) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	err := r.db.WithContext(ctx).Model(&Listing{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS sold",
			StatusPending, StatusActive, StatusSold,
		).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute admin stats: %w", err)
	}
	return &stats, nil
}
