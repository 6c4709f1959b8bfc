// File: internal/catalog/repository.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carsouq_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for catalog data operations.
type Repository interface {
	// Make methods
	CreateMake(ctx context.Context, make *Make) error
	FindMakeByID(ctx context.Context, id uuid.UUID) (*Make, error)
	FindMakeBySlug(ctx context.Context, slug string) (*Make, error)
	FindAllMakes(ctx context.Context) ([]Make, error)
	DeleteMake(ctx context.Context, id uuid.UUID) error

	// Model methods
	CreateModel(ctx context.Context, model *CarModel) error
	FindModelByID(ctx context.Context, id uuid.UUID) (*CarModel, error)
	FindModelsByMakeID(ctx context.Context, makeID uuid.UUID, lang string) ([]CarModel, error)

	// Trim methods
	CreateTrim(ctx context.Context, trim *CarTrim) error
	FindTrimByID(ctx context.Context, id uuid.UUID) (*CarTrim, error)
	FindTrimsByModelID(ctx context.Context, modelID uuid.UUID) ([]CarTrim, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM catalog repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// --- Make Methods ---

func (r *gormRepository) CreateMake(ctx context.Context, make *Make) error {
	make.Slug = strings.ToLower(strings.TrimSpace(make.Slug))
	err := r.db.WithContext(ctx).Create(make).Error
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("Make with this slug already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindMakeByID(ctx context.Context, id uuid.UUID) (*Make, error) {
	var m Make
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Make not found.")
		}
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) FindMakeBySlug(ctx context.Context, makeSlug string) (*Make, error) {
	var m Make
	normalized := strings.ToLower(strings.TrimSpace(makeSlug))
	err := r.db.WithContext(ctx).First(&m, "slug = ?", normalized).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Make not found.")
		}
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) FindAllMakes(ctx context.Context) ([]Make, error) {
	var makes []Make
	err := r.db.WithContext(ctx).Order("name_en ASC").Find(&makes).Error
	if err != nil {
		return nil, err
	}
	return makes, nil
}

func (r *gormRepository) DeleteMake(ctx context.Context, id uuid.UUID) error {
	// Listings reference trims which cascade from the make, so a make
	// with live listings must not be deleted.
	var listingCount int64
	err := r.db.WithContext(ctx).Table("listings").
		Joins("JOIN car_trims ON car_trims.id = listings.trim_id").
		Joins("JOIN car_models ON car_models.id = car_trims.model_id").
		Where("car_models.make_id = ?", id).
		Count(&listingCount).Error
	if err != nil {
		return common.ErrInternalServer.WithDetails("Failed to check for associated listings.")
	}
	if listingCount > 0 {
		return common.ErrConflict.WithDetails(
			fmt.Sprintf("Cannot delete make: %d listings are still associated with it.", listingCount),
		)
	}

	result := r.db.WithContext(ctx).Delete(&Make{BaseModel: common.BaseModel{ID: id}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Make not found or already deleted.")
	}
	return nil
}

// --- Model Methods ---

func (r *gormRepository) CreateModel(ctx context.Context, model *CarModel) error {
	model.Slug = strings.ToLower(strings.TrimSpace(model.Slug))
	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("Model with this slug already exists for this make.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindModelByID(ctx context.Context, id uuid.UUID) (*CarModel, error) {
	var model CarModel
	err := r.db.WithContext(ctx).Preload("Make").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Model not found.")
		}
		return nil, err
	}
	return &model, nil
}

func (r *gormRepository) FindModelsByMakeID(ctx context.Context, makeID uuid.UUID, lang string) ([]CarModel, error) {
	orderCol := "name_en ASC"
	if common.NormalizeLang(lang) == common.LangArabic {
		orderCol = "name_ar ASC"
	}
	var models []CarModel
	err := r.db.WithContext(ctx).
		Where("make_id = ?", makeID).
		Order(orderCol).
		Find(&models).Error
	return models, err
}

// --- Trim Methods ---

func (r *gormRepository) CreateTrim(ctx context.Context, trim *CarTrim) error {
	return r.db.WithContext(ctx).Create(trim).Error
}

func (r *gormRepository) FindTrimByID(ctx context.Context, id uuid.UUID) (*CarTrim, error) {
	var trim CarTrim
	err := r.db.WithContext(ctx).Preload("Model").Preload("Model.Make").First(&trim, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Trim not found.")
		}
		return nil, err
	}
	return &trim, nil
}

func (r *gormRepository) FindTrimsByModelID(ctx context.Context, modelID uuid.UUID) ([]CarTrim, error) {
	var trims []CarTrim
	err := r.db.WithContext(ctx).
		Where("model_id = ?", modelID).
		Order("year DESC, name ASC").
		Find(&trims).Error
	return trims, err
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
