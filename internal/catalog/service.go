// File: internal/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// The catalog changes only through admin writes, so dropdown reads are
// served from an in-process cache that is flushed on every write.
const catalogCacheTTL = 10 * time.Minute

// Service defines the interface for catalog business logic.
type Service interface {
	// Admin methods
	AdminCreateMake(ctx context.Context, req AdminCreateMakeRequest) (*Make, error)
	AdminCreateModel(ctx context.Context, makeID uuid.UUID, req AdminCreateModelRequest) (*CarModel, error)
	AdminCreateTrim(ctx context.Context, modelID uuid.UUID, req AdminCreateTrimRequest) (*CarTrim, error)
	AdminDeleteMake(ctx context.Context, id uuid.UUID) error

	// Public methods
	GetAllMakes(ctx context.Context) ([]Make, error)
	GetModelOptions(ctx context.Context, makeID uuid.UUID, lang string) ([]ModelOption, error)
	GetTrimOptions(ctx context.Context, modelID uuid.UUID, lang string) ([]TrimOption, error)
	GetTrimByID(ctx context.Context, id uuid.UUID) (*CarTrim, error)

	// ResolveTrim validates the Make -> Model -> Trim chain a seller
	// picked through the cascading dropdowns.
	ResolveTrim(ctx context.Context, makeID, modelID, trimID uuid.UUID) (*CarTrim, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	config *config.Config
	cache  *gocache.Cache
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger *zap.Logger, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		logger: logger,
		config: cfg,
		cache:  gocache.New(catalogCacheTTL, 2*catalogCacheTTL),
	}
}

// --- Admin Methods ---

func (s *service) AdminCreateMake(ctx context.Context, req AdminCreateMakeRequest) (*Make, error) {
	m := &Make{
		NameEn:  strings.TrimSpace(req.NameEn),
		NameAr:  strings.TrimSpace(req.NameAr),
		Slug:    slug.Make(req.NameEn),
		LogoURL: req.LogoURL,
	}
	if err := s.repo.CreateMake(ctx, m); err != nil {
		s.logger.Error("Failed to create make", zap.Error(err), zap.String("name", req.NameEn))
		return nil, err
	}
	s.cache.Flush()
	s.logger.Info("Make created successfully", zap.String("id", m.ID.String()), zap.String("slug", m.Slug))
	return m, nil
}

func (s *service) AdminCreateModel(ctx context.Context, makeID uuid.UUID, req AdminCreateModelRequest) (*CarModel, error) {
	if _, err := s.repo.FindMakeByID(ctx, makeID); err != nil {
		s.logger.Warn("Parent make not found for model creation", zap.String("makeID", makeID.String()))
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Make with ID %s not found.", makeID))
	}

	model := &CarModel{
		MakeID:   makeID,
		NameEn:   strings.TrimSpace(req.NameEn),
		NameAr:   strings.TrimSpace(req.NameAr),
		Slug:     slug.Make(req.NameEn),
		Category: strings.TrimSpace(req.Category),
	}
	if err := s.repo.CreateModel(ctx, model); err != nil {
		s.logger.Error("Failed to create model", zap.Error(err),
			zap.String("name", req.NameEn), zap.String("makeID", makeID.String()))
		return nil, err
	}
	s.cache.Flush()
	s.logger.Info("Model created successfully", zap.String("id", model.ID.String()))
	return model, nil
}

func (s *service) AdminCreateTrim(ctx context.Context, modelID uuid.UUID, req AdminCreateTrimRequest) (*CarTrim, error) {
	if _, err := s.repo.FindModelByID(ctx, modelID); err != nil {
		s.logger.Warn("Parent model not found for trim creation", zap.String("modelID", modelID.String()))
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Model with ID %s not found.", modelID))
	}

	trim := &CarTrim{
		ModelID:         modelID,
		Name:            strings.TrimSpace(req.Name),
		Year:            req.Year,
		EngineCC:        req.EngineCC,
		Horsepower:      req.Horsepower,
		FuelConsumption: req.FuelConsumption,
		Transmission:    req.Transmission,
		FuelType:        req.FuelType,
	}
	if err := s.repo.CreateTrim(ctx, trim); err != nil {
		s.logger.Error("Failed to create trim", zap.Error(err), zap.String("modelID", modelID.String()))
		return nil, err
	}
	s.cache.Flush()
	s.logger.Info("Trim created successfully", zap.String("id", trim.ID.String()))
	return trim, nil
}

func (s *service) AdminDeleteMake(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMake(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

// --- Public Methods ---

func (s *service) GetAllMakes(ctx context.Context) ([]Make, error) {
	if cached, found := s.cache.Get("makes"); found {
		return cached.([]Make), nil
	}
	makes, err := s.repo.FindAllMakes(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("makes", makes)
	return makes, nil
}

// GetModelOptions returns the dropdown options for a make. An unknown
// make yields an empty list rather than an error.
func (s *service) GetModelOptions(ctx context.Context, makeID uuid.UUID, lang string) ([]ModelOption, error) {
	cacheKey := "models:" + makeID.String() + ":" + lang
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]ModelOption), nil
	}

	models, err := s.repo.FindModelsByMakeID(ctx, makeID, lang)
	if err != nil {
		return nil, err
	}
	options := make([]ModelOption, 0, len(models))
	for _, m := range models {
		options = append(options, ModelOption{
			ID:   m.ID,
			Name: common.Localized(m.NameEn, m.NameAr, lang),
		})
	}
	s.cache.SetDefault(cacheKey, options)
	return options, nil
}

// GetTrimOptions returns the dropdown options for a model, newest year first.
func (s *service) GetTrimOptions(ctx context.Context, modelID uuid.UUID, lang string) ([]TrimOption, error) {
	cacheKey := "trims:" + modelID.String() + ":" + lang
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]TrimOption), nil
	}

	trims, err := s.repo.FindTrimsByModelID(ctx, modelID)
	if err != nil {
		return nil, err
	}
	options := make([]TrimOption, 0, len(trims))
	for _, t := range trims {
		options = append(options, TrimOption{
			ID:              t.ID,
			Name:            t.Name,
			Year:            t.Year,
			Display:         t.Display(lang),
			Horsepower:      t.Horsepower,
			FuelConsumption: t.FuelConsumption,
		})
	}
	s.cache.SetDefault(cacheKey, options)
	return options, nil
}

func (s *service) GetTrimByID(ctx context.Context, id uuid.UUID) (*CarTrim, error) {
	return s.repo.FindTrimByID(ctx, id)
}

// ResolveTrim loads the trim and verifies it belongs to the claimed model
// and make. A mismatched chain means the client bypassed the dropdowns.
func (s *service) ResolveTrim(ctx context.Context, makeID, modelID, trimID uuid.UUID) (*CarTrim, error) {
	trim, err := s.repo.FindTrimByID(ctx, trimID)
	if err != nil {
		return nil, err
	}
	if trim.ModelID != modelID {
		return nil, common.ErrUnprocessableEntity.WithDetails("Selected trim does not belong to the selected model.")
	}
	if trim.Model.MakeID != makeID {
		return nil, common.ErrUnprocessableEntity.WithDetails("Selected model does not belong to the selected make.")
	}
	return trim, nil
}
