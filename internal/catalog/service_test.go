// File: internal/catalog/service_test.go
package catalog

import (
	"context"
	"testing"

	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCatalogRepository is a mock implementation of the Repository interface.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) CreateMake(ctx context.Context, mk *Make) error {
	args := m.Called(ctx, mk)
	return args.Error(0)
}

func (m *MockCatalogRepository) FindMakeByID(ctx context.Context, id uuid.UUID) (*Make, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Make), args.Error(1)
}

func (m *MockCatalogRepository) FindMakeBySlug(ctx context.Context, slug string) (*Make, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Make), args.Error(1)
}

func (m *MockCatalogRepository) FindAllMakes(ctx context.Context) ([]Make, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Make), args.Error(1)
}

func (m *MockCatalogRepository) DeleteMake(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) CreateModel(ctx context.Context, model *CarModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockCatalogRepository) FindModelByID(ctx context.Context, id uuid.UUID) (*CarModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CarModel), args.Error(1)
}

func (m *MockCatalogRepository) FindModelsByMakeID(ctx context.Context, makeID uuid.UUID, lang string) ([]CarModel, error) {
	args := m.Called(ctx, makeID, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CarModel), args.Error(1)
}

func (m *MockCatalogRepository) CreateTrim(ctx context.Context, trim *CarTrim) error {
	args := m.Called(ctx, trim)
	return args.Error(0)
}

func (m *MockCatalogRepository) FindTrimByID(ctx context.Context, id uuid.UUID) (*CarTrim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CarTrim), args.Error(1)
}

func (m *MockCatalogRepository) FindTrimsByModelID(ctx context.Context, modelID uuid.UUID) ([]CarTrim, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CarTrim), args.Error(1)
}

func setupCatalogServiceTest(t *testing.T) (*MockCatalogRepository, Service) {
	t.Helper()
	mockRepo := new(MockCatalogRepository)
	svc := NewService(mockRepo, zap.NewNop(), &config.Config{})
	return mockRepo, svc
}

func TestGetModelOptionsLocalizesNames(t *testing.T) {
	mockRepo, svc := setupCatalogServiceTest(t)
	makeID := uuid.New()

	models := []CarModel{
		{NameEn: "Corolla", NameAr: "كورولا"},
		{NameEn: "Land Cruiser", NameAr: "لاند كروزر"},
	}
	mockRepo.On("FindModelsByMakeID", mock.Anything, makeID, common.LangArabic).Return(models, nil)

	options, err := svc.GetModelOptions(context.Background(), makeID, common.LangArabic)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "كورولا", options[0].Name)
	assert.Equal(t, "لاند كروزر", options[1].Name)
}

func TestGetModelOptionsUnknownMakeIsEmpty(t *testing.T) {
	mockRepo, svc := setupCatalogServiceTest(t)
	makeID := uuid.New()

	mockRepo.On("FindModelsByMakeID", mock.Anything, makeID, common.LangEnglish).Return([]CarModel{}, nil)

	options, err := svc.GetModelOptions(context.Background(), makeID, common.LangEnglish)
	require.NoError(t, err)
	assert.NotNil(t, options, "empty dropdown must serialize as [] not null")
	assert.Empty(t, options)
}

func TestGetTrimOptionsBuildsDisplayLabel(t *testing.T) {
	mockRepo, svc := setupCatalogServiceTest(t)
	modelID := uuid.New()

	trims := []CarTrim{
		{Name: "1.6L Highline", Year: 2024, Transmission: TransmissionAuto, Horsepower: 150, FuelConsumption: 6.5},
		{Name: "1.4L Comfortline", Year: 2022, Transmission: TransmissionManual, Horsepower: 125, FuelConsumption: 5.9},
	}
	mockRepo.On("FindTrimsByModelID", mock.Anything, modelID).Return(trims, nil)

	options, err := svc.GetTrimOptions(context.Background(), modelID, common.LangEnglish)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "2024 - 1.6L Highline (Automatic)", options[0].Display)
	assert.Equal(t, "2022 - 1.4L Comfortline (Manual)", options[1].Display)
	assert.Equal(t, 150, options[0].Horsepower)
}

func TestGetModelOptionsServedFromCacheUntilWrite(t *testing.T) {
	mockRepo, svc := setupCatalogServiceTest(t)
	makeID := uuid.New()
	ctx := context.Background()

	models := []CarModel{{NameEn: "Corolla", NameAr: "كورولا"}}
	mockRepo.On("FindModelsByMakeID", mock.Anything, makeID, common.LangEnglish).Return(models, nil)

	_, err := svc.GetModelOptions(ctx, makeID, common.LangEnglish)
	require.NoError(t, err)
	_, err = svc.GetModelOptions(ctx, makeID, common.LangEnglish)
	require.NoError(t, err)
	mockRepo.AssertNumberOfCalls(t, "FindModelsByMakeID", 1)

	// An admin write invalidates the cached dropdowns.
	mockRepo.On("FindMakeByID", mock.Anything, makeID).Return(&Make{}, nil)
	mockRepo.On("CreateModel", mock.Anything, mock.AnythingOfType("*catalog.CarModel")).Return(nil)
	_, err = svc.AdminCreateModel(ctx, makeID, AdminCreateModelRequest{NameEn: "Yaris", NameAr: "يارس"})
	require.NoError(t, err)

	_, err = svc.GetModelOptions(ctx, makeID, common.LangEnglish)
	require.NoError(t, err)
	mockRepo.AssertNumberOfCalls(t, "FindModelsByMakeID", 2)
}

func TestResolveTrimRejectsMismatchedModel(t *testing.T) {
	mockRepo, svc := setupCatalogServiceTest(t)

	makeID := uuid.New()
	modelID := uuid.New()
	trimID := uuid.New()
	otherModelID := uuid.New()

	trim := &CarTrim{
		ModelID: otherModelID,
		Model:   CarModel{MakeID: makeID},
	}
	trim.ID = trimID
	mockRepo.On("FindTrimByID", mock.Anything, trimID).Return(trim, nil)

	_, err := svc.ResolveTrim(context.Background(), makeID, modelID, trimID)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", apiErr.Code)
}

func TestResolveTrimRejectsMismatchedMake(t *testing.T) {
	mockRepo, svc := setupCatalogServiceTest(t)

	makeID := uuid.New()
	modelID := uuid.New()
	trimID := uuid.New()

	trim := &CarTrim{
		ModelID: modelID,
		Model:   CarModel{MakeID: uuid.New()}, // belongs to a different make
	}
	trim.ID = trimID
	mockRepo.On("FindTrimByID", mock.Anything, trimID).Return(trim, nil)

	_, err := svc.ResolveTrim(context.Background(), makeID, modelID, trimID)
	require.Error(t, err)
}

func TestResolveTrimAcceptsValidChain(t *testing.T) {
	mockRepo, svc := setupCatalogServiceTest(t)

	makeID := uuid.New()
	modelID := uuid.New()
	trimID := uuid.New()

	trim := &CarTrim{
		ModelID: modelID,
		Model:   CarModel{MakeID: makeID},
	}
	trim.ID = trimID
	mockRepo.On("FindTrimByID", mock.Anything, trimID).Return(trim, nil)

	resolved, err := svc.ResolveTrim(context.Background(), makeID, modelID, trimID)
	require.NoError(t, err)
	assert.Equal(t, trimID, resolved.ID)
}
