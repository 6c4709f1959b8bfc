// File: internal/listing/service_test.go
package listing

import (
	"bytes"
	"context"
	"image/color"
	"mime/multipart"
	"testing"
	"time"

	"carsouq_backend/internal/catalog"
	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"
	"carsouq_backend/internal/filestorage"
	"carsouq_backend/internal/notification"
	"carsouq_backend/internal/platform/images"
	"carsouq_backend/internal/user"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mocks ---

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID, onlyActive bool) ([]Listing, error) {
	args := m.Called(ctx, ids, onlyActive)
	if l, ok := args.Get(0).([]Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) Search(ctx context.Context, query SearchQuery) ([]Listing, int64, error) {
	args := m.Called(ctx, query)
	if l, ok := args.Get(0).([]Listing); ok {
		return l, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockListingRepository) FindFeatured(ctx context.Context, limit int) ([]Listing, error) {
	args := m.Called(ctx, limit)
	if l, ok := args.Get(0).([]Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindRelated(ctx context.Context, makeID, excludeListingID uuid.UUID, limit int) ([]Listing, error) {
	args := m.Called(ctx, makeID, excludeListingID, limit)
	if l, ok := args.Get(0).([]Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]Listing, error) {
	args := m.Called(ctx, sellerID)
	if l, ok := args.Get(0).([]Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindPending(ctx context.Context) ([]Listing, error) {
	args := m.Called(ctx)
	if l, ok := args.Get(0).([]Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) IncrementPhoneClicks(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to ListingStatus, activeDate *time.Time) error {
	args := m.Called(ctx, id, from, to, activeDate)
	return args.Error(0)
}

func (m *MockListingRepository) FindActiveBefore(ctx context.Context, cutoff time.Time) ([]Listing, error) {
	args := m.Called(ctx, cutoff)
	if l, ok := args.Get(0).([]Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) ExpireActiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) SellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error) {
	args := m.Called(ctx, sellerID)
	if s, ok := args.Get(0).(*SellerStats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) AdminStats(ctx context.Context) (*AdminStats, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*AdminStats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) AdminCreateMake(ctx context.Context, req catalog.AdminCreateMakeRequest) (*catalog.Make, error) {
	args := m.Called(ctx, req)
	if mk, ok := args.Get(0).(*catalog.Make); ok {
		return mk, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) AdminCreateModel(ctx context.Context, makeID uuid.UUID, req catalog.AdminCreateModelRequest) (*catalog.CarModel, error) {
	args := m.Called(ctx, makeID, req)
	if md, ok := args.Get(0).(*catalog.CarModel); ok {
		return md, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) AdminCreateTrim(ctx context.Context, modelID uuid.UUID, req catalog.AdminCreateTrimRequest) (*catalog.CarTrim, error) {
	args := m.Called(ctx, modelID, req)
	if tr, ok := args.Get(0).(*catalog.CarTrim); ok {
		return tr, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) AdminDeleteMake(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) GetAllMakes(ctx context.Context) ([]catalog.Make, error) {
	args := m.Called(ctx)
	if mk, ok := args.Get(0).([]catalog.Make); ok {
		return mk, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) GetModelOptions(ctx context.Context, makeID uuid.UUID, lang string) ([]catalog.ModelOption, error) {
	args := m.Called(ctx, makeID, lang)
	if o, ok := args.Get(0).([]catalog.ModelOption); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) GetTrimOptions(ctx context.Context, modelID uuid.UUID, lang string) ([]catalog.TrimOption, error) {
	args := m.Called(ctx, modelID, lang)
	if o, ok := args.Get(0).([]catalog.TrimOption); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) GetTrimByID(ctx context.Context, id uuid.UUID) (*catalog.CarTrim, error) {
	args := m.Called(ctx, id)
	if tr, ok := args.Get(0).(*catalog.CarTrim); ok {
		return tr, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ResolveTrim(ctx context.Context, makeID, modelID, trimID uuid.UUID) (*catalog.CarTrim, error) {
	args := m.Called(ctx, makeID, modelID, trimID)
	if tr, ok := args.Get(0).(*catalog.CarTrim); ok {
		return tr, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyListingSubmitted(ctx context.Context, sellerID, listingID uuid.UUID, title string) {
	m.Called(ctx, sellerID, listingID, title)
}

func (m *MockNotifier) NotifyListingApproved(ctx context.Context, sellerID, listingID uuid.UUID, title string) {
	m.Called(ctx, sellerID, listingID, title)
}

func (m *MockNotifier) NotifyListingRejected(ctx context.Context, sellerID, listingID uuid.UUID, title string) {
	m.Called(ctx, sellerID, listingID, title)
}

func (m *MockNotifier) NotifyListingExpired(ctx context.Context, sellerID, listingID uuid.UUID, title string) {
	m.Called(ctx, sellerID, listingID, title)
}

func (m *MockNotifier) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if n, ok := args.Get(0).([]notification.Notification); ok {
		return n, args.Get(1).(*common.Pagination), args.Error(2)
	}
	return nil, nil, args.Error(2)
}

func (m *MockNotifier) MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotifier) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		MaxListingImages:           5,
		FeaturedListingsLimit:      8,
		DefaultListingLifespanDays: 60,
		ImagePublicBaseURL:         "/media",
	}
}

func setupListingServiceTest(t *testing.T) (*ServiceImplementation, *MockListingRepository, *MockCatalogService, *MockNotifier) {
	t.Helper()
	repo := new(MockListingRepository)
	catalogSvc := new(MockCatalogService)
	notifier := new(MockNotifier)

	files, err := filestorage.NewFileStorageService(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	normalizer := images.NewNormalizer(1200, 75, zap.NewNop())

	svc := NewService(repo, catalogSvc, files, normalizer, notifier, testConfig(), zap.NewNop())
	return svc, repo, catalogSvc, notifier
}

// photoHeader builds a real multipart file header holding a small JPEG.
func photoHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("images", "car.jpg")
	require.NoError(t, err)
	img := imaging.New(16, 16, color.NRGBA{R: 200, G: 20, B: 20, A: 255})
	require.NoError(t, imaging.Encode(part, img, imaging.JPEG))
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	require.NotEmpty(t, form.File["images"])
	return form.File["images"][0]
}

func sampleTrim() catalog.CarTrim {
	trim := catalog.CarTrim{
		Name:         "1.6L Highline",
		Year:         2023,
		EngineCC:     1600,
		Transmission: catalog.TransmissionAuto,
		FuelType:     catalog.FuelPetrol,
	}
	trim.ID = uuid.New()
	trim.Model = catalog.CarModel{NameEn: "Corolla", NameAr: "كورولا"}
	trim.Model.ID = uuid.New()
	trim.Model.Make = catalog.Make{NameEn: "Toyota", NameAr: "تويوتا"}
	trim.Model.Make.ID = uuid.New()
	trim.Model.MakeID = trim.Model.Make.ID
	trim.ModelID = trim.Model.ID
	return trim
}

func sampleListing(sellerID uuid.UUID, status ListingStatus) *Listing {
	trim := sampleTrim()
	l := &Listing{
		SellerID:      sellerID,
		TrimID:        trim.ID,
		Trim:          trim,
		Price:         950000,
		Odometer:      42000,
		Color:         "White",
		DescriptionEn: "Well maintained, single owner, full service history.",
		DescriptionAr: "حالة ممتازة، مالك واحد، صيانة دورية منتظمة.",
		Governorate:   "CAIRO",
		Status:        status,
		Seller:        &user.User{FirstName: "Omar", LastName: "Hassan", Phone: "+201001234567"},
	}
	l.ID = uuid.New()
	l.Seller.ID = sellerID
	return l
}

func sampleCreateRequest(trim catalog.CarTrim) CreateListingRequest {
	return CreateListingRequest{
		MakeID:        trim.Model.MakeID,
		ModelID:       trim.ModelID,
		TrimID:        trim.ID,
		Price:         950000,
		Odometer:      42000,
		Color:         "White",
		DescriptionEn: "Well maintained, single owner, full service history.",
		DescriptionAr: "حالة ممتازة، مالك واحد، صيانة دورية منتظمة.",
		Governorate:   "CAIRO",
	}
}

// --- Tests ---

func TestCreateListingIsAlwaysPending(t *testing.T) {
	svc, repo, catalogSvc, notifier := setupListingServiceTest(t)
	ctx := context.Background()
	sellerID := uuid.New()
	trim := sampleTrim()
	req := sampleCreateRequest(trim)

	catalogSvc.On("ResolveTrim", ctx, req.MakeID, req.ModelID, req.TrimID).Return(&trim, nil).Once()

	var createdID uuid.UUID
	repo.On("Create", ctx, mock.AnythingOfType("*listing.Listing")).Run(func(args mock.Arguments) {
		l := args.Get(1).(*Listing)
		assert.Equal(t, StatusPending, l.Status)
		assert.Nil(t, l.ActiveDate)
		assert.Len(t, l.Images, 1)
		assert.Equal(t, 0, l.Images[0].SortOrder)
		l.ID = uuid.New()
		createdID = l.ID
	}).Return(nil).Once()

	stored := sampleListing(sellerID, StatusPending)
	repo.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(stored, nil).Once()
	notifier.On("NotifyListingSubmitted", ctx, sellerID, stored.ID, mock.AnythingOfType("string")).Once()

	listing, err := svc.Create(ctx, sellerID, req, []*multipart.FileHeader{photoHeader(t)})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, listing.Status)
	assert.NotEqual(t, uuid.Nil, createdID)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateListingRejectsUnknownGovernorate(t *testing.T) {
	svc, repo, catalogSvc, _ := setupListingServiceTest(t)
	ctx := context.Background()
	trim := sampleTrim()
	req := sampleCreateRequest(trim)
	req.Governorate = "ATLANTIS"

	catalogSvc.On("ResolveTrim", ctx, req.MakeID, req.ModelID, req.TrimID).Return(&trim, nil).Once()

	_, err := svc.Create(ctx, uuid.New(), req, []*multipart.FileHeader{photoHeader(t)})

	require.Error(t, err)
	apiErr, ok := err.(*common.APIError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListingRequiresAtLeastOnePhoto(t *testing.T) {
	svc, repo, catalogSvc, _ := setupListingServiceTest(t)
	ctx := context.Background()
	trim := sampleTrim()
	req := sampleCreateRequest(trim)

	catalogSvc.On("ResolveTrim", ctx, req.MakeID, req.ModelID, req.TrimID).Return(&trim, nil).Once()

	_, err := svc.Create(ctx, uuid.New(), req, nil)

	require.Error(t, err)
	apiErr, ok := err.(*common.APIError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListingRequiresSomeDescription(t *testing.T) {
	svc, repo, catalogSvc, _ := setupListingServiceTest(t)
	ctx := context.Background()
	trim := sampleTrim()
	req := sampleCreateRequest(trim)
	req.DescriptionEn = ""
	req.DescriptionAr = ""

	catalogSvc.On("ResolveTrim", ctx, req.MakeID, req.ModelID, req.TrimID).Return(&trim, nil).Once()

	_, err := svc.Create(ctx, uuid.New(), req, []*multipart.FileHeader{photoHeader(t)})

	require.Error(t, err)
	apiErr, ok := err.(*common.APIError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListingResponseLocalizesDescription(t *testing.T) {
	l := sampleListing(uuid.New(), StatusActive)

	en := ToListingResponse(l, common.LangEnglish, "/media")
	assert.Equal(t, l.DescriptionEn, en.Description)

	ar := ToListingResponse(l, common.LangArabic, "/media")
	assert.Equal(t, l.DescriptionAr, ar.Description)

	l.DescriptionEn = ""
	fallback := ToListingResponse(l, common.LangEnglish, "/media")
	assert.Equal(t, l.DescriptionAr, fallback.Description)
}

func TestCreateListingPropagatesTrimMismatch(t *testing.T) {
	svc, repo, catalogSvc, _ := setupListingServiceTest(t)
	ctx := context.Background()
	trim := sampleTrim()
	req := sampleCreateRequest(trim)

	catalogSvc.On("ResolveTrim", ctx, req.MakeID, req.ModelID, req.TrimID).
		Return(nil, common.ErrUnprocessableEntity).Once()

	_, err := svc.Create(ctx, uuid.New(), req, []*multipart.FileHeader{photoHeader(t)})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetDetailCountsView(t *testing.T) {
	svc, repo, _, _ := setupListingServiceTest(t)
	ctx := context.Background()
	active := sampleListing(uuid.New(), StatusActive)
	active.Views = 10

	repo.On("FindActiveByID", ctx, active.ID).Return(active, nil).Once()
	repo.On("IncrementViews", ctx, active.ID).Return(nil).Once()
	repo.On("FindRelated", ctx, active.Trim.Model.MakeID, active.ID, relatedLimit).
		Return([]Listing{}, nil).Once()

	listing, related, err := svc.GetDetail(ctx, active.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(11), listing.Views)
	assert.Empty(t, related)
	repo.AssertExpectations(t)
}

func TestGetDetailHidesNonActiveListings(t *testing.T) {
	svc, repo, _, _ := setupListingServiceTest(t)
	ctx := context.Background()
	id := uuid.New()

	repo.On("FindActiveByID", ctx, id).Return(nil, common.ErrNotFound).Once()

	_, _, err := svc.GetDetail(ctx, id)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	repo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestRevealPhoneCountsClick(t *testing.T) {
	svc, repo, _, _ := setupListingServiceTest(t)
	ctx := context.Background()
	active := sampleListing(uuid.New(), StatusActive)

	repo.On("FindActiveByID", ctx, active.ID).Return(active, nil).Once()
	repo.On("IncrementPhoneClicks", ctx, active.ID).Return(nil).Once()

	phone, err := svc.RevealPhone(ctx, active.ID)

	require.NoError(t, err)
	assert.Equal(t, "+201001234567", phone)
	repo.AssertExpectations(t)
}

func TestRevealPhoneRejectsInactiveListing(t *testing.T) {
	svc, repo, _, _ := setupListingServiceTest(t)
	ctx := context.Background()
	id := uuid.New()

	repo.On("FindActiveByID", ctx, id).Return(nil, common.ErrNotFound).Once()

	_, err := svc.RevealPhone(ctx, id)

	require.Error(t, err)
	repo.AssertNotCalled(t, "IncrementPhoneClicks", mock.Anything, mock.Anything)
}

func TestAdminApproveSetsActiveDate(t *testing.T) {
	svc, repo, _, notifier := setupListingServiceTest(t)
	ctx := context.Background()
	sellerID := uuid.New()
	pending := sampleListing(sellerID, StatusPending)

	repo.On("UpdateStatusFrom", ctx, pending.ID, StatusPending, StatusActive, mock.AnythingOfType("*time.Time")).
		Run(func(args mock.Arguments) {
			activeDate := args.Get(4).(*time.Time)
			require.NotNil(t, activeDate)
			assert.WithinDuration(t, time.Now().UTC(), *activeDate, 5*time.Second)
		}).Return(nil).Once()
	repo.On("FindByID", ctx, pending.ID).Return(pending, nil).Once()
	notifier.On("NotifyListingApproved", ctx, sellerID, pending.ID, mock.AnythingOfType("string")).Once()

	_, err := svc.AdminApprove(ctx, pending.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAdminApproveFailsWhenNotPending(t *testing.T) {
	svc, repo, _, notifier := setupListingServiceTest(t)
	ctx := context.Background()
	id := uuid.New()

	repo.On("UpdateStatusFrom", ctx, id, StatusPending, StatusActive, mock.AnythingOfType("*time.Time")).
		Return(common.ErrNotFound).Once()

	_, err := svc.AdminApprove(ctx, id)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	notifier.AssertNotCalled(t, "NotifyListingApproved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminRejectMovesPendingToRejected(t *testing.T) {
	svc, repo, _, notifier := setupListingServiceTest(t)
	ctx := context.Background()
	sellerID := uuid.New()
	pending := sampleListing(sellerID, StatusPending)

	repo.On("UpdateStatusFrom", ctx, pending.ID, StatusPending, StatusRejected, (*time.Time)(nil)).
		Return(nil).Once()
	repo.On("FindByID", ctx, pending.ID).Return(pending, nil).Once()
	notifier.On("NotifyListingRejected", ctx, sellerID, pending.ID, mock.AnythingOfType("string")).Once()

	_, err := svc.AdminReject(ctx, pending.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestMarkSoldOnlyFromActive(t *testing.T) {
	svc, repo, _, _ := setupListingServiceTest(t)
	ctx := context.Background()
	sellerID := uuid.New()
	pending := sampleListing(sellerID, StatusPending)

	repo.On("FindByID", ctx, pending.ID).Return(pending, nil).Once()
	repo.On("UpdateStatusFrom", ctx, pending.ID, StatusActive, StatusSold, (*time.Time)(nil)).
		Return(common.ErrNotFound).Once()

	err := svc.MarkSold(ctx, pending.ID, sellerID)

	require.Error(t, err)
	apiErr, ok := err.(*common.APIError)
	require.True(t, ok)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", apiErr.Code)
}

func TestMarkSoldRejectsNonOwner(t *testing.T) {
	svc, repo, _, _ := setupListingServiceTest(t)
	ctx := context.Background()
	active := sampleListing(uuid.New(), StatusActive)

	repo.On("FindByID", ctx, active.ID).Return(active, nil).Once()

	err := svc.MarkSold(ctx, active.ID, uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrForbidden)
	repo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateActiveListingRequiresRemoderation(t *testing.T) {
	svc, repo, _, _ := setupListingServiceTest(t)
	ctx := context.Background()
	sellerID := uuid.New()
	active := sampleListing(sellerID, StatusActive)
	now := time.Now()
	active.ActiveDate = &now

	repo.On("Update", ctx, mock.AnythingOfType("*listing.Listing")).Run(func(args mock.Arguments) {
		l := args.Get(1).(*Listing)
		assert.Equal(t, StatusPending, l.Status)
		assert.Nil(t, l.ActiveDate)
		assert.Equal(t, 880000.0, l.Price)
	}).Return(nil).Once()
	repo.On("FindByID", ctx, active.ID).Return(active, nil).Twice()

	newPrice := 880000.0
	_, err := svc.Update(ctx, active.ID, sellerID, UpdateListingRequest{Price: &newPrice})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateRejectsSoldListing(t *testing.T) {
	svc, repo, _, _ := setupListingServiceTest(t)
	ctx := context.Background()
	sellerID := uuid.New()
	sold := sampleListing(sellerID, StatusSold)

	repo.On("FindByID", ctx, sold.ID).Return(sold, nil).Once()

	newPrice := 880000.0
	_, err := svc.Update(ctx, sold.ID, sellerID, UpdateListingRequest{Price: &newPrice})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestExpireStaleNotifiesSellers(t *testing.T) {
	svc, repo, _, notifier := setupListingServiceTest(t)
	ctx := context.Background()
	sellerID := uuid.New()
	stale := sampleListing(sellerID, StatusActive)

	repo.On("FindActiveBefore", ctx, mock.AnythingOfType("time.Time")).
		Return([]Listing{*stale}, nil).Once()
	repo.On("ExpireActiveBefore", ctx, mock.AnythingOfType("time.Time")).
		Return(int64(1), nil).Once()
	notifier.On("NotifyListingExpired", ctx, sellerID, stale.ID, mock.AnythingOfType("string")).Once()

	count, err := svc.ExpireStale(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	notifier.AssertExpectations(t)
}
