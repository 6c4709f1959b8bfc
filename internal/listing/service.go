// File: internal/listing/service.go
package listing

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"carsouq_backend/internal/catalog"
	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"
	"carsouq_backend/internal/filestorage"
	"carsouq_backend/internal/notification"
	"carsouq_backend/internal/platform/images"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	imageSubDir  = "listings"
	relatedLimit = 4
	compareLimit = 4
)

// Service defines the business logic for listings.
type Service interface {
	Create(ctx context.Context, sellerID uuid.UUID, req CreateListingRequest, photos []*multipart.FileHeader) (*Listing, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*Listing, []Listing, error)
	GetForOwner(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) (*Listing, error)
	Update(ctx context.Context, id, sellerID uuid.UUID, req UpdateListingRequest) (*Listing, error)
	Delete(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) error
	MarkSold(ctx context.Context, id, sellerID uuid.UUID) error

	Search(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error)
	GetFeatured(ctx context.Context) ([]Listing, error)
	Compare(ctx context.Context, ids []uuid.UUID) ([]Listing, error)
	RevealPhone(ctx context.Context, id uuid.UUID) (string, error)

	Dashboard(ctx context.Context, sellerID uuid.UUID) (*SellerStats, []Listing, error)

	// Admin moderation
	AdminPending(ctx context.Context) ([]Listing, *AdminStats, error)
	AdminApprove(ctx context.Context, id uuid.UUID) (*Listing, error)
	AdminReject(ctx context.Context, id uuid.UUID) (*Listing, error)

	ExpireStale(ctx context.Context) (int64, error)
}

type ServiceImplementation struct {
	repo       Repository
	catalogSvc catalog.Service
	files      *filestorage.FileStorageService
	normalizer *images.Normalizer
	notifier   notification.Service
	cfg        *config.Config
	logger     *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

func NewService(
	repo Repository,
	catalogSvc catalog.Service,
	files *filestorage.FileStorageService,
	normalizer *images.Normalizer,
	notifier notification.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:       repo,
		catalogSvc: catalogSvc,
		files:      files,
		normalizer: normalizer,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// Create validates the trim chain and governorate, stores and normalizes the
// photos, and saves the listing as PENDING. Sellers cannot publish directly;
// a moderator approval is always required.
func (s *ServiceImplementation) Create(ctx context.Context, sellerID uuid.UUID, req CreateListingRequest, photos []*multipart.FileHeader) (*Listing, error) {
	if _, err := s.catalogSvc.ResolveTrim(ctx, req.MakeID, req.ModelID, req.TrimID); err != nil {
		return nil, err
	}
	if !IsValidGovernorate(req.Governorate) {
		return nil, common.NewValidationAPIError(map[string]string{
			"governorate": "Unknown governorate code.",
		})
	}
	if len(photos) == 0 {
		return nil, common.NewValidationAPIError(map[string]string{
			"images": "At least one photo is required.",
		})
	}
	if len(photos) > s.cfg.MaxListingImages {
		return nil, common.NewValidationAPIError(map[string]string{
			"images": "Too many photos.",
		})
	}
	if strings.TrimSpace(req.DescriptionEn) == "" && strings.TrimSpace(req.DescriptionAr) == "" {
		return nil, common.NewValidationAPIError(map[string]string{
			"description": "A description in at least one language is required.",
		})
	}

	listing := &Listing{
		SellerID:      sellerID,
		TrimID:        req.TrimID,
		Price:         req.Price,
		Odometer:      req.Odometer,
		Color:         req.Color,
		DescriptionEn: req.DescriptionEn,
		DescriptionAr: req.DescriptionAr,
		Governorate:   req.Governorate,
		Status:        StatusPending,
	}

	for i, photo := range photos {
		relPath, err := s.storePhoto(photo)
		if err != nil {
			s.cleanupImages(listing.Images)
			return nil, common.ErrBadRequest.WithDetails("Could not store one of the uploaded photos.")
		}
		listing.Images = append(listing.Images, ListingImage{
			ID:        uuid.New(),
			ImagePath: relPath,
			SortOrder: i,
		})
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.cleanupImages(listing.Images)
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyListingSubmitted(ctx, sellerID, created.ID, created.Title(common.LangEnglish))
	s.logger.Info("Listing submitted for review",
		zap.String("listingID", created.ID.String()),
		zap.String("sellerID", sellerID.String()))
	return created, nil
}

// storePhoto saves an upload and runs it through the normalizer. The stored
// relative path may change extension when the normalizer re-encodes.
func (s *ServiceImplementation) storePhoto(photo *multipart.FileHeader) (string, error) {
	relPath, err := s.files.SaveUploadedFile(photo, imageSubDir)
	if err != nil {
		return "", err
	}
	normalized := s.normalizer.Normalize(s.files.AbsolutePath(relPath))
	newRel, err := s.files.RelativePath(normalized)
	if err != nil {
		return relPath, nil
	}
	return newRel, nil
}

func (s *ServiceImplementation) cleanupImages(imgs []ListingImage) {
	for _, img := range imgs {
		if err := s.files.DeleteFile(img.ImagePath); err != nil {
			s.logger.Warn("Failed to clean up listing image", zap.String("path", img.ImagePath), zap.Error(err))
		}
	}
}

// GetDetail returns an ACTIVE listing with up to four related cars of the
// same make. Each call counts a view.
func (s *ServiceImplementation) GetDetail(ctx context.Context, id uuid.UUID) (*Listing, []Listing, error) {
	listing, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("Failed to increment views", zap.String("listingID", id.String()), zap.Error(err))
	} else {
		listing.Views++
	}

	related, err := s.repo.FindRelated(ctx, listing.Trim.Model.MakeID, id, relatedLimit)
	if err != nil {
		s.logger.Warn("Failed to load related listings", zap.String("listingID", id.String()), zap.Error(err))
		related = nil
	}
	return listing, related, nil
}

// GetForOwner returns a listing in any status, visible only to its seller or
// an admin.
func (s *ServiceImplementation) GetForOwner(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) (*Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != requesterID && requesterRole != common.RoleAdmin {
		return nil, common.ErrForbidden.WithDetails("You do not own this listing.")
	}
	return listing, nil
}

// Update applies seller edits. Edits to an ACTIVE or REJECTED listing send it
// back to PENDING for re-moderation; SOLD and EXPIRED listings are closed.
func (s *ServiceImplementation) Update(ctx context.Context, id, sellerID uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, common.ErrForbidden.WithDetails("You do not own this listing.")
	}
	if listing.Status == StatusSold || listing.Status == StatusExpired {
		return nil, common.ErrUnprocessableEntity.WithDetails("Sold or expired listings cannot be edited.")
	}

	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.Odometer != nil {
		listing.Odometer = *req.Odometer
	}
	if req.Color != nil {
		listing.Color = *req.Color
	}
	if req.DescriptionEn != nil {
		listing.DescriptionEn = *req.DescriptionEn
	}
	if req.DescriptionAr != nil {
		listing.DescriptionAr = *req.DescriptionAr
	}
	if req.Governorate != nil {
		if !IsValidGovernorate(*req.Governorate) {
			return nil, common.NewValidationAPIError(map[string]string{
				"governorate": "Unknown governorate code.",
			})
		}
		listing.Governorate = *req.Governorate
	}

	if listing.Status == StatusActive || listing.Status == StatusRejected {
		listing.Status = StatusPending
		listing.ActiveDate = nil
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ServiceImplementation) Delete(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != requesterID && requesterRole != common.RoleAdmin {
		return common.ErrForbidden.WithDetails("You do not own this listing.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cleanupImages(listing.Images)
	return nil
}

// MarkSold transitions the seller's own listing from ACTIVE to SOLD.
func (s *ServiceImplementation) MarkSold(ctx context.Context, id, sellerID uuid.UUID) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return common.ErrForbidden.WithDetails("You do not own this listing.")
	}
	err = s.repo.UpdateStatusFrom(ctx, id, StatusActive, StatusSold, nil)
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrUnprocessableEntity.WithDetails("Only active listings can be marked as sold.")
	}
	return err
}

func (s *ServiceImplementation) Search(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error) {
	listings, total, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	pagination := common.NewPagination(total, query.Page, query.PageSize)
	return listings, pagination, nil
}

func (s *ServiceImplementation) GetFeatured(ctx context.Context) ([]Listing, error) {
	return s.repo.FindFeatured(ctx, s.cfg.FeaturedListingsLimit)
}

// Compare fetches up to four ACTIVE listings side by side. Unknown or
// inactive ids are silently dropped.
func (s *ServiceImplementation) Compare(ctx context.Context, ids []uuid.UUID) ([]Listing, error) {
	if len(ids) == 0 {
		return []Listing{}, nil
	}
	if len(ids) > compareLimit {
		ids = ids[:compareLimit]
	}
	return s.repo.FindByIDs(ctx, ids, true)
}

// RevealPhone returns the seller's phone number for an ACTIVE listing and
// counts the click. Clients only get the number through this call.
func (s *ServiceImplementation) RevealPhone(ctx context.Context, id uuid.UUID) (string, error) {
	listing, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.repo.IncrementPhoneClicks(ctx, id); err != nil {
		s.logger.Warn("Failed to increment phone clicks", zap.String("listingID", id.String()), zap.Error(err))
	}
	if listing.Seller == nil {
		return "", common.ErrNotFound
	}
	return listing.Seller.Phone, nil
}

func (s *ServiceImplementation) Dashboard(ctx context.Context, sellerID uuid.UUID) (*SellerStats, []Listing, error) {
	stats, err := s.repo.SellerStats(ctx, sellerID)
	if err != nil {
		return nil, nil, err
	}
	listings, err := s.repo.FindBySellerID(ctx, sellerID)
	if err != nil {
		return nil, nil, err
	}
	return stats, listings, nil
}

func (s *ServiceImplementation) AdminPending(ctx context.Context) ([]Listing, *AdminStats, error) {
	listings, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.repo.AdminStats(ctx)
	if err != nil {
		return nil, nil, err
	}
	return listings, stats, nil
}

// AdminApprove activates a PENDING listing and stamps its active date. The
// conditional update means a listing that was already moderated (or never
// existed) reads as not found, whichever moderator got there first wins.
func (s *ServiceImplementation) AdminApprove(ctx context.Context, id uuid.UUID) (*Listing, error) {
	now := time.Now().UTC()
	if err := s.repo.UpdateStatusFrom(ctx, id, StatusPending, StatusActive, &now); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("No pending listing with this ID.")
		}
		return nil, err
	}
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyListingApproved(ctx, listing.SellerID, listing.ID, listing.Title(common.LangEnglish))
	s.logger.Info("Listing approved", zap.String("listingID", id.String()))
	return listing, nil
}

func (s *ServiceImplementation) AdminReject(ctx context.Context, id uuid.UUID) (*Listing, error) {
	if err := s.repo.UpdateStatusFrom(ctx, id, StatusPending, StatusRejected, nil); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("No pending listing with this ID.")
		}
		return nil, err
	}
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyListingRejected(ctx, listing.SellerID, listing.ID, listing.Title(common.LangEnglish))
	s.logger.Info("Listing rejected", zap.String("listingID", id.String()))
	return listing, nil
}

// ExpireStale moves ACTIVE listings past their lifespan to EXPIRED and tells
// their sellers. Called from the scheduled job.
func (s *ServiceImplementation) ExpireStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.DefaultListingLifespanDays)

	expiring, err := s.repo.FindActiveBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.ExpireActiveBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	for _, l := range expiring {
		s.notifier.NotifyListingExpired(ctx, l.SellerID, l.ID, l.Title(common.LangEnglish))
	}
	if count > 0 {
		s.logger.Info("Expired stale listings", zap.Int64("count", count))
	}
	return count, nil
}
