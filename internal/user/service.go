// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"
	"carsouq_backend/internal/filestorage"
	"carsouq_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// documentSubDir is where dealer verification documents live inside the
// storage root, next to the listing photos.
const documentSubDir = "documents"

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo   Repository
	files  *filestorage.FileStorageService
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, files *filestorage.FileStorageService, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, files: files, cfg: cfg, logger: logger}
}

// Register creates a new user account. Dealer accounts must upload their
// commercial registry and tax card scans, which are stored alongside the
// account for admin review.
func (s *ServiceImplementation) Register(ctx context.Context, input shared.RegisterUserInput) (*shared.User, error) {
	if input.IsDealer {
		missing := map[string]string{}
		if strings.TrimSpace(input.DealerName) == "" {
			missing["dealer_name"] = "The dealer_name field is required for dealer accounts."
		}
		if input.CommercialRegistryDoc == nil {
			missing["commercial_registry"] = "The commercial registry document is required for dealer accounts."
		}
		if input.TaxCardDoc == nil {
			missing["tax_card"] = "The tax card document is required for dealer accounts."
		}
		if len(missing) > 0 {
			return nil, common.NewValidationAPIError(missing)
		}
	}

	_, err := s.repo.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hashedPassword, err := common.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := &User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         common.RoleUser,
		IsDealer:     input.IsDealer,
	}
	if input.IsDealer {
		dealerName := strings.TrimSpace(input.DealerName)
		dbUser.DealerName = &dealerName

		registryPath, err := s.storeDocument(input.CommercialRegistryDoc)
		if err != nil {
			return nil, common.ErrBadRequest.WithDetails("Could not store the commercial registry document.")
		}
		taxCardPath, err := s.storeDocument(input.TaxCardDoc)
		if err != nil {
			s.deleteDocument(&registryPath)
			return nil, common.ErrBadRequest.WithDetails("Could not store the tax card document.")
		}
		dbUser.CommercialRegistryPath = &registryPath
		dbUser.TaxCardPath = &taxCardPath
	}

	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.deleteDocument(dbUser.CommercialRegistryPath)
		s.deleteDocument(dbUser.TaxCardPath)
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", input.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered successfully",
		zap.String("userID", dbUser.ID.String()), zap.Bool("isDealer", dbUser.IsDealer))
	return ToShared(dbUser), nil
}

// storeDocument saves a dealer paperwork upload. Documents are kept exactly
// as uploaded; only listing photos go through the normalizer.
func (s *ServiceImplementation) storeDocument(doc *multipart.FileHeader) (string, error) {
	relPath, err := s.files.SaveUploadedFile(doc, documentSubDir)
	if err != nil {
		s.logger.Error("Failed to store dealer document", zap.String("filename", doc.Filename), zap.Error(err))
		return "", err
	}
	return relPath, nil
}

func (s *ServiceImplementation) deleteDocument(relPath *string) {
	if relPath == nil || *relPath == "" {
		return
	}
	if err := s.files.DeleteFile(*relPath); err != nil {
		s.logger.Warn("Failed to delete dealer document", zap.String("path", *relPath), zap.Error(err))
	}
}

// Authenticate verifies credentials and records the login time.
func (s *ServiceImplementation) Authenticate(ctx context.Context, email, password string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if !common.CheckPassword(password, dbUser.PasswordHash) {
		s.logger.Info("Password mismatch during login", zap.String("email", email))
		return nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Login still succeeds when the timestamp write fails.
		s.logger.Warn("Failed to record last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	return ToShared(dbUser), nil
}

// GetUserByID returns a user by ID.
func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToShared(dbUser), nil
}

// GetUserByEmail returns a user by email.
func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return ToShared(dbUser), nil
}

// UpdateProfile applies the non-nil fields of the request to the user.
// Dealers may attach replacement verification documents, which put the
// account back into the unverified queue.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest, registryDoc, taxCardDoc *multipart.FileHeader) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		dbUser.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		dbUser.LastName = *req.LastName
	}
	if req.Phone != nil {
		dbUser.Phone = *req.Phone
	}
	if req.DealerName != nil || registryDoc != nil || taxCardDoc != nil {
		if !dbUser.IsDealer {
			return nil, common.ErrUnprocessableEntity.WithDetails("Only dealer accounts have dealer details.")
		}
		if req.DealerName != nil {
			dbUser.DealerName = req.DealerName
		}
		// New paperwork needs another admin review.
		if registryDoc != nil {
			relPath, err := s.storeDocument(registryDoc)
			if err != nil {
				return nil, common.ErrBadRequest.WithDetails("Could not store the commercial registry document.")
			}
			s.deleteDocument(dbUser.CommercialRegistryPath)
			dbUser.CommercialRegistryPath = &relPath
			dbUser.IsVerifiedDealer = false
		}
		if taxCardDoc != nil {
			relPath, err := s.storeDocument(taxCardDoc)
			if err != nil {
				return nil, common.ErrBadRequest.WithDetails("Could not store the tax card document.")
			}
			s.deleteDocument(dbUser.TaxCardPath)
			dbUser.TaxCardPath = &relPath
			dbUser.IsVerifiedDealer = false
		}
	}

	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err), zap.String("userID", id.String()))
		return nil, err
	}
	return ToShared(dbUser), nil
}

// VerifyDealer marks a dealer account as verified after an admin has
// reviewed its paperwork.
func (s *ServiceImplementation) VerifyDealer(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !dbUser.IsDealer {
		return nil, common.ErrUnprocessableEntity.WithDetails("Only dealer accounts can be verified.")
	}
	if dbUser.CommercialRegistryPath == nil || dbUser.TaxCardPath == nil {
		return nil, common.ErrUnprocessableEntity.WithDetails("Dealer paperwork is incomplete.")
	}

	dbUser.IsVerifiedDealer = true
	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to verify dealer", zap.Error(err), zap.String("userID", id.String()))
		return nil, err
	}
	s.logger.Info("Dealer verified", zap.String("userID", id.String()))
	return ToShared(dbUser), nil
}
