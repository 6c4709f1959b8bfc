// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"log"

	"carsouq_backend/internal/app"
	"carsouq_backend/internal/auth"
	"carsouq_backend/internal/catalog"
	"carsouq_backend/internal/config"
	"carsouq_backend/internal/favorite"
	"carsouq_backend/internal/filestorage"
	"carsouq_backend/internal/jobs"
	"carsouq_backend/internal/listing"
	"carsouq_backend/internal/notification"
	"carsouq_backend/internal/platform/database"
	"carsouq_backend/internal/platform/images"
	"carsouq_backend/internal/platform/logger"
	"carsouq_backend/internal/shared"
	"carsouq_backend/internal/user"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform layer
		logger.New,
		database.NewGORM,
		provideFileStorage,
		provideNormalizer,
		provideCleanup,

		// Auth
		auth.NewJWTService,
		auth.NewBlocklist,
		auth.NewHandler,

		// Users
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Catalog
		catalog.NewGORMRepository,
		catalog.NewService,
		catalog.NewHandler,

		// Notifications
		notification.NewGORMRepository,
		notification.NewService,
		wire.Bind(new(notification.Service), new(*notification.ServiceImplementation)),
		notification.NewHandler,

		// Listings
		listing.NewGORMRepository,
		listing.NewService,
		wire.Bind(new(listing.Service), new(*listing.ServiceImplementation)),
		listing.NewHandler,

		// Favorites
		favorite.NewGORMRepository,
		favorite.NewService,
		wire.Bind(new(favorite.Service), new(*favorite.ServiceImplementation)),
		wire.Bind(new(listing.FavoriteChecker), new(*favorite.ServiceImplementation)),
		favorite.NewHandler,

		// Jobs
		jobs.NewListingExpiryJob,

		// Application layer
		app.NewServer,
	)
	return nil, nil, nil
}

func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.FileStorageService, error) {
	return filestorage.NewFileStorageService(cfg.ImageStoragePath, logger)
}

func provideNormalizer(cfg *config.Config, logger *zap.Logger) *images.Normalizer {
	return images.NewNormalizer(cfg.ImageMaxWidth, cfg.ImageQuality, logger)
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
