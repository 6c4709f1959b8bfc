// File: cmd/seed/main.go
// Seed creates the schema and loads a starter data set: an admin account, a
// dealer, a private seller, a small car catalog and a few listings in
// different moderation states.
package main

import (
	"log"
	"time"

	"carsouq_backend/internal/catalog"
	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"
	"carsouq_backend/internal/favorite"
	"carsouq_backend/internal/listing"
	"carsouq_backend/internal/notification"
	"carsouq_backend/internal/platform/database"
	"carsouq_backend/internal/platform/logger"
	"carsouq_backend/internal/user"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	db, err := database.NewGORM(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseGORMDB(db)

	if err := db.AutoMigrate(
		&user.User{},
		&catalog.Make{},
		&catalog.CarModel{},
		&catalog.CarTrim{},
		&listing.Listing{},
		&listing.ListingImage{},
		&favorite.Favorite{},
		&notification.Notification{},
	); err != nil {
		appLogger.Fatal("Failed to migrate schema", zap.Error(err))
	}
	appLogger.Info("Schema migrated")

	admin := seedUser(db, appLogger, "admin@carsouq.example", "admin123456", "Admin", "User", "+201000000001", common.RoleAdmin, nil)
	dealerName := "Cairo Motors"
	dealer := seedUser(db, appLogger, "dealer@carsouq.example", "dealer123456", "Salma", "Farouk", "+201000000002", common.RoleUser, &dealerName)
	private := seedUser(db, appLogger, "seller@carsouq.example", "seller123456", "Omar", "Hassan", "+201000000003", common.RoleUser, nil)
	_ = admin

	trims := seedCatalog(db, appLogger)

	seedListings(db, appLogger, dealer, private, trims)

	appLogger.Info("Seed completed")
}

func seedUser(db *gorm.DB, appLogger *zap.Logger, email, password, first, last, phone, role string, dealerName *string) *user.User {
	hash, err := common.HashPassword(password)
	if err != nil {
		appLogger.Fatal("Failed to hash password", zap.Error(err))
	}
	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Phone:        phone,
		Role:         role,
	}
	if dealerName != nil {
		registryPath := "documents/seed-commercial-registry.jpg"
		taxCardPath := "documents/seed-tax-card.jpg"
		u.IsDealer = true
		u.DealerName = dealerName
		u.CommercialRegistryPath = &registryPath
		u.TaxCardPath = &taxCardPath
		u.IsVerifiedDealer = true
	}
	if err := db.Where(user.User{Email: email}).FirstOrCreate(u).Error; err != nil {
		appLogger.Fatal("Failed to seed user", zap.String("email", email), zap.Error(err))
	}
	appLogger.Info("Seeded user", zap.String("email", email), zap.String("role", role))
	return u
}

type trimSpec struct {
	name         string
	year         int
	engineCC     int
	horsepower   int
	consumption  float64
	transmission string
	fuel         string
}

type modelSpec struct {
	nameEn   string
	nameAr   string
	category string
	trims    []trimSpec
}

type makeSpec struct {
	nameEn string
	nameAr string
	models []modelSpec
}

func seedCatalog(db *gorm.DB, appLogger *zap.Logger) []catalog.CarTrim {
	makes := []makeSpec{
		{
			nameEn: "Toyota", nameAr: "تويوتا",
			models: []modelSpec{
				{
					nameEn: "Corolla", nameAr: "كورولا", category: "SEDAN",
					trims: []trimSpec{
						{"1.6L Comfort", 2022, 1600, 121, 6.5, catalog.TransmissionAuto, catalog.FuelPetrol},
						{"1.6L Highline", 2023, 1600, 121, 6.5, catalog.TransmissionAuto, catalog.FuelPetrol},
						{"1.8L Hybrid", 2024, 1800, 140, 4.2, catalog.TransmissionAuto, catalog.FuelHybrid},
					},
				},
				{
					nameEn: "Land Cruiser", nameAr: "لاند كروزر", category: "SUV",
					trims: []trimSpec{
						{"VXR 3.3L Twin Turbo", 2023, 3300, 305, 9.8, catalog.TransmissionAuto, catalog.FuelDiesel},
					},
				},
			},
		},
		{
			nameEn: "BMW", nameAr: "بي إم دبليو",
			models: []modelSpec{
				{
					nameEn: "320i", nameAr: "320 آي", category: "SEDAN",
					trims: []trimSpec{
						{"Luxury Line", 2022, 2000, 184, 7.0, catalog.TransmissionAuto, catalog.FuelPetrol},
						{"M Sport", 2023, 2000, 184, 7.1, catalog.TransmissionAuto, catalog.FuelPetrol},
					},
				},
				{
					nameEn: "X5", nameAr: "إكس 5", category: "SUV",
					trims: []trimSpec{
						{"xDrive40i", 2021, 3000, 340, 9.2, catalog.TransmissionAuto, catalog.FuelPetrol},
					},
				},
			},
		},
		{
			nameEn: "Mercedes-Benz", nameAr: "مرسيدس بنز",
			models: []modelSpec{
				{
					nameEn: "C180", nameAr: "سي 180", category: "SEDAN",
					trims: []trimSpec{
						{"Avantgarde", 2022, 1500, 170, 6.8, catalog.TransmissionAuto, catalog.FuelPetrol},
					},
				},
			},
		},
		{
			nameEn: "Hyundai", nameAr: "هيونداي",
			models: []modelSpec{
				{
					nameEn: "Elantra", nameAr: "النترا", category: "SEDAN",
					trims: []trimSpec{
						{"1.6L GL", 2021, 1600, 128, 6.9, catalog.TransmissionManual, catalog.FuelPetrol},
						{"1.6L Smart Plus", 2023, 1600, 128, 6.9, catalog.TransmissionAuto, catalog.FuelPetrol},
					},
				},
				{
					nameEn: "Tucson", nameAr: "توسان", category: "SUV",
					trims: []trimSpec{
						{"1.6T Comfort", 2022, 1600, 180, 7.6, catalog.TransmissionAuto, catalog.FuelPetrol},
					},
				},
			},
		},
	}

	var allTrims []catalog.CarTrim
	for _, m := range makes {
		mk := &catalog.Make{NameEn: m.nameEn, NameAr: m.nameAr, Slug: slug.Make(m.nameEn)}
		if err := db.Where(catalog.Make{Slug: mk.Slug}).FirstOrCreate(mk).Error; err != nil {
			appLogger.Fatal("Failed to seed make", zap.String("make", m.nameEn), zap.Error(err))
		}
		for _, mod := range m.models {
			cm := &catalog.CarModel{
				MakeID:   mk.ID,
				NameEn:   mod.nameEn,
				NameAr:   mod.nameAr,
				Slug:     slug.Make(mod.nameEn),
				Category: mod.category,
			}
			if err := db.Where(catalog.CarModel{MakeID: mk.ID, Slug: cm.Slug}).FirstOrCreate(cm).Error; err != nil {
				appLogger.Fatal("Failed to seed model", zap.String("model", mod.nameEn), zap.Error(err))
			}
			for _, tr := range mod.trims {
				ct := &catalog.CarTrim{
					ModelID:         cm.ID,
					Name:            tr.name,
					Year:            tr.year,
					EngineCC:        tr.engineCC,
					Horsepower:      tr.horsepower,
					FuelConsumption: tr.consumption,
					Transmission:    tr.transmission,
					FuelType:        tr.fuel,
				}
				if err := db.Where(catalog.CarTrim{ModelID: cm.ID, Name: tr.name, Year: tr.year}).FirstOrCreate(ct).Error; err != nil {
					appLogger.Fatal("Failed to seed trim", zap.String("trim", tr.name), zap.Error(err))
				}
				allTrims = append(allTrims, *ct)
			}
		}
		appLogger.Info("Seeded make", zap.String("make", m.nameEn))
	}
	return allTrims
}

func seedListings(db *gorm.DB, appLogger *zap.Logger, dealer, private *user.User, trims []catalog.CarTrim) {
	if len(trims) < 4 {
		appLogger.Warn("Not enough trims to seed listings")
		return
	}

	var count int64
	db.Model(&listing.Listing{}).Count(&count)
	if count > 0 {
		appLogger.Info("Listings already present, skipping listing seed", zap.Int64("count", count))
		return
	}

	now := time.Now().UTC()
	samples := []listing.Listing{
		{
			SellerID:      dealer.ID,
			TrimID:        trims[1].ID,
			Price:         1250000,
			Odometer:      15000,
			Color:         "White",
			DescriptionEn: "Dealer maintained Corolla Highline, one previous owner, full service history.",
			DescriptionAr: "كورولا هايلاين صيانة توكيل، مالك واحد سابق، جميع الصيانات موثقة.",
			Governorate:   "CAIRO",
			Status:        listing.StatusActive,
			ActiveDate:    &now,
		},
		{
			SellerID:      private.ID,
			TrimID:        trims[0].ID,
			Price:         980000,
			Odometer:      64000,
			Color:         "Silver",
			DescriptionEn: "Family car, garage kept, new tires and battery, serviced on schedule.",
			DescriptionAr: "سيارة عائلية محفوظة في جراج، إطارات وبطارية جديدة، صيانة منتظمة.",
			Governorate:   "GIZA",
			Status:        listing.StatusActive,
			ActiveDate:    &now,
		},
		{
			SellerID:      dealer.ID,
			TrimID:        trims[len(trims)-1].ID,
			Price:         1850000,
			Odometer:      32000,
			Color:         "Black",
			DescriptionEn: "Tucson 1.6T in excellent condition, trade-in accepted, financing available.",
			DescriptionAr: "توسان 1.6 تيربو بحالة ممتازة، نقبل الاستبدال، التقسيط متاح.",
			Governorate:   "ALEXANDRIA",
			Status:        listing.StatusActive,
			ActiveDate:    &now,
		},
		{
			SellerID:      private.ID,
			TrimID:        trims[2].ID,
			Price:         1600000,
			Odometer:      8000,
			Color:         "Blue",
			DescriptionEn: "Nearly new hybrid, still under warranty, selling due to relocation abroad.",
			DescriptionAr: "هايبرد شبه جديدة، ما زالت تحت الضمان، البيع بسبب السفر للخارج.",
			Governorate:   "CAIRO",
			Status:        listing.StatusPending,
		},
	}

	for i := range samples {
		if err := db.Create(&samples[i]).Error; err != nil {
			appLogger.Fatal("Failed to seed listing", zap.Error(err))
		}
	}
	appLogger.Info("Seeded listings", zap.Int("count", len(samples)))
}
