// File: internal/favorite/service_test.go
package favorite

import (
	"context"
	"testing"

	"carsouq_backend/internal/catalog"
	"carsouq_backend/internal/common"
	"carsouq_backend/internal/listing"
	"carsouq_backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupFavoriteTest(t *testing.T) (*ServiceImplementation, *gorm.DB, uuid.UUID, *listing.Listing) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&catalog.Make{},
		&catalog.CarModel{},
		&catalog.CarTrim{},
		&listing.Listing{},
		&listing.ListingImage{},
		&Favorite{},
	))

	seller := &user.User{Email: "seller@example.com", PasswordHash: "x", FirstName: "Omar", LastName: "Hassan", Phone: "+201001234567", Role: common.RoleUser}
	require.NoError(t, db.Create(seller).Error)

	mk := &catalog.Make{NameEn: "Toyota", NameAr: "تويوتا", Slug: "toyota"}
	require.NoError(t, db.Create(mk).Error)
	model := &catalog.CarModel{MakeID: mk.ID, NameEn: "Corolla", NameAr: "كورولا", Slug: "corolla", Category: "SEDAN"}
	require.NoError(t, db.Create(model).Error)
	trim := &catalog.CarTrim{ModelID: model.ID, Name: "1.6L Highline", Year: 2023, EngineCC: 1600, Transmission: catalog.TransmissionAuto, FuelType: catalog.FuelPetrol}
	require.NoError(t, db.Create(trim).Error)

	active := &listing.Listing{
		SellerID:      seller.ID,
		TrimID:        trim.ID,
		Price:         950000,
		Odometer:      42000,
		Color:         "White",
		DescriptionEn: "Well maintained, single owner, full service history.",
		DescriptionAr: "حالة ممتازة، مالك واحد، صيانة دورية منتظمة.",
		Governorate:   "CAIRO",
		Status:        listing.StatusActive,
	}
	require.NoError(t, db.Create(active).Error)

	buyer := &user.User{Email: "buyer@example.com", PasswordHash: "x", FirstName: "Nour", LastName: "Adel", Phone: "+201002223344", Role: common.RoleUser}
	require.NoError(t, db.Create(buyer).Error)

	svc := NewService(NewGORMRepository(db), listing.NewGORMRepository(db), zap.NewNop())
	return svc, db, buyer.ID, active
}

func TestToggleAddsThenRemoves(t *testing.T) {
	svc, _, buyerID, active := setupFavoriteTest(t)
	ctx := context.Background()

	favorited, err := svc.Toggle(ctx, buyerID, active.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	saved, err := svc.IsFavorited(ctx, buyerID, active.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	favorited, err = svc.Toggle(ctx, buyerID, active.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	saved, err = svc.IsFavorited(ctx, buyerID, active.ID)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestToggleRejectsInactiveListing(t *testing.T) {
	svc, db, buyerID, active := setupFavoriteTest(t)
	ctx := context.Background()

	require.NoError(t, db.Model(active).Update("status", listing.StatusSold).Error)

	_, err := svc.Toggle(ctx, buyerID, active.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFavoritedListingIDsFlagsOnlySaved(t *testing.T) {
	svc, db, buyerID, active := setupFavoriteTest(t)
	ctx := context.Background()

	other := &listing.Listing{
		SellerID:      active.SellerID,
		TrimID:        active.TrimID,
		Price:         700000,
		Odometer:      80000,
		Color:         "Red",
		DescriptionEn: "Second owner, recently repainted, all maintenance records available.",
		DescriptionAr: "مالك ثانٍ، تم إعادة طلائها مؤخراً، جميع سجلات الصيانة متوفرة.",
		Governorate:   "GIZA",
		Status:        listing.StatusActive,
	}
	require.NoError(t, db.Create(other).Error)

	_, err := svc.Toggle(ctx, buyerID, active.ID)
	require.NoError(t, err)

	saved, err := svc.FavoritedListingIDs(ctx, buyerID, []uuid.UUID{active.ID, other.ID})
	require.NoError(t, err)
	assert.True(t, saved[active.ID])
	assert.False(t, saved[other.ID])

	none, err := svc.FavoritedListingIDs(ctx, buyerID, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListForUserReturnsSavedListings(t *testing.T) {
	svc, _, buyerID, active := setupFavoriteTest(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, buyerID, active.ID)
	require.NoError(t, err)

	listings, err := svc.ListForUser(ctx, buyerID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, active.ID, listings[0].ID)
	assert.Equal(t, "Toyota", listings[0].Trim.Model.Make.NameEn)

	other, err := svc.ListForUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
