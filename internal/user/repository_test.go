// File: internal/user/repository_test.go
package user

import (
	"context"
	"testing"

	"carsouq_backend/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserRepoTest(t *testing.T) Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&User{}))
	return NewGORMRepository(db)
}

func testDBUser(email, phone string) *User {
	return &User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Omar",
		LastName:     "Hassan",
		Phone:        phone,
		Role:         common.RoleUser,
	}
}

func TestCreateLowercasesEmail(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testDBUser("Buyer@Example.COM", "+201001234567")))

	found, err := repo.FindByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", found.Email)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testDBUser("buyer@example.com", "+201001234567")))

	err := repo.Create(ctx, testDBUser("buyer@example.com", "+201009876543"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testDBUser("first@example.com", "+201001234567")))

	err := repo.Create(ctx, testDBUser("second@example.com", "+201001234567"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)

	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Contains(t, apiErr.Details, "phone")
}

func TestUpdateRejectsTakenPhone(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testDBUser("first@example.com", "+201001234567")))
	second := testDBUser("second@example.com", "+201009876543")
	require.NoError(t, repo.Create(ctx, second))

	second.Phone = "+201001234567"
	err := repo.Update(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestFindByIDUnknownUser(t *testing.T) {
	repo := setupUserRepoTest(t)
	ctx := context.Background()

	created := testDBUser("buyer@example.com", "+201001234567")
	require.NoError(t, repo.Create(ctx, created))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, found.Email)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
