package persistence

import (
	"context"
	"testing"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupCartTestDB creates an in-memory SQLite database for testing
func setupCartTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE carts (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			session_key TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE cart_items (
			id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			added_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormCartRepository_SaveAndFindByUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	cart, err := shopping.NewCartForUser(userID)
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(uuid.New(), decimal.NewFromFloat(19.99), 2))
	require.NoError(t, cart.AddItem(uuid.New(), decimal.NewFromFloat(5.50), 1))

	require.NoError(t, repo.Save(ctx, cart))

	found, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	require.Len(t, found.Items, 2)
	assert.Equal(t, 3, found.TotalItems())
	assert.True(t, found.TotalPrice().Equal(decimal.NewFromFloat(45.48)))
}

func TestGormCartRepository_FindBySession(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	cart, err := shopping.NewCartForSession("abc123sessionkey")
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(uuid.New(), decimal.NewFromInt(10), 1))
	require.NoError(t, repo.Save(ctx, cart))

	found, err := repo.FindBySession(ctx, "abc123sessionkey")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	assert.Nil(t, found.UserID)

	_, err = repo.FindBySession(ctx, "unknown-session")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCartRepository_FindByUserNotFound(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)

	_, err := repo.FindByUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCartRepository_SavePrunesRemovedItems(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	productA := uuid.New()
	productB := uuid.New()

	cart, err := shopping.NewCartForUser(uuid.New())
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(productA, decimal.NewFromInt(7), 1))
	require.NoError(t, cart.AddItem(productB, decimal.NewFromInt(3), 2))
	require.NoError(t, repo.Save(ctx, cart))

	require.NoError(t, cart.RemoveItem(productA))
	require.NoError(t, repo.Save(ctx, cart))

	found, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, productB, found.Items[0].ProductID)

	// The removed line is gone from storage, not just the aggregate
	var count int64
	require.NoError(t, db.Model(&shopping.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormCartRepository_Delete(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	cart, err := shopping.NewCartForSession("to-be-deleted")
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(uuid.New(), decimal.NewFromInt(4), 1))
	require.NoError(t, repo.Save(ctx, cart))

	require.NoError(t, repo.Delete(ctx, cart.ID))

	_, err = repo.FindByID(ctx, cart.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&shopping.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}
