package persistence

import (
	"context"
	"errors"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shopping"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWishlistRepository implements WishlistRepository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// FindByUser finds a customer's wishlist, items included
func (r *GormWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*shopping.Wishlist, error) {
	var wishlist shopping.Wishlist
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&wishlist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wishlist, nil
}

// Save creates or updates a wishlist and its items
func (r *GormWishlistRepository) Save(ctx context.Context, wishlist *shopping.Wishlist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(wishlist.Items))
		for i := range wishlist.Items {
			keep = append(keep, wishlist.Items[i].ID)
		}

		query := tx.Where("wishlist_id = ?", wishlist.ID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}
		if err := query.Delete(&shopping.WishlistItem{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(wishlist).Error
	})
}

// Delete deletes a wishlist and its items
func (r *GormWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wishlist_id = ?", id).Delete(&shopping.WishlistItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&shopping.Wishlist{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormWishlistRepository implements WishlistRepository
var _ shopping.WishlistRepository = (*GormWishlistRepository)(nil)
