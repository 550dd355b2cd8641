package shopping

import (
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Wishlist holds the products a customer has saved for later. One per
// customer, created lazily on first save.
type Wishlist struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items  []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"`
}

// WishlistItem is a saved product reference
type WishlistItem struct {
	shared.BaseEntity
	WishlistID uuid.UUID `gorm:"type:uuid;not null;index:idx_wishlist_product,unique" json:"wishlist_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index:idx_wishlist_product,unique" json:"product_id"`
	AddedAt    time.Time `gorm:"not null" json:"added_at"`
}

// TableName returns the table name for the Wishlist model
func (Wishlist) TableName() string {
	return "wishlists"
}

// TableName returns the table name for the WishlistItem model
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// NewWishlist creates an empty wishlist for a customer
func NewWishlist(userID uuid.UUID) (*Wishlist, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "user ID is required")
	}
	return &Wishlist{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
	}, nil
}

// AddProduct saves a product to the wishlist. Adding a product that is
// already saved is a no-op.
func (w *Wishlist) AddProduct(productID uuid.UUID) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "product ID is required")
	}
	if w.Contains(productID) {
		return nil
	}
	w.Items = append(w.Items, WishlistItem{
		BaseEntity: shared.NewBaseEntity(),
		WishlistID: w.ID,
		ProductID:  productID,
		AddedAt:    time.Now(),
	})
	w.IncrementVersion()
	return nil
}

// RemoveProduct removes a saved product from the wishlist
func (w *Wishlist) RemoveProduct(productID uuid.UUID) error {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			w.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Contains reports whether a product is saved in the wishlist
func (w *Wishlist) Contains(productID uuid.UUID) bool {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}
