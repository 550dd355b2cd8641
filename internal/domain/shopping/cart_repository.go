package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByUser finds the open cart owned by a customer
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// FindBySession finds the open cart keyed by an anonymous session
	FindBySession(ctx context.Context, sessionKey string) (*Cart, error)

	// Save creates or updates a cart and its items
	Save(ctx context.Context, cart *Cart) error

	// Delete deletes a cart and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// WishlistRepository defines the interface for wishlist persistence
type WishlistRepository interface {
	// FindByUser finds a customer's wishlist, items included
	FindByUser(ctx context.Context, userID uuid.UUID) (*Wishlist, error)

	// Save creates or updates a wishlist and its items
	Save(ctx context.Context, wishlist *Wishlist) error

	// Delete deletes a wishlist and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
