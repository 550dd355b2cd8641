package shopping

import (
	"context"
	"errors"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shopping"
	"github.com/google/uuid"
)

// WishlistService handles saved-product use cases. Wishlists require a
// registered customer.
type WishlistService struct {
	wishlists shopping.WishlistRepository
	products  catalog.ProductRepository
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(wishlists shopping.WishlistRepository, products catalog.ProductRepository) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products}
}

// Get returns the customer's wishlist, creating an empty one on first use
func (s *WishlistService) Get(ctx context.Context, userID uuid.UUID) (*WishlistResponse, error) {
	wishlist, err := s.findOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, wishlist)
}

// AddProduct saves a product to the customer's wishlist. Re-adding a
// saved product is a no-op.
func (s *WishlistService) AddProduct(ctx context.Context, userID, productID uuid.UUID) (*WishlistResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist")
		}
		return nil, err
	}

	wishlist, err := s.findOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := wishlist.AddProduct(productID); err != nil {
		return nil, err
	}
	if err := s.wishlists.Save(ctx, wishlist); err != nil {
		return nil, err
	}
	return s.respond(ctx, wishlist)
}

// RemoveProduct removes a saved product from the wishlist
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) (*WishlistResponse, error) {
	wishlist, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := wishlist.RemoveProduct(productID); err != nil {
		return nil, err
	}
	if err := s.wishlists.Save(ctx, wishlist); err != nil {
		return nil, err
	}
	return s.respond(ctx, wishlist)
}

func (s *WishlistService) findOrCreate(ctx context.Context, userID uuid.UUID) (*shopping.Wishlist, error) {
	wishlist, err := s.wishlists.FindByUser(ctx, userID)
	if err == nil {
		return wishlist, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return shopping.NewWishlist(userID)
}

func (s *WishlistService) respond(ctx context.Context, wishlist *shopping.Wishlist) (*WishlistResponse, error) {
	products := make(map[uuid.UUID]*catalog.Product, len(wishlist.Items))
	for i := range wishlist.Items {
		id := wishlist.Items[i].ProductID
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		products[id] = product
	}
	resp := ToWishlistResponse(wishlist, products)
	return &resp, nil
}
