package shopping

import (
	"context"
	"errors"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shopping"
	"github.com/google/uuid"
)

// CartService handles shopping cart use cases for customers and
// anonymous visitors
type CartService struct {
	carts    shopping.CartRepository
	products catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(carts shopping.CartRepository, products catalog.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the owner's cart, creating an empty one on first use
func (s *CartService) Get(ctx context.Context, owner CartOwner) (*CartResponse, error) {
	cart, err := s.findOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, cart)
}

// AddItem adds a purchasable product to the owner's cart. The current
// selling price is captured on the line.
func (s *CartService) AddItem(ctx context.Context, owner CartOwner, req AddItemRequest) (*CartResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist")
		}
		return nil, err
	}
	if product.Status != catalog.ProductStatusActive {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
	}
	if !product.IsInStock() {
		return nil, shared.ErrInsufficientStock
	}
	if product.TrackInventory && !product.AllowBackorder && req.Quantity > product.StockQuantity {
		return nil, shared.ErrInsufficientStock
	}

	cart, err := s.findOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(product.ID, product.SellingPrice, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.respond(ctx, cart)
}

// UpdateItem sets a cart line's quantity. Zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, owner CartOwner, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	cart, err := s.find(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateItemQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.respond(ctx, cart)
}

// RemoveItem removes a product's line from the cart
func (s *CartService) RemoveItem(ctx context.Context, owner CartOwner, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.find(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.respond(ctx, cart)
}

// Clear empties the owner's cart
func (s *CartService) Clear(ctx context.Context, owner CartOwner) error {
	cart, err := s.find(ctx, owner)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	cart.Clear()
	return s.carts.Save(ctx, cart)
}

// Merge claims a session cart for a customer after login. Lines from
// the session cart are merged into the customer's existing cart.
func (s *CartService) Merge(ctx context.Context, sessionKey string, userID uuid.UUID) error {
	sessionCart, err := s.carts.FindBySession(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	userCart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		if err := sessionCart.AttachToUser(userID); err != nil {
			return err
		}
		return s.carts.Save(ctx, sessionCart)
	}
	if err != nil {
		return err
	}

	for i := range sessionCart.Items {
		item := &sessionCart.Items[i]
		if err := userCart.AddItem(item.ProductID, item.UnitPrice, item.Quantity); err != nil {
			return err
		}
	}
	if err := s.carts.Save(ctx, userCart); err != nil {
		return err
	}
	return s.carts.Delete(ctx, sessionCart.ID)
}

func (s *CartService) find(ctx context.Context, owner CartOwner) (*shopping.Cart, error) {
	if owner.UserID != nil {
		return s.carts.FindByUser(ctx, *owner.UserID)
	}
	if owner.SessionKey == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "session key is required")
	}
	return s.carts.FindBySession(ctx, owner.SessionKey)
}

func (s *CartService) findOrCreate(ctx context.Context, owner CartOwner) (*shopping.Cart, error) {
	cart, err := s.find(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if owner.UserID != nil {
		return shopping.NewCartForUser(*owner.UserID)
	}
	return shopping.NewCartForSession(owner.SessionKey)
}

func (s *CartService) respond(ctx context.Context, cart *shopping.Cart) (*CartResponse, error) {
	products, err := s.resolveProducts(ctx, cartProductIDs(cart))
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(cart, products)
	return &resp, nil
}

// resolveProducts loads product details for response enrichment.
// Products deleted since being added are simply left unresolved.
func (s *CartService) resolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	products := make(map[uuid.UUID]*catalog.Product, len(ids))
	for _, id := range ids {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		products[id] = product
	}
	return products, nil
}

func cartProductIDs(cart *shopping.Cart) []uuid.UUID {
	ids := make([]uuid.UUID, len(cart.Items))
	for i := range cart.Items {
		ids[i] = cart.Items[i].ProductID
	}
	return ids
}
