package shopping

import (
	"time"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartOwner identifies whose cart an operation targets: a logged-in
// customer or an anonymous session.
type CartOwner struct {
	UserID     *uuid.UUID
	SessionKey string
}

// AddItemRequest represents adding a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents changing a cart line's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	MainImageURL string          `json:"main_image_url,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	InStock      bool            `json:"in_stock"`
	AddedAt      time.Time       `json:"added_at"`
}

// CartResponse represents the cart in API responses
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
}

// WishlistItemResponse represents a saved product
type WishlistItemResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	MainImageURL string          `json:"main_image_url,omitempty"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	InStock      bool            `json:"in_stock"`
	AddedAt      time.Time       `json:"added_at"`
}

// WishlistResponse represents the wishlist in API responses
type WishlistResponse struct {
	ID    uuid.UUID              `json:"id"`
	Items []WishlistItemResponse `json:"items"`
}

// ToCartResponse converts a domain Cart with its resolved products
func ToCartResponse(cart *shopping.Cart, products map[uuid.UUID]*catalog.Product) CartResponse {
	resp := CartResponse{
		ID:         cart.ID,
		Items:      make([]CartItemResponse, 0, len(cart.Items)),
		TotalItems: cart.TotalItems(),
		Subtotal:   cart.TotalPrice(),
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		line := CartItemResponse{
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
			AddedAt:   item.AddedAt,
		}
		if product, ok := products[item.ProductID]; ok {
			line.ProductName = product.Name
			line.ProductSlug = product.Slug
			line.MainImageURL = product.MainImageURL
			line.InStock = product.IsInStock()
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}

// ToWishlistResponse converts a domain Wishlist with its resolved products
func ToWishlistResponse(wishlist *shopping.Wishlist, products map[uuid.UUID]*catalog.Product) WishlistResponse {
	resp := WishlistResponse{
		ID:    wishlist.ID,
		Items: make([]WishlistItemResponse, 0, len(wishlist.Items)),
	}
	for i := range wishlist.Items {
		item := &wishlist.Items[i]
		line := WishlistItemResponse{
			ProductID: item.ProductID,
			AddedAt:   item.AddedAt,
		}
		if product, ok := products[item.ProductID]; ok {
			line.ProductName = product.Name
			line.ProductSlug = product.Slug
			line.MainImageURL = product.MainImageURL
			line.SellingPrice = product.SellingPrice
			line.InStock = product.IsInStock()
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
