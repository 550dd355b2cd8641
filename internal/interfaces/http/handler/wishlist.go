package handler

import (
	shoppingapp "github.com/dropship/backend/internal/application/shopping"
	"github.com/gin-gonic/gin"
)

// WishlistHandler handles wishlist endpoints for authenticated users
type WishlistHandler struct {
	BaseHandler
	wishlistService *shoppingapp.WishlistService
	cartService     *shoppingapp.CartService
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService *shoppingapp.WishlistService, cartService *shoppingapp.CartService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, cartService: cartService}
}

// Get retrieves the current user's wishlist
func (h *WishlistHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	wishlist, err := h.wishlistService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// AddProduct adds a product to the current user's wishlist
func (h *WishlistHandler) AddProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	wishlist, err := h.wishlistService.AddProduct(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// RemoveProduct removes a product from the current user's wishlist
func (h *WishlistHandler) RemoveProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	wishlist, err := h.wishlistService.RemoveProduct(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// MoveToCart moves a wishlist entry into the user's cart. The entry is
// removed only after the cart add succeeds.
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	owner := shoppingapp.CartOwner{UserID: &userID}
	req := shoppingapp.AddItemRequest{ProductID: productID, Quantity: 1}
	if _, err := h.cartService.AddItem(c.Request.Context(), owner, req); err != nil {
		h.HandleError(c, err)
		return
	}

	wishlist, err := h.wishlistService.RemoveProduct(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wishlist)
}
