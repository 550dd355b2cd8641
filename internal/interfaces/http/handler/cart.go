package handler

import (
	shoppingapp "github.com/dropship/backend/internal/application/shopping"
	"github.com/dropship/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles cart endpoints for both logged-in and anonymous
// shoppers
type CartHandler struct {
	BaseHandler
	cartService *shoppingapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *shoppingapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// cartOwner identifies the cart by user ID when authenticated and by
// session key otherwise
func cartOwner(c *gin.Context) shoppingapp.CartOwner {
	if userID := middleware.GetJWTUserUUID(c); userID != uuid.Nil {
		return shoppingapp.CartOwner{UserID: &userID}
	}
	return shoppingapp.CartOwner{SessionKey: middleware.GetSessionKey(c)}
}

// Get retrieves the caller's cart
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), cartOwner(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem adds a product to the caller's cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req shoppingapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), cartOwner(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem changes the quantity of a cart line. Quantity zero removes
// the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req shoppingapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), cartOwner(c), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem removes a product from the caller's cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), cartOwner(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// Clear empties the caller's cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), cartOwner(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
