package handler

import (
	orderingapp "github.com/dropship/backend/internal/application/ordering"
	"github.com/gin-gonic/gin"
)

// CouponHandler handles admin discount code endpoints
type CouponHandler struct {
	BaseHandler
	couponService *orderingapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *orderingapp.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// Create creates a new coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req orderingapp.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, coupon)
}

// GetByID retrieves a coupon by ID
func (h *CouponHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	coupon, err := h.couponService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// List retrieves a paginated coupon list
func (h *CouponHandler) List(c *gin.Context) {
	var filter orderingapp.CouponListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindError(c, err)
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	coupons, total, err := h.couponService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, coupons, total, filter.Page, filter.PageSize)
}

// Activate makes a coupon redeemable again
func (h *CouponHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	coupon, err := h.couponService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Deactivate withdraws a coupon from circulation
func (h *CouponHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	coupon, err := h.couponService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Delete removes a coupon
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
