package handler

import (
	"strconv"

	reviewapp "github.com/dropship/backend/internal/application/review"
	"github.com/gin-gonic/gin"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Submit creates or updates the current user's review of a product
func (h *ReviewHandler) Submit(c *gin.Context) {
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

	var req reviewapp.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, review)
}

// ListByProduct retrieves approved reviews for a product along with its
// rating summary
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, err := h.reviewService.ListByProduct(c.Request.Context(), productID, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reviews)
}

// MyReviews retrieves the current user's reviews
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviews, err := h.reviewService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reviews)
}

// Delete removes one of the current user's reviews
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, reviewID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Approve makes a review publicly visible
func (h *ReviewHandler) Approve(c *gin.Context) {
	h.moderate(c, true)
}

// Reject hides a review from the storefront
func (h *ReviewHandler) Reject(c *gin.Context) {
	h.moderate(c, false)
}

func (h *ReviewHandler) moderate(c *gin.Context, approve bool) {
	reviewID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	review, err := h.reviewService.Moderate(c.Request.Context(), reviewID, approve)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, review)
}
