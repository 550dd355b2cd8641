package review

import (
	"time"

	"github.com/dropship/backend/internal/domain/review"
	"github.com/google/uuid"
)

// SubmitReviewRequest represents creating or updating a product review
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=200"`
	Comment string `json:"comment" binding:"max=5000"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	UserID           uuid.UUID `json:"user_id"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title,omitempty"`
	Comment          string    `json:"comment,omitempty"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	IsApproved       bool      `json:"is_approved"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProductReviewsResponse pairs a page of reviews with the product's
// rating summary
type ProductReviewsResponse struct {
	Items   []ReviewResponse     `json:"items"`
	Summary review.RatingSummary `json:"summary"`
}

// ToReviewResponse converts a domain Review to ReviewResponse
func ToReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:               r.ID,
		ProductID:        r.ProductID,
		UserID:           r.UserID,
		Rating:           r.Rating,
		Title:            r.Title,
		Comment:          r.Comment,
		VerifiedPurchase: r.VerifiedPurchase,
		IsApproved:       r.IsApproved,
		CreatedAt:        r.CreatedAt,
	}
}
