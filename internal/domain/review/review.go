package review

import (
	"strings"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Review is a customer rating of a product. One review per customer per
// product, enforced by a unique index.
type Review struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_review_product_user,unique" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_review_product_user,unique" json:"user_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Title   string `gorm:"size:200" json:"title,omitempty"`
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	// VerifiedPurchase is set when the reviewer has a delivered order
	// containing the product.
	VerifiedPurchase bool `gorm:"not null;default:false" json:"verified_purchase"`
	IsApproved       bool `gorm:"not null;default:true;index" json:"is_approved"`
}

// TableName returns the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates an approved review with a 1-5 star rating
func NewReview(productID, userID uuid.UUID, rating int, title, comment string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product ID is required")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "user ID is required")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "rating must be between 1 and 5")
	}

	return &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		Rating:            rating,
		Title:             strings.TrimSpace(title),
		Comment:           strings.TrimSpace(comment),
		IsApproved:        true,
	}, nil
}

// Update changes the rating and text of an existing review
func (r *Review) Update(rating int, title, comment string) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "rating must be between 1 and 5")
	}
	r.Rating = rating
	r.Title = strings.TrimSpace(title)
	r.Comment = strings.TrimSpace(comment)
	r.IncrementVersion()
	return nil
}

// MarkVerified flags the review as coming from a delivered purchase
func (r *Review) MarkVerified() {
	r.VerifiedPurchase = true
}

// Approve makes the review publicly visible
func (r *Review) Approve() {
	r.IsApproved = true
	r.IncrementVersion()
}

// Reject hides the review from public listings
func (r *Review) Reject() {
	r.IsApproved = false
	r.IncrementVersion()
}
