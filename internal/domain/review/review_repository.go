package review

import (
	"context"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RatingSummary aggregates the approved reviews of a product
type RatingSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByProduct finds approved reviews for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)

	// FindByProductAndUser finds a customer's review of a product
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*Review, error)

	// FindByUser finds all reviews written by a customer
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Review, error)

	// SummarizeProduct returns the approved review count and average
	// rating for a product
	SummarizeProduct(ctx context.Context, productID uuid.UUID) (RatingSummary, error)

	// Save creates or updates a review
	Save(ctx context.Context, review *Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id uuid.UUID) error
}
