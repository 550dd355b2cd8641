package review

import (
	"context"
	"errors"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/ordering"
	"github.com/dropship/backend/internal/domain/review"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReviewService handles product review use cases
type ReviewService struct {
	reviews  review.ReviewRepository
	products catalog.ProductRepository
	orders   ordering.OrderRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviews review.ReviewRepository,
	products catalog.ProductRepository,
	orders ordering.OrderRepository,
) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, orders: orders}
}

// Submit creates a customer's review of a product, or updates their
// existing one. The verified-purchase flag is set when the customer has
// a delivered order containing the product.
func (s *ReviewService) Submit(ctx context.Context, userID, productID uuid.UUID, req SubmitReviewRequest) (*ReviewResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist")
		}
		return nil, err
	}

	existing, err := s.reviews.FindByProductAndUser(ctx, productID, userID)
	if err == nil {
		if err := existing.Update(req.Rating, req.Title, req.Comment); err != nil {
			return nil, err
		}
		if err := s.reviews.Save(ctx, existing); err != nil {
			return nil, err
		}
		resp := ToReviewResponse(existing)
		return &resp, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	r, err := review.NewReview(productID, userID, req.Rating, req.Title, req.Comment)
	if err != nil {
		return nil, err
	}

	verified, err := s.hasDeliveredPurchase(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if verified {
		r.MarkVerified()
	}

	if err := s.reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToReviewResponse(r)
	return &resp, nil
}

// ListByProduct retrieves approved reviews and the rating summary for a
// product page
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) (*ProductReviewsResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 && pageSize > 0 {
		filter.Page = page
		filter.PageSize = pageSize
	}

	reviews, err := s.reviews.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.SummarizeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	resp := &ProductReviewsResponse{
		Items:   make([]ReviewResponse, len(reviews)),
		Summary: summary,
	}
	for i := range reviews {
		resp.Items[i] = ToReviewResponse(&reviews[i])
	}
	return resp, nil
}

// ListByUser retrieves the reviews a customer has written
func (s *ReviewService) ListByUser(ctx context.Context, userID uuid.UUID) ([]ReviewResponse, error) {
	reviews, err := s.reviews.FindByUser(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses, nil
}

// Delete removes a customer's own review
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	r, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if r.UserID != userID {
		return shared.ErrForbidden
	}
	return s.reviews.Delete(ctx, reviewID)
}

// Moderate approves or rejects a review
func (s *ReviewService) Moderate(ctx context.Context, reviewID uuid.UUID, approve bool) (*ReviewResponse, error) {
	r, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if approve {
		r.Approve()
	} else {
		r.Reject()
	}
	if err := s.reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToReviewResponse(r)
	return &resp, nil
}

func (s *ReviewService) hasDeliveredPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	filter.Filters["status"] = string(ordering.OrderStatusDelivered)

	orders, err := s.orders.FindByUser(ctx, userID, filter)
	if err != nil {
		return false, err
	}
	for i := range orders {
		order := &orders[i]
		for j := range order.Items {
			if order.Items[j].ProductID != nil && *order.Items[j].ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}
