package ordering

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/ordering"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CouponService handles discount code administration
type CouponService struct {
	coupons ordering.CouponRepository
	logger  *zap.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(coupons ordering.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{coupons: coupons, logger: logger}
}

// Create creates a new coupon
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	coupon, err := ordering.NewCoupon(req.Code, ordering.CouponType(req.Type), req.Value)
	if err != nil {
		return nil, err
	}
	if req.MinOrderAmount != nil {
		if err := coupon.SetMinOrderAmount(*req.MinOrderAmount); err != nil {
			return nil, err
		}
	}
	if req.MaxUses != nil {
		if err := coupon.SetUsageLimit(*req.MaxUses); err != nil {
			return nil, err
		}
	}
	if req.ValidFrom != nil || req.ValidUntil != nil {
		if err := coupon.SetValidity(req.ValidFrom, req.ValidUntil); err != nil {
			return nil, err
		}
	}

	if err := s.coupons.Save(ctx, coupon); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A coupon with this code already exists")
		}
		return nil, err
	}

	s.logger.Info("Coupon created",
		zap.String("code", coupon.Code),
		zap.String("type", string(coupon.Type)))

	resp := ToCouponResponse(coupon)
	return &resp, nil
}

// GetByID retrieves a coupon by ID
func (s *CouponService) GetByID(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCouponResponse(coupon)
	return &resp, nil
}

// List retrieves coupons matching the filter
func (s *CouponService) List(ctx context.Context, filter CouponListFilter) ([]CouponResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}

	coupons, err := s.coupons.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.coupons.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CouponResponse, len(coupons))
	for i := range coupons {
		responses[i] = ToCouponResponse(&coupons[i])
	}
	return responses, total, nil
}

// Activate makes a coupon redeemable again
func (s *CouponService) Activate(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	return s.mutate(ctx, id, func(c *ordering.Coupon) { c.Activate() })
}

// Deactivate withdraws a coupon from circulation
func (s *CouponService) Deactivate(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	return s.mutate(ctx, id, func(c *ordering.Coupon) { c.Deactivate() })
}

// Delete removes a coupon. Orders that already redeemed it keep their
// discount since the code is snapshotted onto the order.
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.coupons.Delete(ctx, id)
}

func (s *CouponService) mutate(ctx context.Context, id uuid.UUID, fn func(*ordering.Coupon)) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(coupon)
	if err := s.coupons.Save(ctx, coupon); err != nil {
		return nil, err
	}
	resp := ToCouponResponse(coupon)
	return &resp, nil
}
