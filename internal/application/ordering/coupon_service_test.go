package ordering

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/ordering"
	"github.com/dropship/backend/internal/domain/shared"
)

func TestCouponService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a coupon with a normalized code", func(t *testing.T) {
		coupons := new(MockCouponRepository)
		coupons.On("Save", ctx, mock.AnythingOfType("*ordering.Coupon")).Return(nil)

		service := NewCouponService(coupons, zap.NewNop())
		minOrder := decimal.NewFromInt(50)
		resp, err := service.Create(ctx, CreateCouponRequest{
			Code:           " summer20 ",
			Type:           "percent",
			Value:          decimal.NewFromInt(20),
			MinOrderAmount: &minOrder,
		})

		require.NoError(t, err)
		assert.Equal(t, "SUMMER20", resp.Code)
		assert.True(t, resp.MinOrderAmount.Equal(minOrder))
		assert.True(t, resp.IsActive)
	})

	t.Run("reports a duplicate code as a conflict", func(t *testing.T) {
		coupons := new(MockCouponRepository)
		coupons.On("Save", ctx, mock.AnythingOfType("*ordering.Coupon")).Return(shared.ErrAlreadyExists)

		service := NewCouponService(coupons, zap.NewNop())
		_, err := service.Create(ctx, CreateCouponRequest{
			Code: "DUPE", Type: "fixed", Value: decimal.NewFromInt(5),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects an invalid value without saving", func(t *testing.T) {
		coupons := new(MockCouponRepository)

		service := NewCouponService(coupons, zap.NewNop())
		_, err := service.Create(ctx, CreateCouponRequest{
			Code: "BAD", Type: "percent", Value: decimal.NewFromInt(200),
		})

		require.Error(t, err)
		coupons.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCouponService_Deactivate(t *testing.T) {
	ctx := context.Background()
	coupons := new(MockCouponRepository)

	coupon, err := ordering.NewCoupon("PAUSE", ordering.CouponTypeFixed, decimal.NewFromInt(5))
	require.NoError(t, err)

	coupons.On("FindByID", ctx, coupon.ID).Return(coupon, nil)
	coupons.On("Save", ctx, coupon).Return(nil)

	service := NewCouponService(coupons, zap.NewNop())
	resp, err := service.Deactivate(ctx, coupon.ID)

	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.False(t, coupon.IsActive)
}
