package ordering

import (
	"testing"
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoupon(t *testing.T) {
	t.Run("normalizes the code", func(t *testing.T) {
		coupon, err := NewCoupon("  welcome10 ", CouponTypePercent, decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, "WELCOME10", coupon.Code)
		assert.True(t, coupon.IsActive)
		assert.Equal(t, 0, coupon.UsedCount)
	})

	t.Run("rejects an empty code", func(t *testing.T) {
		_, err := NewCoupon("   ", CouponTypeFixed, decimal.NewFromInt(5))
		assertDomainCode(t, err, "INVALID_COUPON_CODE")
	})

	t.Run("rejects a percent discount over 100", func(t *testing.T) {
		_, err := NewCoupon("TOOMUCH", CouponTypePercent, decimal.NewFromInt(150))
		assertDomainCode(t, err, "INVALID_COUPON_VALUE")
	})

	t.Run("rejects a non-positive fixed discount", func(t *testing.T) {
		_, err := NewCoupon("ZERO", CouponTypeFixed, decimal.Zero)
		assertDomainCode(t, err, "INVALID_COUPON_VALUE")
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		_, err := NewCoupon("ODD", CouponType("bogus"), decimal.NewFromInt(5))
		assertDomainCode(t, err, "INVALID_COUPON_TYPE")
	})
}

func TestCoupon_DiscountFor(t *testing.T) {
	now := time.Now()

	t.Run("percent discount rounds to cents", func(t *testing.T) {
		coupon, err := NewCoupon("SAVE15", CouponTypePercent, decimal.NewFromInt(15))
		require.NoError(t, err)

		discount, err := coupon.DiscountFor(decimal.NewFromFloat(33.33), now)

		require.NoError(t, err)
		assert.True(t, discount.Equal(decimal.NewFromFloat(5.00)), "got %s", discount)
	})

	t.Run("fixed discount is capped at the subtotal", func(t *testing.T) {
		coupon, err := NewCoupon("TENOFF", CouponTypeFixed, decimal.NewFromInt(10))
		require.NoError(t, err)

		discount, err := coupon.DiscountFor(decimal.NewFromFloat(7.50), now)

		require.NoError(t, err)
		assert.True(t, discount.Equal(decimal.NewFromFloat(7.50)))
	})

	t.Run("enforces the minimum order amount", func(t *testing.T) {
		coupon, err := NewCoupon("BIGSPEND", CouponTypeFixed, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, coupon.SetMinOrderAmount(decimal.NewFromInt(50)))

		_, err = coupon.DiscountFor(decimal.NewFromInt(49), now)
		assertDomainCode(t, err, "COUPON_MIN_ORDER_NOT_MET")

		discount, err := coupon.DiscountFor(decimal.NewFromInt(50), now)
		require.NoError(t, err)
		assert.True(t, discount.Equal(decimal.NewFromInt(10)))
	})

	t.Run("enforces the usage limit", func(t *testing.T) {
		coupon, err := NewCoupon("LIMITED", CouponTypeFixed, decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, coupon.SetUsageLimit(2))

		coupon.Redeem()
		coupon.Redeem()

		_, err = coupon.DiscountFor(decimal.NewFromInt(100), now)
		assertDomainCode(t, err, "COUPON_EXHAUSTED")
	})

	t.Run("enforces the validity window", func(t *testing.T) {
		coupon, err := NewCoupon("WINDOW", CouponTypeFixed, decimal.NewFromInt(5))
		require.NoError(t, err)
		from := now.Add(time.Hour)
		until := now.Add(2 * time.Hour)
		require.NoError(t, coupon.SetValidity(&from, &until))

		_, err = coupon.DiscountFor(decimal.NewFromInt(100), now)
		assertDomainCode(t, err, "COUPON_NOT_STARTED")

		_, err = coupon.DiscountFor(decimal.NewFromInt(100), now.Add(90*time.Minute))
		assert.NoError(t, err)

		_, err = coupon.DiscountFor(decimal.NewFromInt(100), now.Add(3*time.Hour))
		assertDomainCode(t, err, "COUPON_EXPIRED")
	})

	t.Run("rejects a deactivated coupon", func(t *testing.T) {
		coupon, err := NewCoupon("GONE", CouponTypeFixed, decimal.NewFromInt(5))
		require.NoError(t, err)
		coupon.Deactivate()

		_, err = coupon.DiscountFor(decimal.NewFromInt(100), now)
		assertDomainCode(t, err, "COUPON_INACTIVE")
	})
}

func TestOrder_ApplyDiscount(t *testing.T) {
	order := mustOrderWithItem(t, decimal.NewFromInt(20), 2)
	require.NoError(t, order.SetShippingCost(decimal.NewFromInt(5)))

	t.Run("discount comes off the subtotal, shipping charged in full", func(t *testing.T) {
		require.NoError(t, order.ApplyDiscount("SAVE10", decimal.NewFromInt(10)))

		assert.Equal(t, "SAVE10", order.CouponCode)
		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(40)))
		assert.True(t, order.Total.Equal(decimal.NewFromInt(35)))
	})

	t.Run("rejects a discount larger than the subtotal", func(t *testing.T) {
		err := order.ApplyDiscount("HUGE", decimal.NewFromInt(100))
		assertDomainCode(t, err, "INVALID_DISCOUNT")
	})
}

func mustOrderWithItem(t *testing.T, unitPrice decimal.Decimal, quantity int) *Order {
	t.Helper()
	order, err := NewOrder(nil, ShippingDetails{
		Email: "jane@example.com", Name: "Jane Doe",
		Address: "1 Main St", City: "Springfield", Country: "USA",
	})
	require.NoError(t, err)
	require.NoError(t, order.AddItem(nil, "Gadget", "SKU-1", unitPrice, quantity))
	return order
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
