package ordering

import (
	"strings"
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CouponType distinguishes percentage discounts from fixed amounts
type CouponType string

const (
	CouponTypePercent CouponType = "percent"
	CouponTypeFixed   CouponType = "fixed"
)

// Coupon is a discount code redeemable at checkout. Codes are stored
// uppercase so lookups are case-insensitive.
type Coupon struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"size:40;not null;uniqueIndex" json:"code"`
	Type           CouponType      `gorm:"size:10;not null" json:"type"`
	Value          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value"`
	MinOrderAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"min_order_amount"`
	MaxUses        int             `gorm:"not null;default:0" json:"max_uses"`
	UsedCount      int             `gorm:"not null;default:0" json:"used_count"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	ValidFrom      *time.Time      `json:"valid_from,omitempty"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// NewCoupon creates an active coupon. A percent coupon's value is the
// percentage taken off the subtotal; a fixed coupon's value is the
// amount taken off, capped at the subtotal.
func NewCoupon(code string, couponType CouponType, value decimal.Decimal) (*Coupon, error) {
	code = NormalizeCouponCode(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_COUPON_CODE", "coupon code is required")
	}
	if len(code) > 40 {
		return nil, shared.NewDomainError("INVALID_COUPON_CODE", "coupon code cannot exceed 40 characters")
	}

	switch couponType {
	case CouponTypePercent:
		if value.LessThanOrEqual(decimal.Zero) || value.GreaterThan(decimal.NewFromInt(100)) {
			return nil, shared.NewDomainError("INVALID_COUPON_VALUE", "percent discount must be between 0 and 100")
		}
	case CouponTypeFixed:
		if value.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_COUPON_VALUE", "fixed discount must be positive")
		}
	default:
		return nil, shared.NewDomainError("INVALID_COUPON_TYPE", "coupon type must be percent or fixed")
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Type:              couponType,
		Value:             value,
		MinOrderAmount:    decimal.Zero,
		IsActive:          true,
	}, nil
}

// NormalizeCouponCode uppercases and trims a coupon code for lookup
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SetMinOrderAmount requires a minimum subtotal before the coupon applies
func (c *Coupon) SetMinOrderAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_ORDER", "minimum order amount cannot be negative")
	}
	c.MinOrderAmount = amount
	c.UpdatedAt = time.Now()
	return nil
}

// SetUsageLimit caps total redemptions. Zero means unlimited.
func (c *Coupon) SetUsageLimit(maxUses int) error {
	if maxUses < 0 {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "usage limit cannot be negative")
	}
	c.MaxUses = maxUses
	c.UpdatedAt = time.Now()
	return nil
}

// SetValidity restricts the coupon to a redemption window. Either bound
// may be nil for an open end.
func (c *Coupon) SetValidity(from, until *time.Time) error {
	if from != nil && until != nil && until.Before(*from) {
		return shared.NewDomainError("INVALID_VALIDITY_WINDOW", "valid_until cannot precede valid_from")
	}
	c.ValidFrom = from
	c.ValidUntil = until
	c.UpdatedAt = time.Now()
	return nil
}

// Activate makes the coupon redeemable again
func (c *Coupon) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate withdraws the coupon without deleting its redemption history
func (c *Coupon) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// DiscountFor returns the discount this coupon grants on the given
// subtotal, or a domain error explaining why it cannot be redeemed.
func (c *Coupon) DiscountFor(subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !c.IsActive {
		return decimal.Zero, shared.NewDomainError("COUPON_INACTIVE", "coupon is no longer active")
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return decimal.Zero, shared.NewDomainError("COUPON_NOT_STARTED", "coupon is not valid yet")
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return decimal.Zero, shared.NewDomainError("COUPON_EXPIRED", "coupon has expired")
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return decimal.Zero, shared.NewDomainError("COUPON_EXHAUSTED", "coupon usage limit reached")
	}
	if subtotal.LessThan(c.MinOrderAmount) {
		return decimal.Zero, shared.NewDomainError("COUPON_MIN_ORDER_NOT_MET",
			"order subtotal is below the coupon minimum")
	}

	if c.Type == CouponTypePercent {
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2), nil
	}
	// A fixed discount never exceeds the subtotal
	if c.Value.GreaterThan(subtotal) {
		return subtotal, nil
	}
	return c.Value, nil
}

// Redeem records one use of the coupon
func (c *Coupon) Redeem() {
	c.UsedCount++
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
