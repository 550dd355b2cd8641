package ordering

import (
	"time"

	"github.com/dropship/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest represents placing an order from the current cart
type CheckoutRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=20"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required,max=100"`
	Postal  string `json:"postal" binding:"max=20"`
	Country string `json:"country" binding:"required,max=100"`
	Note    string `json:"note" binding:"max=1000"`

	CouponCode string `json:"coupon_code" binding:"omitempty,max=40"`
}

// TrackRequest represents a guest order tracking lookup
type TrackRequest struct {
	OrderNumber string `form:"order_number" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
}

// ShipRequest represents marking an order shipped
type ShipRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,max=100"`
}

// MarkPaidRequest records a successful payment
type MarkPaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,max=50"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	ShippingCity    string              `json:"shipping_city"`
	ShippingPostal  string              `json:"shipping_postal,omitempty"`
	ShippingCountry string              `json:"shipping_country"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	Discount        decimal.Decimal     `json:"discount"`
	CouponCode      string              `json:"coupon_code,omitempty"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	PaymentMethod   string              `json:"payment_method,omitempty"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	CustomerNote    string              `json:"customer_note,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

// TrackingResponse is the reduced view returned to guest tracking
// lookups. It omits contact details beyond what the caller supplied.
type TrackingResponse struct {
	OrderNumber    string          `json:"order_number"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"payment_status"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	Total          decimal.Decimal `json:"total"`
	ShippedAt      *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateCouponRequest represents creating a discount code
type CreateCouponRequest struct {
	Code           string           `json:"code" binding:"required,max=40"`
	Type           string           `json:"type" binding:"required,oneof=percent fixed"`
	Value          decimal.Decimal  `json:"value" binding:"required"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	MaxUses        *int             `json:"max_uses" binding:"omitempty,min=0"`
	ValidFrom      *time.Time       `json:"valid_from"`
	ValidUntil     *time.Time       `json:"valid_until"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	MaxUses        int             `json:"max_uses"`
	UsedCount      int             `json:"used_count"`
	IsActive       bool            `json:"is_active"`
	ValidFrom      *time.Time      `json:"valid_from,omitempty"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CouponListFilter represents filter options for admin coupon listings
type CouponListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCouponResponse converts a domain Coupon to CouponResponse
func ToCouponResponse(c *ordering.Coupon) CouponResponse {
	return CouponResponse{
		ID:             c.ID,
		Code:           c.Code,
		Type:           string(c.Type),
		Value:          c.Value,
		MinOrderAmount: c.MinOrderAmount,
		MaxUses:        c.MaxUses,
		UsedCount:      c.UsedCount,
		IsActive:       c.IsActive,
		ValidFrom:      c.ValidFrom,
		ValidUntil:     c.ValidUntil,
		CreatedAt:      c.CreatedAt,
	}
}

// OrderListFilter represents filter options for admin order listings
type OrderListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerEmail:   o.CustomerEmail,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		ShippingCity:    o.ShippingCity,
		ShippingPostal:  o.ShippingPostal,
		ShippingCountry: o.ShippingCountry,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Discount:        o.Discount,
		CouponCode:      o.CouponCode,
		Total:           o.Total,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentMethod:   o.PaymentMethod,
		TrackingNumber:  o.TrackingNumber,
		CustomerNote:    o.CustomerNote,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

// ToTrackingResponse converts a domain Order to its guest tracking view
func ToTrackingResponse(o *ordering.Order) TrackingResponse {
	return TrackingResponse{
		OrderNumber:    o.OrderNumber,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		TrackingNumber: o.TrackingNumber,
		Total:          o.Total,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CreatedAt:      o.CreatedAt,
	}
}
