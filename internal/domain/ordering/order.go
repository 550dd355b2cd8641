package ordering

import (
	"fmt"
	"strings"
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents where an order is in its fulfillment lifecycle
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order is a customer order. Orders are placed by registered customers
// or guests; guests are tracked by the email captured at checkout.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string     `gorm:"size:20;not null;uniqueIndex" json:"order_number"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`

	CustomerEmail string `gorm:"size:254;not null;index" json:"customer_email"`
	CustomerName  string `gorm:"size:200;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone,omitempty"`

	ShippingAddress string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity    string `gorm:"size:100;not null" json:"shipping_city"`
	ShippingPostal  string `gorm:"size:20" json:"shipping_postal,omitempty"`
	ShippingCountry string `gorm:"size:100;not null" json:"shipping_country"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"shipping_cost"`
	Discount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	CouponCode   string          `gorm:"size:40" json:"coupon_code,omitempty"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	Status         OrderStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	PaymentMethod  string        `gorm:"size:50" json:"payment_method,omitempty"`
	TrackingNumber string        `gorm:"size:100" json:"tracking_number,omitempty"`
	CustomerNote   string        `gorm:"type:text" json:"customer_note,omitempty"`

	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a line in an order. Product name, SKU and price are
// copied at checkout so the order survives catalog changes.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName string          `gorm:"size:200;not null" json:"product_name"`
	ProductSKU  string          `gorm:"size:50;not null" json:"product_sku"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// ShippingDetails carries the checkout contact and destination fields
type ShippingDetails struct {
	Email   string
	Name    string
	Phone   string
	Address string
	City    string
	Postal  string
	Country string
	Note    string
}

// NewOrderNumber generates a short human-readable order reference
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%s", strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8]))
}

// NewOrder creates a pending order from checkout details
func NewOrder(userID *uuid.UUID, details ShippingDetails) (*Order, error) {
	if details.Email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "customer email is required")
	}
	if details.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "customer name is required")
	}
	if details.Address == "" || details.City == "" || details.Country == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "shipping address, city and country are required")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       NewOrderNumber(),
		UserID:            userID,
		CustomerEmail:     strings.ToLower(strings.TrimSpace(details.Email)),
		CustomerName:      strings.TrimSpace(details.Name),
		CustomerPhone:     details.Phone,
		ShippingAddress:   details.Address,
		ShippingCity:      details.City,
		ShippingPostal:    details.Postal,
		ShippingCountry:   details.Country,
		CustomerNote:      details.Note,
		Subtotal:          decimal.Zero,
		ShippingCost:      decimal.Zero,
		Discount:          decimal.Zero,
		Total:             decimal.Zero,
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
	}, nil
}

// AddItem appends a priced line and recalculates totals
func (o *Order) AddItem(productID *uuid.UUID, name, sku string, unitPrice decimal.Decimal, quantity int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "product name is required")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "unit price cannot be negative")
	}

	o.Items = append(o.Items, OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: name,
		ProductSKU:  sku,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	})
	o.recalculate()
	return nil
}

// SetShippingCost sets the shipping charge and recalculates the total
func (o *Order) SetShippingCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING_COST", "shipping cost cannot be negative")
	}
	o.ShippingCost = cost
	o.recalculate()
	return nil
}

// ApplyDiscount records a coupon discount against the order. The
// discount comes off the subtotal; shipping is always charged in full.
func (o *Order) ApplyDiscount(couponCode string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "discount cannot be negative")
	}
	if amount.GreaterThan(o.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "discount cannot exceed the subtotal")
	}
	o.CouponCode = couponCode
	o.Discount = amount
	o.recalculate()
	return nil
}

func (o *Order) recalculate() {
	subtotal := decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].Subtotal())
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Sub(o.Discount).Add(o.ShippingCost)
}

// TotalItems returns the summed quantity across all lines
func (o *Order) TotalItems() int {
	total := 0
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

// CanTransitionTo reports whether the order may move to the target status
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (o *Order) transition(target OrderStatus) error {
	if !o.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("cannot move order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Confirm moves a pending order to confirmed
func (o *Order) Confirm() error {
	if o.IsEmpty() {
		return shared.NewDomainError("EMPTY_ORDER", "cannot confirm an order with no items")
	}
	return o.transition(OrderStatusConfirmed)
}

// StartProcessing moves a confirmed order into fulfillment
func (o *Order) StartProcessing() error {
	return o.transition(OrderStatusProcessing)
}

// Ship marks the order shipped and records the carrier tracking number
func (o *Order) Ship(trackingNumber string) error {
	if err := o.transition(OrderStatusShipped); err != nil {
		return err
	}
	o.TrackingNumber = trackingNumber
	now := time.Now()
	o.ShippedAt = &now
	return nil
}

// MarkDelivered marks a shipped order as delivered
func (o *Order) MarkDelivered() error {
	if err := o.transition(OrderStatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	return nil
}

// Cancel cancels an order that has not shipped yet
func (o *Order) Cancel() error {
	return o.transition(OrderStatusCancelled)
}

// Refund refunds a delivered order and flips the payment status
func (o *Order) Refund() error {
	if err := o.transition(OrderStatusRefunded); err != nil {
		return err
	}
	o.PaymentStatus = PaymentStatusRefunded
	return nil
}

// MarkPaid records a successful payment
func (o *Order) MarkPaid(method string) error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "order is already paid")
	}
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentMethod = method
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// MarkPaymentFailed records a failed payment attempt
func (o *Order) MarkPaymentFailed() {
	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// IsEmpty reports whether the order has no lines
func (o *Order) IsEmpty() bool {
	return len(o.Items) == 0
}

// IsFinal reports whether the order reached a terminal status
func (o *Order) IsFinal() bool {
	return o.Status == OrderStatusCancelled || o.Status == OrderStatusRefunded ||
		o.Status == OrderStatusDelivered
}

// BelongsTo reports whether the given email matches the order's customer.
// Used for guest order tracking lookups.
func (o *Order) BelongsTo(email string) bool {
	return o.CustomerEmail == strings.ToLower(strings.TrimSpace(email))
}

// Subtotal returns unit price times quantity for the line
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
