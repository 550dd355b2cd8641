package shopping

import (
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a customer's shopping cart. A customer has at most one open
// cart; anonymous visitors get one keyed by session.
type Cart struct {
	shared.BaseAggregateRoot
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SessionKey string     `gorm:"size:64;index" json:"session_key,omitempty"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem is a line in a cart. Quantity merges on repeated adds of the
// same product.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	AddedAt   time.Time       `gorm:"not null" json:"added_at"`
}

// TableName returns the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}

// TableName returns the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartForUser creates an empty cart owned by a registered customer
func NewCartForUser(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "user ID is required")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            &userID,
	}, nil
}

// NewCartForSession creates an empty cart keyed by an anonymous session
func NewCartForSession(sessionKey string) (*Cart, error) {
	if sessionKey == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "session key is required")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionKey:        sessionKey,
	}, nil
}

// AddItem adds a product to the cart. Adding a product already in the
// cart increments its quantity and refreshes the captured unit price.
func (c *Cart) AddItem(productID uuid.UUID, unitPrice decimal.Decimal, quantity int) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "product ID is required")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "quantity must be positive")
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].UnitPrice = unitPrice
			c.Items[i].UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ProductID:  productID,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		AddedAt:    time.Now(),
	})
	c.IncrementVersion()
	return nil
}

// UpdateItemQuantity sets the quantity of a cart line. Zero removes the line.
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "quantity cannot be negative")
	}
	if quantity == 0 {
		return c.RemoveItem(productID)
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.Items[i].UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem removes a product's line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear removes all lines from the cart
func (c *Cart) Clear() {
	c.Items = nil
	c.IncrementVersion()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems returns the summed quantity across all lines
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// TotalPrice returns the cart subtotal
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

// AttachToUser claims a session cart for a registered customer after login
func (c *Cart) AttachToUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "user ID is required")
	}
	c.UserID = &userID
	c.SessionKey = ""
	c.IncrementVersion()
	return nil
}

// Subtotal returns unit price times quantity for the line
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
