package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusDraft        ProductStatus = "draft"
	ProductStatusActive       ProductStatus = "active"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Product represents a dropshipped product in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	SupplierID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID       *uuid.UUID      `gorm:"type:uuid;index"`
	Name             string          `gorm:"type:varchar(200);not null"`
	Slug             string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	SKU              string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	SupplierSKU      string          `gorm:"type:varchar(100)"`
	Description      string          `gorm:"type:text"`
	ShortDescription string          `gorm:"type:varchar(500)"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	SellingPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CompareAtPrice   decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	StockQuantity    int             `gorm:"not null;default:0"`
	LowStockThreshold int            `gorm:"not null;default:5"`
	TrackInventory   bool            `gorm:"not null;default:true"`
	AllowBackorder   bool            `gorm:"not null;default:false"`
	WeightKg         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ShippingCost     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MainImageURL     string          `gorm:"type:varchar(500)"`
	Status           ProductStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	IsFeatured       bool            `gorm:"not null;default:false"`
	IsBestseller     bool            `gorm:"not null;default:false"`
	IsNew            bool            `gorm:"not null;default:true"`
	PublishedAt      *time.Time
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new draft product
func NewProduct(supplierID uuid.UUID, name, sku string, costPrice, sellingPrice decimal.Decimal) (*Product, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		Name:              name,
		Slug:              Slugify(name),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		CostPrice:         costPrice,
		SellingPrice:      sellingPrice,
		LowStockThreshold: 5,
		TrackInventory:    true,
		Status:            ProductStatusDraft,
		IsNew:             true,
	}, nil
}

// Slugify converts a name into a URL-safe slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Update updates the product's basic information
func (p *Product) Update(name, description, shortDescription string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(shortDescription) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Short description cannot exceed 500 characters")
	}

	p.Name = name
	p.Description = description
	p.ShortDescription = shortDescription
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetPrices updates cost and selling prices
func (p *Product) SetPrices(costPrice, sellingPrice decimal.Decimal) error {
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if sellingPrice.LessThan(costPrice) {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be below cost price")
	}

	p.CostPrice = costPrice
	p.SellingPrice = sellingPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetCompareAtPrice sets the strike-through price used for discount display
func (p *Product) SetCompareAtPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Compare-at price cannot be negative")
	}
	p.CompareAtPrice = decimal.NewNullDecimal(price)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ProfitMargin returns the profit margin percentage relative to the selling price
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.SellingPrice.IsZero() {
		return decimal.Zero
	}
	return p.SellingPrice.Sub(p.CostPrice).
		Div(p.SellingPrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// DiscountPercentage returns the discount relative to the compare-at price,
// or zero when no compare-at price is set or it is not higher than the selling price
func (p *Product) DiscountPercentage() int {
	if !p.CompareAtPrice.Valid || !p.CompareAtPrice.Decimal.GreaterThan(p.SellingPrice) {
		return 0
	}
	return int(p.CompareAtPrice.Decimal.Sub(p.SellingPrice).
		Div(p.CompareAtPrice.Decimal).
		Mul(decimal.NewFromInt(100)).
		IntPart())
}

// Activate publishes the product. PublishedAt is stamped on first activation only.
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Cannot activate a discontinued product")
	}

	p.Status = ProductStatusActive
	if p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Discontinue permanently retires the product
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsInStock returns true if the product can be purchased
func (p *Product) IsInStock() bool {
	if !p.TrackInventory {
		return true
	}
	return p.StockQuantity > 0 || p.AllowBackorder
}

// IsLowStock returns true if the stock quantity is at or below the threshold
func (p *Product) IsLowStock() bool {
	return p.TrackInventory && p.StockQuantity <= p.LowStockThreshold
}

// DeductStock removes quantity from stock, e.g. when an order is placed.
// Products that allow backorders may go negative.
func (p *Product) DeductStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.TrackInventory {
		return nil
	}
	if p.StockQuantity < quantity && !p.AllowBackorder {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity -= quantity
	if p.StockQuantity <= 0 && !p.AllowBackorder && p.Status == ProductStatusActive {
		p.Status = ProductStatusOutOfStock
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Restock adds quantity back to stock, e.g. on supplier delivery or order cancellation
func (p *Product) Restock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.StockQuantity += quantity
	if p.Status == ProductStatusOutOfStock && p.StockQuantity > 0 {
		p.Status = ProductStatusActive
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetThresholds updates inventory tracking settings
func (p *Product) SetThresholds(lowStockThreshold int, trackInventory, allowBackorder bool) error {
	if lowStockThreshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}
	p.LowStockThreshold = lowStockThreshold
	p.TrackInventory = trackInventory
	p.AllowBackorder = allowBackorder
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetFlags updates marketing flags
func (p *Product) SetFlags(featured, bestseller, isNew bool) {
	p.IsFeatured = featured
	p.IsBestseller = bestseller
	p.IsNew = isNew
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetShipping updates weight and shipping cost
func (p *Product) SetShipping(weightKg, shippingCost decimal.Decimal) error {
	if weightKg.IsNegative() || shippingCost.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING", "Weight and shipping cost cannot be negative")
	}
	p.WeightKg = weightKg
	p.ShippingCost = shippingCost
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 100 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	return nil
}
