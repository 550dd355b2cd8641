package catalog

import (
	"strings"
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Supplier represents a dropshipping supplier that fulfils orders directly
type Supplier struct {
	shared.BaseAggregateRoot
	Name            string          `gorm:"type:varchar(200);not null"`
	CompanyName     string          `gorm:"type:varchar(200)"`
	Email           string          `gorm:"type:varchar(200);not null"`
	Phone           string          `gorm:"type:varchar(20)"`
	Address         string          `gorm:"type:text"`
	Website         string          `gorm:"type:varchar(500)"`
	APIEndpoint     string          `gorm:"type:varchar(500)"`
	APIKey          string          `gorm:"type:varchar(500)"` // write-only credential, never exposed in responses
	ShippingTimeMin int             `gorm:"not null;default:1"` // days
	ShippingTimeMax int             `gorm:"not null;default:7"` // days
	ShippingCost    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MinimumOrder    int             `gorm:"not null;default:1"`
	IsActive        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(name, email string, shippingTimeMin, shippingTimeMax int) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Supplier email cannot be empty")
	}
	if shippingTimeMin < 0 || shippingTimeMax < shippingTimeMin {
		return nil, shared.NewDomainError("INVALID_SHIPPING_TIME", "Shipping time range is invalid")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		ShippingTimeMin:   shippingTimeMin,
		ShippingTimeMax:   shippingTimeMax,
		MinimumOrder:      1,
		IsActive:          true,
	}, nil
}

// Update updates the supplier's contact details
func (s *Supplier) Update(name, companyName, email, phone, address, website string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Supplier email cannot be empty")
	}

	s.Name = name
	s.CompanyName = strings.TrimSpace(companyName)
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.Phone = strings.TrimSpace(phone)
	s.Address = address
	s.Website = website
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetShippingTerms updates the shipping window, cost and minimum order
func (s *Supplier) SetShippingTerms(minDays, maxDays int, cost decimal.Decimal, minimumOrder int) error {
	if minDays < 0 || maxDays < minDays {
		return shared.NewDomainError("INVALID_SHIPPING_TIME", "Shipping time range is invalid")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
	}
	if minimumOrder < 1 {
		return shared.NewDomainError("INVALID_MINIMUM_ORDER", "Minimum order must be at least 1")
	}

	s.ShippingTimeMin = minDays
	s.ShippingTimeMax = maxDays
	s.ShippingCost = cost
	s.MinimumOrder = minimumOrder
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetAPICredentials stores the supplier integration endpoint and key
func (s *Supplier) SetAPICredentials(endpoint, key string) {
	s.APIEndpoint = endpoint
	s.APIKey = key
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Activate enables the supplier for new products and orders
func (s *Supplier) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate blocks the supplier from new products and orders
func (s *Supplier) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
