package catalog

import (
	"time"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SupplierID       uuid.UUID        `json:"supplier_id" binding:"required"`
	CategoryID       *uuid.UUID       `json:"category_id"`
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	SKU              string           `json:"sku" binding:"required,min=1,max=50"`
	SupplierSKU      string           `json:"supplier_sku" binding:"max=50"`
	Description      string           `json:"description" binding:"max=5000"`
	ShortDescription string           `json:"short_description" binding:"max=500"`
	CostPrice        decimal.Decimal  `json:"cost_price" binding:"required"`
	SellingPrice     decimal.Decimal  `json:"selling_price" binding:"required"`
	CompareAtPrice   *decimal.Decimal `json:"compare_at_price"`
	StockQuantity    *int             `json:"stock_quantity"`
	MainImageURL     string           `json:"main_image_url" binding:"max=500"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description      *string          `json:"description" binding:"omitempty,max=5000"`
	ShortDescription *string          `json:"short_description" binding:"omitempty,max=500"`
	CategoryID       *uuid.UUID       `json:"category_id"`
	CostPrice        *decimal.Decimal `json:"cost_price"`
	SellingPrice     *decimal.Decimal `json:"selling_price"`
	MainImageURL     *string          `json:"main_image_url" binding:"omitempty,max=500"`
	IsFeatured       *bool            `json:"is_featured"`
	IsBestseller     *bool            `json:"is_bestseller"`
	IsNew            *bool            `json:"is_new"`
}

// RestockRequest represents an inventory adjustment
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                 uuid.UUID           `json:"id"`
	SupplierID         uuid.UUID           `json:"supplier_id"`
	CategoryID         *uuid.UUID          `json:"category_id"`
	Name               string              `json:"name"`
	Slug               string              `json:"slug"`
	SKU                string              `json:"sku"`
	Description        string              `json:"description"`
	ShortDescription   string              `json:"short_description"`
	SellingPrice       decimal.Decimal     `json:"selling_price"`
	CompareAtPrice     decimal.NullDecimal `json:"compare_at_price"`
	DiscountPercentage int                 `json:"discount_percentage"`
	StockQuantity      int                 `json:"stock_quantity"`
	InStock            bool                `json:"in_stock"`
	ShippingCost       decimal.Decimal     `json:"shipping_cost"`
	MainImageURL       string              `json:"main_image_url"`
	Status             string              `json:"status"`
	IsFeatured         bool                `json:"is_featured"`
	IsBestseller       bool                `json:"is_bestseller"`
	IsNew              bool                `json:"is_new"`
	PublishedAt        *time.Time          `json:"published_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// AdminProductResponse adds supplier-facing fields hidden from the
// public catalog
type AdminProductResponse struct {
	ProductResponse
	SupplierSKU  string          `json:"supplier_sku"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	Version      int             `json:"version"`
}

// ProductListFilter represents filter options for product listings
type ProductListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft active out_of_stock discontinued"`
	CategoryID *uuid.UUID `form:"category_id"`
	Featured   *bool      `form:"featured"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=name selling_price published_at created_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=1000"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	CompanyName     string          `json:"company_name" binding:"max=200"`
	Email           string          `json:"email" binding:"required,email"`
	Phone           string          `json:"phone" binding:"max=20"`
	Address         string          `json:"address"`
	Website         string          `json:"website" binding:"omitempty,url"`
	ShippingTimeMin int             `json:"shipping_time_min" binding:"min=0"`
	ShippingTimeMax int             `json:"shipping_time_max" binding:"min=0"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	MinimumOrder    int             `json:"minimum_order" binding:"omitempty,min=1"`
}

// SupplierResponse represents a supplier in API responses. API
// credentials are never included.
type SupplierResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	CompanyName     string          `json:"company_name,omitempty"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone,omitempty"`
	Address         string          `json:"address,omitempty"`
	Website         string          `json:"website,omitempty"`
	ShippingTimeMin int             `json:"shipping_time_min"`
	ShippingTimeMax int             `json:"shipping_time_max"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	MinimumOrder    int             `json:"minimum_order"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		SupplierID:         p.SupplierID,
		CategoryID:         p.CategoryID,
		Name:               p.Name,
		Slug:               p.Slug,
		SKU:                p.SKU,
		Description:        p.Description,
		ShortDescription:   p.ShortDescription,
		SellingPrice:       p.SellingPrice,
		CompareAtPrice:     p.CompareAtPrice,
		DiscountPercentage: p.DiscountPercentage(),
		StockQuantity:      p.StockQuantity,
		InStock:            p.IsInStock(),
		ShippingCost:       p.ShippingCost,
		MainImageURL:       p.MainImageURL,
		Status:             string(p.Status),
		IsFeatured:         p.IsFeatured,
		IsBestseller:       p.IsBestseller,
		IsNew:              p.IsNew,
		PublishedAt:        p.PublishedAt,
		CreatedAt:          p.CreatedAt,
	}
}

// ToAdminProductResponse converts a domain Product to AdminProductResponse
func ToAdminProductResponse(p *catalog.Product) AdminProductResponse {
	return AdminProductResponse{
		ProductResponse: ToProductResponse(p),
		SupplierSKU:     p.SupplierSKU,
		CostPrice:       p.CostPrice,
		ProfitMargin:    p.ProfitMargin(),
		Version:         p.Version,
	}
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ParentID:    c.ParentID,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *catalog.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:              s.ID,
		Name:            s.Name,
		CompanyName:     s.CompanyName,
		Email:           s.Email,
		Phone:           s.Phone,
		Address:         s.Address,
		Website:         s.Website,
		ShippingTimeMin: s.ShippingTimeMin,
		ShippingTimeMax: s.ShippingTimeMax,
		ShippingCost:    s.ShippingCost,
		MinimumOrder:    s.MinimumOrder,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
	}
}
