package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
)

const (
	productCachePrefix     = "catalog:products:"
	defaultProductCacheTTL = 5 * time.Minute
)

// ProductService handles product catalog use cases
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	suppliers  catalog.SupplierRepository
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewProductService creates a new ProductService. A zero cacheTTL falls
// back to the five minute default.
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	suppliers catalog.SupplierRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ProductService {
	if cacheTTL <= 0 {
		cacheTTL = defaultProductCacheTTL
	}
	return &ProductService{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		cache:      c,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Create creates a new draft product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*AdminProductResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SUPPLIER_NOT_FOUND", "Supplier does not exist")
		}
		return nil, err
	}
	if !supplier.IsActive {
		return nil, shared.NewDomainError("SUPPLIER_INACTIVE", "Cannot add products for an inactive supplier")
	}

	exists, err := s.products.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.SupplierID, req.Name, req.SKU, req.CostPrice, req.SellingPrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.ShortDescription = req.ShortDescription
	product.SupplierSKU = req.SupplierSKU
	product.MainImageURL = req.MainImageURL
	product.ShippingCost = supplier.ShippingCost

	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not exist")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.CompareAtPrice != nil {
		if err := product.SetCompareAtPrice(*req.CompareAtPrice); err != nil {
			return nil, err
		}
	}
	if req.StockQuantity != nil && *req.StockQuantity > 0 {
		if err := product.Restock(*req.StockQuantity); err != nil {
			return nil, err
		}
	}

	if err := s.ensureUniqueSlug(ctx, product); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)

	resp := ToAdminProductResponse(product)
	return &resp, nil
}

// Update updates a product's details
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*AdminProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.ShortDescription != nil {
		name := product.Name
		description := product.Description
		short := product.ShortDescription
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.ShortDescription != nil {
			short = *req.ShortDescription
		}
		if err := product.Update(name, description, short); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not exist")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.CostPrice != nil || req.SellingPrice != nil {
		cost := product.CostPrice
		selling := product.SellingPrice
		if req.CostPrice != nil {
			cost = *req.CostPrice
		}
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		if err := product.SetPrices(cost, selling); err != nil {
			return nil, err
		}
	}

	if req.MainImageURL != nil {
		product.MainImageURL = *req.MainImageURL
	}
	if req.IsFeatured != nil || req.IsBestseller != nil || req.IsNew != nil {
		featured := product.IsFeatured
		bestseller := product.IsBestseller
		isNew := product.IsNew
		if req.IsFeatured != nil {
			featured = *req.IsFeatured
		}
		if req.IsBestseller != nil {
			bestseller = *req.IsBestseller
		}
		if req.IsNew != nil {
			isNew = *req.IsNew
		}
		product.SetFlags(featured, bestseller, isNew)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)

	resp := ToAdminProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID with admin-level detail
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*AdminProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAdminProductResponse(product)
	return &resp, nil
}

// GetBySlug retrieves a storefront product by slug. Only active and
// out-of-stock products are visible to customers.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product.Status != catalog.ProductStatusActive && product.Status != catalog.ProductStatusOutOfStock {
		return nil, shared.ErrNotFound
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ProductListResult is one page of storefront products
type ProductListResult = shared.Paginated[ProductResponse]

// List retrieves storefront products matching the filter. Results are
// cached briefly because listing pages dominate read traffic.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*ProductListResult, error) {
	key := listingCacheKey(filter)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached ProductListResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	domainFilter := s.buildFilter(filter)

	var (
		products []catalog.Product
		err      error
	)
	if filter.CategoryID != nil {
		products, err = s.products.FindByCategory(ctx, *filter.CategoryID, domainFilter)
	} else {
		products, err = s.products.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.products.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	paged := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	result := &paged

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Debug("Failed to cache product listing", zap.Error(err))
		}
	}
	return result, nil
}

// ListBySupplier retrieves admin products sourced from one supplier
func (s *ProductService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, filter ProductListFilter) ([]AdminProductResponse, error) {
	products, err := s.products.FindBySupplier(ctx, supplierID, s.buildFilter(filter))
	if err != nil {
		return nil, err
	}
	responses := make([]AdminProductResponse, len(products))
	for i := range products {
		responses[i] = ToAdminProductResponse(&products[i])
	}
	return responses, nil
}

// Featured retrieves active featured products for the storefront home page
func (s *ProductService) Featured(ctx context.Context, limit int) ([]ProductResponse, error) {
	return s.cachedCollection(ctx, fmt.Sprintf("%sfeatured:%d", productCachePrefix, limit), func() ([]catalog.Product, error) {
		return s.products.FindFeatured(ctx, limit)
	})
}

// Bestsellers retrieves active bestseller products
func (s *ProductService) Bestsellers(ctx context.Context, limit int) ([]ProductResponse, error) {
	return s.cachedCollection(ctx, fmt.Sprintf("%sbestsellers:%d", productCachePrefix, limit), func() ([]catalog.Product, error) {
		return s.products.FindBestsellers(ctx, limit)
	})
}

// Activate publishes a product to the storefront
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, id, func(p *catalog.Product) error { return p.Activate() })
}

// Discontinue permanently retires a product
func (s *ProductService) Discontinue(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, id, func(p *catalog.Product) error { return p.Discontinue() })
}

// Restock adds inventory to a product
func (s *ProductService) Restock(ctx context.Context, id uuid.UUID, quantity int) (*AdminProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Restock(quantity); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)

	resp := ToAdminProductResponse(product)
	return &resp, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

func (s *ProductService) mutate(ctx context.Context, id uuid.UUID, fn func(*catalog.Product) error) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(product); err != nil {
		return err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

func (s *ProductService) cachedCollection(ctx context.Context, key string, fetch func() ([]catalog.Product, error)) ([]ProductResponse, error) {
	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached []ProductResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := fetch()
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}

	if data, err := json.Marshal(responses); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Debug("Failed to cache product collection", zap.Error(err))
		}
	}
	return responses, nil
}

func (s *ProductService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, productCachePrefix); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}

// ensureUniqueSlug appends a short suffix when a product with the same
// slug already exists
func (s *ProductService) ensureUniqueSlug(ctx context.Context, product *catalog.Product) error {
	exists, err := s.products.ExistsBySlug(ctx, product.Slug)
	if err != nil {
		return err
	}
	if exists {
		product.Slug = fmt.Sprintf("%s-%s", product.Slug, product.ID.String()[:8])
	}
	return nil
}

func (s *ProductService) buildFilter(filter ProductListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	} else {
		domainFilter.Filters["status"] = string(catalog.ProductStatusActive)
	}
	if filter.Featured != nil {
		domainFilter.Filters["is_featured"] = *filter.Featured
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}
	return domainFilter
}

func listingCacheKey(filter ProductListFilter) string {
	category := ""
	if filter.CategoryID != nil {
		category = filter.CategoryID.String()
	}
	featured := ""
	if filter.Featured != nil {
		featured = fmt.Sprintf("%t", *filter.Featured)
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%s:%d:%d:%s:%s",
		productCachePrefix, filter.Search, filter.Status, category, featured,
		filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
}
