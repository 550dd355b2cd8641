package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/infrastructure/cache"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBestsellers(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindRoots(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSupplierRepository is a mock implementation of catalog.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Supplier, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindActive(ctx context.Context) ([]catalog.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *catalog.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newProductService(products *MockProductRepository, categories *MockCategoryRepository, suppliers *MockSupplierRepository) *ProductService {
	return NewProductService(products, categories, suppliers, cache.NewMemoryCache(), 0, zap.NewNop())
}

func activeSupplier(t *testing.T) *catalog.Supplier {
	t.Helper()
	supplier, err := catalog.NewSupplier("Acme Wholesale", "sales@acme.example", 3, 10)
	require.NoError(t, err)
	return supplier
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a draft product with supplier shipping cost", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		suppliers := new(MockSupplierRepository)

		supplier := activeSupplier(t)
		require.NoError(t, supplier.SetShippingTerms(3, 10, decimal.NewFromFloat(4.50), 1))

		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		products.On("ExistsBySKU", ctx, "WIDGET-1").Return(false, nil)
		products.On("ExistsBySlug", ctx, "blue-widget").Return(false, nil)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		service := newProductService(products, categories, suppliers)
		resp, err := service.Create(ctx, CreateProductRequest{
			SupplierID:   supplier.ID,
			Name:         "Blue Widget",
			SKU:          "WIDGET-1",
			CostPrice:    decimal.NewFromInt(10),
			SellingPrice: decimal.NewFromInt(25),
		})

		require.NoError(t, err)
		assert.Equal(t, "blue-widget", resp.Slug)
		assert.Equal(t, "draft", resp.Status)
		assert.True(t, resp.ShippingCost.Equal(decimal.NewFromFloat(4.50)))
		assert.True(t, resp.ProfitMargin.Equal(decimal.NewFromInt(60)))
		products.AssertExpectations(t)
	})

	t.Run("rejects duplicate SKU", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		suppliers := new(MockSupplierRepository)

		supplier := activeSupplier(t)
		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		products.On("ExistsBySKU", ctx, "WIDGET-1").Return(true, nil)

		service := newProductService(products, categories, suppliers)
		_, err := service.Create(ctx, CreateProductRequest{
			SupplierID:   supplier.ID,
			Name:         "Blue Widget",
			SKU:          "WIDGET-1",
			CostPrice:    decimal.NewFromInt(10),
			SellingPrice: decimal.NewFromInt(25),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects inactive supplier", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		suppliers := new(MockSupplierRepository)

		supplier := activeSupplier(t)
		supplier.Deactivate()
		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)

		service := newProductService(products, categories, suppliers)
		_, err := service.Create(ctx, CreateProductRequest{
			SupplierID:   supplier.ID,
			Name:         "Blue Widget",
			SKU:          "WIDGET-1",
			CostPrice:    decimal.NewFromInt(10),
			SellingPrice: decimal.NewFromInt(25),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SUPPLIER_INACTIVE", domainErr.Code)
	})

	t.Run("suffixes a colliding slug", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		suppliers := new(MockSupplierRepository)

		supplier := activeSupplier(t)
		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		products.On("ExistsBySKU", ctx, "WIDGET-2").Return(false, nil)
		products.On("ExistsBySlug", ctx, "blue-widget").Return(true, nil)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		service := newProductService(products, categories, suppliers)
		resp, err := service.Create(ctx, CreateProductRequest{
			SupplierID:   supplier.ID,
			Name:         "Blue Widget",
			SKU:          "WIDGET-2",
			CostPrice:    decimal.NewFromInt(10),
			SellingPrice: decimal.NewFromInt(25),
		})

		require.NoError(t, err)
		assert.NotEqual(t, "blue-widget", resp.Slug)
		assert.Contains(t, resp.Slug, "blue-widget-")
	})
}

func TestProductService_GetBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("hides draft products from the storefront", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		suppliers := new(MockSupplierRepository)

		draft, err := catalog.NewProduct(uuid.New(), "Hidden Gadget", "GADGET-1",
			decimal.NewFromInt(5), decimal.NewFromInt(15))
		require.NoError(t, err)

		products.On("FindBySlug", ctx, "hidden-gadget").Return(draft, nil)

		service := newProductService(products, categories, suppliers)
		_, err = service.GetBySlug(ctx, "hidden-gadget")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns active products", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		suppliers := new(MockSupplierRepository)

		product, err := catalog.NewProduct(uuid.New(), "Visible Gadget", "GADGET-2",
			decimal.NewFromInt(5), decimal.NewFromInt(15))
		require.NoError(t, err)
		require.NoError(t, product.Restock(3))
		require.NoError(t, product.Activate())

		products.On("FindBySlug", ctx, "visible-gadget").Return(product, nil)

		service := newProductService(products, categories, suppliers)
		resp, err := service.GetBySlug(ctx, "visible-gadget")
		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.True(t, resp.InStock)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("caches listings between calls", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		suppliers := new(MockSupplierRepository)

		product, err := catalog.NewProduct(uuid.New(), "Cached Gadget", "GADGET-3",
			decimal.NewFromInt(5), decimal.NewFromInt(15))
		require.NoError(t, err)

		products.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Return([]catalog.Product{*product}, nil).Once()
		products.On("Count", ctx, mock.AnythingOfType("shared.Filter")).
			Return(int64(1), nil).Once()

		service := newProductService(products, categories, suppliers)

		first, err := service.List(ctx, ProductListFilter{})
		require.NoError(t, err)
		require.Len(t, first.Items, 1)

		// Second call is served from cache; the Once() expectations
		// above would fail if the repository were hit again.
		second, err := service.List(ctx, ProductListFilter{})
		require.NoError(t, err)
		assert.Equal(t, first.Items[0].ID, second.Items[0].ID)
		assert.Equal(t, int64(1), second.Total)
		products.AssertExpectations(t)
	})

	t.Run("writes invalidate cached listings", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		suppliers := new(MockSupplierRepository)

		product, err := catalog.NewProduct(uuid.New(), "Stale Gadget", "GADGET-4",
			decimal.NewFromInt(5), decimal.NewFromInt(15))
		require.NoError(t, err)

		products.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Return([]catalog.Product{*product}, nil).Twice()
		products.On("Count", ctx, mock.AnythingOfType("shared.Filter")).
			Return(int64(1), nil).Twice()
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		service := newProductService(products, categories, suppliers)

		_, err = service.List(ctx, ProductListFilter{})
		require.NoError(t, err)

		_, err = service.Restock(ctx, product.ID, 5)
		require.NoError(t, err)

		// Cache was flushed, so the repository is queried again.
		_, err = service.List(ctx, ProductListFilter{})
		require.NoError(t, err)
		products.AssertExpectations(t)
	})
}
