package shopping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shopping"
)

// MockCartRepository is a mock implementation of shopping.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*shopping.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.Cart), args.Error(1)
}

func (m *MockCartRepository) FindBySession(ctx context.Context, sessionKey string) (*shopping.Cart, error) {
	args := m.Called(ctx, sessionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *shopping.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductReader is a mock implementation of catalog.ProductRepository
// trimmed to the calls the cart service makes
type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindBestsellers(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductReader) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductReader) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductReader) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductReader) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func sellableProduct(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(uuid.New(), "Test Gadget", "GADGET-1",
		decimal.NewFromInt(5), decimal.NewFromFloat(19.99))
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, product.Restock(stock))
	}
	require.NoError(t, product.Activate())
	return product
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	owner := CartOwner{UserID: &userID}

	t.Run("creates a cart on first add", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)

		product := sellableProduct(t, 10)
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		carts.On("FindByUser", ctx, userID).Return(nil, shared.ErrNotFound)
		carts.On("Save", ctx, mock.AnythingOfType("*shopping.Cart")).Return(nil)

		service := NewCartService(carts, products)
		resp, err := service.AddItem(ctx, owner, AddItemRequest{ProductID: product.ID, Quantity: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.TotalItems)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(39.98)))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Test Gadget", resp.Items[0].ProductName)
		carts.AssertExpectations(t)
	})

	t.Run("rejects draft products", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)

		draft, err := catalog.NewProduct(uuid.New(), "Unreleased", "GADGET-2",
			decimal.NewFromInt(5), decimal.NewFromInt(15))
		require.NoError(t, err)
		products.On("FindByID", ctx, draft.ID).Return(draft, nil)

		service := NewCartService(carts, products)
		_, err = service.AddItem(ctx, owner, AddItemRequest{ProductID: draft.ID, Quantity: 1})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
		carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects quantities above available stock", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)

		product := sellableProduct(t, 3)
		products.On("FindByID", ctx, product.ID).Return(product, nil)

		service := NewCartService(carts, products)
		_, err := service.AddItem(ctx, owner, AddItemRequest{ProductID: product.ID, Quantity: 5})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestCartService_Merge(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("attaches session cart when user has none", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)

		sessionCart, err := shopping.NewCartForSession("sess-abc")
		require.NoError(t, err)
		require.NoError(t, sessionCart.AddItem(uuid.New(), decimal.NewFromInt(10), 1))

		carts.On("FindBySession", ctx, "sess-abc").Return(sessionCart, nil)
		carts.On("FindByUser", ctx, userID).Return(nil, shared.ErrNotFound)
		carts.On("Save", ctx, sessionCart).Return(nil)

		service := NewCartService(carts, products)
		require.NoError(t, service.Merge(ctx, "sess-abc", userID))

		require.NotNil(t, sessionCart.UserID)
		assert.Equal(t, userID, *sessionCart.UserID)
		assert.Empty(t, sessionCart.SessionKey)
	})

	t.Run("merges lines into an existing user cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)

		productID := uuid.New()
		sessionCart, err := shopping.NewCartForSession("sess-abc")
		require.NoError(t, err)
		require.NoError(t, sessionCart.AddItem(productID, decimal.NewFromInt(10), 2))

		userCart, err := shopping.NewCartForUser(userID)
		require.NoError(t, err)
		require.NoError(t, userCart.AddItem(productID, decimal.NewFromInt(10), 1))

		carts.On("FindBySession", ctx, "sess-abc").Return(sessionCart, nil)
		carts.On("FindByUser", ctx, userID).Return(userCart, nil)
		carts.On("Save", ctx, userCart).Return(nil)
		carts.On("Delete", ctx, sessionCart.ID).Return(nil)

		service := NewCartService(carts, products)
		require.NoError(t, service.Merge(ctx, "sess-abc", userID))

		assert.Equal(t, 3, userCart.TotalItems())
		carts.AssertExpectations(t)
	})

	t.Run("is a no-op without a session cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)

		carts.On("FindBySession", ctx, "sess-missing").Return(nil, shared.ErrNotFound)

		service := NewCartService(carts, products)
		require.NoError(t, service.Merge(ctx, "sess-missing", userID))
		carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
