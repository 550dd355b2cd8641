package ordering

import (
	"context"
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its order number
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByUser finds all orders placed by a customer
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByStatus finds all orders in a given status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// FindRecent finds the most recently placed orders
	FindRecent(ctx context.Context, limit int) ([]Order, error)

	// CountSince counts orders created at or after the given time
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// CountByStatus counts orders grouped by status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)

	// SumRevenueSince sums the total of paid orders created at or after
	// the given time
	SumRevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// TopProducts ranks products by quantity sold since the given time
	TopProducts(ctx context.Context, since time.Time, limit int) ([]ProductSales, error)

	// RevenueByDay sums paid order revenue per day since the given time
	RevenueByDay(ctx context.Context, since time.Time) ([]DailyRevenue, error)
}

// ProductSales is a sales ranking row
type ProductSales struct {
	ProductID    *uuid.UUID      `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailyRevenue is one day of the revenue trend
type DailyRevenue struct {
	Day     time.Time       `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}
