package analytics

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/identity"
	"github.com/dropship/backend/internal/domain/ordering"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey        = "analytics:dashboard"
	defaultDashboardCacheTTL = time.Minute
)

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	OrdersToday    int64           `json:"orders_today"`
	OrdersWeek     int64           `json:"orders_week"`
	OrdersMonth    int64           `json:"orders_month"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	RevenueWeek    decimal.Decimal `json:"revenue_week"`
	RevenueMonth   decimal.Decimal `json:"revenue_month"`
	PendingOrders  int64           `json:"pending_orders"`
	TotalCustomers int64           `json:"total_customers"`
	LowStockCount  int             `json:"low_stock_count"`

	OrdersByStatus map[string]int64 `json:"orders_by_status"`
}

// RecentOrder is a dashboard row for a recently placed order
type RecentOrder struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	ItemCount    int             `json:"item_count"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LowStockAlert flags a product running out of inventory
type LowStockAlert struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// DashboardService aggregates order, customer and inventory figures for
// the admin dashboard
type DashboardService struct {
	orders   ordering.OrderRepository
	products catalog.ProductRepository
	users    identity.UserRepository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService creates a new DashboardService. A zero cacheTTL
// falls back to the one minute default.
func NewDashboardService(
	orders ordering.OrderRepository,
	products catalog.ProductRepository,
	users identity.UserRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = defaultDashboardCacheTTL
	}
	return &DashboardService{orders: orders, products: products, users: users, cache: c, cacheTTL: cacheTTL, logger: logger}
}

// Stats returns the dashboard summary. Figures are cached briefly since
// the dashboard polls.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if data, err := s.cache.Get(ctx, dashboardCacheKey); err == nil {
		var cached DashboardStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -7)
	monthStart := dayStart.AddDate(0, -1, 0)

	stats := &DashboardStats{}
	var err error

	if stats.OrdersToday, err = s.orders.CountSince(ctx, dayStart); err != nil {
		return nil, err
	}
	if stats.OrdersWeek, err = s.orders.CountSince(ctx, weekStart); err != nil {
		return nil, err
	}
	if stats.OrdersMonth, err = s.orders.CountSince(ctx, monthStart); err != nil {
		return nil, err
	}
	if stats.RevenueToday, err = s.orders.SumRevenueSince(ctx, dayStart); err != nil {
		return nil, err
	}
	if stats.RevenueWeek, err = s.orders.SumRevenueSince(ctx, weekStart); err != nil {
		return nil, err
	}
	if stats.RevenueMonth, err = s.orders.SumRevenueSince(ctx, monthStart); err != nil {
		return nil, err
	}

	pendingFilter := shared.DefaultFilter()
	pendingFilter.Filters["status"] = string(ordering.OrderStatusPending)
	if stats.PendingOrders, err = s.orders.Count(ctx, pendingFilter); err != nil {
		return nil, err
	}

	if stats.TotalCustomers, err = s.users.Count(ctx, shared.DefaultFilter()); err != nil {
		return nil, err
	}

	lowStock, err := s.products.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = len(lowStock)

	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats.OrdersByStatus = make(map[string]int64, len(byStatus))
	for status, count := range byStatus {
		stats.OrdersByStatus[string(status)] = count
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, data, s.cacheTTL); err != nil {
			s.logger.Debug("Failed to cache dashboard stats", zap.Error(err))
		}
	}
	return stats, nil
}

// LowStock returns the products at or below their low-stock threshold
func (s *DashboardService) LowStock(ctx context.Context) ([]LowStockAlert, error) {
	products, err := s.products.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]LowStockAlert, len(products))
	for i := range products {
		p := &products[i]
		alerts[i] = LowStockAlert{
			ProductID: p.ID.String(),
			Name:      p.Name,
			SKU:       p.SKU,
			Stock:     p.StockQuantity,
			Threshold: p.LowStockThreshold,
		}
	}
	return alerts, nil
}

// RecentOrders returns the most recently placed orders
func (s *DashboardService) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	orders, err := s.orders.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]RecentOrder, len(orders))
	for i := range orders {
		o := &orders[i]
		rows[i] = RecentOrder{
			ID:           o.ID.String(),
			OrderNumber:  o.OrderNumber,
			CustomerName: o.CustomerName,
			Total:        o.Total,
			Status:       string(o.Status),
			ItemCount:    len(o.Items),
			CreatedAt:    o.CreatedAt,
		}
	}
	return rows, nil
}

// TopProducts ranks products by units sold over the trailing period
func (s *DashboardService) TopProducts(ctx context.Context, days, limit int) ([]ordering.ProductSales, error) {
	since := time.Now().AddDate(0, 0, -days)
	return s.orders.TopProducts(ctx, since, limit)
}

// RevenueTrend returns daily paid revenue over the trailing period
func (s *DashboardService) RevenueTrend(ctx context.Context, days int) ([]ordering.DailyRevenue, error) {
	since := time.Now().AddDate(0, 0, -days)
	return s.orders.RevenueByDay(ctx, since)
}
