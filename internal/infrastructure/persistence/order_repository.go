package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dropship/backend/internal/domain/ordering"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID, items included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its order number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByUser finds all orders placed by a customer
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&ordering.Order{}).Preload("Items").Where("user_id = ?", userID),
		filter, orderSearchColumns)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&ordering.Order{}).Preload("Items"),
		filter, orderSearchColumns)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds all orders in a given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&ordering.Order{}).Preload("Items").Where("status = ?", status),
		filter, orderSearchColumns)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindRecent finds the most recently placed orders
func (r *GormOrderRepository) FindRecent(ctx context.Context, limit int) ([]ordering.Order, error) {
	var orders []ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByStatus counts orders grouped by status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[ordering.OrderStatus]int64, error) {
	var rows []struct {
		Status ordering.OrderStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&ordering.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[ordering.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountSince counts orders created at or after the given time
func (r *GormOrderRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ordering.Order{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumRevenueSince sums the total of paid orders created at or after the
// given time
func (r *GormOrderRepository) SumRevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var result struct {
		Revenue decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&ordering.Order{}).
		Select("COALESCE(SUM(total), 0) AS revenue").
		Where("payment_status = ? AND created_at >= ?", ordering.PaymentStatusPaid, since).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Revenue, nil
}

// Save creates or updates an order and its items
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return translateSaveError(r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error)
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&ordering.Order{}), filter, orderSearchColumns)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TopProducts ranks products by quantity sold since the given time.
// Cancelled and refunded orders are excluded from the ranking.
func (r *GormOrderRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]ordering.ProductSales, error) {
	var rows []ordering.ProductSales
	if err := r.db.WithContext(ctx).
		Model(&ordering.OrderItem{}).
		Select("order_items.product_id, order_items.product_name, order_items.product_sku, "+
			"SUM(order_items.quantity) AS quantity_sold, "+
			"SUM(order_items.unit_price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.status NOT IN ?", since,
			[]ordering.OrderStatus{ordering.OrderStatusCancelled, ordering.OrderStatusRefunded}).
		Group("order_items.product_id, order_items.product_name, order_items.product_sku").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RevenueByDay sums paid order revenue per day since the given time
func (r *GormOrderRepository) RevenueByDay(ctx context.Context, since time.Time) ([]ordering.DailyRevenue, error) {
	var rows []ordering.DailyRevenue
	if err := r.db.WithContext(ctx).
		Model(&ordering.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("payment_status = ? AND created_at >= ?", ordering.PaymentStatusPaid, since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var orderSearchColumns = []string{"order_number", "customer_email", "customer_name"}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
