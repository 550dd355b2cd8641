package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/ordering"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shopping"
	"github.com/google/uuid"
)

// OrderService handles checkout, order tracking and fulfillment
type OrderService struct {
	orders   ordering.OrderRepository
	carts    shopping.CartRepository
	products catalog.ProductRepository
	coupons  ordering.CouponRepository
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders ordering.OrderRepository,
	carts shopping.CartRepository,
	products catalog.ProductRepository,
	coupons ordering.CouponRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, coupons: coupons, logger: logger}
}

// Checkout places an order from the owner's cart. Product name, SKU and
// price are snapshotted onto the order lines, stock is deducted, and
// the cart is emptied.
func (s *OrderService) Checkout(ctx context.Context, userID *uuid.UUID, sessionKey string, req CheckoutRequest) (*OrderResponse, error) {
	cart, err := s.findCart(ctx, userID, sessionKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	// Resolve and validate every line before touching stock so a
	// failed checkout leaves inventory unchanged.
	lines := make([]checkoutLine, 0, len(cart.Items))
	for i := range cart.Items {
		item := &cart.Items[i]
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "A product in the cart is no longer available")
			}
			return nil, err
		}
		if product.Status != catalog.ProductStatusActive {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "A product in the cart is no longer available")
		}
		if product.TrackInventory && !product.AllowBackorder && item.Quantity > product.StockQuantity {
			return nil, shared.ErrInsufficientStock
		}
		lines = append(lines, checkoutLine{product: product, quantity: item.Quantity})
	}

	order, err := ordering.NewOrder(userID, ordering.ShippingDetails{
		Email:   req.Email,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Postal:  req.Postal,
		Country: req.Country,
		Note:    req.Note,
	})
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		productID := line.product.ID
		if err := order.AddItem(&productID, line.product.Name, line.product.SKU,
			line.product.SellingPrice, line.quantity); err != nil {
			return nil, err
		}
	}
	if err := order.SetShippingCost(highestShippingCost(lines)); err != nil {
		return nil, err
	}

	var coupon *ordering.Coupon
	if req.CouponCode != "" {
		coupon, err = s.applyCoupon(ctx, req.CouponCode, order)
		if err != nil {
			return nil, err
		}
	}

	// Deduct stock before recording the order. If anything after a
	// deduction fails, the deducted lines are returned so a failed
	// checkout cannot leak inventory.
	deducted := make([]checkoutLine, 0, len(lines))
	for _, line := range lines {
		if err := line.product.DeductStock(line.quantity); err != nil {
			s.returnStock(ctx, deducted)
			return nil, err
		}
		if err := s.products.Save(ctx, line.product); err != nil {
			_ = line.product.Restock(line.quantity)
			s.returnStock(ctx, deducted)
			return nil, err
		}
		deducted = append(deducted, line)
	}

	if err := s.orders.Save(ctx, order); err != nil {
		s.returnStock(ctx, deducted)
		return nil, err
	}

	if coupon != nil {
		coupon.Redeem()
		if err := s.coupons.Save(ctx, coupon); err != nil {
			s.logger.Warn("Failed to record coupon redemption",
				zap.String("code", coupon.Code),
				zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}

	cart.Clear()
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", order.TotalItems()),
		zap.String("total", order.Total.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Track looks up an order by number for the customer who placed it.
// The email must match the one captured at checkout.
func (s *OrderService) Track(ctx context.Context, req TrackRequest) (*TrackingResponse, error) {
	order, err := s.orders.FindByNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if !order.BelongsTo(req.Email) {
		// Indistinguishable from an unknown order number so tracking
		// cannot be used to probe for valid references.
		return nil, shared.ErrNotFound
	}
	resp := ToTrackingResponse(order)
	return &resp, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListByUser retrieves a customer's own orders, newest first
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 100

	orders, err := s.orders.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// GetForUser retrieves an order only when it belongs to the given
// user. Orders owned by other accounts look like missing orders.
func (s *OrderService) GetForUser(ctx context.Context, userID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders matching the filter for the admin dashboard
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}

	orders, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toOrderResponses(orders), total, nil
}

// Confirm moves a pending order to confirmed
func (s *OrderService) Confirm(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *ordering.Order) error { return o.Confirm() })
}

// StartProcessing moves a confirmed order into fulfillment
func (s *OrderService) StartProcessing(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *ordering.Order) error { return o.StartProcessing() })
}

// Ship marks an order shipped with its carrier tracking number
func (s *OrderService) Ship(ctx context.Context, id uuid.UUID, req ShipRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *ordering.Order) error { return o.Ship(req.TrackingNumber) })
}

// MarkDelivered marks a shipped order as delivered
func (s *OrderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *ordering.Order) error { return o.MarkDelivered() })
}

// MarkPaid records a successful payment against the order
func (s *OrderService) MarkPaid(ctx context.Context, id uuid.UUID, req MarkPaidRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *ordering.Order) error { return o.MarkPaid(req.PaymentMethod) })
}

// Cancel cancels an unshipped order and restocks its lines
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.restockLines(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Refund refunds a delivered order
func (s *OrderService) Refund(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *ordering.Order) error { return o.Refund() })
}

func (s *OrderService) mutate(ctx context.Context, id uuid.UUID, fn func(*ordering.Order) error) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// applyCoupon resolves a coupon code and records its discount on the
// order. An unknown code reads the same as an unredeemable one.
func (s *OrderService) applyCoupon(ctx context.Context, code string, order *ordering.Order) (*ordering.Coupon, error) {
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("COUPON_INVALID", "Coupon code is not valid")
		}
		return nil, err
	}
	discount, err := coupon.DiscountFor(order.Subtotal, time.Now())
	if err != nil {
		return nil, err
	}
	if err := order.ApplyDiscount(coupon.Code, discount); err != nil {
		return nil, err
	}
	return coupon, nil
}

// returnStock undoes saved stock deductions after an aborted checkout
func (s *OrderService) returnStock(ctx context.Context, deducted []checkoutLine) {
	for _, line := range deducted {
		if err := line.product.Restock(line.quantity); err != nil {
			continue
		}
		if err := s.products.Save(ctx, line.product); err != nil {
			s.logger.Error("Failed to return stock after aborted checkout",
				zap.String("sku", line.product.SKU),
				zap.Int("quantity", line.quantity),
				zap.Error(err))
		}
	}
}

// restockLines returns cancelled quantities to inventory. Lines whose
// product was deleted since checkout are skipped.
func (s *OrderService) restockLines(ctx context.Context, order *ordering.Order) {
	for i := range order.Items {
		item := &order.Items[i]
		if item.ProductID == nil {
			continue
		}
		product, err := s.products.FindByID(ctx, *item.ProductID)
		if err != nil {
			continue
		}
		if !product.TrackInventory {
			continue
		}
		if err := product.Restock(item.Quantity); err != nil {
			continue
		}
		if err := s.products.Save(ctx, product); err != nil {
			s.logger.Warn("Failed to restock cancelled order line",
				zap.String("order_number", order.OrderNumber),
				zap.String("sku", item.ProductSKU), zap.Error(err))
		}
	}
}

func (s *OrderService) findCart(ctx context.Context, userID *uuid.UUID, sessionKey string) (*shopping.Cart, error) {
	if userID != nil {
		return s.carts.FindByUser(ctx, *userID)
	}
	if sessionKey == "" {
		return nil, shared.ErrNotFound
	}
	return s.carts.FindBySession(ctx, sessionKey)
}

type checkoutLine struct {
	product  *catalog.Product
	quantity int
}

// highestShippingCost charges the single largest per-product shipping
// cost in the cart rather than stacking one charge per line
func highestShippingCost(lines []checkoutLine) (cost decimal.Decimal) {
	for _, line := range lines {
		if line.product.ShippingCost.GreaterThan(cost) {
			cost = line.product.ShippingCost
		}
	}
	return cost
}

func toOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
