package handler

import (
	"strconv"

	analyticsapp "github.com/dropship/backend/internal/application/analytics"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles admin dashboard endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *analyticsapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *analyticsapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns order, revenue and customer counts for the dashboard
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// LowStock returns products at or below their low stock threshold
func (h *DashboardHandler) LowStock(c *gin.Context) {
	alerts, err := h.dashboardService.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

// RecentOrders returns the most recently placed orders
func (h *DashboardHandler) RecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	orders, err := h.dashboardService.RecentOrders(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// TopProducts returns the best-selling products over the trailing period
func (h *DashboardHandler) TopProducts(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	products, err := h.dashboardService.TopProducts(c.Request.Context(), days, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// RevenueTrend returns daily paid revenue over the trailing period
func (h *DashboardHandler) RevenueTrend(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}

	trend, err := h.dashboardService.RevenueTrend(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trend)
}
