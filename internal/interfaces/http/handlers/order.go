// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/app"
	"github.com/nabin216/ZotPot/internal/infrastructure/tracking"
)

// Tracker follows orders over the live tracking feed
type Tracker interface {
	Start(ctx context.Context, orderID string) error
	Stop(orderID string)
	Tracking() []string
	StopAll()
}

// ViewOrderRequest selects the order shown on the detail screen
type ViewOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	store   StateSource
	orders  *app.Orders
	tracker Tracker
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(st StateSource, orders *app.Orders, tracker Tracker) *OrderHandler {
	return &OrderHandler{
		store:   st,
		orders:  orders,
		tracker: tracker,
	}
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    h.store.Snapshot().Order,
	})
}

// RefreshOrders handles POST /orders/refresh
func (h *OrderHandler) RefreshOrders(c *gin.Context) {
	if err := h.orders.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to load orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders refreshed successfully",
		"data":    h.store.Snapshot().Order,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.store.Snapshot().Order.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// GetCurrentOrder handles GET /current-order
func (h *OrderHandler) GetCurrentOrder(c *gin.Context) {
	current := h.store.Snapshot().Order.CurrentOrder()
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No order selected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Current order retrieved successfully",
		"data":    current,
	})
}

// ViewOrder handles PUT /current-order
func (h *OrderHandler) ViewOrder(c *gin.Context) {
	var req ViewOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if !h.orders.View(req.OrderID) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order selected",
		"data":    h.store.Snapshot().Order.CurrentOrder(),
	})
}

// CloseOrder handles DELETE /current-order
func (h *OrderHandler) CloseOrder(c *gin.Context) {
	h.orders.CloseView()

	c.JSON(http.StatusOK, gin.H{
		"message": "Order view closed",
	})
}

// TrackOrder handles POST /orders/:id/track
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	orderID := c.Param("id")

	snapshot := h.store.Snapshot()
	_, listed := snapshot.Order.Find(orderID)
	current := snapshot.Order.CurrentOrder()
	if !listed && (current == nil || current.ID != orderID) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	// tracking outlives the request
	err := h.tracker.Start(context.WithoutCancel(c.Request.Context()), orderID)
	if err != nil {
		if errors.Is(err, tracking.ErrAlreadyTracking) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order is already being tracked",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start tracking",
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Tracking started",
	})
}

// UntrackOrder handles DELETE /orders/:id/track
func (h *OrderHandler) UntrackOrder(c *gin.Context) {
	h.tracker.Stop(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Tracking stopped",
	})
}

// GetTracking handles GET /tracking
func (h *OrderHandler) GetTracking(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Tracked orders retrieved successfully",
		"data":    h.tracker.Tracking(),
	})
}
