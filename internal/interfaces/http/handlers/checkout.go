// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/app"
	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/services/payment"
)

// CheckoutRequest picks where the order goes
type CheckoutRequest struct {
	DeliveryLocation order.Location `json:"delivery_location"`
}

// CheckoutHandler handles checkout and payment endpoints
type CheckoutHandler struct {
	checkout *app.Checkout
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout *app.Checkout) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
	}
}

// StartCheckout handles POST /checkout. The response carries what the
// payment widget needs.
func (h *CheckoutHandler) StartCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if req.DeliveryLocation.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Delivery address is required",
		})
		return
	}

	pending, err := h.checkout.Start(c.Request.Context(), req.DeliveryLocation)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
		case errors.Is(err, payment.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Payments are not configured",
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Failed to start payment",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout started",
		"data":    pending,
	})
}
