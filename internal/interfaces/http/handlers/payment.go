// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/app"
	"github.com/nabin216/ZotPot/internal/services/payment"
)

// PaymentFailureRequest is sent when the widget reports an error or the
// customer closes it
type PaymentFailureRequest struct {
	ProviderOrderID string `json:"razorpay_order_id" binding:"required"`
	Reason          string `json:"reason" binding:"max=200"`
}

// VerifyPayment handles POST /payment/verify
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	var req payment.Verification
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkout.Complete(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUnknownCheckout):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unknown checkout",
			})
		case errors.Is(err, payment.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Payment verification failed",
				"data":  result,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Payment verification failed",
				"data":  result,
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed successfully",
		"data":    result,
	})
}

// PaymentFailed handles POST /payment/failure
func (h *CheckoutHandler) PaymentFailed(c *gin.Context) {
	var req PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.checkout.Abandon(req.ProviderOrderID, req.Reason); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown checkout",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment failure recorded",
	})
}
