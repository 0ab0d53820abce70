// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/pkg/money"
	"github.com/nabin216/ZotPot/internal/store"
)

// Dispatcher is the write side of the store
type Dispatcher interface {
	StateSource
	Dispatch(a store.Action) bool
}

// AddToCartRequest adds an item or replaces the one with the same id
type AddToCartRequest struct {
	ID       string      `json:"id" binding:"required"`
	Name     string      `json:"name" binding:"required"`
	Price    money.Money `json:"price"`
	Quantity int         `json:"quantity" binding:"required,min=1"`
	Image    string      `json:"image" binding:"omitempty,url"`
}

// UpdateCartItemRequest sets a quantity; zero removes the item
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// CartHandler handles cart endpoints
type CartHandler struct {
	store Dispatcher
}

// NewCartHandler creates a new cart handler
func NewCartHandler(st Dispatcher) *CartHandler {
	return &CartHandler{
		store: st,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.store.Snapshot().Cart,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if req.Price.IsZero() || req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Price must be positive",
		})
		return
	}

	h.store.Dispatch(cart.AddOrUpdateItem{Item: cart.Item{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Image:    req.Image,
	}})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.store.Snapshot().Cart,
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	id := c.Param("id")

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if _, ok := h.store.Snapshot().Cart.Find(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found in cart",
		})
		return
	}

	h.store.Dispatch(cart.QuantityChange(id, *req.Quantity))

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.store.Snapshot().Cart,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id. Removing an absent item
// succeeds.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	h.store.Dispatch(cart.RemoveItem{ID: c.Param("id")})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.store.Snapshot().Cart,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.store.Dispatch(cart.Clear{})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    h.store.Snapshot().Cart,
	})
}
