package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"guitarla/internal/domain"
)

type handlers struct {
	catalog catalogReader
	cart    cartStore
	logger  *zap.Logger
}

type addToCartRequest struct {
	ID int `json:"id" binding:"required,gt=0"`
}

type cartLineResponse struct {
	domain.CartLine
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"itemCount"`
	IsEmpty   bool               `json:"isEmpty"`
}

func toCartResponse(c domain.Cart) cartResponse {
	lines := make([]cartLineResponse, 0, len(c))
	for _, line := range c {
		lines = append(lines, cartLineResponse{CartLine: line, Subtotal: line.Subtotal()})
	}
	return cartResponse{
		Lines:     lines,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
		IsEmpty:   c.IsEmpty(),
	}
}

func (h *handlers) listItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.catalog.List()})
}

func (h *handlers) getItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	item, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(h.cart.Cart()))
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"id\": <positive item id>}"})
		return
	}
	item, err := h.catalog.Get(req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.mutate(c, "add", func(ctx context.Context) error {
		return h.cart.AddToCart(ctx, item)
	})
}

func (h *handlers) removeFromCart(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	h.mutate(c, "remove", func(ctx context.Context) error {
		return h.cart.RemoveFromCart(ctx, id)
	})
}

func (h *handlers) increaseQuantity(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	h.mutate(c, "increase", func(ctx context.Context) error {
		return h.cart.IncreaseQuantity(ctx, id)
	})
}

func (h *handlers) decreaseQuantity(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	h.mutate(c, "decrease", func(ctx context.Context) error {
		return h.cart.DecreaseQuantity(ctx, id)
	})
}

func (h *handlers) clearCart(c *gin.Context) {
	h.mutate(c, "clear", h.cart.ClearCart)
}

// mutate runs op and renders the resulting cart. On a persistence error the body
// carries the cart as the store now holds it next to the error.
func (h *handlers) mutate(c *gin.Context, op string, fn func(ctx context.Context) error) {
	if err := fn(c.Request.Context()); err != nil {
		h.logger.Error("cart mutation not persisted",
			zap.String("op", op),
			zap.String("request_id", c.GetString("requestID")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "cart change could not be saved",
			"cart":  toCartResponse(h.cart.Cart()),
		})
		return
	}
	c.JSON(http.StatusOK, toCartResponse(h.cart.Cart()))
}

func itemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}
