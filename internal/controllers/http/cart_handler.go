package http

import (
	"net/http"
	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCart(c *gin.Context) {
	lines, err := h.carts.List(c.Request.Context(), identity(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCart(lines))
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req ProductIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.carts.Add(c.Request.Context(), identity(c).UserID, req.ProductID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to cart"})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	var req ProductIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.carts.Remove(c.Request.Context(), identity(c).UserID, req.ProductID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from cart"})
}

func (h *Handler) UpdateCart(c *gin.Context) {
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.carts.Update(c.Request.Context(), identity(c).UserID, req.ProductID, *req.Qty); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

func (h *Handler) ListWishlist(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context(), identity(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWishlist(items))
}

func (h *Handler) ToggleWishlist(c *gin.Context) {
	var req ProductIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.wishlist.Toggle(c.Request.Context(), identity(c).UserID, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": res})
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListForUser(c.Request.Context(), identity(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(orders))
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), identity(c).UserID, domain.CheckoutDetails{
		ShippingAddress: req.ShippingAddress,
		PhoneNumber:     req.PhoneNumber,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateOrderResponse{OrderID: order.ID})
}
