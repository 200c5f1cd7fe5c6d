package http

import (
	"net/http"
	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.admin.Dashboard(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDashboard(d))
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUser(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), identity(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *Handler) AdminListProducts(c *gin.Context) {
	products, err := h.admin.ListProducts(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProducts(products))
}

func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.admin.CreateProduct(c.Request.Context(), identity(c), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProduct(p))
}

func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.admin.UpdateProduct(c.Request.Context(), identity(c), id, req.patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProduct(p))
}

func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.admin.DeleteProduct(c.Request.Context(), identity(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.admin.ListOrders(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(orders))
}

func (h *Handler) AdminUpdateOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	o, err := h.admin.UpdateOrder(c.Request.Context(), identity(c), id, domain.OrderPatch{
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "status": o.Status})
}

func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.admin.DeleteOrder(c.Request.Context(), identity(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
