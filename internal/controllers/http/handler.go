package http

import (
	"net/http"
	"storefront-service/internal/auth"
	"storefront-service/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	users    *services.UserService
	catalog  *services.CatalogService
	carts    *services.CartService
	wishlist *services.WishlistService
	orders   *services.OrderService
	admin    *services.AdminService
	issuer   *auth.Issuer
}

type Services struct {
	Users    *services.UserService
	Catalog  *services.CatalogService
	Carts    *services.CartService
	Wishlist *services.WishlistService
	Orders   *services.OrderService
	Admin    *services.AdminService
}

func NewHandler(s Services, issuer *auth.Issuer) *Handler {
	return &Handler{
		users:    s.Users,
		catalog:  s.Catalog,
		carts:    s.Carts,
		wishlist: s.Wishlist,
		orders:   s.Orders,
		admin:    s.Admin,
		issuer:   issuer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/token/refresh", h.Refresh)

	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.GET("/categories", h.ListCategories)

	user := api.Group("", Authenticate(h.issuer))
	user.GET("/cart", h.ListCart)
	user.POST("/cart/add", h.AddToCart)
	user.POST("/cart/remove", h.RemoveFromCart)
	user.PATCH("/cart/update", h.UpdateCart)
	user.GET("/orders", h.ListOrders)
	user.POST("/orders/create", h.CreateOrder)
	user.GET("/wishlist", h.ListWishlist)
	user.POST("/wishlist/toggle", h.ToggleWishlist)

	adm := api.Group("/admin", Authenticate(h.issuer), RequireAdmin())
	adm.GET("/dashboard", h.Dashboard)
	adm.GET("/users", h.AdminListUsers)
	adm.DELETE("/users/:id", h.AdminDeleteUser)
	adm.GET("/products", h.AdminListProducts)
	adm.POST("/products/add", h.AdminCreateProduct)
	adm.PUT("/products/:id", h.AdminUpdateProduct)
	adm.DELETE("/products/:id/delete", h.AdminDeleteProduct)
	adm.GET("/orders", h.AdminListOrders)
	adm.PUT("/orders/:id", h.AdminUpdateOrder)
	adm.DELETE("/orders/:id/delete", h.AdminDeleteOrder)
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUser(u))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pair, u, err := h.users.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": pair.Access, "refresh": pair.Refresh, "user": toUser(u)})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	access, err := h.users.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProducts(products))
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	p, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProduct(p))
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
