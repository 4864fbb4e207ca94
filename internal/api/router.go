package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storelab/storefront/internal/identity"
	"github.com/storelab/storefront/pkg/metrics"
)

type RouterDeps struct {
	Carts   *CartHandler
	Catalog *CatalogHandler
	Tickets *TicketHandler
	Users   *UserHandler
	Metrics *metrics.ServerMetrics
	JWT     string
	Session string
	AppEnv  string
}

// NewRouter assembles the HTTP surface. All domain failures are
// rendered through the response envelope; nothing below gin's recovery
// middleware crashes the process.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Observe(deps.Metrics))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := Authenticate(deps.JWT, deps.Session)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/users/register", deps.Users.Register)
		apiGroup.GET("/users/:uid", auth, deps.Users.GetUser)

		apiGroup.GET("/products", deps.Catalog.ListProducts)
		apiGroup.GET("/products/:pid", deps.Catalog.GetProduct)
		apiGroup.POST("/products", auth, RequireRoles(identity.RoleAdmin, identity.RolePremium), deps.Catalog.CreateProduct)
		apiGroup.PUT("/products/:pid", auth, RequireRoles(identity.RoleAdmin, identity.RolePremium), deps.Catalog.UpdateProduct)

		apiGroup.GET("/categories", deps.Catalog.ListCategories)
		apiGroup.POST("/categories", auth, RequireRoles(identity.RoleAdmin), deps.Catalog.CreateCategory)

		apiGroup.POST("/carts/:cid/product/:pid", auth, RequireRoles(identity.RoleUser), deps.Carts.AddItem)
		apiGroup.POST("/carts/:cid/purchase", auth, RequireRoles(identity.RoleUser), deps.Carts.Purchase)

		apiGroup.GET("/tickets", auth, RequireRoles(identity.RoleUser, identity.RolePremium), deps.Tickets.MyPurchases)
		apiGroup.GET("/tickets/sales", auth, RequireRoles(identity.RolePremium, identity.RoleAdmin), deps.Tickets.MySales)
	}

	return r
}
