package api

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/storelab/storefront/internal/cart/app"
	catalogapp "github.com/storelab/storefront/internal/catalog/app"
	catalogdomain "github.com/storelab/storefront/internal/catalog/domain"
	checkoutapp "github.com/storelab/storefront/internal/checkout/app"
	"github.com/storelab/storefront/internal/identity"
	ticketapp "github.com/storelab/storefront/internal/ticket/app"
	userapp "github.com/storelab/storefront/internal/user/app"
	"github.com/storelab/storefront/pkg/apierr"
)

type CartHandler struct {
	carts    *cartapp.Service
	checkout *checkoutapp.Service
}

func NewCartHandler(carts *cartapp.Service, checkout *checkoutapp.Service) *CartHandler {
	return &CartHandler{carts: carts, checkout: checkout}
}

// AddItem handles POST /carts/:cid/product/:pid. The authenticated
// caller must own the cart they are adding to.
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID := c.Param("cid")
	if !ownsCart(c, cartID) {
		respondError(c, apierr.BadRequest(
			"Invalid cart id", apierr.CodeInvalidInput))
		return
	}

	cart, err := h.carts.AddItem(c.Request.Context(), cartID, c.Param("pid"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, toCartResponse(cart))
}

// Purchase handles POST /carts/:cid/purchase.
func (h *CartHandler) Purchase(c *gin.Context) {
	cartID := c.Param("cid")
	if !ownsCart(c, cartID) {
		respondError(c, apierr.BadRequest(
			"Invalid cart id", apierr.CodeInvalidInput))
		return
	}

	id := callerIdentity(c)
	receipt, buyer, err := h.checkout.Purchase(c.Request.Context(), cartID, id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	// The buyer record carries the freshly provisioned cart id; without
	// it the client's session would keep pointing at the closed cart.
	respond(c, 200, purchaseResponse{Ticket: receipt, User: buyer})
}

func ownsCart(c *gin.Context, cartID string) bool {
	return identity.OwnsCart(callerIdentity(c), cartID)
}

type CatalogHandler struct {
	catalog *catalogapp.Service
}

func NewCatalogHandler(catalog *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type createProductRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Code        string  `json:"code" binding:"required"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.BadRequest("Invalid product payload", apierr.CodeInvalidInput))
		return
	}

	id := callerIdentity(c)
	product, err := h.catalog.CreateProduct(c.Request.Context(), catalogdomain.Product{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.Category,
		Status:      true,
		Owner:       id.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, toProductResponse(product))
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("pid"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, toProductResponse(product))
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var query struct {
		Category string  `form:"category"`
		Owner    string  `form:"owner"`
		PriceMin float64 `form:"priceMin"`
		PriceMax float64 `form:"priceMax"`
		Limit    int     `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, apierr.BadRequest("Invalid query", apierr.CodeInvalidInput))
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), catalogapp.ProductFilter{
		CategoryID: query.Category,
		Owner:      query.Owner,
		PriceMin:   query.PriceMin,
		PriceMax:   query.PriceMax,
		Limit:      query.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	respond(c, 200, out)
}

type updateProductRequest struct {
	Price  *float64 `json:"price"`
	Stock  *int     `json:"stock"`
	Status *bool    `json:"status"`
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.BadRequest("Invalid product payload", apierr.CodeInvalidInput))
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("pid"), catalogapp.ProductUpdate{
		Price:  req.Price,
		Stock:  req.Stock,
		Status: req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, toProductResponse(product))
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.BadRequest("Category name is required", apierr.CodeInvalidInput))
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, categoryResponse{ID: category.ID, Name: category.Name})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryResponse{ID: cat.ID, Name: cat.Name})
	}
	respond(c, 200, out)
}

type TicketHandler struct {
	tickets *ticketapp.Service
}

func NewTicketHandler(tickets *ticketapp.Service) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// MyPurchases lists the authenticated buyer's tickets.
func (h *TicketHandler) MyPurchases(c *gin.Context) {
	id := callerIdentity(c)
	tickets, err := h.tickets.FindUserPurchases(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	respond(c, 200, out)
}

// MySales summarizes tickets containing products the caller owns.
func (h *TicketHandler) MySales(c *gin.Context) {
	id := callerIdentity(c)
	summary, err := h.tickets.SalesBySeller(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, gin.H{
		"totalTickets": summary.TotalTickets,
		"totalAmount":  summary.TotalAmount,
	})
}

type UserHandler struct {
	users *userapp.Service
}

func NewUserHandler(users *userapp.Service) *UserHandler {
	return &UserHandler{users: users}
}

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.BadRequest("Invalid registration payload", apierr.CodeInvalidInput))
		return
	}

	user, err := h.users.Register(c.Request.Context(), userapp.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, toUserResponse(user))
}

// GetUser returns a user record: admins can read anyone, other roles
// only themselves.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("uid")
	id := callerIdentity(c)
	if id.Role != identity.RoleAdmin && id.UserID != userID {
		respondError(c, apierr.Forbidden("You do not have permission to access this resource."))
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, toUserResponse(user))
}
