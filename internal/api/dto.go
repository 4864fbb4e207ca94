package api

import (
	"time"

	cartdomain "github.com/storelab/storefront/internal/cart/domain"
	catalogdomain "github.com/storelab/storefront/internal/catalog/domain"
	checkoutdomain "github.com/storelab/storefront/internal/checkout/domain"
	ticketdomain "github.com/storelab/storefront/internal/ticket/domain"
	userdomain "github.com/storelab/storefront/internal/user/domain"
)

type productResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Code        string  `json:"code"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category,omitempty"`
	Status      bool    `json:"status"`
	Owner       string  `json:"owner,omitempty"`
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.CategoryID,
		Status:      p.Status,
		Owner:       p.Owner,
	}
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type cartItemResponse struct {
	Product  productResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

type cartResponse struct {
	ID        string             `json:"id"`
	Items     []cartItemResponse `json:"products"`
	IsActive  bool               `json:"isActive"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func toCartResponse(cart cartdomain.PopulatedCart) cartResponse {
	out := cartResponse{
		ID:        cart.ID,
		IsActive:  cart.IsActive,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
		Items:     make([]cartItemResponse, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		out.Items = append(out.Items, cartItemResponse{
			Product: productResponse{
				ID:     item.Product.ID,
				Title:  item.Product.Title,
				Price:  item.Product.Price,
				Stock:  item.Product.Stock,
				Status: item.Product.Status,
			},
			Quantity: item.Quantity,
		})
	}
	return out
}

type ticketLineResponse struct {
	Title    string  `json:"productTitle"`
	Price    float64 `json:"productPrice"`
	Quantity int     `json:"productQuantity"`
}

type ticketResponse struct {
	ID         string               `json:"id"`
	Lines      []ticketLineResponse `json:"products"`
	TotalPrice float64              `json:"totalPrice"`
	CreatedAt  time.Time            `json:"createdAt"`
}

func toTicketResponse(t ticketdomain.Ticket) ticketResponse {
	out := ticketResponse{
		ID:         t.ID,
		TotalPrice: t.Total(),
		CreatedAt:  t.CreatedAt,
		Lines:      make([]ticketLineResponse, 0, len(t.Lines)),
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, ticketLineResponse{
			Title:    l.Title,
			Price:    l.Price,
			Quantity: l.Quantity,
		})
	}
	return out
}

type purchaseResponse struct {
	Ticket checkoutdomain.Receipt `json:"ticket"`
	User   checkoutdomain.Buyer   `json:"user"`
}

type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Cart      string `json:"cart"`
}

func toUserResponse(u userdomain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Cart:      u.CartID,
	}
}
