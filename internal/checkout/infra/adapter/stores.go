// Package adapter binds the other bounded contexts to the checkout
// orchestrator's narrow ports.
package adapter

import (
	"context"

	cartapp "github.com/storelab/storefront/internal/cart/app"
	catalogapp "github.com/storelab/storefront/internal/catalog/app"
	checkoutapp "github.com/storelab/storefront/internal/checkout/app"
	checkoutdomain "github.com/storelab/storefront/internal/checkout/domain"
	ticketapp "github.com/storelab/storefront/internal/ticket/app"
	ticketdomain "github.com/storelab/storefront/internal/ticket/domain"
	userapp "github.com/storelab/storefront/internal/user/app"
	userdomain "github.com/storelab/storefront/internal/user/domain"
)

type CartServiceStore struct {
	svc *cartapp.Service
}

func NewCartServiceStore(svc *cartapp.Service) *CartServiceStore {
	return &CartServiceStore{svc: svc}
}

func (s *CartServiceStore) Get(ctx context.Context, cartID string) (checkoutapp.Cart, error) {
	cart, err := s.svc.GetCart(ctx, cartID)
	if err != nil {
		return checkoutapp.Cart{}, err
	}

	out := checkoutapp.Cart{
		ID:       cart.ID,
		IsActive: cart.IsActive,
		Items:    make([]checkoutapp.CartLine, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		out.Items = append(out.Items, checkoutapp.CartLine{
			ProductID: item.Product.ID,
			Title:     item.Product.Title,
			Price:     item.Product.Price,
			Stock:     item.Product.Stock,
			Quantity:  item.Quantity,
		})
	}
	return out, nil
}

func (s *CartServiceStore) Deactivate(ctx context.Context, cartID string) error {
	_, err := s.svc.Deactivate(ctx, cartID)
	return err
}

func (s *CartServiceStore) CreateEmpty(ctx context.Context) (string, error) {
	cart, err := s.svc.CreateCart(ctx)
	if err != nil {
		return "", err
	}
	return cart.ID, nil
}

type CatalogLedger struct {
	svc *catalogapp.Service
}

func NewCatalogLedger(svc *catalogapp.Service) *CatalogLedger {
	return &CatalogLedger{svc: svc}
}

func (l *CatalogLedger) Decrement(ctx context.Context, productID string, qty int) error {
	return l.svc.DecrementStock(ctx, productID, qty)
}

type TicketServiceWriter struct {
	svc *ticketapp.Service
}

func NewTicketServiceWriter(svc *ticketapp.Service) *TicketServiceWriter {
	return &TicketServiceWriter{svc: svc}
}

func (w *TicketServiceWriter) Append(ctx context.Context, buyerID, cartID string, lines []checkoutapp.TicketLine) (checkoutapp.TicketRecord, error) {
	draft := ticketdomain.Ticket{
		BuyerID: buyerID,
		CartID:  cartID,
		Lines:   make([]ticketdomain.Line, 0, len(lines)),
	}
	for _, l := range lines {
		draft.Lines = append(draft.Lines, ticketdomain.Line{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}

	ticket, err := w.svc.Append(ctx, draft)
	if err != nil {
		return checkoutapp.TicketRecord{}, err
	}
	return checkoutapp.TicketRecord{ID: ticket.ID, CreatedAt: ticket.CreatedAt}, nil
}

type UserServiceStore struct {
	svc *userapp.Service
}

func NewUserServiceStore(svc *userapp.Service) *UserServiceStore {
	return &UserServiceStore{svc: svc}
}

func (s *UserServiceStore) Get(ctx context.Context, userID string) (checkoutdomain.Buyer, error) {
	u, err := s.svc.Get(ctx, userID)
	if err != nil {
		return checkoutdomain.Buyer{}, err
	}
	return toBuyer(u), nil
}

func (s *UserServiceStore) SetActiveCart(ctx context.Context, userID, cartID string) (checkoutdomain.Buyer, error) {
	u, err := s.svc.SetActiveCart(ctx, userID, cartID)
	if err != nil {
		return checkoutdomain.Buyer{}, err
	}
	return toBuyer(u), nil
}

func toBuyer(u userdomain.User) checkoutdomain.Buyer {
	return checkoutdomain.Buyer{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CartID:    u.CartID,
	}
}
