package app

import (
	"context"

	"github.com/storelab/storefront/internal/ticket/domain"
)

type TicketRepo interface {
	Append(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
	FindByBuyer(ctx context.Context, buyerID string) ([]domain.Ticket, error)
	SalesBySeller(ctx context.Context, sellerID string) (domain.SalesSummary, error)
}
