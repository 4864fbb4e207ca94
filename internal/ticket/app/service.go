package app

import (
	"context"

	"github.com/storelab/storefront/internal/ticket/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type Service struct {
	repo TicketRepo
}

func NewService(repo TicketRepo) *Service {
	return &Service{repo: repo}
}

// Append persists a new receipt. Pure append; any persistence error is
// fatal to the enclosing purchase.
func (s *Service) Append(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	if t.BuyerID == "" || t.CartID == "" {
		return domain.Ticket{}, apierr.BadRequest("Ticket requires a buyer and a cart", apierr.CodeInvalidInput)
	}
	return s.repo.Append(ctx, t)
}

// FindUserPurchases returns all tickets bought by the user, newest
// first.
func (s *Service) FindUserPurchases(ctx context.Context, buyerID string) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, apierr.NotFound("No tickets found", apierr.CodeTicketsNotFound)
	}
	return tickets, nil
}

// SalesBySeller sums up ticket lines whose product belongs to the
// seller.
func (s *Service) SalesBySeller(ctx context.Context, sellerID string) (domain.SalesSummary, error) {
	summary, err := s.repo.SalesBySeller(ctx, sellerID)
	if err != nil {
		return domain.SalesSummary{}, err
	}
	if summary.TotalTickets == 0 {
		return domain.SalesSummary{}, apierr.NotFound("No tickets found", apierr.CodeTicketsNotFound)
	}
	return summary, nil
}
