package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/storelab/storefront/internal/checkout/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

// CartLine is a populated cart line as the orchestrator sees it: the
// quantity requested plus the product fields the transaction needs.
type CartLine struct {
	ProductID string
	Title     string
	Price     float64
	Stock     int
	Quantity  int
}

type Cart struct {
	ID       string
	IsActive bool
	Items    []CartLine
}

type TicketLine struct {
	ProductID string
	Title     string
	Price     float64
	Quantity  int
}

type TicketRecord struct {
	ID        string
	CreatedAt time.Time
}

type CartStore interface {
	Get(ctx context.Context, cartID string) (Cart, error)
	Deactivate(ctx context.Context, cartID string) error
	CreateEmpty(ctx context.Context) (string, error)
}

type TicketWriter interface {
	Append(ctx context.Context, buyerID, cartID string, lines []TicketLine) (TicketRecord, error)
}

// StockLedger settles purchased quantities. Implementations must apply
// the decrement conditionally so stock never goes negative.
type StockLedger interface {
	Decrement(ctx context.Context, productID string, qty int) error
}

type UserStore interface {
	Get(ctx context.Context, userID string) (domain.Buyer, error)
	SetActiveCart(ctx context.Context, userID, cartID string) (domain.Buyer, error)
}

// Service coordinates the cart-to-purchase transaction: validate,
// snapshot into a ticket, close the purchased cart, provision its
// replacement, repoint the buyer, then settle stock.
type Service struct {
	carts   CartStore
	ledger  StockLedger
	tickets TicketWriter
	users   UserStore

	log       *slog.Logger
	purchases *prometheus.CounterVec
}

func NewService(carts CartStore, ledger StockLedger, tickets TicketWriter, users UserStore, log *slog.Logger, purchases *prometheus.CounterVec) *Service {
	return &Service{
		carts:     carts,
		ledger:    ledger,
		tickets:   tickets,
		users:     users,
		log:       log,
		purchases: purchases,
	}
}

// Purchase executes the purchase transaction for the given cart and
// buyer and returns the receipt plus the updated buyer record.
//
// Stock is checked up front and settled per line at the end. The two
// phases are separate document operations, so the settle decrement is
// conditional and skips rather than overdraws when the check was raced.
// The three middle operations (ticket append, cart close, replacement
// cart) run concurrently; there is no automatic rollback if one of them
// fails after another has committed.
func (s *Service) Purchase(ctx context.Context, cartID, userID string) (domain.Receipt, domain.Buyer, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return s.fail(err)
	}
	if !cart.IsActive {
		return s.fail(apierr.BadRequest("Cart is no longer active", apierr.CodeCartInactive))
	}
	if len(cart.Items) == 0 {
		return s.fail(apierr.BadRequest("Cart is empty", apierr.CodeEmptyCart))
	}

	for _, line := range cart.Items {
		if line.Stock < line.Quantity {
			return s.fail(apierr.BadRequest(
				fmt.Sprintf("Not enough stock for product %s", line.Title),
				apierr.CodeInsufficientStock,
			))
		}
	}

	buyer, err := s.users.Get(ctx, userID)
	if err != nil {
		return s.fail(err)
	}

	ticketLines := make([]TicketLine, 0, len(cart.Items))
	for _, line := range cart.Items {
		ticketLines = append(ticketLines, TicketLine{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	var (
		record    TicketRecord
		newCartID string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		record, err = s.tickets.Append(gctx, buyer.ID, cart.ID, ticketLines)
		return err
	})
	g.Go(func() error {
		return s.carts.Deactivate(gctx, cart.ID)
	})
	g.Go(func() error {
		var err error
		newCartID, err = s.carts.CreateEmpty(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return s.fail(apierr.New("Cart not purchased", err.Error(), apierr.CodePurchaseFailed, http.StatusInternalServerError))
	}

	buyer, err = s.users.SetActiveCart(ctx, userID, newCartID)
	if err != nil {
		return s.fail(apierr.New("User not updated", err.Error(), apierr.CodeUserUpdateFailed, http.StatusInternalServerError))
	}

	// Settle stock line by line. A product that vanished since the
	// check is skipped; a conditional-update rejection is skipped too
	// instead of driving stock negative. Both are logged for operators
	// since there is no compensation for the already-created ticket.
	for _, line := range cart.Items {
		err := s.ledger.Decrement(ctx, line.ProductID, line.Quantity)
		switch {
		case err == nil:
		case apierr.Is(err, apierr.CodeProductNotFound):
			s.log.Warn("stock settle skipped: product missing",
				slog.String("product_id", line.ProductID),
				slog.String("ticket_id", record.ID))
		case apierr.Is(err, apierr.CodeInsufficientStock):
			s.log.Warn("stock settle skipped: concurrent shortfall",
				slog.String("product_id", line.ProductID),
				slog.String("ticket_id", record.ID))
		default:
			return s.fail(err)
		}
	}

	receiptLines := make([]domain.ReceiptLine, 0, len(cart.Items))
	var total float64
	for _, line := range cart.Items {
		receiptLines = append(receiptLines, domain.ReceiptLine{
			Title:    line.Title,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
		total += line.Price * float64(line.Quantity)
	}

	s.observe("success")
	return domain.Receipt{
		TicketID:   record.ID,
		BuyerName:  buyer.FullName(),
		BuyerEmail: buyer.Email,
		Lines:      receiptLines,
		TotalPrice: domain.RoundTotal(total),
		CreatedAt:  record.CreatedAt,
	}, buyer, nil
}

func (s *Service) fail(err error) (domain.Receipt, domain.Buyer, error) {
	s.observe("failure")
	return domain.Receipt{}, domain.Buyer{}, err
}

func (s *Service) observe(outcome string) {
	if s.purchases != nil {
		s.purchases.WithLabelValues(outcome).Inc()
	}
}
