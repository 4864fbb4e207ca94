package app_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelab/storefront/internal/checkout/app"
	"github.com/storelab/storefront/internal/checkout/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type fixture struct {
	svc     *app.Service
	carts   *mockCartStore
	ledger  *mockLedger
	tickets *mockTicketWriter
	users   *mockUserStore
}

func setup(t *testing.T) *fixture {
	t.Helper()

	carts := &mockCartStore{carts: map[string]app.Cart{}}
	ledger := &mockLedger{stock: map[string]int{}}
	tickets := &mockTicketWriter{}
	users := &mockUserStore{users: map[string]domain.Buyer{}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		svc:     app.NewService(carts, ledger, tickets, users, log, nil),
		carts:   carts,
		ledger:  ledger,
		tickets: tickets,
		users:   users,
	}
}

func (f *fixture) seedBuyer(id string) {
	f.users.users[id] = domain.Buyer{
		ID:        id,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		CartID:    "c1",
	}
}

func TestPurchaseSuccess(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	f.ledger.stock["p1"] = 5
	f.carts.carts["c1"] = app.Cart{
		ID:       "c1",
		IsActive: true,
		Items: []app.CartLine{
			{ProductID: "p1", Title: "Laptop", Price: 99.5, Stock: 5, Quantity: 2},
		},
	}

	receipt, buyer, err := f.svc.Purchase(context.Background(), "c1", "u1")

	require.NoError(t, err)
	assert.Equal(t, 3, f.ledger.stock["p1"])
	assert.Equal(t, 199.0, receipt.TotalPrice)
	assert.Equal(t, "Ada Lovelace", receipt.BuyerName)
	assert.Equal(t, "ada@example.com", receipt.BuyerEmail)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, 2, receipt.Lines[0].Quantity)

	require.Len(t, f.tickets.appended, 1)
	assert.Equal(t, "u1", f.tickets.appended[0].buyerID)
	assert.Equal(t, "c1", f.tickets.appended[0].cartID)

	assert.False(t, f.carts.carts["c1"].IsActive, "purchased cart must be closed")
	assert.NotEqual(t, "c1", buyer.CartID, "buyer must be repointed to a fresh cart")
	assert.True(t, f.carts.carts[buyer.CartID].IsActive)
	assert.Empty(t, f.carts.carts[buyer.CartID].Items)
}

func TestPurchaseInsufficientStock(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	f.ledger.stock["p2"] = 3
	f.carts.carts["c2"] = app.Cart{
		ID:       "c2",
		IsActive: true,
		Items: []app.CartLine{
			{ProductID: "p2", Title: "Keyboard", Price: 10, Stock: 3, Quantity: 10},
		},
	}

	_, _, err := f.svc.Purchase(context.Background(), "c2", "u1")

	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeInsufficientStock))
	assert.Contains(t, apierr.From(err).Description, "Keyboard")

	assert.Equal(t, 3, f.ledger.stock["p2"], "no stock mutation on rejection")
	assert.Empty(t, f.tickets.appended, "no ticket on rejection")
	assert.True(t, f.carts.carts["c2"].IsActive, "cart stays open on rejection")
}

func TestPurchaseCartNotFound(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")

	_, _, err := f.svc.Purchase(context.Background(), "missing", "u1")

	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeCartNotFound))
}

func TestPurchaseUserNotFound(t *testing.T) {
	f := setup(t)
	f.carts.carts["c1"] = app.Cart{
		ID:       "c1",
		IsActive: true,
		Items:    []app.CartLine{{ProductID: "p1", Title: "Pen", Price: 1, Stock: 1, Quantity: 1}},
	}

	_, _, err := f.svc.Purchase(context.Background(), "c1", "ghost")

	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeUserNotFound))
	assert.Empty(t, f.tickets.appended)
}

func TestPurchaseEmptyCart(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	f.carts.carts["c1"] = app.Cart{ID: "c1", IsActive: true}

	_, _, err := f.svc.Purchase(context.Background(), "c1", "u1")

	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeEmptyCart))
}

func TestPurchaseInactiveCart(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	f.carts.carts["c1"] = app.Cart{
		ID:    "c1",
		Items: []app.CartLine{{ProductID: "p1", Title: "Pen", Price: 1, Stock: 1, Quantity: 1}},
	}

	_, _, err := f.svc.Purchase(context.Background(), "c1", "u1")

	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeCartInactive))
}

func TestPurchaseTicketFailure(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	f.ledger.stock["p1"] = 5
	f.tickets.failWith = errors.New("write concern timeout")
	f.carts.carts["c1"] = app.Cart{
		ID:       "c1",
		IsActive: true,
		Items:    []app.CartLine{{ProductID: "p1", Title: "Pen", Price: 2, Stock: 5, Quantity: 1}},
	}

	_, _, err := f.svc.Purchase(context.Background(), "c1", "u1")

	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodePurchaseFailed))
	assert.Equal(t, 5, f.ledger.stock["p1"], "stock untouched when the transaction aborts")
}

func TestPurchaseUserRepointFailure(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	f.ledger.stock["p1"] = 5
	f.users.failRepoint = true
	f.carts.carts["c1"] = app.Cart{
		ID:       "c1",
		IsActive: true,
		Items:    []app.CartLine{{ProductID: "p1", Title: "Pen", Price: 2, Stock: 5, Quantity: 1}},
	}

	_, _, err := f.svc.Purchase(context.Background(), "c1", "u1")

	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeUserUpdateFailed))
	assert.Equal(t, 5, f.ledger.stock["p1"])
}

func TestPurchaseSkipsVanishedProduct(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	f.ledger.stock["p1"] = 5
	// p2 is present in the cart snapshot but gone from the ledger.
	f.carts.carts["c1"] = app.Cart{
		ID:       "c1",
		IsActive: true,
		Items: []app.CartLine{
			{ProductID: "p1", Title: "Pen", Price: 2, Stock: 5, Quantity: 1},
			{ProductID: "p2", Title: "Ghost", Price: 9, Stock: 1, Quantity: 1},
		},
	}

	receipt, _, err := f.svc.Purchase(context.Background(), "c1", "u1")

	require.NoError(t, err)
	assert.Equal(t, 4, f.ledger.stock["p1"])
	assert.Equal(t, 11.0, receipt.TotalPrice, "receipt still prices the snapshotted line")
}

func TestPurchaseNeverOverdrawsOnRace(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	// The cart snapshot saw stock=2 but another purchase settled first.
	f.ledger.stock["p1"] = 1
	f.carts.carts["c1"] = app.Cart{
		ID:       "c1",
		IsActive: true,
		Items:    []app.CartLine{{ProductID: "p1", Title: "Pen", Price: 2, Stock: 2, Quantity: 2}},
	}

	_, _, err := f.svc.Purchase(context.Background(), "c1", "u1")

	require.NoError(t, err)
	assert.Equal(t, 1, f.ledger.stock["p1"], "conditional settle skips instead of going negative")
}

func TestPurchaseDecrementSumsAcrossLines(t *testing.T) {
	f := setup(t)
	f.seedBuyer("u1")
	f.ledger.stock["p1"] = 10
	f.ledger.stock["p2"] = 10
	f.carts.carts["c1"] = app.Cart{
		ID:       "c1",
		IsActive: true,
		Items: []app.CartLine{
			{ProductID: "p1", Title: "Pen", Price: 1.25, Stock: 10, Quantity: 3},
			{ProductID: "p2", Title: "Ink", Price: 0.75, Stock: 10, Quantity: 4},
		},
	}

	receipt, _, err := f.svc.Purchase(context.Background(), "c1", "u1")

	require.NoError(t, err)
	assert.Equal(t, 7, f.ledger.stock["p1"])
	assert.Equal(t, 6, f.ledger.stock["p2"])
	assert.Equal(t, 6.75, receipt.TotalPrice)
}

type mockCartStore struct {
	carts map[string]app.Cart
	next  int
}

func (m *mockCartStore) Get(_ context.Context, cartID string) (app.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return app.Cart{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}
	return cart, nil
}

func (m *mockCartStore) Deactivate(_ context.Context, cartID string) error {
	cart, ok := m.carts[cartID]
	if !ok {
		return apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}
	cart.IsActive = false
	m.carts[cartID] = cart
	return nil
}

func (m *mockCartStore) CreateEmpty(_ context.Context) (string, error) {
	m.next++
	id := "fresh-" + string(rune('a'+m.next))
	m.carts[id] = app.Cart{ID: id, IsActive: true}
	return id, nil
}

type mockLedger struct {
	stock map[string]int
}

func (m *mockLedger) Decrement(_ context.Context, productID string, qty int) error {
	current, ok := m.stock[productID]
	if !ok {
		return apierr.NotFound("Product not found", apierr.CodeProductNotFound)
	}
	if current < qty {
		return apierr.BadRequest("Not enough stock", apierr.CodeInsufficientStock)
	}
	m.stock[productID] = current - qty
	return nil
}

type appendedTicket struct {
	buyerID string
	cartID  string
	lines   []app.TicketLine
}

type mockTicketWriter struct {
	appended []appendedTicket
	failWith error
}

func (m *mockTicketWriter) Append(_ context.Context, buyerID, cartID string, lines []app.TicketLine) (app.TicketRecord, error) {
	if m.failWith != nil {
		return app.TicketRecord{}, m.failWith
	}
	m.appended = append(m.appended, appendedTicket{buyerID: buyerID, cartID: cartID, lines: lines})
	return app.TicketRecord{ID: "t1"}, nil
}

type mockUserStore struct {
	users       map[string]domain.Buyer
	failRepoint bool
}

func (m *mockUserStore) Get(_ context.Context, userID string) (domain.Buyer, error) {
	buyer, ok := m.users[userID]
	if !ok {
		return domain.Buyer{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}
	return buyer, nil
}

func (m *mockUserStore) SetActiveCart(_ context.Context, userID, cartID string) (domain.Buyer, error) {
	if m.failRepoint {
		return domain.Buyer{}, errors.New("write concern timeout")
	}
	buyer, ok := m.users[userID]
	if !ok {
		return domain.Buyer{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}
	buyer.CartID = cartID
	m.users[userID] = buyer
	return buyer, nil
}
