package domain

import (
	"math"
	"time"
)

// Line is a snapshot of a purchased cart line: title and price are
// captured at purchase time so later catalog edits do not rewrite
// history.
type Line struct {
	ProductID string
	Title     string
	Price     float64
	Quantity  int
}

// Ticket is an immutable purchase receipt. Never updated or deleted.
type Ticket struct {
	ID        string
	BuyerID   string
	CartID    string
	Lines     []Line
	CreatedAt time.Time
}

// Total derives the receipt total from the snapshotted lines. Not
// stored redundantly; computed at read time.
func (t Ticket) Total() float64 {
	var sum float64
	for _, l := range t.Lines {
		sum += l.Price * float64(l.Quantity)
	}
	return math.Round(sum*1000) / 1000
}

// SalesSummary aggregates a seller's share of all tickets.
type SalesSummary struct {
	TotalTickets int64
	TotalAmount  float64
}
