package domain

import (
	"math"
	"time"
)

type ReceiptLine struct {
	Title    string  `json:"productTitle"`
	Price    float64 `json:"productPrice"`
	Quantity int     `json:"productQuantity"`
}

// Receipt is the buyer-facing projection of a ticket. The total is
// derived from the snapshotted lines, rounded to three decimals.
type Receipt struct {
	TicketID   string        `json:"id"`
	BuyerName  string        `json:"buyerName"`
	BuyerEmail string        `json:"buyerEmail"`
	Lines      []ReceiptLine `json:"products"`
	TotalPrice float64       `json:"totalPrice"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Buyer is the slice of the user record a purchase touches.
type Buyer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	CartID    string `json:"cart"`
}

func (b Buyer) FullName() string {
	return b.FirstName + " " + b.LastName
}

func RoundTotal(sum float64) float64 {
	return math.Round(sum*1000) / 1000
}
