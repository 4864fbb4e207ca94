package domain

import "time"

// LineItem is a product reference with its quantity inside a cart.
type LineItem struct {
	ProductID string
	Quantity  int
}

// Cart is a user's basket. Once purchased it is deactivated for good;
// carts are never deleted.
type Cart struct {
	ID        string
	Items     []LineItem
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductInfo is the slice of catalog data a populated cart carries.
type ProductInfo struct {
	ID     string
	Title  string
	Price  float64
	Stock  int
	Status bool
}

type PopulatedItem struct {
	Product  ProductInfo
	Quantity int
}

type PopulatedCart struct {
	ID        string
	Items     []PopulatedItem
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
