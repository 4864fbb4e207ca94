package domain

import "time"

type Product struct {
	ID          string
	Title       string
	Description string
	Code        string
	Price       float64
	Stock       int
	CategoryID  string
	Status      bool
	Owner       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
