package app

import (
	"context"

	"github.com/storelab/storefront/internal/catalog/domain"
)

type ProductFilter struct {
	CategoryID string
	Owner      string
	PriceMin   float64
	PriceMax   float64
	Limit      int
}

type ProductUpdate struct {
	Price  *float64
	Stock  *int
	Status *bool
}

type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, id string, upd ProductUpdate) (domain.Product, error)
	DecrementStock(ctx context.Context, id string, qty int) error
}

type CategoryRepo interface {
	Create(ctx context.Context, c domain.Category) (domain.Category, error)
	Get(ctx context.Context, id string) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}
