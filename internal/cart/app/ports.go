package app

import (
	"context"

	"github.com/storelab/storefront/internal/cart/domain"
)

type CartRepo interface {
	Create(ctx context.Context) (domain.Cart, error)
	Get(ctx context.Context, cartID string) (domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string) (domain.Cart, error)
	Deactivate(ctx context.Context, cartID string) (domain.Cart, error)
}

// ProductReader resolves product details when populating a cart.
type ProductReader interface {
	Products(ctx context.Context, ids []string) (map[string]domain.ProductInfo, error)
}
