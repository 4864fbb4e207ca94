package app

import (
	"context"

	"github.com/storelab/storefront/internal/user/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	SetActiveCart(ctx context.Context, userID, cartID string) (domain.User, error)
}

// CartProvisioner creates the empty active cart every new user starts
// with.
type CartProvisioner interface {
	ProvisionCart(ctx context.Context) (string, error)
}
