package adapter

import (
	"context"

	cartapp "github.com/storelab/storefront/internal/cart/app"
)

// CartServiceProvisioner binds the cart service to the user context's
// CartProvisioner port.
type CartServiceProvisioner struct {
	svc *cartapp.Service
}

func NewCartServiceProvisioner(svc *cartapp.Service) *CartServiceProvisioner {
	return &CartServiceProvisioner{svc: svc}
}

func (p *CartServiceProvisioner) ProvisionCart(ctx context.Context) (string, error) {
	cart, err := p.svc.CreateCart(ctx)
	if err != nil {
		return "", err
	}
	return cart.ID, nil
}
