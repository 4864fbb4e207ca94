package adapter

import (
	"context"

	cartdomain "github.com/storelab/storefront/internal/cart/domain"
	catalogapp "github.com/storelab/storefront/internal/catalog/app"
	"github.com/storelab/storefront/pkg/apierr"
)

// CatalogServiceReader binds the catalog service to the cart's
// ProductReader port.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) Products(ctx context.Context, ids []string) (map[string]cartdomain.ProductInfo, error) {
	out := make(map[string]cartdomain.ProductInfo, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		p, err := r.svc.GetProduct(ctx, id)
		if apierr.Is(err, apierr.CodeProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = cartdomain.ProductInfo{
			ID:     p.ID,
			Title:  p.Title,
			Price:  p.Price,
			Stock:  p.Stock,
			Status: p.Status,
		}
	}
	return out, nil
}
