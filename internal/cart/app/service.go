package app

import (
	"context"
	"strings"

	"github.com/storelab/storefront/internal/cart/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type Service struct {
	repo     CartRepo
	products ProductReader
}

func NewService(repo CartRepo, products ProductReader) *Service {
	return &Service{
		repo:     repo,
		products: products,
	}
}

// CreateCart provisions a new empty, active cart.
func (s *Service) CreateCart(ctx context.Context) (domain.Cart, error) {
	return s.repo.Create(ctx)
}

// GetCart loads a cart with line items populated with product details.
func (s *Service) GetCart(ctx context.Context, cartID string) (domain.PopulatedCart, error) {
	if strings.TrimSpace(cartID) == "" {
		return domain.PopulatedCart{}, apierr.BadRequest("Invalid cart id", apierr.CodeInvalidInput)
	}

	cart, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return domain.PopulatedCart{}, err
	}
	return s.populate(ctx, cart)
}

// AddItem puts one unit of the product into the cart: increments the
// quantity when the line exists, appends a quantity-1 line otherwise.
func (s *Service) AddItem(ctx context.Context, cartID, productID string) (domain.PopulatedCart, error) {
	infos, err := s.products.Products(ctx, []string{productID})
	if err != nil {
		return domain.PopulatedCart{}, err
	}
	if _, ok := infos[productID]; !ok {
		return domain.PopulatedCart{}, apierr.NotFound("Product not found", apierr.CodeProductNotFound)
	}

	cart, err := s.repo.AddItem(ctx, cartID, productID)
	if err != nil {
		return domain.PopulatedCart{}, err
	}
	return s.populate(ctx, cart)
}

// Deactivate closes a cart after purchase. One-way: a deactivated cart
// never becomes active again.
func (s *Service) Deactivate(ctx context.Context, cartID string) (domain.Cart, error) {
	return s.repo.Deactivate(ctx, cartID)
}

func (s *Service) populate(ctx context.Context, cart domain.Cart) (domain.PopulatedCart, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	infos := map[string]domain.ProductInfo{}
	if len(ids) > 0 {
		var err error
		infos, err = s.products.Products(ctx, ids)
		if err != nil {
			return domain.PopulatedCart{}, err
		}
	}

	populated := domain.PopulatedCart{
		ID:        cart.ID,
		IsActive:  cart.IsActive,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
		Items:     make([]domain.PopulatedItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		info, ok := infos[item.ProductID]
		if !ok {
			// Product removed from the catalog after it was carted;
			// keep the line so the quantity is not silently lost.
			info = domain.ProductInfo{ID: item.ProductID}
		}
		populated.Items = append(populated.Items, domain.PopulatedItem{
			Product:  info,
			Quantity: item.Quantity,
		})
	}
	return populated, nil
}
