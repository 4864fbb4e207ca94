package app

import (
	"context"
	"strings"

	"github.com/storelab/storefront/internal/catalog/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type Service struct {
	products   ProductRepo
	categories CategoryRepo
}

func NewService(products ProductRepo, categories CategoryRepo) *Service {
	return &Service{
		products:   products,
		categories: categories,
	}
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Code = strings.TrimSpace(p.Code)

	if p.Title == "" || p.Code == "" || p.Price < 0 || p.Stock < 0 {
		return domain.Product{}, apierr.BadRequest("Invalid product payload", apierr.CodeInvalidInput)
	}

	if p.CategoryID != "" {
		if _, err := s.categories.Get(ctx, p.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	return s.products.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, apierr.BadRequest("Invalid product id", apierr.CodeInvalidInput)
	}
	return s.products.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.products.List(ctx, filter)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (domain.Product, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return domain.Product{}, apierr.BadRequest("Price cannot be negative", apierr.CodeInvalidInput)
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return domain.Product{}, apierr.BadRequest("Stock cannot be negative", apierr.CodeInvalidInput)
	}
	return s.products.Update(ctx, id, upd)
}

// CheckAvailability reports whether the product currently has at least
// qty units in stock. A read only; the authoritative guard lives in
// DecrementStock's conditional update.
func (s *Service) CheckAvailability(ctx context.Context, productID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, apierr.BadRequest("Quantity must be positive", apierr.CodeInvalidInput)
	}
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return false, err
	}
	return p.Stock >= qty, nil
}

// DecrementStock settles qty units against the product. The repo applies
// it as a conditional write that never drives stock negative.
func (s *Service) DecrementStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return apierr.BadRequest("Quantity must be positive", apierr.CodeInvalidInput)
	}
	return s.products.DecrementStock(ctx, productID, qty)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, apierr.BadRequest("Category name is required", apierr.CodeInvalidInput)
	}
	return s.categories.Create(ctx, domain.Category{Name: name})
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}
