package app

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/storelab/storefront/internal/user/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

type Service struct {
	repo  UserRepo
	carts CartProvisioner
}

func NewService(repo UserRepo, carts CartProvisioner) *Service {
	return &Service{
		repo:  repo,
		carts: carts,
	}
}

// Register creates a user together with their first active cart.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || len(in.Password) < 8 {
		return domain.User{}, apierr.BadRequest("Invalid registration payload", apierr.CodeInvalidInput)
	}
	if in.Role == "" {
		in.Role = "user"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	cartID, err := s.carts.ProvisionCart(ctx)
	if err != nil {
		return domain.User{}, err
	}

	return s.repo.Create(ctx, domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CartID:       cartID,
	})
}

func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return domain.User{}, apierr.BadRequest("Invalid user id", apierr.CodeInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// SetActiveCart repoints the user's cart reference after a purchase.
func (s *Service) SetActiveCart(ctx context.Context, userID, cartID string) (domain.User, error) {
	return s.repo.SetActiveCart(ctx, userID, cartID)
}
