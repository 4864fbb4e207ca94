package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelab/storefront/internal/user/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

func TestRegister(t *testing.T) {
	repo := &fakeUserRepo{store: map[string]domain.User{}}
	carts := &fakeProvisioner{}
	svc := NewService(repo, carts)

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "correct horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email, "email is normalized")
	assert.Equal(t, "user", user.Role)
	assert.NotEmpty(t, user.CartID, "registration provisions a cart")
	assert.Equal(t, 1, carts.calls)

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse"))
	assert.NoError(t, err, "stored hash must verify against the password")
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(&fakeUserRepo{store: map[string]domain.User{}}, &fakeProvisioner{})

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing first name", RegisterInput{LastName: "L", Email: "a@b.co", Password: "long enough"}},
		{"missing email", RegisterInput{FirstName: "A", LastName: "L", Password: "long enough"}},
		{"short password", RegisterInput{FirstName: "A", LastName: "L", Email: "a@b.co", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			assert.True(t, apierr.Is(err, apierr.CodeInvalidInput))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{store: map[string]domain.User{}}
	svc := NewService(repo, &fakeProvisioner{})

	in := RegisterInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "correct horse"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeDuplicateEmail))
}

func TestSetActiveCart(t *testing.T) {
	repo := &fakeUserRepo{store: map[string]domain.User{
		"u1": {ID: "u1", CartID: "old"},
	}}
	svc := NewService(repo, &fakeProvisioner{})

	user, err := svc.SetActiveCart(context.Background(), "u1", "new")
	require.NoError(t, err)
	assert.Equal(t, "new", user.CartID)

	_, err = svc.SetActiveCart(context.Background(), "ghost", "new")
	assert.True(t, apierr.Is(err, apierr.CodeUserNotFound))
}

type fakeUserRepo struct {
	store map[string]domain.User
	next  int
}

func (f *fakeUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	for _, existing := range f.store {
		if existing.Email == u.Email {
			return domain.User{}, apierr.Conflict("Email already registered", apierr.CodeDuplicateEmail)
		}
	}
	f.next++
	u.ID = "u-" + string(rune('0'+f.next))
	f.store[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Get(_ context.Context, id string) (domain.User, error) {
	u, ok := f.store[id]
	if !ok {
		return domain.User{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}
	return u, nil
}

func (f *fakeUserRepo) SetActiveCart(_ context.Context, userID, cartID string) (domain.User, error) {
	u, ok := f.store[userID]
	if !ok {
		return domain.User{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}
	u.CartID = cartID
	f.store[userID] = u
	return u, nil
}

type fakeProvisioner struct {
	calls int
}

func (f *fakeProvisioner) ProvisionCart(_ context.Context) (string, error) {
	f.calls++
	return "cart-1", nil
}
