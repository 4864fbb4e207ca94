// Package identity parses authenticated session tokens and answers
// capability questions. It has no dependency on the transport layer;
// handlers get an Identity and handlers decide what to do with a deny.
package identity

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/storelab/storefront/pkg/apierr"
)

type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

// Identity is what a verified session token asserts about the caller.
// The core trusts it without re-validating credentials.
type Identity struct {
	UserID string
	CartID string
	Role   Role
}

type claims struct {
	Role Role   `json:"role"`
	Cart string `json:"cart,omitempty"`
	jwt.RegisteredClaims
}

// FromToken verifies the signed session token and extracts the caller's
// identity. Token issuance lives outside this module.
func FromToken(secret, token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, apierr.Unauthorized("You must be logged in to access this resource.")
	}

	return Identity{UserID: c.Subject, CartID: c.Cart, Role: c.Role}, nil
}

// Allowed reports whether the identity's role is in the required set.
func Allowed(id Identity, required ...Role) bool {
	for _, r := range required {
		if id.Role == r {
			return true
		}
	}
	return false
}

// OwnsCart reports whether the identity's active cart matches cartID.
// Cart routes require the caller to operate on their own cart.
func OwnsCart(id Identity, cartID string) bool {
	return id.CartID != "" && id.CartID == cartID
}
