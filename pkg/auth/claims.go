package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims issued to people using the loan workflow. The
// subject and PersonID carry the same id.
type Claims struct {
	jwt.RegisteredClaims
	PersonID string `json:"person_id"`
	Role     string `json:"role"`
}

// HasRole reports whether the claims carry one of roles.
func (c Claims) HasRole(roles ...string) bool {
	return slices.Contains(roles, c.Role)
}
