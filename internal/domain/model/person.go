package model

import (
	"strings"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// Person is anybody who acts on the workflow: customers apply, staff decide.
type Person struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      valueobject.Role
}

// RoleForNewAccount is the role of a self-registered person: the first
// account administers the system, everybody after that is a customer.
func RoleForNewAccount(existingPersons int) valueobject.Role {
	if existingPersons == 0 {
		return valueobject.RoleAdmin
	}
	return valueobject.RoleCustomer
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FullName joins first and last name.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Authorize fails with an authorization error when the person's role may not
// perform the action.
func (p Person) Authorize(action valueobject.Action) error {
	if !p.Role.Allows(action) {
		return apperr.Authorization("%s %s may not %s", p.Role, p.ID, action)
	}
	return nil
}
