package testutil

import (
	"context"
	"testing"
)

// Fixed person IDs for deterministic integration tests.
const (
	CustomerID = "00000000-0000-0000-0000-000000000001"
	EmployeeID = "00000000-0000-0000-0000-000000000002"
	ManagerID  = "00000000-0000-0000-0000-000000000003"
	Manager2ID = "00000000-0000-0000-0000-000000000004"
	AdminID    = "00000000-0000-0000-0000-000000000005"
)

// SeedPersons inserts one person per fixed ID with the matching role.
func (pc *PostgresContainer) SeedPersons(t *testing.T) {
	t.Helper()

	seed := []struct {
		id, first, last, email, role string
	}{
		{CustomerID, "Clara", "Kunde", "clara@example.com", "customer"},
		{EmployeeID, "Erika", "Muster", "erika@example.com", "employee"},
		{ManagerID, "Max", "Mann", "max@example.com", "manager"},
		{Manager2ID, "Mia", "Maus", "mia@example.com", "manager"},
		{AdminID, "Ada", "Admin", "ada@example.com", "admin"},
	}
	for _, p := range seed {
		_, err := pc.Pool.Exec(context.Background(),
			`INSERT INTO persons (id, first_name, last_name, email, role) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			p.id, p.first, p.last, p.email, p.role)
		if err != nil {
			t.Fatalf("failed to seed person %s: %v", p.id, err)
		}
	}
}
