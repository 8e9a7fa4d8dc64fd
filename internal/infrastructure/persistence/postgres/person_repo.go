package postgres

import (
	"context"
	"fmt"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
	pkgpostgres "github.com/mustafa-shahin/lf10-project/pkg/postgres"
)

// PersonRepo implements port.PersonRepository and port.AccountRepository.
type PersonRepo struct {
	db pkgpostgres.Querier
}

// NewPersonRepo creates a new repository backed by PostgreSQL.
func NewPersonRepo(db pkgpostgres.Querier) *PersonRepo {
	return &PersonRepo{db: db}
}

// Create stores a person with their bcrypt password hash. An empty hash
// stores a person who cannot log in.
func (r *PersonRepo) Create(ctx context.Context, p model.Person, passwordHash string) error {
	_, err := pkgpostgres.QuerierFromContext(ctx, r.db).Exec(ctx,
		`INSERT INTO persons (id, first_name, last_name, email, role, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Role.String(), nullable(passwordHash),
	)
	if err != nil {
		return translateError(err, "person %s", p.Email)
	}
	return nil
}

// FindByEmail retrieves a person and their password hash.
func (r *PersonRepo) FindByEmail(ctx context.Context, email string) (model.Person, string, error) {
	row := pkgpostgres.QuerierFromContext(ctx, r.db).QueryRow(ctx,
		`SELECT id, first_name, last_name, email, role, COALESCE(password_hash, '')
		 FROM persons WHERE lower(email) = lower($1)`, email)

	var (
		p       model.Person
		roleStr string
		hash    string
	)
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &roleStr, &hash); err != nil {
		return model.Person{}, "", translateError(err, "person with email %s", email)
	}
	role, err := valueobject.NewRole(roleStr)
	if err != nil {
		return model.Person{}, "", fmt.Errorf("parse role: %w", err)
	}
	p.Role = role
	return p, hash, nil
}

// Count returns how many people exist.
func (r *PersonRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := pkgpostgres.QuerierFromContext(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM persons`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return n, nil
}

// FindByID retrieves a person.
func (r *PersonRepo) FindByID(ctx context.Context, id string) (model.Person, error) {
	row := pkgpostgres.QuerierFromContext(ctx, r.db).QueryRow(ctx,
		`SELECT id, first_name, last_name, email, role FROM persons WHERE id = $1`, id)
	p, err := scanPerson(row)
	if err != nil {
		return model.Person{}, translateError(err, "person %s", id)
	}
	return p, nil
}

// ListByRole returns everybody holding role, ordered by ID.
func (r *PersonRepo) ListByRole(ctx context.Context, role valueobject.Role) ([]model.Person, error) {
	rows, err := pkgpostgres.QuerierFromContext(ctx, r.db).Query(ctx,
		`SELECT id, first_name, last_name, email, role FROM persons WHERE role = $1 ORDER BY id`,
		role.String())
	if err != nil {
		return nil, fmt.Errorf("query persons by role: %w", err)
	}
	defer rows.Close()

	var result []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// UpdateRole changes a person's role.
func (r *PersonRepo) UpdateRole(ctx context.Context, id string, role valueobject.Role) error {
	tag, err := pkgpostgres.QuerierFromContext(ctx, r.db).Exec(ctx,
		`UPDATE persons SET role = $2, updated_at = now() WHERE id = $1`, id, role.String())
	if err != nil {
		return translateError(err, "update role of person %s", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("person %s not found", id)
	}
	return nil
}

func scanPerson(s scannable) (model.Person, error) {
	var (
		p       model.Person
		roleStr string
	)
	if err := s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &roleStr); err != nil {
		return model.Person{}, err
	}
	role, err := valueobject.NewRole(roleStr)
	if err != nil {
		return model.Person{}, fmt.Errorf("parse role: %w", err)
	}
	p.Role = role
	return p, nil
}
