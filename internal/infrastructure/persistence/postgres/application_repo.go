package postgres

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
	pkgpostgres "github.com/mustafa-shahin/lf10-project/pkg/postgres"
)

// ApplicationRepo implements port.ApplicationRepository.
type ApplicationRepo struct {
	db           pkgpostgres.Querier
	legacyStatus bool
}

// ApplicationRepoOption configures an ApplicationRepo.
type ApplicationRepoOption func(*ApplicationRepo)

// WithLegacyStatusTokens makes the repository write the status tokens of the
// earlier system. Reads accept both forms either way.
func WithLegacyStatusTokens(enabled bool) ApplicationRepoOption {
	return func(r *ApplicationRepo) { r.legacyStatus = enabled }
}

// NewApplicationRepo creates a new repository backed by PostgreSQL. db is
// normally the pool; a transaction on the context takes precedence.
func NewApplicationRepo(db pkgpostgres.Querier, opts ...ApplicationRepoOption) *ApplicationRepo {
	r := &ApplicationRepo{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const applicationColumns = `
	id, applicant_id, loan_type, loan_subtype, requested_amount, repayment_amount,
	term_years, status, decision, reason, dscr, ccr, credit_score,
	needs_manager_approval, requires_additional_collateral, manager_approved,
	approval_note, handled_by, manager_id, interest_rate, monthly_payment,
	offer_created, offer_sent, version, created_at, updated_at, decided_at`

// Insert stores a new application.
func (r *ApplicationRepo) Insert(ctx context.Context, app model.Application) error {
	query := `INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`

	_, err := pkgpostgres.QuerierFromContext(ctx, r.db).Exec(ctx, query, r.row(app)...)
	if err != nil {
		return translateError(err, "insert application %s", app.ID())
	}
	return nil
}

// Update writes app when the stored row still has expectedStatus and the
// version preceding app's. Anything else means another writer got there first.
func (r *ApplicationRepo) Update(ctx context.Context, app model.Application, expectedStatus valueobject.ApplicationStatus) error {
	query := `
		UPDATE applications SET
			status                 = $2,
			decision               = $3,
			reason                 = $4,
			needs_manager_approval = $5,
			manager_approved       = $6,
			approval_note          = $7,
			handled_by             = $8,
			manager_id             = $9,
			interest_rate          = $10,
			monthly_payment        = $11,
			offer_created          = $12,
			offer_sent             = $13,
			version                = $14,
			updated_at             = $15,
			decided_at             = $16
		WHERE id = $1
		  AND status = ANY($17)
		  AND version = $14 - 1`

	tag, err := pkgpostgres.QuerierFromContext(ctx, r.db).Exec(ctx, query,
		app.ID(),
		r.statusToken(app.Status()),
		app.Decision().String(),
		app.Reason(),
		app.NeedsManagerApproval(),
		app.ManagerApproval().Ptr(),
		app.ApprovalNote(),
		nullable(app.HandledBy()),
		nullable(app.ManagerID()),
		app.InterestRate(),
		app.MonthlyPayment(),
		app.OfferCreated(),
		app.OfferSent(),
		app.Version(),
		app.UpdatedAt(),
		app.DecidedAt(),
		[]string{expectedStatus.String(), expectedStatus.LegacyToken()},
	)
	if err != nil {
		return translateError(err, "update application %s", app.ID())
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("application %s was modified concurrently", app.ID())
	}
	return nil
}

// FindByID retrieves a single application.
func (r *ApplicationRepo) FindByID(ctx context.Context, id string) (model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	row := pkgpostgres.QuerierFromContext(ctx, r.db).QueryRow(ctx, query, id)
	app, err := scanApplication(row)
	if err != nil {
		return model.Application{}, translateError(err, "application %s", id)
	}
	return app, nil
}

// List returns applications matching filter, newest first.
func (r *ApplicationRepo) List(ctx context.Context, filter port.ApplicationFilter) ([]model.Application, error) {
	query, args := buildListQuery(filter)

	rows, err := pkgpostgres.QuerierFromContext(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var result []model.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

func buildListQuery(filter port.ApplicationFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.ApplicantID != "" {
		args = append(args, filter.ApplicantID)
		where = append(where, fmt.Sprintf("applicant_id = $%d", len(args)))
	}
	if !filter.Status.IsZero() {
		args = append(args, []string{filter.Status.String(), filter.Status.LegacyToken()})
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	query := `SELECT ` + applicationColumns + ` FROM applications`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

// ---------------------------------------------------------------------------
// row mapping
// ---------------------------------------------------------------------------

func (r *ApplicationRepo) statusToken(s valueobject.ApplicationStatus) string {
	if r.legacyStatus {
		return s.LegacyToken()
	}
	return s.String()
}

func (r *ApplicationRepo) row(app model.Application) []any {
	var dscr, ccr *float64
	if app.LoanType().Equal(valueobject.LoanTypeBuilding) {
		d, c := app.DSCR(), app.CCR()
		dscr, ccr = &d, &c
	}
	return []any{
		app.ID(),
		app.ApplicantID(),
		app.LoanType().String(),
		app.LoanSubtype().String(),
		app.RequestedAmount(),
		app.RepaymentAmount(),
		app.TermYears(),
		r.statusToken(app.Status()),
		app.Decision().String(),
		app.Reason(),
		dscr,
		ccr,
		app.CreditScore(),
		app.NeedsManagerApproval(),
		app.RequiresAdditionalCollateral(),
		app.ManagerApproval().Ptr(),
		app.ApprovalNote(),
		nullable(app.HandledBy()),
		nullable(app.ManagerID()),
		app.InterestRate(),
		app.MonthlyPayment(),
		app.OfferCreated(),
		app.OfferSent(),
		app.Version(),
		app.CreatedAt(),
		app.UpdatedAt(),
		app.DecidedAt(),
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanApplication(s scannable) (model.Application, error) {
	var (
		snap                             model.ApplicationSnapshot
		loanType, loanSubtype            string
		statusStr, decisionStr           string
		dscr, ccr                        *float64
		managerApproved                  *bool
		handledBy, managerID             *string
		requestedAmount, repaymentAmount decimal.Decimal
		monthlyPayment                   decimal.Decimal
		createdAt, updatedAt             time.Time
		decidedAt                        *time.Time
	)

	err := s.Scan(
		&snap.ID, &snap.ApplicantID, &loanType, &loanSubtype,
		&requestedAmount, &repaymentAmount,
		&snap.TermYears, &statusStr, &decisionStr, &snap.Reason,
		&dscr, &ccr, &snap.CreditScore,
		&snap.NeedsManagerApproval, &snap.RequiresAdditionalCollateral, &managerApproved,
		&snap.ApprovalNote, &handledBy, &managerID,
		&snap.InterestRate, &monthlyPayment,
		&snap.OfferCreated, &snap.OfferSent,
		&snap.Version, &createdAt, &updatedAt, &decidedAt,
	)
	if err != nil {
		return model.Application{}, err
	}

	status, err := valueobject.NewApplicationStatus(statusStr)
	if err != nil {
		return model.Application{}, fmt.Errorf("parse status: %w", err)
	}
	decision, err := valueobject.NewDecision(decisionStr)
	if err != nil {
		return model.Application{}, fmt.Errorf("parse decision: %w", err)
	}
	if loanSubtype != "" {
		if snap.LoanSubtype, err = valueobject.NewLoanSubtype(loanSubtype); err != nil {
			return model.Application{}, fmt.Errorf("parse loan subtype: %w", err)
		}
	}

	snap.LoanType = valueobject.ParseLoanTypeLenient(loanType)
	snap.Status = status
	snap.Decision = decision
	snap.RequestedAmount = requestedAmount
	snap.RepaymentAmount = repaymentAmount
	snap.MonthlyPayment = monthlyPayment
	snap.DSCR = floatOrZero(dscr)
	snap.CCR = floatOrZero(ccr)
	snap.ManagerApproval = valueobject.ManagerApprovalFromPtr(managerApproved)
	snap.HandledBy = stringOrEmpty(handledBy)
	snap.ManagerID = stringOrEmpty(managerID)
	snap.CreatedAt = createdAt.UTC()
	snap.UpdatedAt = updatedAt.UTC()
	if decidedAt != nil {
		t := decidedAt.UTC()
		snap.DecidedAt = &t
	}
	return model.ReconstructApplication(snap), nil
}

func floatOrZero(f *float64) float64 {
	if f == nil || math.IsNaN(*f) {
		return 0
	}
	return *f
}
