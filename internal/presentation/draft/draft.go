// Package draft keeps loan applications that a customer is still filling in.
// Drafts live in memory only; submitting one turns it into a real
// application and removes it.
package draft

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
)

// LoanParams is the first step: what the customer wants to borrow.
type LoanParams struct {
	LoanType        string          `json:"loan_type" validate:"required,max=32"`
	LoanSubtype     string          `json:"loan_subtype" validate:"omitempty,oneof=installment bullet annuity"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	RepaymentAmount decimal.Decimal `json:"repayment_amount"`
	TermYears       int             `json:"term_years" validate:"gte=0,lte=50"`
}

// Financials is the second step: the figures behind the coverage ratios.
type Financials struct {
	AvailableIncome      float64 `json:"available_income" validate:"gte=0"`
	ExistingMonthlyDebt  float64 `json:"existing_monthly_debt" validate:"gte=0"`
	CollateralValue      float64 `json:"collateral_value" validate:"gte=0"`
	TotalOutstandingDebt float64 `json:"total_outstanding_debt" validate:"gte=0"`
}

// Draft is an unsubmitted application.
type Draft struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"owner_id"`
	Loan       LoanParams  `json:"loan"`
	Financials *Financials `json:"financials,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	ExpiresAt  time.Time   `json:"expires_at"`
}

// SubmitRequest turns the draft into a submission by its owner. Missing
// financials submit as zeros.
func (d Draft) SubmitRequest() dto.SubmitApplicationRequest {
	req := dto.SubmitApplicationRequest{
		ActorID:         d.OwnerID,
		LoanType:        d.Loan.LoanType,
		LoanSubtype:     d.Loan.LoanSubtype,
		RequestedAmount: d.Loan.RequestedAmount,
		RepaymentAmount: d.Loan.RepaymentAmount,
		TermYears:       d.Loan.TermYears,
	}
	if f := d.Financials; f != nil {
		req.AvailableIncome = f.AvailableIncome
		req.ExistingMonthlyDebt = f.ExistingMonthlyDebt
		req.CollateralValue = f.CollateralValue
		req.TotalOutstandingDebt = f.TotalOutstandingDebt
	}
	return req
}

// Store holds drafts with a sliding expiry: every change renews the TTL.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewStore creates a store whose drafts expire after ttl without changes.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, ttl/2+time.Minute),
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create starts a draft for owner.
func (s *Store) Create(ownerID string, loan LoanParams) Draft {
	now := s.now()
	d := Draft{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Loan:      loan,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.cache.Set(d.ID, d, s.ttl)
	return d
}

// Get returns the owner's draft. Someone else's draft is reported as not
// found.
func (s *Store) Get(id, ownerID string) (Draft, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return Draft{}, apperr.NotFound("draft %s not found", id)
	}
	d := v.(Draft)
	if d.OwnerID != ownerID {
		return Draft{}, apperr.NotFound("draft %s not found", id)
	}
	return d, nil
}

// UpdateLoan replaces the loan parameters.
func (s *Store) UpdateLoan(id, ownerID string, loan LoanParams) (Draft, error) {
	return s.update(id, ownerID, func(d *Draft) { d.Loan = loan })
}

// SetFinancials records the second step.
func (s *Store) SetFinancials(id, ownerID string, f Financials) (Draft, error) {
	return s.update(id, ownerID, func(d *Draft) { d.Financials = &f })
}

// Take removes and returns the owner's draft, so that a draft is submitted
// at most once.
func (s *Store) Take(id, ownerID string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.Get(id, ownerID)
	if err != nil {
		return Draft{}, err
	}
	s.cache.Delete(id)
	return d, nil
}

// Restore puts back a draft taken for a submission that failed.
func (s *Store) Restore(d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ExpiresAt = s.now().Add(s.ttl)
	s.cache.Set(d.ID, d, s.ttl)
}

// Discard deletes the owner's draft.
func (s *Store) Discard(id, ownerID string) error {
	_, err := s.Take(id, ownerID)
	return err
}

// Count reports stored drafts, including expired ones not yet swept.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

func (s *Store) update(id, ownerID string, mutate func(*Draft)) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.Get(id, ownerID)
	if err != nil {
		return Draft{}, err
	}
	mutate(&d)
	d.UpdatedAt = s.now()
	d.ExpiresAt = d.UpdatedAt.Add(s.ttl)
	s.cache.Set(d.ID, d, s.ttl)
	return d, nil
}
