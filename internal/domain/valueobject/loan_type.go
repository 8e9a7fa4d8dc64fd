package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// LoanType – immutable value object
// ---------------------------------------------------------------------------

// LoanType distinguishes consumer credit from building finance.
type LoanType struct {
	value string
}

const (
	loanTypeImmediate = "immediate"
	loanTypeBuilding  = "building"
)

var (
	LoanTypeImmediate = LoanType{value: loanTypeImmediate}
	LoanTypeBuilding  = LoanType{value: loanTypeBuilding}
)

var validLoanTypes = map[string]LoanType{
	loanTypeImmediate: LoanTypeImmediate,
	loanTypeBuilding:  LoanTypeBuilding,
}

// NewLoanType creates a LoanType from a raw string.
func NewLoanType(s string) (LoanType, error) {
	v, ok := validLoanTypes[s]
	if !ok {
		return LoanType{}, fmt.Errorf("invalid loan type: %q", s)
	}
	return v, nil
}

// ParseLoanTypeLenient keeps unknown values instead of failing, so that the
// underwriting engine can reject them with a reason.
func ParseLoanTypeLenient(s string) LoanType {
	if v, ok := validLoanTypes[s]; ok {
		return v
	}
	return LoanType{value: s}
}

func (t LoanType) String() string            { return t.value }
func (t LoanType) IsZero() bool              { return t.value == "" }
func (t LoanType) Equal(other LoanType) bool { return t.value == other.value }

// IsKnown reports whether the loan type is one the policy understands.
func (t LoanType) IsKnown() bool {
	_, ok := validLoanTypes[t.value]
	return ok
}

// ---------------------------------------------------------------------------
// LoanSubtype – immutable value object
// ---------------------------------------------------------------------------

// LoanSubtype is the repayment structure of a loan.
type LoanSubtype struct {
	value string
}

const (
	loanSubtypeInstallment = "installment"
	loanSubtypeBullet      = "bullet"
	loanSubtypeAnnuity     = "annuity"
)

var (
	// LoanSubtypeInstallment repays a fixed amount per year; the term follows from it.
	LoanSubtypeInstallment = LoanSubtype{value: loanSubtypeInstallment}
	LoanSubtypeBullet      = LoanSubtype{value: loanSubtypeBullet}
	LoanSubtypeAnnuity     = LoanSubtype{value: loanSubtypeAnnuity}
)

var validLoanSubtypes = map[string]LoanSubtype{
	loanSubtypeInstallment: LoanSubtypeInstallment,
	loanSubtypeBullet:      LoanSubtypeBullet,
	loanSubtypeAnnuity:     LoanSubtypeAnnuity,
}

var allowedSubtypes = map[LoanType][]LoanSubtype{
	LoanTypeImmediate: {LoanSubtypeInstallment, LoanSubtypeBullet, LoanSubtypeAnnuity},
	LoanTypeBuilding:  {LoanSubtypeAnnuity},
}

// NewLoanSubtype creates a LoanSubtype from a raw string.
func NewLoanSubtype(s string) (LoanSubtype, error) {
	v, ok := validLoanSubtypes[s]
	if !ok {
		return LoanSubtype{}, fmt.Errorf("invalid loan subtype: %q", s)
	}
	return v, nil
}

func (s LoanSubtype) String() string               { return s.value }
func (s LoanSubtype) IsZero() bool                 { return s.value == "" }
func (s LoanSubtype) Equal(other LoanSubtype) bool { return s.value == other.value }

// AllowedFor reports whether the subtype may be combined with the loan type.
func (s LoanSubtype) AllowedFor(t LoanType) bool {
	for _, allowed := range allowedSubtypes[t] {
		if allowed == s {
			return true
		}
	}
	return false
}
