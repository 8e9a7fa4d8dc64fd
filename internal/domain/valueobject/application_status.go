package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// ApplicationStatus – immutable value object
// ---------------------------------------------------------------------------

// ApplicationStatus is the persisted lifecycle stage of a loan application.
type ApplicationStatus struct {
	value string
}

const (
	appStatusInProcessing = "in-processing"
	appStatusApproved     = "approved"
	appStatusRejected     = "rejected"
)

// Storage tokens written by the earlier version of the system.
const (
	legacyStatusInProcessing = "in bearbeitung"
	legacyStatusApproved     = "angenommen"
	legacyStatusRejected     = "abgelehnt"
)

var (
	ApplicationStatusInProcessing = ApplicationStatus{value: appStatusInProcessing}
	ApplicationStatusApproved     = ApplicationStatus{value: appStatusApproved}
	ApplicationStatusRejected     = ApplicationStatus{value: appStatusRejected}
)

var validApplicationStatuses = map[string]ApplicationStatus{
	appStatusInProcessing:    ApplicationStatusInProcessing,
	appStatusApproved:        ApplicationStatusApproved,
	appStatusRejected:        ApplicationStatusRejected,
	legacyStatusInProcessing: ApplicationStatusInProcessing,
	legacyStatusApproved:     ApplicationStatusApproved,
	legacyStatusRejected:     ApplicationStatusRejected,
}

var legacyStatusTokens = map[ApplicationStatus]string{
	ApplicationStatusInProcessing: legacyStatusInProcessing,
	ApplicationStatusApproved:     legacyStatusApproved,
	ApplicationStatusRejected:     legacyStatusRejected,
}

// NewApplicationStatus parses either a canonical literal or a legacy storage token.
func NewApplicationStatus(s string) (ApplicationStatus, error) {
	v, ok := validApplicationStatuses[s]
	if !ok {
		return ApplicationStatus{}, fmt.Errorf("invalid application status: %q", s)
	}
	return v, nil
}

// String returns the canonical literal.
func (s ApplicationStatus) String() string { return s.value }

// LegacyToken returns the storage token used by the earlier system.
func (s ApplicationStatus) LegacyToken() string { return legacyStatusTokens[s] }

// IsZero returns true if the status has not been initialised.
func (s ApplicationStatus) IsZero() bool { return s.value == "" }

// IsTerminal reports whether no further lifecycle transition is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// Equal returns true when both statuses carry the same value.
func (s ApplicationStatus) Equal(other ApplicationStatus) bool {
	return s.value == other.value
}

// ---------------------------------------------------------------------------
// Decision – immutable value object
// ---------------------------------------------------------------------------

// Decision is the workflow intent recorded alongside the status.
type Decision struct {
	value string
}

const (
	decisionPending  = "pending"
	decisionApproved = "approved"
	decisionRejected = "rejected"
)

var (
	DecisionPending  = Decision{value: decisionPending}
	DecisionApproved = Decision{value: decisionApproved}
	DecisionRejected = Decision{value: decisionRejected}
)

var validDecisions = map[string]Decision{
	decisionPending:  DecisionPending,
	decisionApproved: DecisionApproved,
	decisionRejected: DecisionRejected,
}

// NewDecision creates a Decision from a raw string.
func NewDecision(s string) (Decision, error) {
	v, ok := validDecisions[s]
	if !ok {
		return Decision{}, fmt.Errorf("invalid decision: %q", s)
	}
	return v, nil
}

func (d Decision) String() string            { return d.value }
func (d Decision) IsZero() bool              { return d.value == "" }
func (d Decision) Equal(other Decision) bool { return d.value == other.value }

// ---------------------------------------------------------------------------
// ManagerApproval – tri-state value object
// ---------------------------------------------------------------------------

// ManagerApproval records a manager's verdict. The zero value is unset.
type ManagerApproval struct {
	set      bool
	approved bool
}

var (
	ManagerApprovalUnset    = ManagerApproval{}
	ManagerApprovalApproved = ManagerApproval{set: true, approved: true}
	ManagerApprovalRejected = ManagerApproval{set: true, approved: false}
)

// ManagerApprovalFromPtr maps a nullable database column onto the value object.
func ManagerApprovalFromPtr(p *bool) ManagerApproval {
	if p == nil {
		return ManagerApprovalUnset
	}
	return ManagerApproval{set: true, approved: *p}
}

// Ptr is the inverse of ManagerApprovalFromPtr.
func (m ManagerApproval) Ptr() *bool {
	if !m.set {
		return nil
	}
	v := m.approved
	return &v
}

func (m ManagerApproval) IsSet() bool      { return m.set }
func (m ManagerApproval) IsApproved() bool { return m.set && m.approved }

func (m ManagerApproval) String() string {
	switch {
	case !m.set:
		return "unset"
	case m.approved:
		return "approved"
	default:
		return "rejected"
	}
}
