package valueobject

import "fmt"

// Role is the closed set of person types known to the workflow.
type Role int

const (
	RoleCustomer Role = iota + 1
	RoleEmployee
	RoleManager
	RoleAdmin
	RoleDirector
)

var roleNames = map[Role]string{
	RoleCustomer: "customer",
	RoleEmployee: "employee",
	RoleManager:  "manager",
	RoleAdmin:    "admin",
	RoleDirector: "director",
}

var rolesByName = map[string]Role{
	"customer": RoleCustomer,
	"employee": RoleEmployee,
	"manager":  RoleManager,
	"admin":    RoleAdmin,
	"director": RoleDirector,
}

// NewRole parses a role name.
func NewRole(s string) (Role, error) {
	r, ok := rolesByName[s]
	if !ok {
		return 0, fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// AllRoles lists every role in declaration order.
func AllRoles() []Role {
	return []Role{RoleCustomer, RoleEmployee, RoleManager, RoleAdmin, RoleDirector}
}

func (r Role) String() string { return roleNames[r] }

// IsStaff is true for every role that works on other people's applications.
func (r Role) IsStaff() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin, RoleDirector:
		return true
	case RoleCustomer:
		return false
	default:
		return false
	}
}

// Action is something a person may attempt on the workflow.
type Action int

const (
	ActionSubmitApplication Action = iota + 1
	ActionEmployeeDecide
	ActionEscalate
	ActionProcessApplication
	ActionManagerDecide
	ActionCreateOffer
	ActionChangeRole
	ActionViewAllApplications
)

var actionNames = map[Action]string{
	ActionSubmitApplication:   "submit application",
	ActionEmployeeDecide:      "decide application",
	ActionEscalate:            "escalate application",
	ActionProcessApplication:  "process application",
	ActionManagerDecide:       "record manager decision",
	ActionCreateOffer:         "create loan offer",
	ActionChangeRole:          "change role",
	ActionViewAllApplications: "view all applications",
}

func (a Action) String() string { return actionNames[a] }

// Allows reports whether the role may perform the action.
func (r Role) Allows(a Action) bool {
	switch r {
	case RoleCustomer:
		return a == ActionSubmitApplication
	case RoleEmployee:
		switch a {
		case ActionEmployeeDecide, ActionEscalate, ActionProcessApplication,
			ActionCreateOffer, ActionViewAllApplications:
			return true
		}
		return false
	case RoleManager:
		switch a {
		case ActionManagerDecide, ActionProcessApplication, ActionCreateOffer, ActionViewAllApplications:
			return true
		}
		return false
	case RoleAdmin:
		return a == ActionChangeRole || a == ActionViewAllApplications
	case RoleDirector:
		return a == ActionViewAllApplications
	default:
		return false
	}
}
