package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

func TestApplicationStatus_Parse(t *testing.T) {
	tests := map[string]valueobject.ApplicationStatus{
		"in-processing":  valueobject.ApplicationStatusInProcessing,
		"approved":       valueobject.ApplicationStatusApproved,
		"rejected":       valueobject.ApplicationStatusRejected,
		"in bearbeitung": valueobject.ApplicationStatusInProcessing,
		"angenommen":     valueobject.ApplicationStatusApproved,
		"abgelehnt":      valueobject.ApplicationStatusRejected,
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			got, err := valueobject.NewApplicationStatus(raw)
			require.NoError(t, err)
			assert.True(t, got.Equal(want))
		})
	}

	_, err := valueobject.NewApplicationStatus("disbursed")
	assert.Error(t, err)
}

func TestApplicationStatus_LegacyToken(t *testing.T) {
	assert.Equal(t, "in bearbeitung", valueobject.ApplicationStatusInProcessing.LegacyToken())
	assert.Equal(t, "angenommen", valueobject.ApplicationStatusApproved.LegacyToken())
	assert.Equal(t, "abgelehnt", valueobject.ApplicationStatusRejected.LegacyToken())

	assert.False(t, valueobject.ApplicationStatusInProcessing.IsTerminal())
	assert.True(t, valueobject.ApplicationStatusApproved.IsTerminal())
	assert.True(t, valueobject.ApplicationStatusRejected.IsTerminal())
}

func TestManagerApproval(t *testing.T) {
	assert.Nil(t, valueobject.ManagerApprovalUnset.Ptr())
	assert.Equal(t, "unset", valueobject.ManagerApprovalUnset.String())

	yes := true
	approved := valueobject.ManagerApprovalFromPtr(&yes)
	assert.True(t, approved.IsApproved())
	require.NotNil(t, approved.Ptr())
	assert.True(t, *approved.Ptr())

	no := false
	rejected := valueobject.ManagerApprovalFromPtr(&no)
	assert.True(t, rejected.IsSet())
	assert.False(t, rejected.IsApproved())
	assert.Equal(t, "rejected", rejected.String())
}

func TestLoanSubtype_AllowedFor(t *testing.T) {
	for _, st := range []valueobject.LoanSubtype{
		valueobject.LoanSubtypeInstallment, valueobject.LoanSubtypeBullet, valueobject.LoanSubtypeAnnuity,
	} {
		assert.True(t, st.AllowedFor(valueobject.LoanTypeImmediate), st.String())
	}
	assert.True(t, valueobject.LoanSubtypeAnnuity.AllowedFor(valueobject.LoanTypeBuilding))
	assert.False(t, valueobject.LoanSubtypeBullet.AllowedFor(valueobject.LoanTypeBuilding))
	assert.False(t, valueobject.LoanSubtypeInstallment.AllowedFor(valueobject.LoanTypeBuilding))

	lenient := valueobject.ParseLoanTypeLenient("leasing")
	assert.False(t, lenient.IsKnown())
	assert.Equal(t, "leasing", lenient.String())
}

func TestRole_Allows(t *testing.T) {
	allowed := map[valueobject.Action][]valueobject.Role{
		valueobject.ActionSubmitApplication:   {valueobject.RoleCustomer},
		valueobject.ActionEmployeeDecide:      {valueobject.RoleEmployee},
		valueobject.ActionEscalate:            {valueobject.RoleEmployee},
		valueobject.ActionProcessApplication:  {valueobject.RoleEmployee, valueobject.RoleManager},
		valueobject.ActionManagerDecide:       {valueobject.RoleManager},
		valueobject.ActionCreateOffer:         {valueobject.RoleEmployee, valueobject.RoleManager},
		valueobject.ActionChangeRole:          {valueobject.RoleAdmin},
		valueobject.ActionViewAllApplications: {valueobject.RoleEmployee, valueobject.RoleManager, valueobject.RoleAdmin, valueobject.RoleDirector},
	}

	for action, roles := range allowed {
		for _, role := range valueobject.AllRoles() {
			want := false
			for _, r := range roles {
				if r == role {
					want = true
				}
			}
			assert.Equal(t, want, role.Allows(action), "%s / %s", role, action)
		}
	}

	assert.False(t, valueobject.Role(0).Allows(valueobject.ActionSubmitApplication))
}

func TestNewRole(t *testing.T) {
	r, err := valueobject.NewRole("manager")
	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleManager, r)
	assert.True(t, r.IsStaff())
	assert.False(t, valueobject.RoleCustomer.IsStaff())

	_, err = valueobject.NewRole("Manager")
	assert.Error(t, err)
}
