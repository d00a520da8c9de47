package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRoleListRoundTrip(t *testing.T) {
	var u User
	require.NoError(t, u.SetRoles([]StaffRole{RoleBarStaff, RoleGeneralStaff}))

	assert.Equal(t, []StaffRole{RoleBarStaff, RoleGeneralStaff}, u.RoleList())
	assert.True(t, u.HasRole(RoleBarStaff))
	assert.False(t, u.HasRole(RoleOrganizer))
}

func TestRoleListEmptyAndMalformed(t *testing.T) {
	var u User
	assert.Nil(t, u.RoleList())
	assert.False(t, u.HasRole(RoleGeneralStaff))

	u.Roles = datatypes.JSON(`{"not":"an array"}`)
	assert.Nil(t, u.RoleList())
}

func TestPriceForRoundTrip(t *testing.T) {
	var u User
	require.NoError(t, u.SetRolePrices(map[StaffRole]int64{
		RoleBarStaff:    450,
		RoleSeniorStaff: 600,
	}))

	p, ok := u.PriceFor(RoleBarStaff)
	assert.True(t, ok)
	assert.EqualValues(t, 450, p)

	_, ok = u.PriceFor(RoleGeneralStaff)
	assert.False(t, ok)
}

func TestIsValidRole(t *testing.T) {
	for _, r := range WorkerRoles() {
		assert.True(t, IsValidRole(r))
	}
	assert.True(t, IsValidRole(RoleOrganizer))
	assert.False(t, IsValidRole(StaffRole("dj")))
	assert.False(t, IsValidRole(StaffRole("")))
}

func TestWorkerRolesExcludeOrganizer(t *testing.T) {
	for _, r := range WorkerRoles() {
		assert.NotEqual(t, RoleOrganizer, r)
	}
}

func TestContactVisible(t *testing.T) {
	cases := map[JobRequestStatus]bool{
		JobRequestPending:   false,
		JobRequestAccepted:  false,
		JobRequestPaid:      true,
		JobRequestCompleted: true,
		JobRequestCancelled: false,
	}
	for status, want := range cases {
		j := JobRequest{Status: status}
		assert.Equal(t, want, j.ContactVisible(), "status %s", status)
	}
}
