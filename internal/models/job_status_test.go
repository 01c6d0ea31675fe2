package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus_Valid(t *testing.T) {
	for _, s := range JobStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, JobStatus("completed").Valid())
	assert.False(t, JobStatus("").Valid())
}

func TestJobStatus_InProgress(t *testing.T) {
	inProgress := 0
	for _, s := range JobStatuses {
		if s.InProgress() {
			inProgress++
		}
	}
	assert.Equal(t, 5, inProgress)
	assert.False(t, JobStatusPending.InProgress())
	assert.False(t, JobStatusComplete.InProgress())
}

func TestJobStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		want     bool
	}{
		{JobStatusPending, JobStatusDispatched, true},
		{JobStatusPending, JobStatusComplete, false},
		{JobStatusDispatched, JobStatusEnRoute, true},
		{JobStatusEnRoute, JobStatusOnSite, true},
		{JobStatusOnSite, JobStatusLoading, true},
		{JobStatusLoading, JobStatusInTransit, true},
		{JobStatusInTransit, JobStatusDumping, true},
		{JobStatusDumping, JobStatusComplete, true},
		{JobStatusLoading, JobStatusCancelled, true},
		{JobStatusComplete, JobStatusPending, false},
		{JobStatusCancelled, JobStatusDispatched, false},
		{JobStatusComplete, JobStatusComplete, true},
		{JobStatusPending, JobStatus("bogus"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestJobStatus_Terminal(t *testing.T) {
	assert.True(t, JobStatusComplete.Terminal())
	assert.True(t, JobStatusCancelled.Terminal())
	assert.False(t, JobStatusDumping.Terminal())
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleCustomer.Valid())
	assert.False(t, UserRole("owner").Valid())
}
