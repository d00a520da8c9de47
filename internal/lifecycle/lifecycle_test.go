package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.JobRequestStatus
		ok       bool
	}{
		{models.JobRequestPending, models.JobRequestAccepted, true},
		{models.JobRequestPending, models.JobRequestCancelled, true},
		{models.JobRequestPending, models.JobRequestPaid, false},
		{models.JobRequestPending, models.JobRequestCompleted, false},
		{models.JobRequestAccepted, models.JobRequestPaid, true},
		{models.JobRequestAccepted, models.JobRequestCancelled, true},
		{models.JobRequestAccepted, models.JobRequestCompleted, false},
		{models.JobRequestAccepted, models.JobRequestPending, false},
		{models.JobRequestPaid, models.JobRequestCompleted, true},
		{models.JobRequestPaid, models.JobRequestCancelled, false},
		{models.JobRequestPaid, models.JobRequestPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []models.JobRequestStatus{
		models.JobRequestPending,
		models.JobRequestAccepted,
		models.JobRequestPaid,
		models.JobRequestCompleted,
		models.JobRequestCancelled,
	}
	for _, terminal := range []models.JobRequestStatus{models.JobRequestCompleted, models.JobRequestCancelled} {
		require.True(t, IsTerminal(terminal))
		for _, to := range all {
			assert.False(t, CanTransition(terminal, to),
				"terminal %s must not reach %s", terminal, to)
		}
	}
}

func TestAuthorizeActorRules(t *testing.T) {
	cases := []struct {
		name     string
		from, to models.JobRequestStatus
		actor    Party
		wantCode string
	}{
		{"worker accepts", models.JobRequestPending, models.JobRequestAccepted, PartyWorker, ""},
		{"worker rejects", models.JobRequestPending, models.JobRequestCancelled, PartyWorker, ""},
		{"organizer cannot accept own request", models.JobRequestPending, models.JobRequestAccepted, PartyOrganizer, "AUTHORIZATION_ERROR"},
		{"organizer withdraws before paying", models.JobRequestAccepted, models.JobRequestCancelled, PartyOrganizer, ""},
		{"worker cannot withdraw accepted", models.JobRequestAccepted, models.JobRequestCancelled, PartyWorker, "AUTHORIZATION_ERROR"},
		{"organizer completes paid", models.JobRequestPaid, models.JobRequestCompleted, PartyOrganizer, ""},
		{"worker cannot complete", models.JobRequestPaid, models.JobRequestCompleted, PartyWorker, "AUTHORIZATION_ERROR"},
		{"nobody sets paid by hand", models.JobRequestAccepted, models.JobRequestPaid, PartyOrganizer, "INVALID_TRANSITION"},
		{"stranger on a real edge", models.JobRequestPending, models.JobRequestAccepted, PartyNone, "AUTHORIZATION_ERROR"},
		{"unreachable edge", models.JobRequestCompleted, models.JobRequestPending, PartyOrganizer, "INVALID_TRANSITION"},
		{"unknown target status", models.JobRequestPending, models.JobRequestStatus("archived"), PartyWorker, "VALIDATION_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.from, tc.to, tc.actor)
			if tc.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, tc.wantCode),
				"want code %s, got %v", tc.wantCode, err)
		})
	}
}

func TestDecidePayment(t *testing.T) {
	cases := []struct {
		name       string
		status     models.JobRequestStatus
		storedRef  string
		incoming   string
		wantAction PaymentAction
		wantCode   string
	}{
		{"first confirmation on accepted", models.JobRequestAccepted, "", "lp-1", PaymentApply, ""},
		{"same confirmation delivered twice", models.JobRequestPaid, "lp-1", "lp-1", PaymentDuplicate, ""},
		{"different reference on paid", models.JobRequestPaid, "lp-1", "lp-2", 0, "INVALID_TRANSITION"},
		{"confirmation on pending", models.JobRequestPending, "", "lp-1", 0, "INVALID_TRANSITION"},
		{"confirmation on completed", models.JobRequestCompleted, "lp-1", "lp-1", 0, "INVALID_TRANSITION"},
		{"confirmation on cancelled", models.JobRequestCancelled, "", "lp-1", 0, "INVALID_TRANSITION"},
		{"empty reference", models.JobRequestAccepted, "", "", 0, "VALIDATION_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			action, err := DecidePayment(tc.status, tc.storedRef, tc.incoming)
			if tc.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperr.IsCode(err, tc.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAction, action)
		})
	}
}

func TestDecidePaymentIsIdempotent(t *testing.T) {
	// A confirmation applied once and replayed any number of times afterwards
	// must keep resolving to a no-op, never a second apply.
	action, err := DecidePayment(models.JobRequestAccepted, "", "lp-9")
	require.NoError(t, err)
	require.Equal(t, PaymentApply, action)

	for i := 0; i < 3; i++ {
		action, err = DecidePayment(models.JobRequestPaid, "lp-9", "lp-9")
		require.NoError(t, err)
		assert.Equal(t, PaymentDuplicate, action)
	}
}

func TestReachabilityPrecedesAuthorization(t *testing.T) {
	// A wrong actor on a nonexistent edge must still see INVALID_TRANSITION,
	// not AUTHORIZATION_ERROR, so probing cannot map out who may do what.
	err := Authorize(models.JobRequestCancelled, models.JobRequestAccepted, PartyWorker)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "INVALID_TRANSITION"))
}
