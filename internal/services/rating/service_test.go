package rating

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
)

func TestSubmitRejectsOutOfRangeScore(t *testing.T) {
	// Score validation runs before any storage access.
	svc := NewService(nil)
	for _, score := range []int{0, -1, 6, 100} {
		_, err := svc.Submit(context.Background(), uuid.Nil, SubmitInput{Score: score})
		require.Error(t, err, "score %d", score)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"), "score %d", score)
	}
}

func TestEligible(t *testing.T) {
	organizerID := uuid.New()
	stranger := uuid.New()

	cases := []struct {
		name     string
		status   models.JobRequestStatus
		caller   uuid.UUID
		rejected bool
	}{
		{"organizer on completed", models.JobRequestCompleted, organizerID, false},
		{"stranger on completed", models.JobRequestCompleted, stranger, true},
		{"organizer on pending", models.JobRequestPending, organizerID, true},
		{"organizer on accepted", models.JobRequestAccepted, organizerID, true},
		{"organizer on paid", models.JobRequestPaid, organizerID, true},
		{"organizer on cancelled", models.JobRequestCancelled, organizerID, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &models.JobRequest{OrganizerID: organizerID, Status: tc.status}
			err := eligible(req, tc.caller)
			if !tc.rejected {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, "NOT_ELIGIBLE"), "got %v", err)
		})
	}
}

func TestEligibleWorkerCannotRate(t *testing.T) {
	// The worker is a party to the request but rating is one-directional.
	workerID := uuid.New()
	req := &models.JobRequest{
		OrganizerID: uuid.New(),
		WorkerID:    workerID,
		Status:      models.JobRequestCompleted,
	}
	err := eligible(req, workerID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_ELIGIBLE"))
}

func TestAveragesForWorkersEmptyInput(t *testing.T) {
	// No ids means no query; nothing touches storage.
	svc := NewService(nil)
	out, err := svc.AveragesForWorkers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New(`duplicate key value violates unique constraint (SQLSTATE 23505)`)))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}
