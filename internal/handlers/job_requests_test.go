package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventcrew/eventcrew-api/internal/models"
)

func sampleJobRequest(status models.JobRequestStatus) *models.JobRequest {
	organizerID := uuid.New()
	workerID := uuid.New()
	return &models.JobRequest{
		ID:            uuid.New(),
		OrganizerID:   organizerID,
		WorkerID:      workerID,
		RequestedRole: models.RoleBarStaff,
		EventDate:     time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		EventLocation: "Tel Aviv",
		PriceOffered:  450,
		Status:        status,
		Organizer: &models.User{
			ID:       organizerID,
			FullName: "Dana Organizer",
			Phone:    "0501111111",
		},
		Worker: &models.User{
			ID:       workerID,
			FullName: "Yossi Worker",
			Phone:    "0502222222",
		},
	}
}

func TestJobRequestProjectionHidesPhonesBeforePayment(t *testing.T) {
	for _, status := range []models.JobRequestStatus{
		models.JobRequestPending,
		models.JobRequestAccepted,
		models.JobRequestCancelled,
	} {
		resp := toJobRequestResponse(sampleJobRequest(status))
		assert.Empty(t, resp.OrganizerPhone, "status %s", status)
		assert.Empty(t, resp.WorkerPhone, "status %s", status)
		// Names are always visible.
		assert.Equal(t, "Dana Organizer", resp.OrganizerName)
		assert.Equal(t, "Yossi Worker", resp.WorkerName)
	}
}

func TestJobRequestProjectionExposesPhonesAfterPayment(t *testing.T) {
	for _, status := range []models.JobRequestStatus{
		models.JobRequestPaid,
		models.JobRequestCompleted,
	} {
		resp := toJobRequestResponse(sampleJobRequest(status))
		assert.Equal(t, "0501111111", resp.OrganizerPhone, "status %s", status)
		assert.Equal(t, "0502222222", resp.WorkerPhone, "status %s", status)
	}
}

func TestJobRequestProjectionWithoutPreloads(t *testing.T) {
	req := sampleJobRequest(models.JobRequestPaid)
	req.Organizer = nil
	req.Worker = nil

	resp := toJobRequestResponse(req)
	assert.Empty(t, resp.OrganizerName)
	assert.Empty(t, resp.OrganizerPhone)
	assert.Empty(t, resp.WorkerPhone)
	assert.Equal(t, "2026-09-12", resp.EventDate)
}
