package jobrequest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventcrew/eventcrew-api/internal/lifecycle"
	"github.com/eventcrew/eventcrew-api/internal/models"
)

func TestPartyOf(t *testing.T) {
	workerID := uuid.New()
	organizerID := uuid.New()
	req := &models.JobRequest{WorkerID: workerID, OrganizerID: organizerID}

	assert.Equal(t, lifecycle.PartyWorker, partyOf(req, workerID))
	assert.Equal(t, lifecycle.PartyOrganizer, partyOf(req, organizerID))
	assert.Equal(t, lifecycle.PartyNone, partyOf(req, uuid.New()))
}
