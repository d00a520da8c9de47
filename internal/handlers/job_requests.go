package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
	"github.com/eventcrew/eventcrew-api/internal/services/jobrequest"
)

type JobRequestHandler struct {
	Engine *jobrequest.Service
}

func NewJobRequestHandler(engine *jobrequest.Service) *JobRequestHandler {
	return &JobRequestHandler{Engine: engine}
}

// JobRequestResponse is the read projection. Phones are filled in iff the
// contact-visibility rule holds, computed per response and never stored.
type JobRequestResponse struct {
	ID                 uuid.UUID               `json:"id"`
	OrganizerID        uuid.UUID               `json:"organizer_id"`
	WorkerID           uuid.UUID               `json:"worker_id"`
	RequestedRole      models.StaffRole        `json:"requested_role"`
	EventDate          string                  `json:"event_date"`
	EventLocation      string                  `json:"event_location"`
	EventType          string                  `json:"event_type"`
	PriceOffered       int64                   `json:"price_offered"`
	Notes              string                  `json:"notes"`
	Status             models.JobRequestStatus `json:"status"`
	CancellationReason string                  `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`

	OrganizerName  string `json:"organizer_name,omitempty"`
	WorkerName     string `json:"worker_name,omitempty"`
	OrganizerPhone string `json:"organizer_phone,omitempty"`
	WorkerPhone    string `json:"worker_phone,omitempty"`
}

func toJobRequestResponse(req *models.JobRequest) JobRequestResponse {
	resp := JobRequestResponse{
		ID:                 req.ID,
		OrganizerID:        req.OrganizerID,
		WorkerID:           req.WorkerID,
		RequestedRole:      req.RequestedRole,
		EventDate:          req.EventDate.Format("2006-01-02"),
		EventLocation:      req.EventLocation,
		EventType:          req.EventType,
		PriceOffered:       req.PriceOffered,
		Notes:              req.Notes,
		Status:             req.Status,
		CancellationReason: req.CancellationReason,
		CreatedAt:          req.CreatedAt,
	}
	if req.Organizer != nil {
		resp.OrganizerName = req.Organizer.FullName
	}
	if req.Worker != nil {
		resp.WorkerName = req.Worker.FullName
	}
	if req.ContactVisible() {
		if req.Organizer != nil {
			resp.OrganizerPhone = req.Organizer.Phone
		}
		if req.Worker != nil {
			resp.WorkerPhone = req.Worker.Phone
		}
	}
	return resp
}

type CreateJobRequestReq struct {
	WorkerID      string           `json:"worker_id"`
	RequestedRole models.StaffRole `json:"requested_role"`
	EventDate     string           `json:"event_date"` // 2006-01-02
	EventLocation string           `json:"event_location"`
	EventType     string           `json:"event_type"`
	PriceOffered  int64            `json:"price_offered"`
	Notes         string           `json:"notes"`
}

func (h *JobRequestHandler) Create(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateJobRequestReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return apperr.Write(c, apperr.Validation("invalid worker_id"))
	}

	var eventDate time.Time
	if req.EventDate != "" {
		eventDate, err = time.Parse("2006-01-02", req.EventDate)
		if err != nil {
			return apperr.Write(c, apperr.Validation("event_date must be YYYY-MM-DD"))
		}
	}

	created, err := h.Engine.Create(c.Context(), uid, jobrequest.CreateInput{
		WorkerID:      workerID,
		RequestedRole: req.RequestedRole,
		EventDate:     eventDate,
		EventLocation: req.EventLocation,
		EventType:     req.EventType,
		PriceOffered:  req.PriceOffered,
		Notes:         req.Notes,
	})
	if err != nil {
		return apperr.Write(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    toJobRequestResponse(created),
	})
}

func (h *JobRequestHandler) List(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}

	workerID, err := queryUUID(c, "worker_id")
	if err != nil {
		return apperr.Write(c, err)
	}
	organizerID, err := queryUUID(c, "organizer_id")
	if err != nil {
		return apperr.Write(c, err)
	}

	reqs, err := h.Engine.List(c.Context(), uid, jobrequest.ListFilter{
		WorkerID:    workerID,
		OrganizerID: organizerID,
	})
	if err != nil {
		return apperr.Write(c, err)
	}

	out := make([]JobRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, toJobRequestResponse(&reqs[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": out})
}

func (h *JobRequestHandler) Get(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Write(c, apperr.Validation("invalid job request id"))
	}

	req, err := h.Engine.Get(c.Context(), id, uid)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": toJobRequestResponse(req)})
}

type UpdateStatusReq struct {
	Status             models.JobRequestStatus `json:"status"`
	CancellationReason string                  `json:"cancellation_reason"`
}

func (h *JobRequestHandler) UpdateStatus(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Write(c, apperr.Validation("invalid job request id"))
	}

	var req UpdateStatusReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	if _, err := h.Engine.Transition(c.Context(), id, uid, req.Status, req.CancellationReason); err != nil {
		return apperr.Write(c, err)
	}

	// Reload with both parties so the projection can apply the visibility rule.
	updated, err := h.Engine.Get(c.Context(), id, uid)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": toJobRequestResponse(updated)})
}
