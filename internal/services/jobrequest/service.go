package jobrequest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/lifecycle"
	"github.com/eventcrew/eventcrew-api/internal/models"
)

// Notifier receives a job request after every committed status change.
// The realtime hub implements it; tests pass nil.
type Notifier interface {
	NotifyStatusChange(req *models.JobRequest)
}

// Service is the only writer of JobRequest.Status.
type Service struct {
	db       *gorm.DB
	notifier Notifier
}

func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

type CreateInput struct {
	WorkerID      uuid.UUID
	RequestedRole models.StaffRole
	EventDate     time.Time
	EventLocation string
	EventType     string
	PriceOffered  int64
	Notes         string
}

// Create validates and stores a new pending request from the organizer.
// A missing price falls back to the worker's advertised price for the role.
func (s *Service) Create(ctx context.Context, organizerID uuid.UUID, in CreateInput) (*models.JobRequest, error) {
	if in.EventDate.IsZero() {
		return nil, apperr.Validation("event date is required")
	}
	if in.RequestedRole == "" {
		return nil, apperr.Validation("requested role is required")
	}
	if !models.IsValidRole(in.RequestedRole) || in.RequestedRole == models.RoleOrganizer {
		return nil, apperr.Validation("unknown role " + string(in.RequestedRole))
	}
	if in.PriceOffered < 0 {
		return nil, apperr.Validation("price must be positive")
	}
	if in.WorkerID == organizerID {
		return nil, apperr.Validation("cannot send a job request to yourself")
	}

	var worker models.User
	if err := s.db.WithContext(ctx).First(&worker, "id = ?", in.WorkerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("worker")
		}
		return nil, apperr.Internal(err)
	}

	if !worker.HasRole(in.RequestedRole) {
		return nil, apperr.Validation("worker does not offer role " + string(in.RequestedRole))
	}
	if in.PriceOffered == 0 {
		fallback, ok := worker.PriceFor(in.RequestedRole)
		if !ok || fallback <= 0 {
			return nil, apperr.Validation("price is required: worker has no advertised price for this role")
		}
		in.PriceOffered = fallback
	}

	req := models.JobRequest{
		OrganizerID:   organizerID,
		WorkerID:      in.WorkerID,
		RequestedRole: in.RequestedRole,
		EventDate:     in.EventDate,
		EventLocation: in.EventLocation,
		EventType:     in.EventType,
		PriceOffered:  in.PriceOffered,
		Notes:         in.Notes,
		Status:        models.JobRequestPending,
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &req, nil
}

// Transition applies a user-initiated status change. The row is read under
// FOR UPDATE inside one transaction so two racing transitions serialize and
// the loser fails the reachability check.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, actorID uuid.UUID, newStatus models.JobRequestStatus, reason string) (*models.JobRequest, error) {
	var req models.JobRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("job request")
			}
			return apperr.Internal(err)
		}

		actor := partyOf(&req, actorID)
		if err := lifecycle.Authorize(req.Status, newStatus, actor); err != nil {
			return err
		}

		req.Status = newStatus
		if newStatus == models.JobRequestCancelled {
			req.CancellationReason = reason
		}
		if err := tx.Save(&req).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, &req)
	return &req, nil
}

// RecordPaymentSuccess flips accepted→paid on gateway confirmation. A repeat
// callback carrying the reference already stored is a no-op; anything else
// outside accepted is an invalid transition.
func (s *Service) RecordPaymentSuccess(ctx context.Context, id uuid.UUID, reference string) (*models.JobRequest, error) {
	var req models.JobRequest
	changed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("job request")
			}
			return apperr.Internal(err)
		}

		action, err := lifecycle.DecidePayment(req.Status, req.PaymentReference, reference)
		if err != nil {
			return err
		}
		if action == lifecycle.PaymentDuplicate {
			return nil
		}

		req.Status = models.JobRequestPaid
		req.PaymentReference = reference
		if err := tx.Save(&req).Error; err != nil {
			return apperr.Internal(err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notify(ctx, &req)
	}
	return &req, nil
}

// Get loads a request and errors unless the caller is one of its parties.
func (s *Service) Get(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*models.JobRequest, error) {
	var req models.JobRequest
	if err := s.db.WithContext(ctx).
		Preload("Organizer").Preload("Worker").
		First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("job request")
		}
		return nil, apperr.Internal(err)
	}
	if partyOf(&req, callerID) == lifecycle.PartyNone {
		return nil, apperr.Authorization("not a party to this job request")
	}
	return &req, nil
}

type ListFilter struct {
	WorkerID    *uuid.UUID
	OrganizerID *uuid.UUID
}

// List returns requests for one side of the marketplace, newest first.
// The caller must be the party it is filtering by.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, f ListFilter) ([]models.JobRequest, error) {
	if f.WorkerID == nil && f.OrganizerID == nil {
		return nil, apperr.Validation("worker_id or organizer_id is required")
	}

	q := s.db.WithContext(ctx).
		Preload("Organizer").Preload("Worker").
		Order("created_at DESC")
	if f.WorkerID != nil {
		if *f.WorkerID != callerID {
			return nil, apperr.Authorization("cannot list another worker's requests")
		}
		q = q.Where("worker_id = ?", *f.WorkerID)
	}
	if f.OrganizerID != nil {
		if *f.OrganizerID != callerID {
			return nil, apperr.Authorization("cannot list another organizer's requests")
		}
		q = q.Where("organizer_id = ?", *f.OrganizerID)
	}

	var reqs []models.JobRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return reqs, nil
}

func (s *Service) notify(ctx context.Context, req *models.JobRequest) {
	if s.notifier == nil {
		return
	}
	loaded := *req
	if loaded.Organizer == nil || loaded.Worker == nil {
		// Best effort reload for the notification payload.
		_ = s.db.WithContext(ctx).Preload("Organizer").Preload("Worker").
			First(&loaded, "id = ?", req.ID).Error
	}
	s.notifier.NotifyStatusChange(&loaded)
}

func partyOf(req *models.JobRequest, userID uuid.UUID) lifecycle.Party {
	switch userID {
	case req.WorkerID:
		return lifecycle.PartyWorker
	case req.OrganizerID:
		return lifecycle.PartyOrganizer
	default:
		return lifecycle.PartyNone
	}
}
