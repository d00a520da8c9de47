package rating

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
)

// Service gates rating creation on the job request's lifecycle state.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type SubmitInput struct {
	JobRequestID uuid.UUID
	Score        int
	Review       string
}

// Submit records the organizer's one rating for a completed job request.
// The duplicate check runs inside the transaction; the composite unique
// index on ratings catches the remaining race window.
func (s *Service) Submit(ctx context.Context, organizerID uuid.UUID, in SubmitInput) (*models.Rating, error) {
	if in.Score < 1 || in.Score > 5 {
		return nil, apperr.Validation("score must be between 1 and 5")
	}

	var r models.Rating
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.JobRequest
		if err := tx.Preload("Organizer").Preload("Worker").
			First(&req, "id = ?", in.JobRequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("job request")
			}
			return apperr.Internal(err)
		}

		if err := eligible(&req, organizerID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Rating{}).
			Where("job_request_id = ? AND organizer_id = ?", in.JobRequestID, organizerID).
			Count(&count).Error; err != nil {
			return apperr.Internal(err)
		}
		if count > 0 {
			return apperr.NotEligible("this job request has already been rated")
		}

		r = models.Rating{
			JobRequestID: req.ID,
			WorkerID:     req.WorkerID,
			OrganizerID:  req.OrganizerID,
			Score:        in.Score,
			Review:       in.Review,
		}
		if req.Worker != nil {
			r.WorkerName = req.Worker.FullName
		}
		if req.Organizer != nil {
			r.OrganizerName = req.Organizer.FullName
		}
		if err := tx.Create(&r).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.NotEligible("this job request has already been rated")
			}
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// eligible is the rating gate: only the requesting organizer may rate, and
// only once the job is completed. The duplicate check stays inside the
// submit transaction.
func eligible(req *models.JobRequest, organizerID uuid.UUID) error {
	if req.OrganizerID != organizerID {
		return apperr.NotEligible("only the requesting organizer may rate this job")
	}
	if req.Status != models.JobRequestCompleted {
		return apperr.NotEligible("job request is not completed")
	}
	return nil
}

type ListFilter struct {
	WorkerID    *uuid.UUID
	OrganizerID *uuid.UUID
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Rating, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if f.WorkerID != nil {
		q = q.Where("worker_id = ?", *f.WorkerID)
	}
	if f.OrganizerID != nil {
		q = q.Where("organizer_id = ?", *f.OrganizerID)
	}

	var ratings []models.Rating
	if err := q.Find(&ratings).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return ratings, nil
}

// Aggregate is a worker's mean score and rating count.
type Aggregate struct {
	WorkerID uuid.UUID
	Avg      float64
	Count    int64
}

// AveragesForWorkers returns rating aggregates for the given workers in one
// grouped query. Workers with no ratings are absent from the map.
func (s *Service) AveragesForWorkers(ctx context.Context, workerIDs []uuid.UUID) (map[uuid.UUID]Aggregate, error) {
	out := make(map[uuid.UUID]Aggregate, len(workerIDs))
	if len(workerIDs) == 0 {
		return out, nil
	}

	var rows []Aggregate
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("worker_id, AVG(score) AS avg, COUNT(*) AS count").
		Where("worker_id IN ?", workerIDs).
		Group("worker_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, row := range rows {
		out[row.WorkerID] = row
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Postgres unique_violation surfaces as SQLSTATE 23505 in the message
	// when the driver does not translate it.
	return err != nil && strings.Contains(err.Error(), "23505")
}
