package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is an organizer's score for a completed job request. The composite
// unique index backs the one-rating-per-(request, organizer) rule against
// concurrent submits; the service also checks explicitly.
type Rating struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobRequestID  uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_rating_request_organizer" json:"job_request_id"`
	WorkerID      uuid.UUID `gorm:"type:uuid;index" json:"worker_id"`
	WorkerName    string    `gorm:"type:varchar(120)" json:"worker_name"`
	OrganizerID   uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_rating_request_organizer" json:"organizer_id"`
	OrganizerName string    `gorm:"type:varchar(120)" json:"organizer_name"`

	Score  int    `gorm:"not null" json:"score"` // 1-5
	Review string `gorm:"type:text" json:"review"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
