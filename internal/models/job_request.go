package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRequestStatus string

const (
	JobRequestPending   JobRequestStatus = "pending"   // waiting for the worker's answer
	JobRequestAccepted  JobRequestStatus = "accepted"  // accepted, waiting for the organizer to pay
	JobRequestPaid      JobRequestStatus = "paid"      // platform fee paid, contact details unlocked
	JobRequestCompleted JobRequestStatus = "completed"
	JobRequestCancelled JobRequestStatus = "cancelled"
)

// JobRequest is a booking proposal from an organizer to a worker. Status is
// mutable only through the jobrequest service, never by direct writes.
type JobRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizerID uuid.UUID `gorm:"type:uuid;index;not null" json:"organizer_id"`
	WorkerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"worker_id"`

	RequestedRole StaffRole `gorm:"type:varchar(30);not null" json:"requested_role"`
	EventDate     time.Time `gorm:"not null" json:"event_date"`
	EventLocation string    `gorm:"type:varchar(200)" json:"event_location"`
	EventType     string    `gorm:"type:varchar(100)" json:"event_type"`
	PriceOffered  int64     `gorm:"not null" json:"price_offered"`
	Notes         string    `gorm:"type:text" json:"notes"`

	Status             JobRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CancellationReason string           `gorm:"type:varchar(200)" json:"cancellation_reason,omitempty"`

	// Gateway reference recorded on payment success; also the idempotency
	// key for repeated callbacks.
	PaymentReference string `gorm:"type:varchar(64)" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Organizer *User `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Worker    *User `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}

func (j *JobRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}

// ContactVisible is the contact-unlock rule: phones of both parties are
// exposed iff the fee has been paid. Computed on every read, never stored.
func (j *JobRequest) ContactVisible() bool {
	return j.Status == JobRequestPaid || j.Status == JobRequestCompleted
}
