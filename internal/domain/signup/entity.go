package signup

import (
	"errors"
	"time"

	"datenight/internal/domain/event"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid signup status")
	ErrNotWaitlisted     = errors.New("signup is not waitlisted")
	ErrAlreadyCancelled  = errors.New("signup is already cancelled")
	ErrInvalidTransition = errors.New("invalid signup state transition")
)

type Status string

const (
	StatusConfirmed  Status = "confirmed"
	StatusWaitlisted Status = "waitlisted"
	StatusCancelled  Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusWaitlisted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Record is the user's private mirror of their seat state for one event.
// It always carries both identifiers of the event so that callers can
// follow either the ledger key or the registry id without a second lookup.
type Record struct {
	userID          uuid.UUID
	eventID         uuid.UUID
	eventExternalID event.ExternalID
	status          Status
	joinedAt        time.Time
	updatedAt       time.Time
}

func NewConfirmed(userID, eventID uuid.UUID, externalID event.ExternalID, joinedAt time.Time) *Record {
	return &Record{
		userID:          userID,
		eventID:         eventID,
		eventExternalID: externalID,
		status:          StatusConfirmed,
		joinedAt:        joinedAt,
		updatedAt:       joinedAt,
	}
}

func NewWaitlisted(userID, eventID uuid.UUID, externalID event.ExternalID, requestedAt time.Time) *Record {
	return &Record{
		userID:          userID,
		eventID:         eventID,
		eventExternalID: externalID,
		status:          StatusWaitlisted,
		joinedAt:        requestedAt,
		updatedAt:       requestedAt,
	}
}

func Reconstruct(userID, eventID uuid.UUID, externalID event.ExternalID, status Status, joinedAt, updatedAt time.Time) *Record {
	return &Record{
		userID:          userID,
		eventID:         eventID,
		eventExternalID: externalID,
		status:          status,
		joinedAt:        joinedAt,
		updatedAt:       updatedAt,
	}
}

func (r *Record) UserID() uuid.UUID                 { return r.userID }
func (r *Record) EventID() uuid.UUID                { return r.eventID }
func (r *Record) EventExternalID() event.ExternalID { return r.eventExternalID }
func (r *Record) Status() Status                    { return r.status }
func (r *Record) JoinedAt() time.Time               { return r.joinedAt }
func (r *Record) UpdatedAt() time.Time              { return r.updatedAt }

func (r *Record) IsConfirmed() bool  { return r.status == StatusConfirmed }
func (r *Record) IsWaitlisted() bool { return r.status == StatusWaitlisted }
func (r *Record) IsCancelled() bool  { return r.status == StatusCancelled }

// Active reports whether the record still occupies or queues for a seat.
func (r *Record) Active() bool {
	return r.status == StatusConfirmed || r.status == StatusWaitlisted
}

// Promote moves a waitlisted record to confirmed. Only the promoter may
// perform this transition.
func (r *Record) Promote(now time.Time) error {
	if r.status != StatusWaitlisted {
		return ErrNotWaitlisted
	}
	r.status = StatusConfirmed
	r.updatedAt = now
	return nil
}

// Cancel terminates the record. Cancelled is terminal for the
// (user, event) pair.
func (r *Record) Cancel(now time.Time) error {
	if r.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	r.status = StatusCancelled
	r.updatedAt = now
	return nil
}
