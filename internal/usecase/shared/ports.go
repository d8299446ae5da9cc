package shared

import (
	"context"
	"time"

	"datenight/internal/domain/event"

	"github.com/google/uuid"
)

// Registry is the external video-conferencing membership API. Best-effort
// only: it is consulted and repaired, never authoritative for seat
// counting, and never called inside a ledger transaction.
type Registry interface {
	// Enroll is idempotent; enrolling an already-enrolled email is a no-op.
	Enroll(ctx context.Context, externalEventID event.ExternalID, email string) error
	ListMembers(ctx context.Context, externalEventID event.ExternalID) ([]string, error)
}

// LedgerChange is published after a committed ledger mutation so the
// reconciliation sweeper can react without polling.
type LedgerChange struct {
	UserID     uuid.UUID  `json:"user_id"`
	EventID    *uuid.UUID `json:"event_id,omitempty"`
	Kind       string     `json:"kind"`
	OccurredAt time.Time  `json:"occurred_at"`
}

const (
	ChangeSignup    = "signup"
	ChangePurchase  = "purchase"
	ChangeCancel    = "cancel"
	ChangePromotion = "promotion"
)

// LedgerNotifier publishes ledger changes; failures are logged, never
// surfaced, because the interval sweep covers missed notifications.
type LedgerNotifier interface {
	PublishChange(ctx context.Context, change LedgerChange) error
}

// LedgerListener is the receiving side of the change channel. The
// returned channel closes when ctx is cancelled.
type LedgerListener interface {
	Listen(ctx context.Context) (<-chan LedgerChange, error)
}
