package shared

import (
	"context"
	"time"

	"datenight/internal/domain/credit"
	"datenight/internal/domain/event"
	"datenight/internal/domain/payment"
	"datenight/internal/domain/signup"
	"datenight/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork is the Ledger Store's transaction contract. Within runs fn
// in a serializable transaction and retries write conflicts with bounded
// exponential backoff; everything the capacity and credit engine does to
// shared state goes through it. No external network call ever happens
// inside fn.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single-query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Events() EventRepository
	Credits() CreditRepository
	Signups() SignupRepository
	Payments() PaymentRepository
	Carts() CartRepository
	Users() UserRepository
	DB() db.DBTX
}

type EventRepository interface {
	FindByLocalID(ctx context.Context, localID uuid.UUID) (*event.Event, error)
	FindByExternalID(ctx context.Context, externalID event.ExternalID) (*event.Event, error)
	UpdatePool(ctx context.Context, localID uuid.UUID, g event.Gender, pool event.Pool) error

	AddMember(ctx context.Context, localID uuid.UUID, m event.Member) error
	// RemoveMember returns the removed entry so the caller knows which
	// pool to release.
	RemoveMember(ctx context.Context, localID, userID uuid.UUID) (*event.Member, error)
	// MembershipsByUser scans the authoritative member sets of all events
	// for this user (reconciliation step 2).
	MembershipsByUser(ctx context.Context, userID uuid.UUID) ([]Membership, error)

	AppendWaitlist(ctx context.Context, localID uuid.UUID, e event.WaitlistEntry) error
	// ListWaitlist returns entries oldest first (strict requested_at order).
	ListWaitlist(ctx context.Context, localID uuid.UUID, g event.Gender) ([]event.WaitlistEntry, error)
	RemoveWaitlisted(ctx context.Context, localID, userID uuid.UUID) error
}

type CreditRepository interface {
	Account(ctx context.Context, userID uuid.UUID) (credit.Account, error)
	Save(ctx context.Context, account credit.Account) error
}

type SignupRepository interface {
	Find(ctx context.Context, userID, eventID uuid.UUID) (*signup.Record, error)
	Upsert(ctx context.Context, rec *signup.Record) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*signup.Record, error)
}

type PaymentRepository interface {
	FindByExternalID(ctx context.Context, userID uuid.UUID, externalPaymentID string) (*payment.Record, error)
	Create(ctx context.Context, rec *payment.Record) error
}

type CartRepository interface {
	Load(ctx context.Context, userID uuid.UUID) (payment.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, item payment.LineItem) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type UserRepository interface {
	EmailByID(ctx context.Context, userID uuid.UUID) (string, error)
	GenderByID(ctx context.Context, userID uuid.UUID) (event.Gender, error)
	// SetLatestEvent backfills the "latest event" pointer with the
	// event's external registry id. Writes only when the value differs.
	SetLatestEvent(ctx context.Context, userID uuid.UUID, externalID event.ExternalID) error
}

// Membership is one authoritative signedUpUsers entry joined with the
// event's identifier pair.
type Membership struct {
	EventID         uuid.UUID
	EventExternalID event.ExternalID
	Gender          event.Gender
	JoinedAt        time.Time
}
