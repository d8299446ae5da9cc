package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"datenight/internal/infra"
	"datenight/internal/pkg/errs"
)

var ErrEventNotFound = errs.New("event not found")

// PoolView is one gender pool's public counters.
type PoolView struct {
	Capacity  int `json:"capacity"`
	SignedUp  int `json:"signed_up"`
	Waitlist  int `json:"waitlist"`
	Remaining int `json:"remaining"`
}

type EventView struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	StartsAt   time.Time `json:"starts_at"`
	Male       PoolView  `json:"male"`
	Female     PoolView  `json:"female"`
}

type EventQueries interface {
	// GetByRef resolves either identifier: a uuid is treated as the local
	// ledger key, anything else as the registry's external id.
	GetByRef(ctx context.Context, ref string) (*EventView, error)
	ListUpcoming(ctx context.Context, now time.Time, limit int) ([]*EventView, error)
}

type EventReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*EventView, error)
	FindByExternalID(ctx context.Context, externalID string) (*EventView, error)
	FindUpcoming(ctx context.Context, from time.Time, limit int32) ([]*EventView, error)
}

type eventQueriesImpl struct {
	readStore EventReadStore
}

func NewEventQueries(readStore EventReadStore) EventQueries {
	return &eventQueriesImpl{readStore: readStore}
}

func (q *eventQueriesImpl) GetByRef(ctx context.Context, ref string) (*EventView, error) {
	var (
		view *EventView
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		view, err = q.readStore.FindByID(ctx, id)
	} else {
		view, err = q.readStore.FindByExternalID(ctx, ref)
	}
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *eventQueriesImpl) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]*EventView, error) {
	return q.readStore.FindUpcoming(ctx, now, int32(ValidateLimit(limit)))
}
