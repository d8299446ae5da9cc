package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datenight/internal/infra"
	"datenight/internal/usecase/queries"
)

type EventReadStore struct {
	pool *pgxpool.Pool
}

func NewEventReadStore(pool *pgxpool.Pool) *EventReadStore {
	return &EventReadStore{pool: pool}
}

const eventViewQuery = `
	SELECT e.id, e.external_id, e.title, e.starts_at,
	       e.capacity_male, e.signed_up_male,
	       e.capacity_female, e.signed_up_female,
	       (SELECT count(*) FROM event_waitlist w WHERE w.event_id = e.id AND w.gender = 'male')   AS waitlist_male,
	       (SELECT count(*) FROM event_waitlist w WHERE w.event_id = e.id AND w.gender = 'female') AS waitlist_female
	FROM events e`

func (r *EventReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.EventView, error) {
	row := r.pool.QueryRow(ctx, eventViewQuery+` WHERE e.id = $1`, id)
	view, err := scanEventView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "event not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find event", err)
	}
	return view, nil
}

func (r *EventReadStore) FindByExternalID(ctx context.Context, externalID string) (*queries.EventView, error) {
	row := r.pool.QueryRow(ctx, eventViewQuery+` WHERE e.external_id = $1`, externalID)
	view, err := scanEventView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "event not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find event", err)
	}
	return view, nil
}

func (r *EventReadStore) FindUpcoming(ctx context.Context, from time.Time, limit int32) ([]*queries.EventView, error) {
	rows, err := r.pool.Query(ctx,
		eventViewQuery+` WHERE e.starts_at >= $1 ORDER BY e.starts_at, e.id LIMIT $2`,
		from, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list upcoming events", err)
	}
	defer rows.Close()

	var views []*queries.EventView
	for rows.Next() {
		view, err := scanEventView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan event row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate event rows", err)
	}
	return views, nil
}

func scanEventView(row pgx.Row) (*queries.EventView, error) {
	var (
		v                            queries.EventView
		capMale, upMale              int
		capFemale, upFemale          int
		waitlistMale, waitlistFemale int
	)
	err := row.Scan(&v.ID, &v.ExternalID, &v.Title, &v.StartsAt,
		&capMale, &upMale, &capFemale, &upFemale,
		&waitlistMale, &waitlistFemale)
	if err != nil {
		return nil, err
	}

	v.Male = queries.PoolView{
		Capacity:  capMale,
		SignedUp:  upMale,
		Waitlist:  waitlistMale,
		Remaining: capMale - upMale,
	}
	v.Female = queries.PoolView{
		Capacity:  capFemale,
		SignedUp:  upFemale,
		Waitlist:  waitlistFemale,
		Remaining: capFemale - upFemale,
	}
	return &v, nil
}
