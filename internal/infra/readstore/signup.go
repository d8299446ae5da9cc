package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datenight/internal/infra"
	"datenight/internal/usecase/queries"
)

type SignupReadStore struct {
	pool *pgxpool.Pool
}

func NewSignupReadStore(pool *pgxpool.Pool) *SignupReadStore {
	return &SignupReadStore{pool: pool}
}

func (r *SignupReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.SignupView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.event_id, s.event_external_id, e.title, e.starts_at,
		       s.status, s.joined_at, s.updated_at
		FROM user_signups s
		JOIN events e ON e.id = s.event_id
		WHERE s.user_id = $1
		ORDER BY e.starts_at DESC, s.event_id`,
		userID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list signups", err)
	}
	defer rows.Close()

	var views []*queries.SignupView
	for rows.Next() {
		var v queries.SignupView
		if err := rows.Scan(&v.EventID, &v.EventExternalID, &v.EventTitle, &v.EventStartsAt,
			&v.Status, &v.JoinedAt, &v.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan signup row", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate signup rows", err)
	}
	return views, nil
}

func (r *SignupReadStore) FindCreditBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var balance int
	err := r.pool.QueryRow(ctx,
		`SELECT dates_remaining FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, infra.WrapRepoErr(infra.KindNotFound, "user not found", err)
		}
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to read credit balance", err)
	}
	return balance, nil
}

// ActiveSignupUserIDs feeds the interval sweep: every user who currently
// holds or queues for a seat.
func (r *SignupReadStore) ActiveSignupUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT user_id FROM user_signups
		WHERE status IN ('confirmed', 'waitlisted')`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list active signup users", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan user id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate user ids", err)
	}
	return ids, nil
}
