package repository

import (
	"context"
	"errors"
	"time"

	"datenight/internal/domain/event"
	"datenight/internal/domain/signup"
	"datenight/internal/infra"
	"datenight/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SignupRepository struct {
	db db.DBTX
}

func NewSignupRepository(dbtx db.DBTX) *SignupRepository {
	return &SignupRepository{db: dbtx}
}

func (r *SignupRepository) Find(ctx context.Context, userID, eventID uuid.UUID) (*signup.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, event_id, event_external_id, status, joined_at, updated_at
		 FROM user_signups WHERE user_id = $1 AND event_id = $2`,
		userID, eventID)
	rec, err := scanSignup(row)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SignupRepository) Upsert(ctx context.Context, rec *signup.Record) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_signups (user_id, event_id, event_external_id, status, joined_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, event_id)
		 DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		rec.UserID(), rec.EventID(), rec.EventExternalID().String(),
		string(rec.Status()), rec.JoinedAt(), rec.UpdatedAt())
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr(infra.KindForeignKeyViolated, "signup references missing row", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to upsert signup record", err)
	}
	return nil
}

func (r *SignupRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*signup.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, event_id, event_external_id, status, joined_at, updated_at
		 FROM user_signups WHERE user_id = $1
		 ORDER BY joined_at`,
		userID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query signup records", err)
	}
	defer rows.Close()

	var records []*signup.Record
	for rows.Next() {
		rec, err := scanSignup(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanSignup(row pgx.Row) (*signup.Record, error) {
	var (
		userID, eventID      uuid.UUID
		externalID, status   string
		joinedAt, updatedAt  time.Time
	)
	if err := row.Scan(&userID, &eventID, &externalID, &status, &joinedAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "signup record not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan signup record", err)
	}

	st, err := signup.ParseStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored status is invalid", err)
	}

	return signup.Reconstruct(userID, eventID, event.ExternalID(externalID), st, joinedAt, updatedAt), nil
}
