package repository

import (
	"context"
	"errors"

	"datenight/internal/domain/event"
	"datenight/internal/infra"
	"datenight/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) EmailByID(ctx context.Context, userID uuid.UUID) (string, error) {
	var email string
	err := r.db.QueryRow(ctx,
		`SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", infra.WrapRepoErr(infra.KindNotFound, "user not found", err)
		}
		return "", infra.WrapRepoErr(infra.KindDBFailure, "failed to read user email", err)
	}
	return email, nil
}

func (r *UserRepository) GenderByID(ctx context.Context, userID uuid.UUID) (event.Gender, error) {
	var gender string
	err := r.db.QueryRow(ctx,
		`SELECT gender FROM users WHERE id = $1`, userID).Scan(&gender)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", infra.WrapRepoErr(infra.KindNotFound, "user not found", err)
		}
		return "", infra.WrapRepoErr(infra.KindDBFailure, "failed to read user gender", err)
	}

	g, gerr := event.ParseGender(gender)
	if gerr != nil {
		return "", infra.WrapRepoErr(infra.KindDBFailure, "stored gender is invalid", gerr)
	}
	return g, nil
}

// SetLatestEvent writes the registry's external id, never the ledger
// key. IS DISTINCT FROM keeps a repeated reconcile run write-free.
func (r *UserRepository) SetLatestEvent(ctx context.Context, userID uuid.UUID, externalID event.ExternalID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET latest_event_external_id = $2
		 WHERE id = $1 AND latest_event_external_id IS DISTINCT FROM $2`,
		userID, externalID.String())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to set latest event", err)
	}
	return nil
}
