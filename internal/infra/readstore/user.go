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

type UserReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) *UserReadStore {
	return &UserReadStore{pool: pool}
}

const userViewColumns = `id, email, role, gender, latest_event_external_id, dates_remaining`

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userViewColumns+` FROM users WHERE id = $1`, id)

	view, _, err := scanUserView(row, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find user by ID", err)
	}
	return view, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userViewColumns+`, password_hash FROM users WHERE email = $1`, email)

	view, hash, err := scanUserView(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, "", infra.WrapRepoErr(infra.KindDBFailure, "failed to find user by email", err)
	}
	return view, hash, nil
}

func scanUserView(row pgx.Row, withHash bool) (*queries.AuthorizedUserView, string, error) {
	var (
		v    queries.AuthorizedUserView
		hash string
	)
	dest := []any{&v.ID, &v.Email, &v.Role, &v.Gender, &v.LatestEventID, &v.Balance}
	if withHash {
		dest = append(dest, &hash)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, "", err
	}
	return &v, hash, nil
}
