package repository

import (
	"context"
	"errors"

	"datenight/internal/domain/credit"
	"datenight/internal/infra"
	"datenight/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreditRepository reads and writes the dates_remaining balance on the
// user's ledger document. Save relies on the surrounding serializable
// transaction for read-modify-write safety; the CHECK constraint on the
// column is the last line of defence for non-negativity.
type CreditRepository struct {
	db db.DBTX
}

func NewCreditRepository(dbtx db.DBTX) *CreditRepository {
	return &CreditRepository{db: dbtx}
}

func (r *CreditRepository) Account(ctx context.Context, userID uuid.UUID) (credit.Account, error) {
	var balance int
	err := r.db.QueryRow(ctx,
		`SELECT dates_remaining FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return credit.Account{}, infra.WrapRepoErr(infra.KindNotFound, "credit account not found", err)
		}
		return credit.Account{}, infra.WrapRepoErr(infra.KindDBFailure, "failed to read credit balance", err)
	}
	return credit.Reconstruct(userID, balance), nil
}

func (r *CreditRepository) Save(ctx context.Context, account credit.Account) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET dates_remaining = $2 WHERE id = $1`,
		account.UserID(), account.Balance())
	if err != nil {
		if isCheckViolation(err) {
			return infra.WrapRepoErr(infra.KindCheckViolated, "credit balance would go negative", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to save credit balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "credit account not found", pgx.ErrNoRows)
	}
	return nil
}
