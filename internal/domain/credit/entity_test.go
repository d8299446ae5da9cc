//go:build unit

package credit_test

import (
	"testing"

	"datenight/internal/domain/credit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount(t *testing.T) {
	userID := uuid.New()

	t.Run("debit reduces the balance", func(t *testing.T) {
		account := credit.Reconstruct(userID, 3)

		debited, err := account.Debit(credit.SignupCost)
		require.NoError(t, err)
		assert.Equal(t, 2, debited.Balance())
		assert.Equal(t, userID, debited.UserID())
	})

	t.Run("debit never goes below zero", func(t *testing.T) {
		account := credit.Reconstruct(userID, 0)

		assert.False(t, account.CanAfford(credit.SignupCost))
		_, err := account.Debit(credit.SignupCost)
		assert.ErrorIs(t, err, credit.ErrInsufficientBalance)
	})

	t.Run("debit of the full balance is allowed", func(t *testing.T) {
		account := credit.Reconstruct(userID, 1)

		require.True(t, account.CanAfford(1))
		debited, err := account.Debit(1)
		require.NoError(t, err)
		assert.Equal(t, 0, debited.Balance())
	})

	t.Run("credit increases the balance", func(t *testing.T) {
		account := credit.Reconstruct(userID, 2)

		credited, err := account.Credit(5)
		require.NoError(t, err)
		assert.Equal(t, 7, credited.Balance())
	})

	t.Run("zero or negative amounts are rejected", func(t *testing.T) {
		account := credit.Reconstruct(userID, 2)

		_, err := account.Debit(0)
		assert.ErrorIs(t, err, credit.ErrNegativeAmount)
		_, err = account.Debit(-1)
		assert.ErrorIs(t, err, credit.ErrNegativeAmount)
		_, err = account.Credit(0)
		assert.ErrorIs(t, err, credit.ErrNegativeAmount)
	})

	t.Run("operations do not mutate the receiver", func(t *testing.T) {
		account := credit.Reconstruct(userID, 2)

		_, err := account.Debit(1)
		require.NoError(t, err)
		assert.Equal(t, 2, account.Balance())
	})
}
