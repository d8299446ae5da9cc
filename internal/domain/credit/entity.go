package credit

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInsufficientBalance = errors.New("insufficient credit balance")
	ErrNegativeAmount      = errors.New("credit amount must be positive")
)

// SignupCost is the number of credits one confirmed seat consumes.
const SignupCost = 1

// Account is a user's spendable date-credit balance. The balance never
// goes negative; debits happen only together with a confirmed seat and
// credits only together with a recorded payment.
type Account struct {
	userID  uuid.UUID
	balance int
}

func Reconstruct(userID uuid.UUID, balance int) Account {
	return Account{userID: userID, balance: balance}
}

func (a Account) UserID() uuid.UUID { return a.userID }
func (a Account) Balance() int      { return a.balance }

func (a Account) CanAfford(amount int) bool {
	return a.balance >= amount
}

func (a Account) Debit(amount int) (Account, error) {
	if amount <= 0 {
		return a, ErrNegativeAmount
	}
	if a.balance < amount {
		return a, ErrInsufficientBalance
	}
	return Account{userID: a.userID, balance: a.balance - amount}, nil
}

func (a Account) Credit(amount int) (Account, error) {
	if amount <= 0 {
		return a, ErrNegativeAmount
	}
	return Account{userID: a.userID, balance: a.balance + amount}, nil
}
