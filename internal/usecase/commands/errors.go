package commands

import "datenight/internal/pkg/errs"

var (
	// ErrInsufficientCredits: the account cannot cover one seat. No
	// ledger mutation happens.
	ErrInsufficientCredits = errs.New("insufficient credits")
	// ErrDuplicateSignup: the user already holds or queues for a seat
	// at this event.
	ErrDuplicateSignup = errs.New("duplicate signup")
	// ErrCapacityRaceExhausted: the retry budget ran out under
	// contention; the caller should try again.
	ErrCapacityRaceExhausted = errs.New("capacity race retry budget exhausted")
	// ErrNotSignedUp: cancellation for a (user, event) pair with no
	// active record.
	ErrNotSignedUp = errs.New("not signed up for event")

	ErrEventNotFound = errs.New("event not found")
	ErrUserNotFound  = errs.New("user not found")
	ErrEmptyCart     = errs.New("cart is empty")

	ErrLedgerOperationFailed = errs.New("ledger operation failed")
)
