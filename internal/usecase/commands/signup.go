package commands

import (
	"context"
	"errors"
	"log/slog"

	"datenight/internal/domain/credit"
	"datenight/internal/domain/event"
	"datenight/internal/domain/signup"
	"datenight/internal/infra"
	"datenight/internal/infra/uow"
	"datenight/internal/pkg/clock"
	"datenight/internal/pkg/errs"
	"datenight/internal/usecase/shared"

	"github.com/google/uuid"
)

type SignupResult struct {
	Status  signup.Status
	Balance int
}

type SignupCommands interface {
	Signup(ctx context.Context, userID, localEventID uuid.UUID, gender event.Gender) (*SignupResult, error)
}

type signupCommandsImpl struct {
	uow      shared.UnitOfWork
	registry shared.Registry
	notifier shared.LedgerNotifier
	clock    clock.Clock
}

func NewSignupCommands(
	unit shared.UnitOfWork,
	registry shared.Registry,
	notifier shared.LedgerNotifier,
	clk clock.Clock,
) SignupCommands {
	return &signupCommandsImpl{
		uow:      unit,
		registry: registry,
		notifier: notifier,
		clock:    clk,
	}
}

// Signup reserves a seat or queues the user, in one serializable
// transaction: seat counter, member set, credit debit and the user's
// mirror record commit together or not at all. Both outcomes require a
// balance covering the seat, but a waitlist entry spends nothing; the
// credit is only debited for a confirmed seat.
func (c *signupCommandsImpl) Signup(ctx context.Context, userID, localEventID uuid.UUID, gender event.Gender) (*SignupResult, error) {
	var (
		result     SignupResult
		externalID event.ExternalID
		email      string
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Signups().Find(ctx, userID, localEventID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
		if existing != nil && existing.Active() {
			return ErrDuplicateSignup
		}

		ev, err := tx.Events().FindByLocalID(ctx, localEventID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		externalID = ev.ExternalID()
		now := c.clock.Now()

		account, err := tx.Credits().Account(ctx, userID)
		if err != nil {
			return mapUserErr(err)
		}

		pool := ev.Pool(gender)
		if !pool.HasSpace() {
			// Capacity-full is the Waitlisted outcome, not an error. The
			// balance precondition still holds for queueing; only the
			// debit is deferred until promotion.
			if !account.CanAfford(credit.SignupCost) {
				return ErrInsufficientCredits
			}

			if err := tx.Events().AppendWaitlist(ctx, localEventID, event.WaitlistEntry{
				UserID:      userID,
				Gender:      gender,
				RequestedAt: now,
			}); err != nil {
				return err
			}

			rec := signup.NewWaitlisted(userID, localEventID, externalID, now)
			if err := tx.Signups().Upsert(ctx, rec); err != nil {
				return err
			}

			result = SignupResult{Status: signup.StatusWaitlisted, Balance: account.Balance()}
			return nil
		}

		debited, err := account.Debit(credit.SignupCost)
		if err != nil {
			if errors.Is(err, credit.ErrInsufficientBalance) {
				return ErrInsufficientCredits
			}
			return err
		}
		if err := tx.Credits().Save(ctx, debited); err != nil {
			return err
		}

		filled, err := pool.Fill()
		if err != nil {
			return err
		}
		if err := tx.Events().UpdatePool(ctx, localEventID, gender, filled); err != nil {
			return err
		}
		if err := tx.Events().AddMember(ctx, localEventID, event.Member{
			UserID:   userID,
			Gender:   gender,
			JoinedAt: now,
		}); err != nil {
			return err
		}

		rec := signup.NewConfirmed(userID, localEventID, externalID, now)
		if err := tx.Signups().Upsert(ctx, rec); err != nil {
			return err
		}

		email, err = tx.Users().EmailByID(ctx, userID)
		if err != nil {
			return mapUserErr(err)
		}

		result = SignupResult{Status: signup.StatusConfirmed, Balance: debited.Balance()}
		return nil
	})
	if err != nil {
		return nil, mapLedgerErr(err)
	}

	// Registry enrollment is best-effort and strictly post-commit: the
	// committed seat and debit always win over registry membership, and
	// the sweeper repairs any failure here.
	if result.Status == signup.StatusConfirmed {
		if err := c.registry.Enroll(ctx, externalID, email); err != nil {
			slog.Warn("registry enrollment failed, queued for reconciliation",
				"user_id", userID.String(),
				"event_external_id", externalID.String(),
				"error", err.Error())
		}
	}

	c.publish(ctx, shared.LedgerChange{
		UserID:     userID,
		EventID:    &localEventID,
		Kind:       shared.ChangeSignup,
		OccurredAt: c.clock.Now(),
	})

	return &result, nil
}

func (c *signupCommandsImpl) publish(ctx context.Context, change shared.LedgerChange) {
	if err := c.notifier.PublishChange(ctx, change); err != nil {
		slog.Warn("failed to publish ledger change",
			"kind", change.Kind,
			"user_id", change.UserID.String(),
			"error", err.Error())
	}
}

func mapUserErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrUserNotFound
	}
	return err
}

// mapLedgerErr keeps precondition errors intact and converts retry
// exhaustion into the caller-facing contention condition. Raw
// transaction conflicts never escape.
func mapLedgerErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInsufficientCredits),
		errors.Is(err, ErrDuplicateSignup),
		errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrNotSignedUp),
		errors.Is(err, ErrEmptyCart):
		return err
	case errors.Is(err, uow.ErrMaxRetriesExceeded):
		return errs.Mark(err, ErrCapacityRaceExhausted)
	default:
		return errs.Mark(err, ErrLedgerOperationFailed)
	}
}
