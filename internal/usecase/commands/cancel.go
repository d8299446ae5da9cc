package commands

import (
	"context"
	"log/slog"

	"datenight/internal/domain/credit"
	"datenight/internal/domain/event"
	"datenight/internal/domain/signup"
	"datenight/internal/infra"
	"datenight/internal/pkg/clock"
	"datenight/internal/pkg/config"
	"datenight/internal/usecase/shared"

	"github.com/google/uuid"
)

type CancelResult struct {
	PreviousStatus signup.Status
	Refunded       bool
	Balance        int
}

type CancelCommands interface {
	Cancel(ctx context.Context, userID, localEventID uuid.UUID) (*CancelResult, error)
}

type cancelCommandsImpl struct {
	uow      shared.UnitOfWork
	promoter PromoterCommands
	notifier shared.LedgerNotifier
	clock    clock.Clock
	policy   config.PolicyConfig
}

func NewCancelCommands(
	unit shared.UnitOfWork,
	promoter PromoterCommands,
	notifier shared.LedgerNotifier,
	clk clock.Clock,
	policy config.PolicyConfig,
) CancelCommands {
	return &cancelCommandsImpl{
		uow:      unit,
		promoter: promoter,
		notifier: notifier,
		clock:    clk,
		policy:   policy,
	}
}

// Cancel releases the user's seat or waitlist spot. A freed confirmed
// seat triggers waitlist promotion after commit; a cancelled waitlist
// entry frees nothing and refunds nothing because it never cost a credit.
func (c *cancelCommandsImpl) Cancel(ctx context.Context, userID, localEventID uuid.UUID) (*CancelResult, error) {
	var (
		result      CancelResult
		freedGender event.Gender
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		freedGender = ""

		rec, err := tx.Signups().Find(ctx, userID, localEventID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrNotSignedUp
			}
			return err
		}
		if !rec.Active() {
			return ErrNotSignedUp
		}
		now := c.clock.Now()
		previous := rec.Status()

		account, err := tx.Credits().Account(ctx, userID)
		if err != nil {
			return mapUserErr(err)
		}

		if rec.IsWaitlisted() {
			if err := tx.Events().RemoveWaitlisted(ctx, localEventID, userID); err != nil {
				return err
			}
		} else {
			member, err := tx.Events().RemoveMember(ctx, localEventID, userID)
			if err != nil {
				return err
			}

			ev, err := tx.Events().FindByLocalID(ctx, localEventID)
			if err != nil {
				return err
			}
			released, err := ev.Pool(member.Gender).Release()
			if err != nil {
				return err
			}
			if err := tx.Events().UpdatePool(ctx, localEventID, member.Gender, released); err != nil {
				return err
			}
			freedGender = member.Gender

			if c.policy.RefundOnCancel {
				refunded, err := account.Credit(credit.SignupCost)
				if err != nil {
					return err
				}
				if err := tx.Credits().Save(ctx, refunded); err != nil {
					return err
				}
				account = refunded
				result.Refunded = true
			}
		}

		if err := rec.Cancel(now); err != nil {
			return err
		}
		if err := tx.Signups().Upsert(ctx, rec); err != nil {
			return err
		}

		result.PreviousStatus = previous
		result.Balance = account.Balance()
		return nil
	})
	if err != nil {
		return nil, mapLedgerErr(err)
	}

	c.publishCancel(ctx, userID, localEventID)

	// Promotion runs in its own transaction so a promotion conflict never
	// rolls back the completed cancellation.
	if freedGender != "" {
		if _, err := c.promoter.PromoteIfCapacity(ctx, localEventID, freedGender); err != nil {
			slog.Warn("waitlist promotion after cancel failed",
				"event_id", localEventID.String(),
				"gender", string(freedGender),
				"error", err.Error())
		}
	}

	return &result, nil
}

func (c *cancelCommandsImpl) publishCancel(ctx context.Context, userID, localEventID uuid.UUID) {
	if err := c.notifier.PublishChange(ctx, shared.LedgerChange{
		UserID:     userID,
		EventID:    &localEventID,
		Kind:       shared.ChangeCancel,
		OccurredAt: c.clock.Now(),
	}); err != nil {
		slog.Warn("failed to publish ledger change",
			"kind", shared.ChangeCancel,
			"user_id", userID.String(),
			"error", err.Error())
	}
}
