package commands

import (
	"context"
	"errors"
	"log/slog"

	"datenight/internal/domain/payment"
	"datenight/internal/infra"
	"datenight/internal/pkg/clock"
	"datenight/internal/pkg/errs"
	"datenight/internal/usecase/shared"

	"github.com/google/uuid"
)

var errPaymentRaced = errs.New("payment record raced with a concurrent replay")

type PurchaseResult struct {
	PaymentID    uuid.UUID
	CreditsAdded int
	Balance      int
	Replayed     bool
}

type PurchaseCommands interface {
	// CompletePurchase converts a completed external payment into date
	// credits. Replays of the same (user, external payment id) return the
	// original outcome without crediting again.
	CompletePurchase(ctx context.Context, userID uuid.UUID, externalPaymentID string, amountCents int64, discountCode *string) (*PurchaseResult, error)
}

type purchaseCommandsImpl struct {
	uow      shared.UnitOfWork
	notifier shared.LedgerNotifier
	clock    clock.Clock
}

func NewPurchaseCommands(unit shared.UnitOfWork, notifier shared.LedgerNotifier, clk clock.Clock) PurchaseCommands {
	return &purchaseCommandsImpl{uow: unit, notifier: notifier, clock: clk}
}

func (c *purchaseCommandsImpl) CompletePurchase(ctx context.Context, userID uuid.UUID, externalPaymentID string, amountCents int64, discountCode *string) (*PurchaseResult, error) {
	result, err := c.completeOnce(ctx, userID, externalPaymentID, amountCents, discountCode)
	if errors.Is(err, errPaymentRaced) {
		// A rival request committed the record between our lookup and
		// insert. The unique index guarantees it is ours to replay.
		result, err = c.completeOnce(ctx, userID, externalPaymentID, amountCents, discountCode)
	}
	if err != nil {
		return nil, mapLedgerErr(err)
	}

	if !result.Replayed {
		c.publish(ctx, shared.LedgerChange{
			UserID:     userID,
			Kind:       shared.ChangePurchase,
			OccurredAt: c.clock.Now(),
		})
	}
	return result, nil
}

func (c *purchaseCommandsImpl) completeOnce(ctx context.Context, userID uuid.UUID, externalPaymentID string, amountCents int64, discountCode *string) (*PurchaseResult, error) {
	var result PurchaseResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		prior, err := tx.Payments().FindByExternalID(ctx, userID, externalPaymentID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
		if prior != nil {
			account, err := tx.Credits().Account(ctx, userID)
			if err != nil {
				return mapUserErr(err)
			}
			result = PurchaseResult{
				PaymentID:    prior.ID(),
				CreditsAdded: prior.TotalDates(),
				Balance:      account.Balance(),
				Replayed:     true,
			}
			return nil
		}

		cart, err := tx.Carts().Load(ctx, userID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return ErrEmptyCart
		}

		rec, err := payment.NewRecord(userID, externalPaymentID, amountCents, discountCode, cart, c.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, rec); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errPaymentRaced
			}
			return err
		}

		account, err := tx.Credits().Account(ctx, userID)
		if err != nil {
			return mapUserErr(err)
		}
		credited, err := account.Credit(rec.TotalDates())
		if err != nil {
			return err
		}
		if err := tx.Credits().Save(ctx, credited); err != nil {
			return err
		}

		if err := tx.Carts().Clear(ctx, userID); err != nil {
			return err
		}

		result = PurchaseResult{
			PaymentID:    rec.ID(),
			CreditsAdded: rec.TotalDates(),
			Balance:      credited.Balance(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *purchaseCommandsImpl) publish(ctx context.Context, change shared.LedgerChange) {
	if err := c.notifier.PublishChange(ctx, change); err != nil {
		slog.Warn("failed to publish ledger change",
			"kind", change.Kind,
			"user_id", change.UserID.String(),
			"error", err.Error())
	}
}
