package commands

import (
	"context"
	"log/slog"

	"datenight/internal/domain/credit"
	"datenight/internal/domain/event"
	"datenight/internal/infra"
	"datenight/internal/pkg/clock"
	"datenight/internal/usecase/shared"

	"github.com/google/uuid"
)

type promotedSeat struct {
	userID uuid.UUID
	email  string
}

type PromoterCommands interface {
	// PromoteIfCapacity fills freed seats from the gender pool's waitlist
	// in requested-at order. Each promotion debits one credit at promotion
	// time; entries that cannot afford the seat stay queued in place and
	// the scan moves on. Returns the promoted user ids.
	PromoteIfCapacity(ctx context.Context, localEventID uuid.UUID, g event.Gender) ([]uuid.UUID, error)
}

type promoterCommandsImpl struct {
	uow      shared.UnitOfWork
	registry shared.Registry
	notifier shared.LedgerNotifier
	clock    clock.Clock
}

func NewPromoterCommands(
	unit shared.UnitOfWork,
	registry shared.Registry,
	notifier shared.LedgerNotifier,
	clk clock.Clock,
) PromoterCommands {
	return &promoterCommandsImpl{
		uow:      unit,
		registry: registry,
		notifier: notifier,
		clock:    clk,
	}
}

func (c *promoterCommandsImpl) PromoteIfCapacity(ctx context.Context, localEventID uuid.UUID, g event.Gender) ([]uuid.UUID, error) {
	var (
		promoted   []promotedSeat
		externalID event.ExternalID
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		promoted = promoted[:0]

		ev, err := tx.Events().FindByLocalID(ctx, localEventID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		externalID = ev.ExternalID()
		pool := ev.Pool(g)
		if !pool.HasSpace() {
			return nil
		}

		entries, err := tx.Events().ListWaitlist(ctx, localEventID, g)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		for _, entry := range entries {
			if !pool.HasSpace() {
				break
			}

			account, err := tx.Credits().Account(ctx, entry.UserID)
			if err != nil {
				return mapUserErr(err)
			}
			if !account.CanAfford(credit.SignupCost) {
				// Skipped, not evicted. The entry keeps its place for the
				// next pass.
				continue
			}

			debited, err := account.Debit(credit.SignupCost)
			if err != nil {
				return err
			}
			if err := tx.Credits().Save(ctx, debited); err != nil {
				return err
			}

			pool, err = pool.Fill()
			if err != nil {
				return err
			}
			if err := tx.Events().AddMember(ctx, localEventID, event.Member{
				UserID:   entry.UserID,
				Gender:   g,
				JoinedAt: now,
			}); err != nil {
				return err
			}
			if err := tx.Events().RemoveWaitlisted(ctx, localEventID, entry.UserID); err != nil {
				return err
			}

			rec, err := tx.Signups().Find(ctx, entry.UserID, localEventID)
			if err != nil {
				return err
			}
			if err := rec.Promote(now); err != nil {
				return err
			}
			if err := tx.Signups().Upsert(ctx, rec); err != nil {
				return err
			}

			email, err := tx.Users().EmailByID(ctx, entry.UserID)
			if err != nil {
				return mapUserErr(err)
			}
			promoted = append(promoted, promotedSeat{userID: entry.UserID, email: email})
		}

		if len(promoted) > 0 {
			return tx.Events().UpdatePool(ctx, localEventID, g, pool)
		}
		return nil
	})
	if err != nil {
		return nil, mapLedgerErr(err)
	}

	ids := make([]uuid.UUID, 0, len(promoted))
	for _, seat := range promoted {
		ids = append(ids, seat.userID)

		if err := c.registry.Enroll(ctx, externalID, seat.email); err != nil {
			slog.Warn("registry enrollment failed for promoted member",
				"user_id", seat.userID.String(),
				"event_external_id", externalID.String(),
				"error", err.Error())
		}
		if err := c.notifier.PublishChange(ctx, shared.LedgerChange{
			UserID:     seat.userID,
			EventID:    &localEventID,
			Kind:       shared.ChangePromotion,
			OccurredAt: c.clock.Now(),
		}); err != nil {
			slog.Warn("failed to publish ledger change",
				"kind", shared.ChangePromotion,
				"user_id", seat.userID.String(),
				"error", err.Error())
		}
	}
	return ids, nil
}
