package commands

import (
	"context"
	"log/slog"
	"strings"

	"datenight/internal/domain/event"
	"datenight/internal/domain/signup"
	"datenight/internal/pkg/errs"
	"datenight/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReconcileFailure struct {
	EventExternalID event.ExternalID
	Reason          string
}

// ReconcileReport summarizes one reconciliation pass for one user.
// Repeating the pass against an already-consistent state produces a
// report with no repairs and no writes.
type ReconcileReport struct {
	EventsChecked    int
	RecordsRepaired  int
	Enrolled         []event.ExternalID
	LatestEventID    *event.ExternalID
	WaitlistsChecked int
	Failures         []ReconcileFailure
}

type ReconcileCommands interface {
	// Reconcile repairs the user's mirror records from the authoritative
	// member sets, aligns the registry with the ledger, backfills the
	// latest-event pointer, then attempts promotion for every event the
	// user still waits on. One event's registry failure never blocks the
	// others.
	Reconcile(ctx context.Context, userID uuid.UUID) (*ReconcileReport, error)
}

type reconcileCommandsImpl struct {
	uow      shared.UnitOfWork
	registry shared.Registry
	promoter PromoterCommands
}

func NewReconcileCommands(unit shared.UnitOfWork, registry shared.Registry, promoter PromoterCommands) ReconcileCommands {
	return &reconcileCommandsImpl{uow: unit, registry: registry, promoter: promoter}
}

func (c *reconcileCommandsImpl) Reconcile(ctx context.Context, userID uuid.UUID) (*ReconcileReport, error) {
	var (
		email       string
		gender      event.Gender
		memberships []shared.Membership
		waitlisted  []uuid.UUID
		repaired    int
	)

	// Snapshot and repair first; every registry call stays outside the
	// transaction.
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repaired = 0
		waitlisted = waitlisted[:0]

		var err error
		email, err = tx.Users().EmailByID(ctx, userID)
		if err != nil {
			return mapUserErr(err)
		}
		gender, err = tx.Users().GenderByID(ctx, userID)
		if err != nil {
			return mapUserErr(err)
		}
		memberships, err = tx.Events().MembershipsByUser(ctx, userID)
		if err != nil {
			return err
		}

		records, err := tx.Signups().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		byEvent := make(map[uuid.UUID]*signup.Record, len(records))
		for _, rec := range records {
			byEvent[rec.EventID()] = rec
			if rec.IsWaitlisted() {
				waitlisted = append(waitlisted, rec.EventID())
			}
		}

		// The member set wins: a membership without a confirmed mirror
		// record means a lost or stale write on the mirror side.
		for _, m := range memberships {
			rec, ok := byEvent[m.EventID]
			if ok && rec.IsConfirmed() {
				continue
			}
			fixed := signup.NewConfirmed(userID, m.EventID, m.EventExternalID, m.JoinedAt)
			if err := tx.Signups().Upsert(ctx, fixed); err != nil {
				return err
			}
			repaired++
		}
		return nil
	})
	if err != nil {
		return nil, mapLedgerErr(err)
	}

	report := &ReconcileReport{
		EventsChecked:   len(memberships),
		RecordsRepaired: repaired,
	}
	var combined error

	for _, m := range memberships {
		enrolled, err := c.ensureEnrolled(ctx, m.EventExternalID, email)
		if err != nil {
			report.Failures = append(report.Failures, ReconcileFailure{
				EventExternalID: m.EventExternalID,
				Reason:          err.Error(),
			})
			combined = errs.Combine(combined, err)
			continue
		}
		if enrolled {
			report.Enrolled = append(report.Enrolled, m.EventExternalID)
		}
	}
	if combined != nil {
		slog.Warn("reconciliation completed with registry failures",
			"user_id", userID.String(),
			"failed_events", len(report.Failures),
			"error", combined.Error())
	}

	if latest := latestMembership(memberships); latest != nil {
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Users().SetLatestEvent(ctx, userID, latest.EventExternalID)
		})
		if err != nil {
			return nil, mapLedgerErr(err)
		}
		id := latest.EventExternalID
		report.LatestEventID = &id
	}

	// A freed seat the user queues for may be claimable now. Promotion is
	// FIFO over the whole waitlist, so this may promote someone else.
	for _, eventID := range waitlisted {
		report.WaitlistsChecked++
		if _, err := c.promoter.PromoteIfCapacity(ctx, eventID, gender); err != nil {
			slog.Warn("waitlist promotion during reconcile failed",
				"user_id", userID.String(),
				"event_id", eventID.String(),
				"error", err.Error())
		}
	}

	return report, nil
}

// ensureEnrolled reports whether it had to add the email to the event's
// registry membership.
func (c *reconcileCommandsImpl) ensureEnrolled(ctx context.Context, externalID event.ExternalID, email string) (bool, error) {
	members, err := c.registry.ListMembers(ctx, externalID)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if strings.EqualFold(m, email) {
			return false, nil
		}
	}
	if err := c.registry.Enroll(ctx, externalID, email); err != nil {
		return false, err
	}
	return true, nil
}

func latestMembership(memberships []shared.Membership) *shared.Membership {
	var latest *shared.Membership
	for i := range memberships {
		if latest == nil || memberships[i].JoinedAt.After(latest.JoinedAt) {
			latest = &memberships[i]
		}
	}
	return latest
}
