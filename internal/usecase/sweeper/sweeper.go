package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"datenight/internal/pkg/config"
	"datenight/internal/usecase/commands"
	"datenight/internal/usecase/shared"
)

// ActiveUserSource lists every user with a live seat or waitlist entry.
type ActiveUserSource interface {
	ActiveSignupUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Sweeper drives reconciliation from two triggers: ledger-change
// notifications for fast repair of a single user, and a coarse interval
// sweep over all active users that catches anything a lost notification
// missed. Both paths call the same reconcile operation, so running them
// concurrently or repeatedly is safe.
type Sweeper struct {
	reconcile commands.ReconcileCommands
	listener  shared.LedgerListener
	users     ActiveUserSource
	interval  time.Duration
}

func New(
	reconcile commands.ReconcileCommands,
	listener shared.LedgerListener,
	users ActiveUserSource,
	cfg config.SweeperConfig,
) *Sweeper {
	return &Sweeper{
		reconcile: reconcile,
		listener:  listener,
		users:     users,
		interval:  cfg.Interval,
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	changes, err := s.listener.Listen(ctx)
	if err != nil {
		// Degrade to interval-only sweeping rather than failing startup.
		slog.Error("ledger change listener unavailable, falling back to interval sweep only",
			"error", err.Error())
		changes = nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("sweeper started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s.reconcileUser(ctx, change.UserID, "change")
		case <-ticker.C:
			s.sweepAll(ctx)
		}
	}
}

func (s *Sweeper) sweepAll(ctx context.Context) {
	ids, err := s.users.ActiveSignupUserIDs(ctx)
	if err != nil {
		slog.Error("interval sweep failed to list active users", "error", err.Error())
		return
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		s.reconcileUser(ctx, id, "interval")
	}
}

func (s *Sweeper) reconcileUser(ctx context.Context, userID uuid.UUID, trigger string) {
	report, err := s.reconcile.Reconcile(ctx, userID)
	if err != nil {
		slog.Error("sweep reconciliation failed",
			"user_id", userID.String(),
			"trigger", trigger,
			"error", err.Error())
		return
	}
	if len(report.Enrolled) > 0 || len(report.Failures) > 0 {
		slog.Info("sweep reconciliation repaired state",
			"user_id", userID.String(),
			"trigger", trigger,
			"enrolled", len(report.Enrolled),
			"failures", len(report.Failures))
	}
}
