//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"datenight/internal/domain/event"
	"datenight/internal/domain/signup"
	"datenight/internal/pkg/clock"
	"datenight/internal/pkg/config"
	"datenight/internal/usecase/commands"
	"datenight/tests/common/builder"
	"datenight/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cancelFixture struct {
	ledger   *fake.Ledger
	registry *fake.Registry
	notifier *fake.Notifier
	clk      *clock.MockClock
	cancel   commands.CancelCommands
}

func newCancelFixture(t *testing.T, policy config.PolicyConfig) *cancelFixture {
	t.Helper()
	ledger := fake.NewLedger()
	registry := fake.NewRegistry()
	notifier := fake.NewNotifier()
	clk := clock.NewMockClock(time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC))
	promoter := commands.NewPromoterCommands(ledger, registry, notifier, clk)
	return &cancelFixture{
		ledger:   ledger,
		registry: registry,
		notifier: notifier,
		clk:      clk,
		cancel:   commands.NewCancelCommands(ledger, promoter, notifier, clk, policy),
	}
}

func (f *cancelFixture) seedConfirmed(ev *event.Event, g event.Gender, balance int) uuid.UUID {
	id := uuid.New()
	f.ledger.SeedUser(id, id.String()+"@example.com", g, balance)
	f.ledger.SeedMember(ev.LocalID(), event.Member{UserID: id, Gender: g, JoinedAt: f.clk.Now().Add(-time.Hour)})
	f.ledger.SeedSignup(signup.NewConfirmed(id, ev.LocalID(), ev.ExternalID(), f.clk.Now().Add(-time.Hour)))
	return id
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	noRefund := config.PolicyConfig{RefundOnCancel: false}
	withRefund := config.PolicyConfig{RefundOnCancel: true}

	t.Run("confirmed cancel frees the seat without a refund by default", func(t *testing.T) {
		f := newCancelFixture(t, noRefund)
		ev, err := builder.NewEventBuilder().WithCapacity(3, 3).WithSignedUp(0, 1).BuildDomain()
		require.NoError(t, err)
		f.ledger.SeedEvent(ev)
		userID := f.seedConfirmed(ev, event.GenderFemale, 2)

		result, err := f.cancel.Cancel(ctx, userID, ev.LocalID())
		require.NoError(t, err)

		assert.Equal(t, signup.StatusConfirmed, result.PreviousStatus)
		assert.False(t, result.Refunded)
		assert.Equal(t, 2, result.Balance)

		assert.Equal(t, 0, f.ledger.Pool(ev.LocalID(), event.GenderFemale).SignedUp())
		assert.False(t, f.ledger.IsMember(ev.LocalID(), userID))
		assert.True(t, f.ledger.Signup(userID, ev.LocalID()).IsCancelled())
	})

	t.Run("refund policy returns the spent credit", func(t *testing.T) {
		f := newCancelFixture(t, withRefund)
		ev, err := builder.NewEventBuilder().WithCapacity(3, 3).WithSignedUp(0, 1).BuildDomain()
		require.NoError(t, err)
		f.ledger.SeedEvent(ev)
		userID := f.seedConfirmed(ev, event.GenderFemale, 2)

		result, err := f.cancel.Cancel(ctx, userID, ev.LocalID())
		require.NoError(t, err)

		assert.True(t, result.Refunded)
		assert.Equal(t, 3, result.Balance)
		assert.Equal(t, 3, f.ledger.Balance(userID))
	})

	t.Run("waitlisted cancel frees nothing and refunds nothing", func(t *testing.T) {
		f := newCancelFixture(t, withRefund)
		ev, err := builder.NewEventBuilder().WithCapacity(1, 1).WithSignedUp(0, 1).BuildDomain()
		require.NoError(t, err)
		f.ledger.SeedEvent(ev)

		userID := uuid.New()
		f.ledger.SeedUser(userID, "queued@example.com", event.GenderFemale, 2)
		f.ledger.SeedWaitlist(ev.LocalID(), event.WaitlistEntry{
			UserID:      userID,
			Gender:      event.GenderFemale,
			RequestedAt: f.clk.Now().Add(-time.Hour),
		})

		result, err := f.cancel.Cancel(ctx, userID, ev.LocalID())
		require.NoError(t, err)

		assert.Equal(t, signup.StatusWaitlisted, result.PreviousStatus)
		assert.False(t, result.Refunded)
		assert.Equal(t, 2, result.Balance)

		assert.Equal(t, 0, f.ledger.WaitlistLen(ev.LocalID()))
		assert.Equal(t, 1, f.ledger.Pool(ev.LocalID(), event.GenderFemale).SignedUp())
		assert.True(t, f.ledger.Signup(userID, ev.LocalID()).IsCancelled())
	})

	t.Run("freed seat promotes the oldest waitlisted member", func(t *testing.T) {
		f := newCancelFixture(t, noRefund)
		ev, err := builder.NewEventBuilder().WithCapacity(1, 1).WithSignedUp(0, 1).BuildDomain()
		require.NoError(t, err)
		f.ledger.SeedEvent(ev)
		leaver := f.seedConfirmed(ev, event.GenderFemale, 0)

		queued := uuid.New()
		f.ledger.SeedUser(queued, "queued@example.com", event.GenderFemale, 1)
		f.ledger.SeedWaitlist(ev.LocalID(), event.WaitlistEntry{
			UserID:      queued,
			Gender:      event.GenderFemale,
			RequestedAt: f.clk.Now().Add(-30 * time.Minute),
		})

		_, err = f.cancel.Cancel(ctx, leaver, ev.LocalID())
		require.NoError(t, err)

		// The freed seat goes straight to the queue head in a follow-up
		// transaction.
		assert.Equal(t, 1, f.ledger.Pool(ev.LocalID(), event.GenderFemale).SignedUp())
		assert.True(t, f.ledger.IsMember(ev.LocalID(), queued))
		assert.True(t, f.ledger.Signup(queued, ev.LocalID()).IsConfirmed())
		assert.Equal(t, 0, f.ledger.Balance(queued))
		assert.Equal(t, 0, f.ledger.WaitlistLen(ev.LocalID()))
	})

	t.Run("never signed up", func(t *testing.T) {
		f := newCancelFixture(t, noRefund)
		ev, err := builder.NewEventBuilder().BuildDomain()
		require.NoError(t, err)
		f.ledger.SeedEvent(ev)
		userID := uuid.New()
		f.ledger.SeedUser(userID, "nobody@example.com", event.GenderMale, 1)

		_, err = f.cancel.Cancel(ctx, userID, ev.LocalID())
		require.ErrorIs(t, err, commands.ErrNotSignedUp)
	})

	t.Run("cancelling twice fails the second time", func(t *testing.T) {
		f := newCancelFixture(t, noRefund)
		ev, err := builder.NewEventBuilder().WithCapacity(3, 3).WithSignedUp(0, 1).BuildDomain()
		require.NoError(t, err)
		f.ledger.SeedEvent(ev)
		userID := f.seedConfirmed(ev, event.GenderFemale, 0)

		_, err = f.cancel.Cancel(ctx, userID, ev.LocalID())
		require.NoError(t, err)

		_, err = f.cancel.Cancel(ctx, userID, ev.LocalID())
		require.ErrorIs(t, err, commands.ErrNotSignedUp)
	})
}
