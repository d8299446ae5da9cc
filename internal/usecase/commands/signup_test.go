//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"datenight/internal/domain/event"
	"datenight/internal/domain/signup"
	"datenight/internal/pkg/clock"
	"datenight/internal/usecase/commands"
	"datenight/internal/usecase/shared"
	"datenight/tests/common/builder"
	"datenight/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignupFixture(t *testing.T) (*fake.Ledger, *fake.Registry, *fake.Notifier, commands.SignupCommands, *clock.MockClock) {
	t.Helper()
	ledger := fake.NewLedger()
	registry := fake.NewRegistry()
	notifier := fake.NewNotifier()
	clk := clock.NewMockClock(time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC))
	cmd := commands.NewSignupCommands(ledger, registry, notifier, clk)
	return ledger, registry, notifier, cmd, clk
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed seat debits exactly one credit", func(t *testing.T) {
		ledger, registry, notifier, cmd, _ := newSignupFixture(t)
		userID := uuid.New()
		ev, err := builder.NewEventBuilder().WithCapacity(5, 5).BuildDomain()
		require.NoError(t, err)
		ledger.SeedEvent(ev)
		ledger.SeedUser(userID, "alice@example.com", event.GenderFemale, 3)

		result, err := cmd.Signup(ctx, userID, ev.LocalID(), event.GenderFemale)
		require.NoError(t, err)

		assert.Equal(t, signup.StatusConfirmed, result.Status)
		assert.Equal(t, 2, result.Balance)
		assert.Equal(t, 2, ledger.Balance(userID))
		assert.Equal(t, 1, ledger.Pool(ev.LocalID(), event.GenderFemale).SignedUp())
		assert.True(t, ledger.IsMember(ev.LocalID(), userID))

		rec := ledger.Signup(userID, ev.LocalID())
		require.NotNil(t, rec)
		assert.True(t, rec.IsConfirmed())

		enrollments := registry.Enrollments()
		require.Len(t, enrollments, 1)
		assert.Equal(t, ev.ExternalID(), enrollments[0].EventExternalID)
		assert.Equal(t, "alice@example.com", enrollments[0].Email)

		changes := notifier.Changes()
		require.Len(t, changes, 1)
		assert.Equal(t, shared.ChangeSignup, changes[0].Kind)
	})

	t.Run("full pool queues without spending a credit", func(t *testing.T) {
		ledger, registry, _, cmd, _ := newSignupFixture(t)
		userID := uuid.New()
		ev, err := builder.NewEventBuilder().WithCapacity(1, 1).WithSignedUp(0, 1).BuildDomain()
		require.NoError(t, err)
		ledger.SeedEvent(ev)
		ledger.SeedUser(userID, "bob@example.com", event.GenderFemale, 3)

		result, err := cmd.Signup(ctx, userID, ev.LocalID(), event.GenderFemale)
		require.NoError(t, err)

		assert.Equal(t, signup.StatusWaitlisted, result.Status)
		assert.Equal(t, 3, result.Balance)
		assert.Equal(t, 3, ledger.Balance(userID))
		assert.Equal(t, 1, ledger.WaitlistLen(ev.LocalID()))
		assert.False(t, ledger.IsMember(ev.LocalID(), userID))
		assert.Empty(t, registry.Enrollments())

		rec := ledger.Signup(userID, ev.LocalID())
		require.NotNil(t, rec)
		assert.True(t, rec.IsWaitlisted())
	})

	t.Run("a zero balance blocks waitlisting as well", func(t *testing.T) {
		ledger, _, notifier, cmd, _ := newSignupFixture(t)
		userID := uuid.New()
		ev, err := builder.NewEventBuilder().WithCapacity(1, 1).WithSignedUp(0, 1).BuildDomain()
		require.NoError(t, err)
		ledger.SeedEvent(ev)
		ledger.SeedUser(userID, "broke@example.com", event.GenderFemale, 0)

		_, err = cmd.Signup(ctx, userID, ev.LocalID(), event.GenderFemale)
		require.ErrorIs(t, err, commands.ErrInsufficientCredits)

		assert.Equal(t, 0, ledger.WaitlistLen(ev.LocalID()))
		assert.Nil(t, ledger.Signup(userID, ev.LocalID()))
		assert.Empty(t, notifier.Changes())
	})

	t.Run("insufficient credits blocks a confirmed seat", func(t *testing.T) {
		ledger, _, notifier, cmd, _ := newSignupFixture(t)
		userID := uuid.New()
		ev, err := builder.NewEventBuilder().BuildDomain()
		require.NoError(t, err)
		ledger.SeedEvent(ev)
		ledger.SeedUser(userID, "broke@example.com", event.GenderMale, 0)

		_, err = cmd.Signup(ctx, userID, ev.LocalID(), event.GenderMale)
		require.ErrorIs(t, err, commands.ErrInsufficientCredits)

		assert.Equal(t, 0, ledger.Pool(ev.LocalID(), event.GenderMale).SignedUp())
		assert.Nil(t, ledger.Signup(userID, ev.LocalID()))
		assert.Empty(t, notifier.Changes())
	})

	t.Run("active duplicate signup is rejected", func(t *testing.T) {
		ledger, _, _, cmd, clk := newSignupFixture(t)
		userID := uuid.New()
		ev, err := builder.NewEventBuilder().BuildDomain()
		require.NoError(t, err)
		ledger.SeedEvent(ev)
		ledger.SeedUser(userID, "alice@example.com", event.GenderFemale, 5)
		ledger.SeedSignup(signup.NewConfirmed(userID, ev.LocalID(), ev.ExternalID(), clk.Now()))

		_, err = cmd.Signup(ctx, userID, ev.LocalID(), event.GenderFemale)
		require.ErrorIs(t, err, commands.ErrDuplicateSignup)
		assert.Equal(t, 5, ledger.Balance(userID))
	})

	t.Run("a cancelled record does not block re-signup", func(t *testing.T) {
		ledger, _, _, cmd, clk := newSignupFixture(t)
		userID := uuid.New()
		ev, err := builder.NewEventBuilder().BuildDomain()
		require.NoError(t, err)
		ledger.SeedEvent(ev)
		ledger.SeedUser(userID, "alice@example.com", event.GenderFemale, 5)

		old := signup.NewConfirmed(userID, ev.LocalID(), ev.ExternalID(), clk.Now().Add(-24*time.Hour))
		require.NoError(t, old.Cancel(clk.Now().Add(-23*time.Hour)))
		ledger.SeedSignup(old)

		result, err := cmd.Signup(ctx, userID, ev.LocalID(), event.GenderFemale)
		require.NoError(t, err)
		assert.Equal(t, signup.StatusConfirmed, result.Status)
	})

	t.Run("unknown event", func(t *testing.T) {
		ledger, _, _, cmd, _ := newSignupFixture(t)
		userID := uuid.New()
		ledger.SeedUser(userID, "alice@example.com", event.GenderFemale, 5)

		_, err := cmd.Signup(ctx, userID, uuid.New(), event.GenderFemale)
		require.ErrorIs(t, err, commands.ErrEventNotFound)
	})

	t.Run("registry failure does not undo the committed seat", func(t *testing.T) {
		ledger, registry, _, cmd, _ := newSignupFixture(t)
		registry.EnrollErr = assert.AnError
		userID := uuid.New()
		ev, err := builder.NewEventBuilder().BuildDomain()
		require.NoError(t, err)
		ledger.SeedEvent(ev)
		ledger.SeedUser(userID, "alice@example.com", event.GenderFemale, 3)

		result, err := cmd.Signup(ctx, userID, ev.LocalID(), event.GenderFemale)
		require.NoError(t, err)
		assert.Equal(t, signup.StatusConfirmed, result.Status)
		assert.True(t, ledger.IsMember(ev.LocalID(), userID))
	})
}
