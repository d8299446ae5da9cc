//go:build unit

package signup_test

import (
	"testing"
	"time"

	"datenight/internal/domain/event"
	"datenight/internal/domain/signup"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()
	externalID := event.ExternalID("evt_8842019955")
	now := time.Now()

	t.Run("confirmed record is active", func(t *testing.T) {
		rec := signup.NewConfirmed(userID, eventID, externalID, now)

		assert.True(t, rec.IsConfirmed())
		assert.True(t, rec.Active())
		assert.Equal(t, externalID, rec.EventExternalID())
		assert.Equal(t, now, rec.JoinedAt())
		assert.Equal(t, now, rec.UpdatedAt())
	})

	t.Run("waitlisted record is active", func(t *testing.T) {
		rec := signup.NewWaitlisted(userID, eventID, externalID, now)

		assert.True(t, rec.IsWaitlisted())
		assert.True(t, rec.Active())
	})

	t.Run("promote moves waitlisted to confirmed", func(t *testing.T) {
		rec := signup.NewWaitlisted(userID, eventID, externalID, now)
		later := now.Add(time.Hour)

		require.NoError(t, rec.Promote(later))
		assert.True(t, rec.IsConfirmed())
		assert.Equal(t, later, rec.UpdatedAt())
		assert.Equal(t, now, rec.JoinedAt())
	})

	t.Run("promote rejects non-waitlisted records", func(t *testing.T) {
		confirmed := signup.NewConfirmed(userID, eventID, externalID, now)
		assert.ErrorIs(t, confirmed.Promote(now), signup.ErrNotWaitlisted)

		cancelled := signup.NewConfirmed(userID, eventID, externalID, now)
		require.NoError(t, cancelled.Cancel(now))
		assert.ErrorIs(t, cancelled.Promote(now), signup.ErrNotWaitlisted)
	})

	t.Run("cancel works from both active states", func(t *testing.T) {
		confirmed := signup.NewConfirmed(userID, eventID, externalID, now)
		require.NoError(t, confirmed.Cancel(now))
		assert.True(t, confirmed.IsCancelled())
		assert.False(t, confirmed.Active())

		waitlisted := signup.NewWaitlisted(userID, eventID, externalID, now)
		require.NoError(t, waitlisted.Cancel(now))
		assert.True(t, waitlisted.IsCancelled())
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		rec := signup.NewConfirmed(userID, eventID, externalID, now)
		require.NoError(t, rec.Cancel(now))

		assert.ErrorIs(t, rec.Cancel(now), signup.ErrAlreadyCancelled)
	})
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  signup.Status
		errIs error
	}{
		{name: "confirmed", input: "confirmed", want: signup.StatusConfirmed},
		{name: "waitlisted", input: "waitlisted", want: signup.StatusWaitlisted},
		{name: "cancelled", input: "cancelled", want: signup.StatusCancelled},
		{name: "unknown value", input: "pending", errIs: signup.ErrInvalidStatus},
		{name: "empty string", input: "", errIs: signup.ErrInvalidStatus},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := signup.ParseStatus(c.input)
			if c.errIs == nil {
				require.NoError(t, err)
				assert.Equal(t, c.want, got)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
