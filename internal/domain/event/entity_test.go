//go:build unit

package event_test

import (
	"testing"

	"datenight/internal/domain/event"
	"datenight/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolCase struct {
	name     string
	capacity int
	signedUp int
	errIs    error
}

func TestPool(t *testing.T) {
	t.Run("construction validation", func(t *testing.T) {
		cases := []poolCase{
			{name: "empty pool", capacity: 10, signedUp: 0},
			{name: "partially filled pool", capacity: 10, signedUp: 4},
			{name: "exactly full pool", capacity: 10, signedUp: 10},
			{name: "zero capacity pool", capacity: 0, signedUp: 0},
			{name: "count above capacity", capacity: 10, signedUp: 11, errIs: event.ErrCapacityExceeded},
			{name: "negative count", capacity: 10, signedUp: -1, errIs: event.ErrNegativeCount},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				pool, err := event.NewPool(c.capacity, c.signedUp)

				if c.errIs == nil {
					require.NoError(t, err)
					assert.Equal(t, c.capacity, pool.Capacity())
					assert.Equal(t, c.signedUp, pool.SignedUp())
				} else {
					require.ErrorIs(t, err, c.errIs)
				}
			})
		}
	})

	t.Run("fill up to capacity and no further", func(t *testing.T) {
		pool, err := event.NewPool(2, 0)
		require.NoError(t, err)
		require.True(t, pool.HasSpace())

		pool, err = pool.Fill()
		require.NoError(t, err)
		pool, err = pool.Fill()
		require.NoError(t, err)

		assert.False(t, pool.HasSpace())
		_, err = pool.Fill()
		assert.ErrorIs(t, err, event.ErrPoolFull)
	})

	t.Run("release frees exactly one seat", func(t *testing.T) {
		pool, err := event.NewPool(3, 3)
		require.NoError(t, err)

		released, err := pool.Release()
		require.NoError(t, err)
		assert.Equal(t, 2, released.SignedUp())
		assert.True(t, released.HasSpace())
	})

	t.Run("release on empty pool fails", func(t *testing.T) {
		pool, err := event.NewPool(3, 0)
		require.NoError(t, err)

		_, err = pool.Release()
		assert.ErrorIs(t, err, event.ErrPoolEmpty)
	})

	t.Run("fill does not mutate the receiver", func(t *testing.T) {
		pool, err := event.NewPool(5, 1)
		require.NoError(t, err)

		_, err = pool.Fill()
		require.NoError(t, err)
		assert.Equal(t, 1, pool.SignedUp())
	})
}

func TestEvent(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewEventBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.Equal(t, "Friday Night Mixer", actual.Title())
		assert.Equal(t, event.ExternalID("evt_8842019955"), actual.ExternalID())
		assert.True(t, actual.HasSpace(event.GenderMale))
		assert.True(t, actual.HasSpace(event.GenderFemale))
	})

	t.Run("pools are independent per gender", func(t *testing.T) {
		actual, err := builder.NewEventBuilder().
			WithCapacity(2, 5).
			WithSignedUp(2, 3).
			BuildDomain()
		require.NoError(t, err)

		assert.False(t, actual.HasSpace(event.GenderMale))
		assert.True(t, actual.HasSpace(event.GenderFemale))
		assert.Equal(t, 2, actual.Pool(event.GenderMale).SignedUp())
		assert.Equal(t, 3, actual.Pool(event.GenderFemale).SignedUp())
	})

	t.Run("full event has no space in either pool", func(t *testing.T) {
		actual, err := builder.NewEventBuilder().AsFull().BuildDomain()
		require.NoError(t, err)

		assert.False(t, actual.HasSpace(event.GenderMale))
		assert.False(t, actual.HasSpace(event.GenderFemale))
	})
}

func TestParseGender(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  event.Gender
		errIs error
	}{
		{name: "male", input: "male", want: event.GenderMale},
		{name: "female", input: "female", want: event.GenderFemale},
		{name: "empty string", input: "", errIs: event.ErrInvalidGender},
		{name: "unknown value", input: "other", errIs: event.ErrInvalidGender},
		{name: "uppercase is rejected", input: "Male", errIs: event.ErrInvalidGender},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := event.ParseGender(c.input)
			if c.errIs == nil {
				require.NoError(t, err)
				assert.Equal(t, c.want, got)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
