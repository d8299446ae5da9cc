//go:build unit

package payment_test

import (
	"testing"
	"time"

	"datenight/internal/domain/payment"
	"datenight/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		cart, err := builder.NewCartBuilder().BuildDomain()
		require.NoError(t, err)

		assert.False(t, cart.IsEmpty())
		assert.Equal(t, 1, cart.TotalDates())
		assert.Equal(t, int64(2800), cart.SubtotalCents())
	})

	t.Run("mixed packages multiply quantity by dates per unit", func(t *testing.T) {
		// Two $28 singles plus one $78 bundle worth three dates.
		cart, err := builder.NewCartBuilder().AsMixedPackages().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, 5, cart.TotalDates())
		assert.Equal(t, int64(2*2800+7800), cart.SubtotalCents())
	})

	t.Run("empty cart", func(t *testing.T) {
		cart, err := builder.NewCartBuilder().Empty().BuildDomain()
		require.NoError(t, err)

		assert.True(t, cart.IsEmpty())
		assert.Equal(t, 0, cart.TotalDates())
	})

	t.Run("line item validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*payment.LineItem)
		}{
			{name: "zero quantity", mutate: func(li *payment.LineItem) { li.Quantity = 0 }},
			{name: "negative quantity", mutate: func(li *payment.LineItem) { li.Quantity = -1 }},
			{name: "zero dates per unit", mutate: func(li *payment.LineItem) { li.NumDates = 0 }},
			{name: "negative price", mutate: func(li *payment.LineItem) { li.PriceCents = -100 }},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				item := builder.NewCartBuilder().Items[0]
				c.mutate(&item)

				require.ErrorIs(t, item.Validate(), payment.ErrInvalidLineItem)
				_, err := payment.NewCart([]payment.LineItem{item})
				require.ErrorIs(t, err, payment.ErrInvalidLineItem)
			})
		}
	})
}

func TestNewRecord(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	t.Run("basic success case", func(t *testing.T) {
		cart, err := builder.NewCartBuilder().AsMixedPackages().BuildDomain()
		require.NoError(t, err)

		rec, err := payment.NewRecord(userID, "pi_3MtwBwLkdIwHu7ix28a3tqPa", 12000, nil, cart, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, rec.ID())
		assert.Equal(t, userID, rec.UserID())
		assert.Equal(t, 5, rec.TotalDates())
		assert.Equal(t, int64(12000), rec.AmountCents())
		assert.Equal(t, cart.SubtotalCents(), rec.OriginalAmountCents())
		assert.Equal(t, payment.StatusCompleted, rec.Status())
	})

	t.Run("discount code is carried through", func(t *testing.T) {
		cart, err := builder.NewCartBuilder().BuildDomain()
		require.NoError(t, err)
		code := "LOVE10"

		rec, err := payment.NewRecord(userID, "pi_1", 2520, &code, cart, now)
		require.NoError(t, err)
		require.NotNil(t, rec.DiscountCode())
		assert.Equal(t, code, *rec.DiscountCode())
	})

	t.Run("validation failures", func(t *testing.T) {
		cart, err := builder.NewCartBuilder().BuildDomain()
		require.NoError(t, err)
		empty, err := builder.NewCartBuilder().Empty().BuildDomain()
		require.NoError(t, err)

		_, err = payment.NewRecord(userID, "", 2800, nil, cart, now)
		assert.ErrorIs(t, err, payment.ErrEmptyExternalID)

		_, err = payment.NewRecord(userID, "pi_1", -1, nil, cart, now)
		assert.ErrorIs(t, err, payment.ErrNegativeAmount)

		_, err = payment.NewRecord(userID, "pi_1", 2800, nil, empty, now)
		assert.ErrorIs(t, err, payment.ErrEmptyCart)
	})
}

func TestParsePriceCents(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int64
		errIs error
	}{
		{name: "dollar sign whole amount", input: "$28", want: 2800},
		{name: "bare whole amount", input: "78", want: 7800},
		{name: "dollars and cents", input: "$28.50", want: 2850},
		{name: "zero", input: "$0", want: 0},
		{name: "leading whitespace", input: " $28", want: 2800},
		{name: "empty string", input: "", errIs: payment.ErrInvalidPrice},
		{name: "dollar sign only", input: "$", errIs: payment.ErrInvalidPrice},
		{name: "single fraction digit", input: "$28.5", errIs: payment.ErrInvalidPrice},
		{name: "three fraction digits", input: "$28.500", errIs: payment.ErrInvalidPrice},
		{name: "negative amount", input: "-28", errIs: payment.ErrInvalidPrice},
		{name: "not a number", input: "$abc", errIs: payment.ErrInvalidPrice},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := payment.ParsePriceCents(c.input)
			if c.errIs == nil {
				require.NoError(t, err)
				assert.Equal(t, c.want, got)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestFormatPriceCents(t *testing.T) {
	assert.Equal(t, "$28", payment.FormatPriceCents(2800))
	assert.Equal(t, "$28.50", payment.FormatPriceCents(2850))
	assert.Equal(t, "$0", payment.FormatPriceCents(0))
	assert.Equal(t, "$1.05", payment.FormatPriceCents(105))
}
