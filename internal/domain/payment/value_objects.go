package payment

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("invalid price")

// ParsePriceCents accepts checkout price strings ("$28", "28", "$28.50")
// and returns the amount in cents.
func ParsePriceCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, ErrInvalidPrice
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, ErrInvalidPrice
	}

	cents := int64(0)
	if hasFrac {
		if len(frac) != 2 {
			return 0, ErrInvalidPrice
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, ErrInvalidPrice
		}
	}

	return dollars*100 + cents, nil
}

// FormatPriceCents renders cents back into the checkout's "$x.yy" form.
func FormatPriceCents(cents int64) string {
	if cents%100 == 0 {
		return "$" + strconv.FormatInt(cents/100, 10)
	}
	return "$" + strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
