package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyExternalID = errors.New("external payment id is required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidLineItem = errors.New("invalid cart line item")
	ErrNegativeAmount  = errors.New("charged amount cannot be negative")
)

type Status string

const (
	StatusCompleted Status = "completed"
)

// LineItem is one cart row. NumDates is how many date credits a single
// unit of the package grants.
type LineItem struct {
	Title       string
	Venue       string
	PackageType string
	PriceCents  int64
	Quantity    int
	NumDates    int
}

func (li LineItem) Validate() error {
	if li.Quantity <= 0 || li.NumDates <= 0 || li.PriceCents < 0 {
		return ErrInvalidLineItem
	}
	return nil
}

// Cart is the user's transient checkout content, ordered.
type Cart struct {
	items []LineItem
}

func NewCart(items []LineItem) (Cart, error) {
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return Cart{}, err
		}
	}
	return Cart{items: items}, nil
}

func (c Cart) Items() []LineItem { return c.items }
func (c Cart) IsEmpty() bool     { return len(c.items) == 0 }

// TotalDates is the number of credits the cart purchases:
// sum of quantity x numDates over every line item.
func (c Cart) TotalDates() int {
	total := 0
	for _, li := range c.items {
		total += li.Quantity * li.NumDates
	}
	return total
}

func (c Cart) SubtotalCents() int64 {
	var total int64
	for _, li := range c.items {
		total += li.PriceCents * int64(li.Quantity)
	}
	return total
}

// Record is the immutable evidence of one completed external payment.
// Exactly one Record ever exists per (user, external payment id); it is
// the sole basis for crediting the account.
type Record struct {
	id                  uuid.UUID
	userID              uuid.UUID
	externalPaymentID   string
	amountCents         int64
	originalAmountCents int64
	discountCode        *string
	cartSnapshot        Cart
	totalDates          int
	status              Status
	createdAt           time.Time
}

func NewRecord(
	userID uuid.UUID,
	externalPaymentID string,
	amountCents int64,
	discountCode *string,
	cart Cart,
	now time.Time,
) (*Record, error) {
	if externalPaymentID == "" {
		return nil, ErrEmptyExternalID
	}
	if amountCents < 0 {
		return nil, ErrNegativeAmount
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	return &Record{
		id:                  uuid.New(),
		userID:              userID,
		externalPaymentID:   externalPaymentID,
		amountCents:         amountCents,
		originalAmountCents: cart.SubtotalCents(),
		discountCode:        discountCode,
		cartSnapshot:        cart,
		totalDates:          cart.TotalDates(),
		status:              StatusCompleted,
		createdAt:           now,
	}, nil
}

func Reconstruct(
	id, userID uuid.UUID,
	externalPaymentID string,
	amountCents, originalAmountCents int64,
	discountCode *string,
	cart Cart,
	totalDates int,
	status Status,
	createdAt time.Time,
) *Record {
	return &Record{
		id:                  id,
		userID:              userID,
		externalPaymentID:   externalPaymentID,
		amountCents:         amountCents,
		originalAmountCents: originalAmountCents,
		discountCode:        discountCode,
		cartSnapshot:        cart,
		totalDates:          totalDates,
		status:              status,
		createdAt:           createdAt,
	}
}

func (r *Record) ID() uuid.UUID              { return r.id }
func (r *Record) UserID() uuid.UUID          { return r.userID }
func (r *Record) ExternalPaymentID() string  { return r.externalPaymentID }
func (r *Record) AmountCents() int64         { return r.amountCents }
func (r *Record) OriginalAmountCents() int64 { return r.originalAmountCents }
func (r *Record) DiscountCode() *string      { return r.discountCode }
func (r *Record) CartSnapshot() Cart         { return r.cartSnapshot }
func (r *Record) TotalDates() int            { return r.totalDates }
func (r *Record) Status() Status             { return r.status }
func (r *Record) CreatedAt() time.Time       { return r.createdAt }
