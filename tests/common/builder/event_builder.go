//go:build unit || e2e

package builder

import (
	"time"

	domevent "datenight/internal/domain/event"
	"datenight/internal/usecase/queries"

	"github.com/google/uuid"
)

type EventBuilder struct {
	LocalID        uuid.UUID
	ExternalID     string
	Title          string
	StartsAt       time.Time
	CapacityMale   int
	CapacityFemale int
	SignedUpMale   int
	SignedUpFemale int
	WaitlistMale   int
	WaitlistFemale int
}

func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		LocalID:        uuid.New(),
		ExternalID:     "evt_8842019955",
		Title:          "Friday Night Mixer",
		StartsAt:       time.Now().Add(72 * time.Hour),
		CapacityMale:   10,
		CapacityFemale: 10,
	}
}

func (b *EventBuilder) With(mutate func(*EventBuilder)) *EventBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *EventBuilder) BuildDomain() (*domevent.Event, error) {
	male, err := domevent.NewPool(b.CapacityMale, b.SignedUpMale)
	if err != nil {
		return nil, err
	}
	female, err := domevent.NewPool(b.CapacityFemale, b.SignedUpFemale)
	if err != nil {
		return nil, err
	}
	return domevent.Reconstruct(b.LocalID, domevent.ExternalID(b.ExternalID), b.Title, b.StartsAt, male, female), nil
}

func (b *EventBuilder) BuildView() *queries.EventView {
	return &queries.EventView{
		ID:         b.LocalID,
		ExternalID: b.ExternalID,
		Title:      b.Title,
		StartsAt:   b.StartsAt,
		Male: queries.PoolView{
			Capacity:  b.CapacityMale,
			SignedUp:  b.SignedUpMale,
			Waitlist:  b.WaitlistMale,
			Remaining: b.CapacityMale - b.SignedUpMale,
		},
		Female: queries.PoolView{
			Capacity:  b.CapacityFemale,
			SignedUp:  b.SignedUpFemale,
			Waitlist:  b.WaitlistFemale,
			Remaining: b.CapacityFemale - b.SignedUpFemale,
		},
	}
}

// Fluent builder methods
func (b *EventBuilder) WithLocalID(id uuid.UUID) *EventBuilder {
	b.LocalID = id
	return b
}

func (b *EventBuilder) WithExternalID(id string) *EventBuilder {
	b.ExternalID = id
	return b
}

func (b *EventBuilder) WithTitle(title string) *EventBuilder {
	b.Title = title
	return b
}

func (b *EventBuilder) WithStartsAt(t time.Time) *EventBuilder {
	b.StartsAt = t
	return b
}

func (b *EventBuilder) WithCapacity(male, female int) *EventBuilder {
	b.CapacityMale = male
	b.CapacityFemale = female
	return b
}

func (b *EventBuilder) WithSignedUp(male, female int) *EventBuilder {
	b.SignedUpMale = male
	b.SignedUpFemale = female
	return b
}

func (b *EventBuilder) AsFull() *EventBuilder {
	b.SignedUpMale = b.CapacityMale
	b.SignedUpFemale = b.CapacityFemale
	return b
}
