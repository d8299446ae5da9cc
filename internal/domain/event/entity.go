package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCapacityExceeded = errors.New("signed up count exceeds capacity")
	ErrNegativeCount    = errors.New("signed up count cannot be negative")
	ErrPoolFull         = errors.New("gender pool is full")
	ErrPoolEmpty        = errors.New("gender pool is empty")
)

// Pool is one gender-segmented seat counter pair. The invariant
// 0 <= signedUp <= capacity holds for every constructed Pool.
type Pool struct {
	capacity int
	signedUp int
}

func NewPool(capacity, signedUp int) (Pool, error) {
	if signedUp < 0 {
		return Pool{}, ErrNegativeCount
	}
	if signedUp > capacity {
		return Pool{}, ErrCapacityExceeded
	}
	return Pool{capacity: capacity, signedUp: signedUp}, nil
}

func (p Pool) Capacity() int { return p.capacity }
func (p Pool) SignedUp() int { return p.signedUp }

func (p Pool) HasSpace() bool {
	return p.signedUp < p.capacity
}

func (p Pool) Fill() (Pool, error) {
	if !p.HasSpace() {
		return p, ErrPoolFull
	}
	return Pool{capacity: p.capacity, signedUp: p.signedUp + 1}, nil
}

func (p Pool) Release() (Pool, error) {
	if p.signedUp == 0 {
		return p, ErrPoolEmpty
	}
	return Pool{capacity: p.capacity, signedUp: p.signedUp - 1}, nil
}

// Event is the capacity side of the ledger: two seat pools plus the
// authoritative member set and the FIFO waitlist, keyed locally by uuid
// and externally by the registry id.
type Event struct {
	localID    uuid.UUID
	externalID ExternalID
	title      string
	startsAt   time.Time
	pools      map[Gender]Pool
}

func Reconstruct(localID uuid.UUID, externalID ExternalID, title string, startsAt time.Time, male, female Pool) *Event {
	return &Event{
		localID:    localID,
		externalID: externalID,
		title:      title,
		startsAt:   startsAt,
		pools: map[Gender]Pool{
			GenderMale:   male,
			GenderFemale: female,
		},
	}
}

func (e *Event) LocalID() uuid.UUID     { return e.localID }
func (e *Event) ExternalID() ExternalID { return e.externalID }
func (e *Event) Title() string          { return e.title }
func (e *Event) StartsAt() time.Time    { return e.startsAt }

func (e *Event) Pool(g Gender) Pool {
	return e.pools[g]
}

func (e *Event) HasSpace(g Gender) bool {
	return e.pools[g].HasSpace()
}

// Member is one entry of the authoritative signedUpUsers set.
type Member struct {
	UserID   uuid.UUID
	Gender   Gender
	JoinedAt time.Time
}

// WaitlistEntry is one queued seat request; ordering is strictly by
// RequestedAt within a gender pool.
type WaitlistEntry struct {
	UserID      uuid.UUID
	Gender      Gender
	RequestedAt time.Time
}
