//go:build unit

// Package fake provides an in-memory stand-in for the ledger store so
// command tests can exercise full transaction flows without postgres.
package fake

import (
	"context"
	"sort"
	"sync"
	"time"

	"datenight/internal/domain/credit"
	"datenight/internal/domain/event"
	"datenight/internal/domain/payment"
	"datenight/internal/domain/signup"
	"datenight/internal/infra"
	"datenight/internal/infra/db"
	"datenight/internal/usecase/shared"

	"github.com/google/uuid"
)

type eventState struct {
	externalID event.ExternalID
	title      string
	startsAt   time.Time
	pools      map[event.Gender]event.Pool
	members    map[uuid.UUID]event.Member
	waitlist   []event.WaitlistEntry
}

type userState struct {
	email       string
	gender      event.Gender
	latestEvent *event.ExternalID
}

type signupKey struct {
	userID  uuid.UUID
	eventID uuid.UUID
}

type paymentKey struct {
	userID     uuid.UUID
	externalID string
}

// Ledger holds the whole shared state behind the unit of work. Within
// snapshots the state and restores it when fn fails, so aborted
// transactions leave nothing behind, same as a rollback would.
type Ledger struct {
	mu       sync.Mutex
	events   map[uuid.UUID]*eventState
	users    map[uuid.UUID]*userState
	balances map[uuid.UUID]int
	signups  map[signupKey]*signup.Record
	payments map[paymentKey]*payment.Record
	carts    map[uuid.UUID][]payment.LineItem
}

func NewLedger() *Ledger {
	return &Ledger{
		events:   make(map[uuid.UUID]*eventState),
		users:    make(map[uuid.UUID]*userState),
		balances: make(map[uuid.UUID]int),
		signups:  make(map[signupKey]*signup.Record),
		payments: make(map[paymentKey]*payment.Record),
		carts:    make(map[uuid.UUID][]payment.LineItem),
	}
}

// ---- seeding helpers ----

func (l *Ledger) SeedEvent(ev *event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events[ev.LocalID()] = &eventState{
		externalID: ev.ExternalID(),
		title:      ev.Title(),
		startsAt:   ev.StartsAt(),
		pools: map[event.Gender]event.Pool{
			event.GenderMale:   ev.Pool(event.GenderMale),
			event.GenderFemale: ev.Pool(event.GenderFemale),
		},
		members: make(map[uuid.UUID]event.Member),
	}
}

func (l *Ledger) SeedUser(id uuid.UUID, email string, gender event.Gender, balance int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users[id] = &userState{email: email, gender: gender}
	l.balances[id] = balance
}

func (l *Ledger) SeedCart(userID uuid.UUID, items []payment.LineItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.carts[userID] = append([]payment.LineItem(nil), items...)
}

func (l *Ledger) SeedWaitlist(eventID uuid.UUID, entries ...event.WaitlistEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := l.events[eventID]
	for _, e := range entries {
		ev.waitlist = append(ev.waitlist, e)
		rec := signup.NewWaitlisted(e.UserID, eventID, ev.externalID, e.RequestedAt)
		l.signups[signupKey{e.UserID, eventID}] = rec
	}
}

func (l *Ledger) SeedMember(eventID uuid.UUID, m event.Member) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events[eventID].members[m.UserID] = m
}

func (l *Ledger) SeedSignup(rec *signup.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.signups[signupKey{rec.UserID(), rec.EventID()}] = cloneRecord(rec)
}

// ---- inspection helpers ----

func (l *Ledger) Balance(userID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

func (l *Ledger) Signup(userID, eventID uuid.UUID) *signup.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.signups[signupKey{userID, eventID}]
	if !ok {
		return nil
	}
	return cloneRecord(rec)
}

func (l *Ledger) Pool(eventID uuid.UUID, g event.Gender) event.Pool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[eventID].pools[g]
}

func (l *Ledger) WaitlistLen(eventID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events[eventID].waitlist)
}

func (l *Ledger) IsMember(eventID, userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.events[eventID].members[userID]
	return ok
}

func (l *Ledger) PaymentCount(userID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k := range l.payments {
		if k.userID == userID {
			n++
		}
	}
	return n
}

func (l *Ledger) CartLen(userID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.carts[userID])
}

func (l *Ledger) LatestEvent(userID uuid.UUID) *event.ExternalID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.users[userID].latestEvent
}

// ---- shared.UnitOfWork ----

func (l *Ledger) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := l.clone()
	if err := fn(ctx, &ledgerTx{l: l}); err != nil {
		l.restore(snapshot)
		return err
	}
	return nil
}

func (l *Ledger) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (l *Ledger) clone() *Ledger {
	c := NewLedger()
	for id, ev := range l.events {
		members := make(map[uuid.UUID]event.Member, len(ev.members))
		for k, v := range ev.members {
			members[k] = v
		}
		c.events[id] = &eventState{
			externalID: ev.externalID,
			title:      ev.title,
			startsAt:   ev.startsAt,
			pools: map[event.Gender]event.Pool{
				event.GenderMale:   ev.pools[event.GenderMale],
				event.GenderFemale: ev.pools[event.GenderFemale],
			},
			members:  members,
			waitlist: append([]event.WaitlistEntry(nil), ev.waitlist...),
		}
	}
	for id, u := range l.users {
		cu := *u
		c.users[id] = &cu
	}
	for id, b := range l.balances {
		c.balances[id] = b
	}
	for k, rec := range l.signups {
		c.signups[k] = cloneRecord(rec)
	}
	for k, rec := range l.payments {
		c.payments[k] = rec
	}
	for id, items := range l.carts {
		c.carts[id] = append([]payment.LineItem(nil), items...)
	}
	return c
}

func (l *Ledger) restore(snapshot *Ledger) {
	l.events = snapshot.events
	l.users = snapshot.users
	l.balances = snapshot.balances
	l.signups = snapshot.signups
	l.payments = snapshot.payments
	l.carts = snapshot.carts
}

func cloneRecord(rec *signup.Record) *signup.Record {
	return signup.Reconstruct(
		rec.UserID(), rec.EventID(), rec.EventExternalID(),
		rec.Status(), rec.JoinedAt(), rec.UpdatedAt(),
	)
}

func notFound(msg string) error {
	return infra.WrapRepoErr(infra.KindNotFound, msg, nil)
}

// ---- shared.Tx ----

type ledgerTx struct {
	l *Ledger
}

func (t *ledgerTx) Events() shared.EventRepository     { return (*eventRepo)(t) }
func (t *ledgerTx) Credits() shared.CreditRepository   { return (*creditRepo)(t) }
func (t *ledgerTx) Signups() shared.SignupRepository   { return (*signupRepo)(t) }
func (t *ledgerTx) Payments() shared.PaymentRepository { return (*paymentRepo)(t) }
func (t *ledgerTx) Carts() shared.CartRepository       { return (*cartRepo)(t) }
func (t *ledgerTx) Users() shared.UserRepository       { return (*userRepo)(t) }
func (t *ledgerTx) DB() db.DBTX                        { return nil }

type eventRepo ledgerTx

func (r *eventRepo) state(localID uuid.UUID) (*eventState, error) {
	ev, ok := r.l.events[localID]
	if !ok {
		return nil, notFound("event not found")
	}
	return ev, nil
}

func (r *eventRepo) FindByLocalID(_ context.Context, localID uuid.UUID) (*event.Event, error) {
	ev, err := r.state(localID)
	if err != nil {
		return nil, err
	}
	return event.Reconstruct(localID, ev.externalID, ev.title, ev.startsAt,
		ev.pools[event.GenderMale], ev.pools[event.GenderFemale]), nil
}

func (r *eventRepo) FindByExternalID(_ context.Context, externalID event.ExternalID) (*event.Event, error) {
	for id, ev := range r.l.events {
		if ev.externalID == externalID {
			return event.Reconstruct(id, ev.externalID, ev.title, ev.startsAt,
				ev.pools[event.GenderMale], ev.pools[event.GenderFemale]), nil
		}
	}
	return nil, notFound("event not found")
}

func (r *eventRepo) UpdatePool(_ context.Context, localID uuid.UUID, g event.Gender, pool event.Pool) error {
	ev, err := r.state(localID)
	if err != nil {
		return err
	}
	ev.pools[g] = pool
	return nil
}

func (r *eventRepo) AddMember(_ context.Context, localID uuid.UUID, m event.Member) error {
	ev, err := r.state(localID)
	if err != nil {
		return err
	}
	if _, exists := ev.members[m.UserID]; exists {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "member already exists", nil)
	}
	ev.members[m.UserID] = m
	return nil
}

func (r *eventRepo) RemoveMember(_ context.Context, localID, userID uuid.UUID) (*event.Member, error) {
	ev, err := r.state(localID)
	if err != nil {
		return nil, err
	}
	m, ok := ev.members[userID]
	if !ok {
		return nil, notFound("member not found")
	}
	delete(ev.members, userID)
	return &m, nil
}

func (r *eventRepo) MembershipsByUser(_ context.Context, userID uuid.UUID) ([]shared.Membership, error) {
	var out []shared.Membership
	for id, ev := range r.l.events {
		if m, ok := ev.members[userID]; ok {
			out = append(out, shared.Membership{
				EventID:         id,
				EventExternalID: ev.externalID,
				Gender:          m.Gender,
				JoinedAt:        m.JoinedAt,
			})
		}
	}
	return out, nil
}

func (r *eventRepo) AppendWaitlist(_ context.Context, localID uuid.UUID, e event.WaitlistEntry) error {
	ev, err := r.state(localID)
	if err != nil {
		return err
	}
	ev.waitlist = append(ev.waitlist, e)
	return nil
}

func (r *eventRepo) ListWaitlist(_ context.Context, localID uuid.UUID, g event.Gender) ([]event.WaitlistEntry, error) {
	ev, err := r.state(localID)
	if err != nil {
		return nil, err
	}
	var out []event.WaitlistEntry
	for _, e := range ev.waitlist {
		if e.Gender == g {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.Before(out[j].RequestedAt)
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out, nil
}

func (r *eventRepo) RemoveWaitlisted(_ context.Context, localID, userID uuid.UUID) error {
	ev, err := r.state(localID)
	if err != nil {
		return err
	}
	for i, e := range ev.waitlist {
		if e.UserID == userID {
			ev.waitlist = append(ev.waitlist[:i], ev.waitlist[i+1:]...)
			return nil
		}
	}
	return nil
}

type creditRepo ledgerTx

func (r *creditRepo) Account(_ context.Context, userID uuid.UUID) (credit.Account, error) {
	balance, ok := r.l.balances[userID]
	if !ok {
		return credit.Account{}, notFound("user not found")
	}
	return credit.Reconstruct(userID, balance), nil
}

func (r *creditRepo) Save(_ context.Context, account credit.Account) error {
	r.l.balances[account.UserID()] = account.Balance()
	return nil
}

type signupRepo ledgerTx

func (r *signupRepo) Find(_ context.Context, userID, eventID uuid.UUID) (*signup.Record, error) {
	rec, ok := r.l.signups[signupKey{userID, eventID}]
	if !ok {
		return nil, notFound("signup not found")
	}
	return cloneRecord(rec), nil
}

func (r *signupRepo) Upsert(_ context.Context, rec *signup.Record) error {
	r.l.signups[signupKey{rec.UserID(), rec.EventID()}] = cloneRecord(rec)
	return nil
}

func (r *signupRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*signup.Record, error) {
	var out []*signup.Record
	for k, rec := range r.l.signups {
		if k.userID == userID {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

type paymentRepo ledgerTx

func (r *paymentRepo) FindByExternalID(_ context.Context, userID uuid.UUID, externalPaymentID string) (*payment.Record, error) {
	rec, ok := r.l.payments[paymentKey{userID, externalPaymentID}]
	if !ok {
		return nil, notFound("payment not found")
	}
	return rec, nil
}

func (r *paymentRepo) Create(_ context.Context, rec *payment.Record) error {
	key := paymentKey{rec.UserID(), rec.ExternalPaymentID()}
	if _, exists := r.l.payments[key]; exists {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "payment already recorded", nil)
	}
	r.l.payments[key] = rec
	return nil
}

type cartRepo ledgerTx

func (r *cartRepo) Load(_ context.Context, userID uuid.UUID) (payment.Cart, error) {
	return payment.NewCart(append([]payment.LineItem(nil), r.l.carts[userID]...))
}

func (r *cartRepo) AddItem(_ context.Context, userID uuid.UUID, item payment.LineItem) error {
	r.l.carts[userID] = append(r.l.carts[userID], item)
	return nil
}

func (r *cartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	delete(r.l.carts, userID)
	return nil
}

type userRepo ledgerTx

func (r *userRepo) EmailByID(_ context.Context, userID uuid.UUID) (string, error) {
	u, ok := r.l.users[userID]
	if !ok {
		return "", notFound("user not found")
	}
	return u.email, nil
}

func (r *userRepo) GenderByID(_ context.Context, userID uuid.UUID) (event.Gender, error) {
	u, ok := r.l.users[userID]
	if !ok {
		return "", notFound("user not found")
	}
	return u.gender, nil
}

func (r *userRepo) SetLatestEvent(_ context.Context, userID uuid.UUID, externalID event.ExternalID) error {
	u, ok := r.l.users[userID]
	if !ok {
		return notFound("user not found")
	}
	u.latestEvent = &externalID
	return nil
}
