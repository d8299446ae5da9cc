//go:build e2e

package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"datenight/internal/domain/event"
	"datenight/internal/domain/payment"
	"datenight/internal/domain/signup"
	"datenight/internal/usecase/commands"
	"datenight/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LedgerSuite struct {
	suite.Suite
	env *e2e.LedgerEnv
}

func (s *LedgerSuite) SetupSuite() {
	s.env = e2e.SetupLedgerEnv(s.T())
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

// signupWithRetry absorbs contention verdicts so concurrency tests always
// reach a terminal outcome per user.
func (s *LedgerSuite) signupWithRetry(ctx context.Context, userID, eventID uuid.UUID, g event.Gender) (*commands.SignupResult, error) {
	for attempt := 0; attempt < 20; attempt++ {
		result, err := s.env.Signup.Signup(ctx, userID, eventID, g)
		if errors.Is(err, commands.ErrCapacityRaceExhausted) {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		return result, err
	}
	return nil, commands.ErrCapacityRaceExhausted
}

func (s *LedgerSuite) countRows(query string, args ...any) int {
	var n int
	err := s.env.Pool.QueryRow(context.Background(), query, args...).Scan(&n)
	require.NoError(s.T(), err)
	return n
}

func (s *LedgerSuite) TestConcurrentSignupsNeverExceedCapacity() {
	ctx := context.Background()
	const capacity = 3
	const contenders = 8

	eventID := e2e.CreateTestEvent(s.T(), s.env.Pool, "evt_concurrent_1", 0, capacity)

	userIDs := make([]uuid.UUID, contenders)
	for i := range userIDs {
		userIDs[i] = e2e.CreateTestUser(s.T(), s.env.Pool,
			fmt.Sprintf("racer%d@example.com", i), event.GenderFemale, 1)
	}

	results := make([]*commands.SignupResult, contenders)
	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID uuid.UUID) {
			defer wg.Done()
			results[i], errs[i] = s.signupWithRetry(ctx, userID, eventID, event.GenderFemale)
		}(i, userID)
	}
	wg.Wait()

	confirmed, waitlisted := 0, 0
	for i := range results {
		require.NoError(s.T(), errs[i])
		switch results[i].Status {
		case signup.StatusConfirmed:
			confirmed++
			s.Equal(0, results[i].Balance)
		case signup.StatusWaitlisted:
			waitlisted++
			s.Equal(1, results[i].Balance)
		}
	}

	s.Equal(capacity, confirmed)
	s.Equal(contenders-capacity, waitlisted)

	s.Equal(capacity, s.countRows(
		`SELECT signed_up_female FROM events WHERE id = $1`, eventID))
	s.Equal(capacity, s.countRows(
		`SELECT COUNT(*) FROM event_members WHERE event_id = $1`, eventID))
	s.Equal(contenders-capacity, s.countRows(
		`SELECT COUNT(*) FROM event_waitlist WHERE event_id = $1`, eventID))

	// Exactly capacity credits were spent across all contenders.
	spent := s.countRows(
		`SELECT COUNT(*) FROM users WHERE dates_remaining = 0 AND email LIKE 'racer%'`)
	s.Equal(capacity, spent)
}

func (s *LedgerSuite) TestWaitlistPromotionIsFIFO() {
	ctx := context.Background()

	eventID := e2e.CreateTestEvent(s.T(), s.env.Pool, "evt_fifo_1", 0, 1)

	holder := e2e.CreateTestUser(s.T(), s.env.Pool, "holder@example.com", event.GenderFemale, 1)
	first := e2e.CreateTestUser(s.T(), s.env.Pool, "fifo-first@example.com", event.GenderFemale, 1)
	second := e2e.CreateTestUser(s.T(), s.env.Pool, "fifo-second@example.com", event.GenderFemale, 1)

	result, err := s.env.Signup.Signup(ctx, holder, eventID, event.GenderFemale)
	require.NoError(s.T(), err)
	require.Equal(s.T(), signup.StatusConfirmed, result.Status)

	// Queue two more with strictly increasing request times.
	for _, userID := range []uuid.UUID{first, second} {
		time.Sleep(5 * time.Millisecond)
		result, err = s.env.Signup.Signup(ctx, userID, eventID, event.GenderFemale)
		require.NoError(s.T(), err)
		require.Equal(s.T(), signup.StatusWaitlisted, result.Status)
	}

	cancelResult, err := s.env.Cancel.Cancel(ctx, holder, eventID)
	require.NoError(s.T(), err)
	s.Equal(signup.StatusConfirmed, cancelResult.PreviousStatus)

	status := func(userID uuid.UUID) string {
		var st string
		err := s.env.Pool.QueryRow(context.Background(),
			`SELECT status FROM user_signups WHERE user_id = $1 AND event_id = $2`,
			userID, eventID).Scan(&st)
		require.NoError(s.T(), err)
		return st
	}

	s.Equal("cancelled", status(holder))
	s.Equal("confirmed", status(first))
	s.Equal("waitlisted", status(second))

	// The promoted member paid their credit at promotion time.
	s.Equal(0, s.countRows(`SELECT dates_remaining FROM users WHERE id = $1`, first))
	s.Equal(1, s.countRows(`SELECT dates_remaining FROM users WHERE id = $1`, second))
	s.Equal(1, s.countRows(`SELECT signed_up_female FROM events WHERE id = $1`, eventID))
}

func (s *LedgerSuite) TestPurchaseReplayCreditsOnce() {
	ctx := context.Background()
	userID := e2e.CreateTestUser(s.T(), s.env.Pool, "buyer@example.com", event.GenderMale, 0)

	items := []payment.LineItem{
		{Title: "Single Date Package", Venue: "Downtown Wine Bar", PackageType: "single", PriceCents: 2800, Quantity: 2, NumDates: 1},
		{Title: "Three Date Bundle", Venue: "Rooftop Lounge", PackageType: "bundle", PriceCents: 7800, Quantity: 1, NumDates: 3},
	}
	for _, item := range items {
		require.NoError(s.T(), s.env.Cart.AddItem(ctx, userID, item))
	}

	first, err := s.env.Purchase.CompletePurchase(ctx, userID, "pi_replay_1", 13400, nil)
	require.NoError(s.T(), err)
	s.Equal(5, first.CreditsAdded)
	s.Equal(5, first.Balance)
	s.False(first.Replayed)

	second, err := s.env.Purchase.CompletePurchase(ctx, userID, "pi_replay_1", 13400, nil)
	require.NoError(s.T(), err)
	s.True(second.Replayed)
	s.Equal(first.PaymentID, second.PaymentID)
	s.Equal(first.Balance, second.Balance)

	s.Equal(1, s.countRows(`SELECT COUNT(*) FROM payments WHERE user_id = $1`, userID))
	s.Equal(5, s.countRows(`SELECT dates_remaining FROM users WHERE id = $1`, userID))
	s.Equal(0, s.countRows(`SELECT COUNT(*) FROM cart_items WHERE user_id = $1`, userID))
}

func (s *LedgerSuite) TestReconcileRepairsAndConverges() {
	ctx := context.Background()

	eventID := e2e.CreateTestEvent(s.T(), s.env.Pool, "evt_reconcile_1", 0, 5)
	userID := e2e.CreateTestUser(s.T(), s.env.Pool, "drifted@example.com", event.GenderFemale, 1)

	// Seed an authoritative membership whose mirror record and registry
	// enrollment both went missing.
	_, err := s.env.Pool.Exec(ctx,
		`INSERT INTO event_members (event_id, user_id, gender, joined_at) VALUES ($1, $2, 'female', now())`,
		eventID, userID)
	require.NoError(s.T(), err)
	_, err = s.env.Pool.Exec(ctx,
		`UPDATE events SET signed_up_female = signed_up_female + 1 WHERE id = $1`, eventID)
	require.NoError(s.T(), err)

	report, err := s.env.Reconcile.Reconcile(ctx, userID)
	require.NoError(s.T(), err)

	s.Equal(1, report.EventsChecked)
	s.Equal(1, report.RecordsRepaired)
	s.Equal([]event.ExternalID{"evt_reconcile_1"}, report.Enrolled)
	require.NotNil(s.T(), report.LatestEventID)
	s.Equal(event.ExternalID("evt_reconcile_1"), *report.LatestEventID)

	s.Equal(1, s.countRows(
		`SELECT COUNT(*) FROM user_signups WHERE user_id = $1 AND event_id = $2 AND status = 'confirmed'`,
		userID, eventID))

	members, err := s.env.Registry.ListMembers(ctx, "evt_reconcile_1")
	require.NoError(s.T(), err)
	s.Contains(members, "drifted@example.com")

	var latest *string
	err = s.env.Pool.QueryRow(ctx,
		`SELECT latest_event_external_id FROM users WHERE id = $1`, userID).Scan(&latest)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), latest)
	s.Equal("evt_reconcile_1", *latest)

	// A second pass over the now-consistent state writes nothing new.
	enrollsBefore := s.env.Registry.EnrollCount()
	again, err := s.env.Reconcile.Reconcile(ctx, userID)
	require.NoError(s.T(), err)
	s.Equal(0, again.RecordsRepaired)
	s.Empty(again.Enrolled)
	s.Equal(enrollsBefore, s.env.Registry.EnrollCount())
}

func (s *LedgerSuite) TestWaitlistEntryCostsNothingUntilPromotion() {
	ctx := context.Background()

	eventID := e2e.CreateTestEvent(s.T(), s.env.Pool, "evt_freequeue_1", 1, 0)
	holder := e2e.CreateTestUser(s.T(), s.env.Pool, "seatholder@example.com", event.GenderMale, 1)
	queued := e2e.CreateTestUser(s.T(), s.env.Pool, "patient@example.com", event.GenderMale, 1)

	_, err := s.env.Signup.Signup(ctx, holder, eventID, event.GenderMale)
	require.NoError(s.T(), err)

	result, err := s.env.Signup.Signup(ctx, queued, eventID, event.GenderMale)
	require.NoError(s.T(), err)
	s.Equal(signup.StatusWaitlisted, result.Status)
	s.Equal(1, s.countRows(`SELECT dates_remaining FROM users WHERE id = $1`, queued))

	_, err = s.env.Cancel.Cancel(ctx, holder, eventID)
	require.NoError(s.T(), err)

	// Promotion after the freed seat spends the credit.
	s.Equal("confirmed", func() string {
		var st string
		err := s.env.Pool.QueryRow(ctx,
			`SELECT status FROM user_signups WHERE user_id = $1 AND event_id = $2`,
			queued, eventID).Scan(&st)
		require.NoError(s.T(), err)
		return st
	}())
	s.Equal(0, s.countRows(`SELECT dates_remaining FROM users WHERE id = $1`, queued))
}
