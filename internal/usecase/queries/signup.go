package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SignupView struct {
	EventID         uuid.UUID `json:"event_id"`
	EventExternalID string    `json:"event_external_id"`
	EventTitle      string    `json:"event_title"`
	EventStartsAt   time.Time `json:"event_starts_at"`
	Status          string    `json:"status"`
	JoinedAt        time.Time `json:"joined_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreditView struct {
	Balance int `json:"balance"`
}

type SignupQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*SignupView, error)
	CreditBalance(ctx context.Context, userID uuid.UUID) (*CreditView, error)
}

type SignupReadStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*SignupView, error)
	FindCreditBalance(ctx context.Context, userID uuid.UUID) (int, error)
}

type signupQueriesImpl struct {
	readStore SignupReadStore
}

func NewSignupQueries(readStore SignupReadStore) SignupQueries {
	return &signupQueriesImpl{readStore: readStore}
}

func (q *signupQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*SignupView, error) {
	return q.readStore.FindByUserID(ctx, userID)
}

func (q *signupQueriesImpl) CreditBalance(ctx context.Context, userID uuid.UUID) (*CreditView, error) {
	balance, err := q.readStore.FindCreditBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CreditView{Balance: balance}, nil
}
