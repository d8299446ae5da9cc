package queries

import (
	"context"

	"github.com/google/uuid"
)

type CartItemView struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	PackageType string `json:"package_type"`
	PriceCents  int64  `json:"price_cents"`
	Quantity    int    `json:"quantity"`
	NumDates    int    `json:"num_dates"`
}

type CartView struct {
	Items         []CartItemView `json:"items"`
	SubtotalCents int64          `json:"subtotal_cents"`
	TotalDates    int            `json:"total_dates"`
}

type CartQueries interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type CartReadStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]CartItemView, error)
}

type cartQueriesImpl struct {
	readStore CartReadStore
}

func NewCartQueries(readStore CartReadStore) CartQueries {
	return &cartQueriesImpl{readStore: readStore}
}

func (q *cartQueriesImpl) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	items, err := q.readStore.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: items}
	for _, it := range items {
		view.SubtotalCents += it.PriceCents * int64(it.Quantity)
		view.TotalDates += it.Quantity * it.NumDates
	}
	return view, nil
}
