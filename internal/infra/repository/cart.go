package repository

import (
	"context"
	"time"

	"datenight/internal/domain/payment"
	"datenight/internal/infra"
	"datenight/internal/infra/db"

	"github.com/google/uuid"
)

type CartRepository struct {
	db db.DBTX
}

func NewCartRepository(dbtx db.DBTX) *CartRepository {
	return &CartRepository{db: dbtx}
}

func (r *CartRepository) Load(ctx context.Context, userID uuid.UUID) (payment.Cart, error) {
	rows, err := r.db.Query(ctx,
		`SELECT title, venue, package_type, price_cents, quantity, num_dates
		 FROM cart_items WHERE user_id = $1
		 ORDER BY position`,
		userID)
	if err != nil {
		return payment.Cart{}, infra.WrapRepoErr(infra.KindDBFailure, "failed to query cart", err)
	}
	defer rows.Close()

	var items []payment.LineItem
	for rows.Next() {
		var li payment.LineItem
		if err := rows.Scan(&li.Title, &li.Venue, &li.PackageType, &li.PriceCents, &li.Quantity, &li.NumDates); err != nil {
			return payment.Cart{}, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan cart item", err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return payment.Cart{}, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate cart items", err)
	}

	return payment.NewCart(items)
}

func (r *CartRepository) AddItem(ctx context.Context, userID uuid.UUID, item payment.LineItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO cart_items (id, user_id, title, venue, package_type,
		        price_cents, quantity, num_dates, position, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		        (SELECT COALESCE(MAX(position), 0) + 1 FROM cart_items WHERE user_id = $2), $9)`,
		uuid.New(), userID, item.Title, item.Venue, item.PackageType,
		item.PriceCents, item.Quantity, item.NumDates, time.Now().UTC())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to add cart item", err)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to clear cart", err)
	}
	return nil
}
