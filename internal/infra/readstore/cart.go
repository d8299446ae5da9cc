package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinzhu/copier"

	"datenight/internal/infra"
	"datenight/internal/usecase/queries"
)

type CartReadStore struct {
	pool *pgxpool.Pool
}

func NewCartReadStore(pool *pgxpool.Pool) *CartReadStore {
	return &CartReadStore{pool: pool}
}

type cartItemRow struct {
	Title       string
	Venue       string
	PackageType string
	PriceCents  int64
	Quantity    int
	NumDates    int
}

func (r *CartReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]queries.CartItemView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT title, venue, package_type, price_cents, quantity, num_dates
		FROM cart_items
		WHERE user_id = $1
		ORDER BY position`,
		userID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load cart", err)
	}
	defer rows.Close()

	var items []cartItemRow
	for rows.Next() {
		var it cartItemRow
		if err := rows.Scan(&it.Title, &it.Venue, &it.PackageType, &it.PriceCents, &it.Quantity, &it.NumDates); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan cart item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate cart items", err)
	}

	views := make([]queries.CartItemView, 0, len(items))
	if err := copier.Copy(&views, &items); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to map cart items", err)
	}
	return views, nil
}
