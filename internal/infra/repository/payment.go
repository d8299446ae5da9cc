package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"datenight/internal/domain/payment"
	"datenight/internal/infra"
	"datenight/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository persists the append-only payment evidence. The
// unique (user_id, external_payment_id) index makes the idempotency key
// durable: a replayed webhook can never create a second row.
type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

type cartItemRow struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	PackageType string `json:"package_type"`
	PriceCents  int64  `json:"price_cents"`
	Quantity    int    `json:"quantity"`
	NumDates    int    `json:"num_dates"`
}

func (r *PaymentRepository) FindByExternalID(ctx context.Context, userID uuid.UUID, externalPaymentID string) (*payment.Record, error) {
	var (
		id           uuid.UUID
		amount       int64
		original     int64
		discountCode *string
		snapshot     []byte
		totalDates   int
		status       string
		createdAt    time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, amount_cents, original_amount_cents, discount_code,
		        cart_snapshot, total_dates, status, created_at
		 FROM payments WHERE user_id = $1 AND external_payment_id = $2`,
		userID, externalPaymentID).
		Scan(&id, &amount, &original, &discountCode, &snapshot, &totalDates, &status, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "payment record not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read payment record", err)
	}

	cart, err := unmarshalCart(snapshot)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored cart snapshot is invalid", err)
	}

	return payment.Reconstruct(
		id, userID, externalPaymentID, amount, original, discountCode,
		cart, totalDates, payment.Status(status), createdAt,
	), nil
}

func (r *PaymentRepository) Create(ctx context.Context, rec *payment.Record) error {
	snapshot, err := marshalCart(rec.CartSnapshot())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to marshal cart snapshot", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO payments (id, user_id, external_payment_id, amount_cents,
		        original_amount_cents, discount_code, cart_snapshot, total_dates, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID(), rec.UserID(), rec.ExternalPaymentID(), rec.AmountCents(),
		rec.OriginalAmountCents(), rec.DiscountCode(), snapshot,
		rec.TotalDates(), string(rec.Status()), rec.CreatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "payment already recorded", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert payment record", err)
	}
	return nil
}

func marshalCart(cart payment.Cart) ([]byte, error) {
	items := cart.Items()
	rows := make([]cartItemRow, 0, len(items))
	for _, li := range items {
		rows = append(rows, cartItemRow{
			Title:       li.Title,
			Venue:       li.Venue,
			PackageType: li.PackageType,
			PriceCents:  li.PriceCents,
			Quantity:    li.Quantity,
			NumDates:    li.NumDates,
		})
	}
	return json.Marshal(rows)
}

func unmarshalCart(data []byte) (payment.Cart, error) {
	var rows []cartItemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return payment.Cart{}, err
	}
	items := make([]payment.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, payment.LineItem{
			Title:       row.Title,
			Venue:       row.Venue,
			PackageType: row.PackageType,
			PriceCents:  row.PriceCents,
			Quantity:    row.Quantity,
			NumDates:    row.NumDates,
		})
	}
	return payment.NewCart(items)
}
