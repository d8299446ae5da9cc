package commands

import (
	"context"

	"datenight/internal/domain/payment"
	"datenight/internal/usecase/shared"

	"github.com/google/uuid"
)

type CartCommands interface {
	AddItem(ctx context.Context, userID uuid.UUID, item payment.LineItem) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCartCommands(unit shared.UnitOfWork) CartCommands {
	return &cartCommandsImpl{uow: unit}
}

func (c *cartCommandsImpl) AddItem(ctx context.Context, userID uuid.UUID, item payment.LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Carts().AddItem(ctx, userID, item)
	})
	return mapLedgerErr(err)
}

func (c *cartCommandsImpl) Clear(ctx context.Context, userID uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Carts().Clear(ctx, userID)
	})
	return mapLedgerErr(err)
}
