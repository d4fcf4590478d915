package inventory

import (
	"context"
	"database/sql"
	"errors"

	"tokoline-be/internal/apperror"
)

var (
	ErrInsufficientStock = apperror.New(apperror.Conflict, "insufficient stock")
	ErrProductNotFound   = apperror.New(apperror.NotFound, "product not found")
)

// Ledger is the single mutation path for product stock. Reserve and
// Release run inside the caller's transaction so the decrement commits
// or aborts together with the order rows.
type Ledger interface {
	Reserve(ctx context.Context, tx *sql.Tx, productID string, quantity int) error
	Release(ctx context.Context, tx *sql.Tx, productID string, quantity int) error
}

type ledger struct{}

func NewLedger() Ledger {
	return &ledger{}
}

// Reserve locks the product row, then decrements stock only if enough
// remains. The FOR UPDATE lock serializes concurrent reservations on
// the same product: two requests racing for the last unit cannot both
// pass the check.
func (l *ledger) Reserve(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	var stock int
	err := tx.QueryRowContext(ctx,
		`SELECT stock FROM products WHERE id = $1 FOR UPDATE`,
		productID,
	).Scan(&stock)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	if stock < quantity {
		return ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2`,
		quantity, productID,
	)
	return err
}

// Release adds quantity back to stock. Used when an order is cancelled
// after its reservation already committed.
func (l *ledger) Release(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`,
		quantity, productID,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
