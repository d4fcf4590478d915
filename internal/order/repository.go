package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	AttachPaymentSession(ctx context.Context, orderID, token, redirectURL string) error

	// Transaction-scoped operations used by the checkout orchestrator
	// and the reconciliation path.
	CreateTx(ctx context.Context, tx *sql.Tx, o *Order, items []OrderItem) error
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, orderID string) (*Order, error)
	ItemsTx(ctx context.Context, tx *sql.Tx, orderID string) ([]OrderItem, error)
	UpdateStatusesTx(ctx context.Context, tx *sql.Tx, orderID string, status Status, paymentStatus PaymentStatus) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTx(ctx context.Context, tx *sql.Tx, o *Order, items []OrderItem) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}

	err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, user_id, total_price, status, payment_status, payment_method, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, o.ID, o.UserID, o.TotalPrice, o.Status, o.PaymentStatus, o.PaymentMethod, o.ShippingAddress).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = o.ID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, items[i].ID, items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].Price)
		if err != nil {
			return err
		}
	}

	o.Items = items
	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_price, status, payment_status, payment_method,
		       snap_token, snap_redirect_url, shipping_address, created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.SnapToken, &o.SnapRedirectURL, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	return &o, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, total_price, status, payment_status, payment_method,
		       snap_token, snap_redirect_url, shipping_address, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
			&o.SnapToken, &o.SnapRedirectURL, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// AttachPaymentSession is the post-commit follow-up that stores the
// gateway session on an already committed order.
func (r *repository) AttachPaymentSession(ctx context.Context, orderID, token, redirectURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET snap_token = $1, snap_redirect_url = $2, updated_at = NOW()
		WHERE id = $3
	`, token, redirectURL, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// GetForUpdateTx locks the order header row so concurrent webhook
// deliveries for the same order serialize.
func (r *repository) GetForUpdateTx(ctx context.Context, tx *sql.Tx, orderID string) (*Order, error) {
	var o Order
	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, total_price, status, payment_status, payment_method,
		       snap_token, snap_redirect_url, shipping_address, created_at, updated_at
		FROM orders WHERE id = $1
		FOR UPDATE
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.SnapToken, &o.SnapRedirectURL, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ItemsTx(ctx context.Context, tx *sql.Tx, orderID string) ([]OrderItem, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) UpdateStatusesTx(ctx context.Context, tx *sql.Tx, orderID string, status Status, paymentStatus PaymentStatus) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3
	`, status, paymentStatus, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
