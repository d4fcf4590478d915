package cart

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetOrCreateCart(ctx context.Context, userID string) (*Cart, error)
	GetCartWithItems(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int, price decimal.Decimal) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, cartID, itemID string) error
	ClearCart(ctx context.Context, cartID string) (int, error)

	// Checkout-scoped reads and deletes run inside the orchestrator's
	// transaction.
	GetItemsForCheckoutTx(ctx context.Context, tx *sql.Tx, userID string, itemIDs []string) ([]CheckoutLine, error)
	DeleteItemsTx(ctx context.Context, tx *sql.Tx, itemIDs []string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateCart(ctx context.Context, userID string) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		c = Cart{ID: uuid.New().String(), UserID: userID}
		err = r.db.QueryRowContext(ctx, `
			INSERT INTO carts (id, user_id)
			VALUES ($1, $2)
			RETURNING created_at, updated_at
		`, c.ID, c.UserID).Scan(&c.CreatedAt, &c.UpdatedAt)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetCartWithItems(ctx context.Context, userID string) (*Cart, error) {
	c, err := r.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, ci.quantity, ci.price, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, item)
	}
	return c, rows.Err()
}

// AddItem inserts a cart line, or merges into the existing line for
// the same product by adding the quantities. The merged line keeps its
// original id and snapshotted price.
func (r *repository) AddItem(ctx context.Context, cartID, productID string, quantity int, price decimal.Decimal) (*CartItem, error) {
	item := &CartItem{
		CartID:    cartID,
		ProductID: productID,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, price, created_at, updated_at
	`, uuid.New().String(), cartID, productID, quantity, price).
		Scan(&item.ID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND cart_id = $3
		RETURNING id, cart_id, product_id, quantity, price, created_at, updated_at
	`, quantity, itemID, cartID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
		&item.Price, &item.CreatedAt, &item.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE id = $1 AND cart_id = $2
	`, itemID, cartID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) ClearCart(ctx context.Context, cartID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return 0, err
	}

	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// GetItemsForCheckoutTx resolves the selected cart items against their
// products, locking the product rows so the stock read stays valid for
// the rest of the transaction. Ownership is enforced through the carts
// join; missing or foreign ids simply do not come back, which the
// orchestrator detects by comparing counts.
func (r *repository) GetItemsForCheckoutTx(ctx context.Context, tx *sql.Tx, userID string, itemIDs []string) ([]CheckoutLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT ci.id, ci.product_id, p.name, ci.quantity, ci.price, p.stock
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		WHERE c.user_id = $1 AND ci.id = ANY($2)
		FOR UPDATE OF p
	`, userID, pq.Array(itemIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []CheckoutLine
	for rows.Next() {
		var l CheckoutLine
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Stock); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) DeleteItemsTx(ctx context.Context, tx *sql.Tx, itemIDs []string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ANY($1)`, pq.Array(itemIDs))
	return err
}
