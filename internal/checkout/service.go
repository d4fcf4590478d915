package checkout

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tokoline-be/internal/cart"
	"tokoline-be/internal/inventory"
	"tokoline-be/internal/logger"
	"tokoline-be/internal/notification"
	"tokoline-be/internal/order"
	"tokoline-be/internal/payment"
	"tokoline-be/internal/product"
	"tokoline-be/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier is the slice of the notification dispatcher checkout needs.
// Satisfied by *notification.Dispatcher.
type Notifier interface {
	SendCheckoutConfirmation(email string, data notification.CheckoutData)
}

type Service interface {
	CheckoutCart(ctx context.Context, in CartCheckoutInput) (*Result, error)
	CheckoutDirect(ctx context.Context, in DirectCheckoutInput) (*Result, error)
}

type service struct {
	db       *sql.DB
	carts    cart.Repository
	orders   order.Repository
	products product.Repository
	ledger   inventory.Ledger
	users    user.Repository
	gateway  payment.Gateway
	notifier Notifier

	paymentTimeout time.Duration
}

func NewService(
	db *sql.DB,
	carts cart.Repository,
	orders order.Repository,
	products product.Repository,
	ledger inventory.Ledger,
	users user.Repository,
	gateway payment.Gateway,
	notifier Notifier,
) Service {
	return &service{
		db:             db,
		carts:          carts,
		orders:         orders,
		products:       products,
		ledger:         ledger,
		users:          users,
		gateway:        gateway,
		notifier:       notifier,
		paymentTimeout: 15 * time.Second,
	}
}

// checkoutLine is the normalized per-line view both entry modes reduce
// to before the shared transactional core runs.
type checkoutLine struct {
	productID   string
	productName string
	quantity    int
	unitPrice   decimal.Decimal
}

func (l checkoutLine) subtotal() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
}

// CheckoutCart converts the selected cart items into an order in a
// single transaction: lock, validate, snapshot total, create order +
// items, decrement stock, delete consumed cart items. The payment
// session and the confirmation email happen only after commit.
func (s *service) CheckoutCart(ctx context.Context, in CartCheckoutInput) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "CheckoutCart"),
		zap.String("user_id", in.UserID),
		zap.Int("item_count", len(in.SelectedCartItemIDs)),
	)

	if len(in.SelectedCartItemIDs) == 0 {
		return nil, ErrInvalidSelection
	}

	method, err := order.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	resolved, err := s.carts.GetItemsForCheckoutTx(ctx, tx, in.UserID, in.SelectedCartItemIDs)
	if err != nil {
		return nil, err
	}

	if len(resolved) != len(in.SelectedCartItemIDs) {
		missing := missingIDs(in.SelectedCartItemIDs, resolved)
		log.Warn("cart items missing", zap.Strings("missing_ids", missing))
		return nil, fmt.Errorf("%w: %s", ErrItemsNotFound, strings.Join(missing, ", "))
	}

	lines := make([]checkoutLine, 0, len(resolved))
	for _, item := range resolved {
		if item.Quantity > item.Stock {
			return nil, fmt.Errorf("%w for: %s", inventory.ErrInsufficientStock, item.ProductName)
		}
		lines = append(lines, checkoutLine{
			productID:   item.ProductID,
			productName: item.ProductName,
			quantity:    item.Quantity,
			unitPrice:   item.UnitPrice,
		})
	}

	o, err := s.createOrderTx(ctx, tx, in.UserID, method, in.ShippingAddress, lines)
	if err != nil {
		return nil, err
	}

	if err := s.carts.DeleteItemsTx(ctx, tx, in.SelectedCartItemIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("checkout committed",
		zap.String("order_id", o.ID),
		zap.String("total_price", o.TotalPrice.StringFixed(2)),
	)

	return s.finishCheckout(ctx, o, u, lines), nil
}

// CheckoutDirect is the buy-now path: one product, same transactional
// core, no cart involvement.
func (s *service) CheckoutDirect(ctx context.Context, in DirectCheckoutInput) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "CheckoutDirect"),
		zap.String("user_id", in.UserID),
		zap.String("product_id", in.ProductID),
	)

	if in.Quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	method, err := order.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	p, err := s.products.GetByIDTx(ctx, tx, in.ProductID)
	if err != nil {
		return nil, err
	}

	if in.Quantity > p.Stock {
		return nil, fmt.Errorf("%w for: %s", inventory.ErrInsufficientStock, p.Name)
	}

	lines := []checkoutLine{{
		productID:   p.ID,
		productName: p.Name,
		quantity:    in.Quantity,
		unitPrice:   p.Price,
	}}

	o, err := s.createOrderTx(ctx, tx, in.UserID, method, in.ShippingAddress, lines)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("direct checkout committed", zap.String("order_id", o.ID))

	return s.finishCheckout(ctx, o, u, lines), nil
}

// createOrderTx is the shared core: order header + immutable items +
// one ledger reservation per line, all inside the caller's
// transaction. Total is computed from the snapshotted unit prices and
// never recalculated afterwards.
func (s *service) createOrderTx(
	ctx context.Context,
	tx *sql.Tx,
	userID string,
	method order.PaymentMethod,
	shippingAddress *string,
	lines []checkoutLine,
) (*order.Order, error) {

	total := decimal.Zero
	items := make([]order.OrderItem, 0, len(lines))
	for _, l := range lines {
		total = total.Add(l.subtotal())
		items = append(items, order.OrderItem{
			ProductID: l.productID,
			Quantity:  l.quantity,
			Price:     l.unitPrice,
		})
	}

	o := &order.Order{
		UserID:          userID,
		TotalPrice:      total,
		Status:          order.StatusPending,
		PaymentStatus:   order.PaymentUnpaid,
		PaymentMethod:   method,
		ShippingAddress: shippingAddress,
	}

	if err := s.orders.CreateTx(ctx, tx, o, items); err != nil {
		return nil, err
	}

	for _, l := range lines {
		if err := s.ledger.Reserve(ctx, tx, l.productID, l.quantity); err != nil {
			return nil, fmt.Errorf("%w for: %s", err, l.productName)
		}
	}

	return o, nil
}

// finishCheckout runs the best-effort post-commit phase. Failures here
// are logged and reported as a degraded result; the committed order is
// never unwound.
func (s *service) finishCheckout(ctx context.Context, o *order.Order, u *user.User, lines []checkoutLine) *Result {
	s.notifier.SendCheckoutConfirmation(u.Email, checkoutNotification(o, u, lines))

	result := &Result{Order: o}
	if o.PaymentMethod == order.MethodCOD {
		return result
	}

	payCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.paymentTimeout)
	defer cancel()

	session, err := s.gateway.CreateSnapTransaction(payCtx, snapRequest(o, u, lines))
	if err != nil {
		logger.FromCtx(ctx).Error("payment session creation failed, order kept without session",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		return result
	}

	if err := s.orders.AttachPaymentSession(ctx, o.ID, session.Token, session.RedirectURL); err != nil {
		logger.FromCtx(ctx).Error("failed to persist payment session",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		return result
	}

	o.SnapToken = &session.Token
	o.SnapRedirectURL = &session.RedirectURL
	result.Payment = session
	return result
}

func checkoutNotification(o *order.Order, u *user.User, lines []checkoutLine) notification.CheckoutData {
	data := notification.CheckoutData{
		OrderID:         o.ID,
		CustomerName:    u.Name,
		TotalAmount:     o.TotalPrice.StringFixed(2),
		PaymentMethod:   string(o.PaymentMethod),
		ShippingAddress: "Will be confirmed",
	}
	if o.ShippingAddress != nil {
		data.ShippingAddress = *o.ShippingAddress
	}
	for _, l := range lines {
		data.Items = append(data.Items, notification.LineItem{
			Name:     l.productName,
			Quantity: l.quantity,
			Price:    l.unitPrice.StringFixed(2),
		})
	}
	return data
}

func snapRequest(o *order.Order, u *user.User, lines []checkoutLine) payment.SnapRequest {
	req := payment.SnapRequest{
		OrderID:     o.ID,
		GrossAmount: o.TotalPrice,
		Customer:    payment.Customer{Name: u.Name, Email: u.Email},
	}
	for _, l := range lines {
		req.Items = append(req.Items, payment.LineItem{
			ID:       l.productID,
			Name:     l.productName,
			Price:    l.unitPrice,
			Quantity: l.quantity,
		})
	}
	return req
}

func missingIDs(requested []string, resolved []cart.CheckoutLine) []string {
	found := make(map[string]bool, len(resolved))
	for _, item := range resolved {
		found[item.ItemID] = true
	}

	var missing []string
	for _, id := range requested {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
