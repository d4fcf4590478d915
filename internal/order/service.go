package order

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"tokoline-be/internal/apperror"
	"tokoline-be/internal/inventory"
	"tokoline-be/internal/logger"
	"tokoline-be/internal/notification"
	"tokoline-be/internal/user"

	"go.uber.org/zap"
)

// Notifier is the slice of the notification dispatcher the order
// lifecycle needs. Satisfied by *notification.Dispatcher.
type Notifier interface {
	SendPaymentConfirmation(email string, data notification.PaymentData)
	SendOrderStatusUpdate(email string, data notification.StatusChangeData)
}

// ReconcileInput is one asynchronous payment callback from the gateway.
type ReconcileInput struct {
	OrderID           string
	TransactionStatus string
	SettlementTime    *time.Time
	FraudStatus       string
}

type Service interface {
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]*Order, error)
	Cancel(ctx context.Context, orderID string) (*Order, error)
	ReconcilePayment(ctx context.Context, in ReconcileInput) (*Order, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	ledger   inventory.Ledger
	users    user.Repository
	notifier Notifier
}

func NewService(db *sql.DB, repo Repository, ledger inventory.Ledger, users user.Repository, notifier Notifier) Service {
	return &service{
		db:       db,
		repo:     repo,
		ledger:   ledger,
		users:    users,
		notifier: notifier,
	}
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) ListUserOrders(ctx context.Context, userID string) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Cancel flips a pending order to cancelled and restocks its items in
// the same transaction.
func (s *service) Cancel(ctx context.Context, orderID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "Cancel"),
		zap.String("order_id", orderID),
	)

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

	o, err := s.repo.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.restockTx(ctx, tx, o.ID); err != nil {
		return nil, err
	}

	previous := o.Status
	o.Status = StatusCancelled
	if err := s.repo.UpdateStatusesTx(ctx, tx, o.ID, o.Status, o.PaymentStatus); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("order cancelled", zap.String("previous_status", string(previous)))

	s.notifyStatusChange(ctx, o, previous)
	return o, nil
}

// ReconcilePayment applies one gateway callback to the order.
// Idempotent: redelivering a status the order already reflects commits
// nothing and sends nothing.
func (s *service) ReconcilePayment(ctx context.Context, in ReconcileInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "ReconcilePayment"),
		zap.String("order_id", in.OrderID),
		zap.String("transaction_status", in.TransactionStatus),
	)

	if in.OrderID == "" || in.TransactionStatus == "" {
		return nil, apperror.New(apperror.Validation, "order id and transaction status are required")
	}

	if strings.EqualFold(in.FraudStatus, "deny") {
		log.Warn("callback rejected by fraud status")
		return nil, ErrFraudulentCallback
	}

	transition, err := TransitionForGatewayStatus(in.TransactionStatus)
	if err != nil {
		log.Warn("unrecognized gateway status")
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

	o, err := s.repo.GetForUpdateTx(ctx, tx, in.OrderID)
	if err != nil {
		return nil, err
	}

	if o.PaymentStatus == transition.Payment {
		// Duplicate delivery. Nothing to mutate, nothing to re-send.
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		log.Info("duplicate callback ignored", zap.String("payment_status", string(o.PaymentStatus)))
		return o, nil
	}

	previousStatus := o.Status
	newStatus := nextStatus(o.Status, transition)

	if newStatus == StatusCancelled && previousStatus != StatusCancelled {
		if err := s.restockTx(ctx, tx, o.ID); err != nil {
			return nil, err
		}
	}

	o.PaymentStatus = transition.Payment
	o.Status = newStatus
	if err := s.repo.UpdateStatusesTx(ctx, tx, o.ID, o.Status, o.PaymentStatus); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("payment reconciled",
		zap.String("payment_status", string(o.PaymentStatus)),
		zap.String("status", string(o.Status)),
	)

	s.notifyPayment(ctx, o, in.SettlementTime)
	if o.Status != previousStatus {
		s.notifyStatusChange(ctx, o, previousStatus)
	}

	return o, nil
}

// restockTx compensates a cancellation by returning every line's
// quantity to product stock.
func (s *service) restockTx(ctx context.Context, tx *sql.Tx, orderID string) error {
	items, err := s.repo.ItemsTx(ctx, tx, orderID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := s.ledger.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) notifyPayment(ctx context.Context, o *Order, settlementTime *time.Time) {
	u, err := s.users.GetByID(ctx, o.UserID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load user for payment notification",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		return
	}

	transactionDate := time.Now()
	if settlementTime != nil {
		transactionDate = *settlementTime
	}

	s.notifier.SendPaymentConfirmation(u.Email, notification.PaymentData{
		OrderID:         o.ID,
		CustomerName:    u.Name,
		Amount:          o.TotalPrice.StringFixed(2),
		PaymentMethod:   string(o.PaymentMethod),
		TransactionDate: transactionDate.Format(time.RFC3339),
		PaymentStatus:   string(o.PaymentStatus),
	})
}

func (s *service) notifyStatusChange(ctx context.Context, o *Order, previous Status) {
	u, err := s.users.GetByID(ctx, o.UserID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load user for status notification",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		return
	}

	s.notifier.SendOrderStatusUpdate(u.Email, notification.StatusChangeData{
		OrderID:        o.ID,
		PreviousStatus: string(previous),
		NewStatus:      string(o.Status),
	})
}
