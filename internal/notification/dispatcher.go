package notification

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"

	"tokoline-be/internal/logger"

	"go.uber.org/zap"
)

type LineItem struct {
	Name     string
	Quantity int
	Price    string
}

type CheckoutData struct {
	OrderID         string
	CustomerName    string
	TotalAmount     string
	PaymentMethod   string
	Items           []LineItem
	ShippingAddress string
}

type PaymentData struct {
	OrderID         string
	CustomerName    string
	Amount          string
	PaymentMethod   string
	TransactionDate string
	PaymentStatus   string
}

type StatusChangeData struct {
	OrderID        string
	PreviousStatus string
	NewStatus      string
}

// Dispatcher delivers customer emails on a fire-and-forget basis.
// Every send runs in its own goroutine with a bounded deadline, and
// failures are logged and swallowed: nothing here may fail a checkout
// or a reconciliation that already committed.
type Dispatcher struct {
	mailer  Mailer
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	return &Dispatcher{
		mailer:  mailer,
		timeout: 10 * time.Second,
	}
}

func (d *Dispatcher) SendCheckoutConfirmation(email string, data CheckoutData) {
	d.dispatch("checkout confirmation", data.OrderID, func(ctx context.Context) error {
		body, err := render(checkoutTmpl, data)
		if err != nil {
			return err
		}
		return d.mailer.Send(ctx, email, "Order Confirmation #"+data.OrderID, body)
	})
}

func (d *Dispatcher) SendPaymentConfirmation(email string, data PaymentData) {
	d.dispatch("payment confirmation", data.OrderID, func(ctx context.Context) error {
		body, err := render(paymentTmpl, data)
		if err != nil {
			return err
		}
		return d.mailer.Send(ctx, email, "Payment Confirmation #"+data.OrderID, body)
	})
}

func (d *Dispatcher) SendOrderStatusUpdate(email string, data StatusChangeData) {
	d.dispatch("order status update", data.OrderID, func(ctx context.Context) error {
		body, err := render(statusChangeTmpl, struct {
			OrderID         string
			PreviousMessage string
			NewMessage      string
		}{
			OrderID:         data.OrderID,
			PreviousMessage: statusMessage(data.PreviousStatus),
			NewMessage:      statusMessage(data.NewStatus),
		})
		if err != nil {
			return err
		}
		return d.mailer.Send(ctx, email, "Order Status Update #"+data.OrderID, body)
	})
}

// Wait blocks until in-flight sends finish. Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(kind, orderID string, send func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := send(ctx); err != nil {
			logger.L().Error("notification delivery failed",
				zap.String("kind", kind),
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}()
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func statusMessage(status string) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return status
}
