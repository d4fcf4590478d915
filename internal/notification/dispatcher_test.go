package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu    sync.Mutex
	sends []sentMail
	err   error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sends = append(m.sends, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *recordingMailer) sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sends...)
}

func TestDispatcher_SendCheckoutConfirmation(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(mailer)

	d.SendCheckoutConfirmation("jane@example.com", CheckoutData{
		OrderID:       "ord-1",
		CustomerName:  "Jane",
		TotalAmount:   "25.00",
		PaymentMethod: "bank_transfer",
		Items: []LineItem{
			{Name: "Widget", Quantity: 2, Price: "10.00"},
			{Name: "Gadget", Quantity: 1, Price: "5.00"},
		},
		ShippingAddress: "Jl. Sudirman 1",
	})
	d.Wait()

	sends := mailer.sent()
	require.Len(t, sends, 1)
	assert.Equal(t, "jane@example.com", sends[0].to)
	assert.Equal(t, "Order Confirmation #ord-1", sends[0].subject)
	assert.Contains(t, sends[0].body, "Jane")
	assert.Contains(t, sends[0].body, "Widget")
	assert.Contains(t, sends[0].body, "25.00")
}

func TestDispatcher_SendPaymentConfirmation(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(mailer)

	d.SendPaymentConfirmation("jane@example.com", PaymentData{
		OrderID:       "ord-1",
		CustomerName:  "Jane",
		Amount:        "25.00",
		PaymentMethod: "bank_transfer",
		PaymentStatus: "paid",
	})
	d.Wait()

	sends := mailer.sent()
	require.Len(t, sends, 1)
	assert.Equal(t, "Payment Confirmation #ord-1", sends[0].subject)
	assert.Contains(t, sends[0].body, "25.00")
}

func TestDispatcher_SendOrderStatusUpdate(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(mailer)

	d.SendOrderStatusUpdate("jane@example.com", StatusChangeData{
		OrderID:        "ord-1",
		PreviousStatus: "pending",
		NewStatus:      "cancelled",
	})
	d.Wait()

	sends := mailer.sent()
	require.Len(t, sends, 1)
	assert.Equal(t, "Order Status Update #ord-1", sends[0].subject)
}

func TestDispatcher_DeliveryFailureIsSwallowed(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp unreachable")}
	d := NewDispatcher(mailer)

	// The caller never sees a delivery failure.
	d.SendCheckoutConfirmation("jane@example.com", CheckoutData{OrderID: "ord-1"})
	d.Wait()

	assert.Empty(t, mailer.sent())
}

func TestDispatcher_ConcurrentSends(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(mailer)

	for i := 0; i < 10; i++ {
		d.SendPaymentConfirmation("jane@example.com", PaymentData{OrderID: "ord-1"})
	}
	d.Wait()

	assert.Len(t, mailer.sent(), 10)
}
