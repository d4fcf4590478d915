package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tokoline-be/internal/order"
	"tokoline-be/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListUserOrders(ctx context.Context, userID string) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ReconcilePayment(ctx context.Context, in order.ReconcileInput) (*order.Order, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateSnapTransaction(ctx context.Context, req payment.SnapRequest) (*payment.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockGateway) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) error {
	args := m.Called(orderID, statusCode, grossAmount, signatureKey)
	return args.Error(0)
}

func webhookRequest(t *testing.T, payload map[string]any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestHandlePaymentWebhook(t *testing.T) {
	t.Run("SettlementReconciled", func(t *testing.T) {
		orders := new(MockOrderService)
		gateway := new(MockGateway)
		s := NewServer(nil, nil, nil, orders, nil, gateway, "test")

		gateway.On("VerifySignature", "ord-1", "200", "25.00", "sig").Return(nil)
		orders.On("ReconcilePayment", mock.Anything, mock.MatchedBy(func(in order.ReconcileInput) bool {
			if in.OrderID != "ord-1" || in.TransactionStatus != "settlement" {
				return false
			}
			return in.SettlementTime != nil && in.SettlementTime.Equal(
				time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC))
		})).Return(&order.Order{
			ID:            "ord-1",
			Status:        order.StatusProcessing,
			PaymentStatus: order.PaymentPaid,
		}, nil)

		rec := httptest.NewRecorder()
		s.handlePaymentWebhook(rec, webhookRequest(t, map[string]any{
			"order_id":           "ord-1",
			"transaction_status": "settlement",
			"settlement_time":    "2026-08-30 10:15:00",
			"status_code":        "200",
			"gross_amount":       "25.00",
			"signature_key":      "sig",
		}))

		assert.Equal(t, http.StatusOK, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, true, envelope["success"])
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "ord-1", data["orderId"])
		assert.Equal(t, "processing", data["status"])
		assert.Equal(t, "paid", data["paymentStatus"])
		orders.AssertExpectations(t)
	})

	t.Run("MissingOrderID", func(t *testing.T) {
		orders := new(MockOrderService)
		gateway := new(MockGateway)
		s := NewServer(nil, nil, nil, orders, nil, gateway, "test")

		rec := httptest.NewRecorder()
		s.handlePaymentWebhook(rec, webhookRequest(t, map[string]any{
			"transaction_status": "settlement",
		}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, false, envelope["success"])
		orders.AssertNotCalled(t, "ReconcilePayment", mock.Anything, mock.Anything)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		s := NewServer(nil, nil, nil, new(MockOrderService), nil, new(MockGateway), "test")

		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader([]byte("not-json")))
		rec := httptest.NewRecorder()
		s.handlePaymentWebhook(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		orders := new(MockOrderService)
		gateway := new(MockGateway)
		s := NewServer(nil, nil, nil, orders, nil, gateway, "test")

		gateway.On("VerifySignature", "ord-1", "200", "25.00", "bad").Return(payment.ErrInvalidSignature)

		rec := httptest.NewRecorder()
		s.handlePaymentWebhook(rec, webhookRequest(t, map[string]any{
			"order_id":           "ord-1",
			"transaction_status": "settlement",
			"status_code":        "200",
			"gross_amount":       "25.00",
			"signature_key":      "bad",
		}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		orders.AssertNotCalled(t, "ReconcilePayment", mock.Anything, mock.Anything)
	})

	t.Run("OrderNotFound", func(t *testing.T) {
		orders := new(MockOrderService)
		gateway := new(MockGateway)
		s := NewServer(nil, nil, nil, orders, nil, gateway, "test")

		gateway.On("VerifySignature", "missing", "", "", "").Return(nil)
		orders.On("ReconcilePayment", mock.Anything, mock.Anything).Return(nil, order.ErrOrderNotFound)

		rec := httptest.NewRecorder()
		s.handlePaymentWebhook(rec, webhookRequest(t, map[string]any{
			"order_id":           "missing",
			"transaction_status": "settlement",
		}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("UnknownTransactionStatus", func(t *testing.T) {
		orders := new(MockOrderService)
		gateway := new(MockGateway)
		s := NewServer(nil, nil, nil, orders, nil, gateway, "test")

		gateway.On("VerifySignature", "ord-1", "", "", "").Return(nil)
		orders.On("ReconcilePayment", mock.Anything, mock.Anything).Return(nil, order.ErrUnknownTransactionStatus)

		rec := httptest.NewRecorder()
		s.handlePaymentWebhook(rec, webhookRequest(t, map[string]any{
			"order_id":           "ord-1",
			"transaction_status": "capture",
		}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, false, envelope["success"])
	})
}
