package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"tokoline-be/internal/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func snapReq() SnapRequest {
	return SnapRequest{
		OrderID:     "ord-1",
		GrossAmount: decimal.RequireFromString("25.00"),
		Customer:    Customer{Name: "Jane", Email: "jane@example.com"},
		Items: []LineItem{
			{ID: "prod-1", Name: "Widget", Price: decimal.RequireFromString("10.00"), Quantity: 2},
			{ID: "prod-2", Name: "Gadget", Price: decimal.RequireFromString("5.00"), Quantity: 1},
		},
	}
}

func TestMidtransGateway_CreateSnapTransaction(t *testing.T) {
	serverKey := "test-server-key"
	baseURL := "https://app.sandbox.midtrans.com"
	gw := NewMidtransGateway(serverKey, baseURL).(*midtransGateway)

	t.Run("Success", func(t *testing.T) {
		respBody := `{"token": "tok-123", "redirect_url": "https://app.sandbox.midtrans.com/snap/v4/redirection/tok-123"}`

		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "POST", req.Method)
			assert.Equal(t, baseURL+"/snap/v1/transactions", req.URL.String())

			user, _, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, serverKey, user)

			var body map[string]any
			raw, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, &body))

			td := body["transaction_details"].(map[string]any)
			assert.Equal(t, "ord-1", td["order_id"])
			assert.Equal(t, float64(25), td["gross_amount"])
			assert.Len(t, body["item_details"], 2)

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     make(http.Header),
			}
		})

		session, err := gw.CreateSnapTransaction(context.Background(), snapReq())
		assert.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "tok-123", session.Token)
		assert.Contains(t, session.RedirectURL, "tok-123")
	})

	t.Run("Success_StatusCreated", func(t *testing.T) {
		respBody := `{"token": "tok-123", "redirect_url": "https://pay.example/tok-123"}`

		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     make(http.Header),
			}
		})

		session, err := gw.CreateSnapTransaction(context.Background(), snapReq())
		assert.NoError(t, err)
		assert.Equal(t, "tok-123", session.Token)
	})

	t.Run("GatewayError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(bytes.NewBufferString(`{"error_messages": ["unauthorized"]}`)),
				Header:     make(http.Header),
			}
		})

		_, err := gw.CreateSnapTransaction(context.Background(), snapReq())
		assert.Error(t, err)
		assert.Equal(t, apperror.External, apperror.KindOf(err))
	})

	t.Run("MissingToken", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`{}`)),
				Header:     make(http.Header),
			}
		})

		_, err := gw.CreateSnapTransaction(context.Background(), snapReq())
		assert.Error(t, err)
		assert.Equal(t, apperror.External, apperror.KindOf(err))
	})

	t.Run("MalformedResponse", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`not-json`)),
				Header:     make(http.Header),
			}
		})

		_, err := gw.CreateSnapTransaction(context.Background(), snapReq())
		assert.Error(t, err)
		assert.Equal(t, apperror.External, apperror.KindOf(err))
	})
}

func TestMidtransGateway_VerifySignature(t *testing.T) {
	serverKey := "test-server-key"
	gw := NewMidtransGateway(serverKey, "https://app.sandbox.midtrans.com")

	orderID := "ord-1"
	statusCode := "200"
	grossAmount := "25.00"

	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	valid := hex.EncodeToString(sum[:])

	t.Run("ValidSignature", func(t *testing.T) {
		err := gw.VerifySignature(orderID, statusCode, grossAmount, valid)
		assert.NoError(t, err)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		err := gw.VerifySignature(orderID, statusCode, grossAmount, "deadbeef")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("TamperedAmount", func(t *testing.T) {
		err := gw.VerifySignature(orderID, statusCode, "9999.00", valid)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("MissingSignatureRejected", func(t *testing.T) {
		// Omitting signature_key must not bypass verification when a
		// server key is configured.
		err := gw.VerifySignature(orderID, statusCode, grossAmount, "")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("SkippedWithoutServerKey", func(t *testing.T) {
		unconfigured := NewMidtransGateway("", "https://app.sandbox.midtrans.com")

		assert.NoError(t, unconfigured.VerifySignature(orderID, statusCode, grossAmount, ""))
		assert.NoError(t, unconfigured.VerifySignature(orderID, statusCode, grossAmount, "anything"))
	})
}
