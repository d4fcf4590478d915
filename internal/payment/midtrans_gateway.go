package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tokoline-be/internal/apperror"
	"tokoline-be/internal/logger"

	"go.uber.org/zap"
)

const snapPath = "/snap/v1/transactions"

type midtransGateway struct {
	serverKey  string
	baseURL    string
	httpClient *http.Client
}

func NewMidtransGateway(serverKey, baseURL string) Gateway {
	if serverKey == "" {
		logger.L().Warn("Midtrans server key is empty")
	}

	return &midtransGateway{
		serverKey: serverKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type snapTransactionDetails struct {
	OrderID     string      `json:"order_id"`
	GrossAmount json.Number `json:"gross_amount"`
}

type snapCustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type snapItemDetail struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

type snapRequestBody struct {
	TransactionDetails snapTransactionDetails `json:"transaction_details"`
	CreditCard         map[string]bool        `json:"credit_card"`
	CustomerDetails    snapCustomerDetails    `json:"customer_details"`
	ItemDetails        []snapItemDetail       `json:"item_details"`
}

// CreateSnapTransaction opens a Snap payment session for an already
// committed order and returns the token + redirect URL the customer
// pays through.
func (g *midtransGateway) CreateSnapTransaction(ctx context.Context, req SnapRequest) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", req.OrderID),
		zap.String("gross_amount", req.GrossAmount.StringFixed(2)),
	)

	body := snapRequestBody{
		TransactionDetails: snapTransactionDetails{
			OrderID:     req.OrderID,
			GrossAmount: json.Number(req.GrossAmount.String()),
		},
		CreditCard:      map[string]bool{"secure": true},
		CustomerDetails: snapCustomerDetails{FirstName: req.Customer.Name, Email: req.Customer.Email},
	}
	for _, item := range req.Items {
		body.ItemDetails = append(body.ItemDetails, snapItemDetail{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
		})
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+snapPath, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	httpReq.SetBasicAuth(g.serverKey, "")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	log.Info("creating snap transaction")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		log.Error("snap request failed", zap.Error(err))
		return nil, apperror.Wrap(apperror.External, fmt.Errorf("midtrans request failed: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Wrap(apperror.External, fmt.Errorf("failed to read midtrans response: %w", err))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("midtrans returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, apperror.Wrap(apperror.External, fmt.Errorf("midtrans error: %s", string(bodyBytes)))
	}

	var session Session
	if err := json.Unmarshal(bodyBytes, &session); err != nil {
		return nil, apperror.Wrap(apperror.External, fmt.Errorf("failed to decode midtrans response: %w", err))
	}
	if session.Token == "" {
		return nil, apperror.Wrap(apperror.External, fmt.Errorf("midtrans response missing token: %s", string(bodyBytes)))
	}

	log.Info("snap transaction created", zap.String("redirect_url", session.RedirectURL))
	return &session, nil
}

// VerifySignature checks the Midtrans notification signature:
// sha512(order_id + status_code + gross_amount + server_key).
// Verification is skipped only when no server key is configured
// (local development); with a key, a missing or mismatched signature
// rejects the callback.
func (g *midtransGateway) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) error {
	if g.serverKey == "" {
		return nil
	}

	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + g.serverKey))
	if hex.EncodeToString(sum[:]) != signatureKey {
		return ErrInvalidSignature
	}
	return nil
}
