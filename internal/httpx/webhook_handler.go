package httpx

import (
	"net/http"
	"time"

	"tokoline-be/internal/apperror"
	"tokoline-be/internal/order"
)

// webhookPayload is the notification JSON the payment gateway posts.
type webhookPayload struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	SettlementTime    string `json:"settlement_time,omitempty"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	StatusCode        string `json:"status_code,omitempty"`
	GrossAmount       string `json:"gross_amount,omitempty"`
	SignatureKey      string `json:"signature_key,omitempty"`
}

func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, err, s.production)
		return
	}

	if payload.OrderID == "" || payload.TransactionStatus == "" {
		respondError(w, r, apperror.New(apperror.Validation, "invalid webhook payload"), s.production)
		return
	}

	if err := s.gateway.VerifySignature(
		payload.OrderID, payload.StatusCode, payload.GrossAmount, payload.SignatureKey,
	); err != nil {
		respondError(w, r, err, s.production)
		return
	}

	var settlementTime *time.Time
	if payload.SettlementTime != "" {
		// Gateway sends "2006-01-02 15:04:05" in its local zone.
		if t, err := time.Parse("2006-01-02 15:04:05", payload.SettlementTime); err == nil {
			settlementTime = &t
		} else if t, err := time.Parse(time.RFC3339, payload.SettlementTime); err == nil {
			settlementTime = &t
		}
	}

	o, err := s.orders.ReconcilePayment(r.Context(), order.ReconcileInput{
		OrderID:           payload.OrderID,
		TransactionStatus: payload.TransactionStatus,
		SettlementTime:    settlementTime,
		FraudStatus:       payload.FraudStatus,
	})
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"orderId":       o.ID,
		"status":        o.Status,
		"paymentStatus": o.PaymentStatus,
	})
}
