package payment

import (
	"context"

	"tokoline-be/internal/apperror"

	"github.com/shopspring/decimal"
)

var (
	ErrGatewayUnavailable = apperror.New(apperror.External, "payment gateway unavailable")
	ErrInvalidSignature   = apperror.New(apperror.Validation, "invalid webhook signature")
)

type Customer struct {
	Name  string
	Email string
}

type LineItem struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

type SnapRequest struct {
	OrderID     string
	GrossAmount decimal.Decimal
	Customer    Customer
	Items       []LineItem
}

// Session is an initiated payment, not a settled one. Settlement
// arrives later through the webhook.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type Gateway interface {
	CreateSnapTransaction(ctx context.Context, req SnapRequest) (*Session, error)
	VerifySignature(orderID, statusCode, grossAmount, signatureKey string) error
}
