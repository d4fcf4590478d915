package order

import "strings"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodEWallet      PaymentMethod = "e_wallet"
	MethodCOD          PaymentMethod = "cod"
)

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case MethodCreditCard:
		return MethodCreditCard, nil
	case MethodBankTransfer:
		return MethodBankTransfer, nil
	case MethodEWallet:
		return MethodEWallet, nil
	case MethodCOD:
		return MethodCOD, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// GatewayTransition is the internal effect of one gateway transaction
// status. A zero Order field means the order status is left alone.
type GatewayTransition struct {
	Payment PaymentStatus
	Order   Status
}

var gatewayTransitions = map[string]GatewayTransition{
	"settlement": {Payment: PaymentPaid, Order: StatusProcessing},
	"pending":    {Payment: PaymentUnpaid},
	"expire":     {Payment: PaymentFailed, Order: StatusCancelled},
	"cancel":     {Payment: PaymentFailed, Order: StatusCancelled},
	"deny":       {Payment: PaymentFailed, Order: StatusCancelled},
	"refund":     {Payment: PaymentRefunded},
}

// TransitionForGatewayStatus maps the gateway's transaction_status
// vocabulary (case-insensitive) to internal state. Unrecognized values
// are a typed failure, never a silent no-op.
func TransitionForGatewayStatus(raw string) (GatewayTransition, error) {
	t, ok := gatewayTransitions[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return GatewayTransition{}, ErrUnknownTransactionStatus
	}
	return t, nil
}

// nextStatus applies the transition's order side-effect without ever
// moving an order backwards: settlement promotes only a pending order,
// and a failed payment cancels only an order that has not shipped.
func nextStatus(current Status, t GatewayTransition) Status {
	switch t.Order {
	case StatusProcessing:
		if current == StatusPending {
			return StatusProcessing
		}
	case StatusCancelled:
		if current == StatusPending || current == StatusProcessing {
			return StatusCancelled
		}
	}
	return current
}
