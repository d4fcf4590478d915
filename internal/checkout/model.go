package checkout

import (
	"tokoline-be/internal/apperror"
	"tokoline-be/internal/order"
	"tokoline-be/internal/payment"
)

var (
	ErrInvalidSelection = apperror.New(apperror.Validation, "invalid cart items selection")
	ErrItemsNotFound    = apperror.New(apperror.NotFound, "items not found in cart")
)

type CartCheckoutInput struct {
	UserID              string
	SelectedCartItemIDs []string
	PaymentMethod       string
	ShippingAddress     *string
}

type DirectCheckoutInput struct {
	UserID          string
	ProductID       string
	Quantity        int
	PaymentMethod   string
	ShippingAddress *string
}

// Result carries the committed order plus the payment session when one
// was opened. Payment is nil for cod and when the post-commit gateway
// call degraded.
type Result struct {
	Order   *order.Order     `json:"order"`
	Payment *payment.Session `json:"payment,omitempty"`
}
