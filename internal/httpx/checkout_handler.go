package httpx

import (
	"net/http"

	"tokoline-be/internal/apperror"
	"tokoline-be/internal/checkout"
	"tokoline-be/internal/middleware"
)

type cartCheckoutRequest struct {
	UserID              string   `json:"userId"`
	SelectedCartItemIDs []string `json:"selectedCartItemIds"`
	PaymentMethod       string   `json:"paymentMethod"`
	ShippingAddress     *string  `json:"shippingAddress,omitempty"`
}

type directCheckoutRequest struct {
	ProductID       string  `json:"productId"`
	Quantity        int     `json:"quantity"`
	PaymentMethod   string  `json:"paymentMethod"`
	ShippingAddress *string `json:"shippingAddress,omitempty"`
}

func (s *Server) handleCartCheckout(w http.ResponseWriter, r *http.Request) {
	var req cartCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, s.production)
		return
	}

	if req.UserID == "" || len(req.SelectedCartItemIDs) == 0 || req.PaymentMethod == "" {
		respondError(w, r, apperror.New(apperror.Validation,
			"missing required fields: userId, selectedCartItemIds, paymentMethod"), s.production)
		return
	}

	result, err := s.checkouts.CheckoutCart(r.Context(), checkout.CartCheckoutInput{
		UserID:              req.UserID,
		SelectedCartItemIDs: req.SelectedCartItemIDs,
		PaymentMethod:       req.PaymentMethod,
		ShippingAddress:     req.ShippingAddress,
	})
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleDirectCheckout(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req directCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, s.production)
		return
	}

	if req.ProductID == "" || req.Quantity == 0 || req.PaymentMethod == "" {
		respondError(w, r, apperror.New(apperror.Validation,
			"missing required fields: productId, quantity, paymentMethod"), s.production)
		return
	}

	result, err := s.checkouts.CheckoutDirect(r.Context(), checkout.DirectCheckoutInput{
		UserID:          userID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
