package httpx

import (
	"net/http"

	"tokoline-be/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	c, err := s.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, s.production)
		return
	}

	item, err := s.carts.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, s.production)
		return
	}

	item, err := s.carts.UpdateItemQuantity(r.Context(), userID, chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := s.carts.RemoveItem(r.Context(), userID, chi.URLParam(r, "itemID")); err != nil {
		respondError(w, r, err, s.production)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"removed": true})
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	deleted, err := s.carts.ClearCart(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted_count": deleted})
}
