package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListUserOrders(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Cancel(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, r, err, s.production)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
