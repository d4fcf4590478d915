package httpx

import (
	"net/http"

	"tokoline-be/internal/cart"
	"tokoline-be/internal/checkout"
	"tokoline-be/internal/logger"
	"tokoline-be/internal/middleware"
	"tokoline-be/internal/order"
	"tokoline-be/internal/payment"
	"tokoline-be/internal/product"
	"tokoline-be/internal/user"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	users      user.Service
	products   product.Service
	carts      cart.Service
	orders     order.Service
	checkouts  checkout.Service
	gateway    payment.Gateway
	production bool
}

func NewServer(
	users user.Service,
	products product.Service,
	carts cart.Service,
	orders order.Service,
	checkouts checkout.Service,
	gateway payment.Gateway,
	appEnv string,
) *Server {
	return &Server{
		users:      users,
		products:   products,
		carts:      carts,
		orders:     orders,
		checkouts:  checkouts,
		gateway:    gateway,
		production: appEnv == "production",
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.RateLimit)
	r.Use(middleware.Auth)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Post("/", s.handleCreateProduct)
			r.Get("/{productID}", s.handleGetProduct)
			r.Put("/{productID}", s.handleUpdateProduct)
			r.Delete("/{productID}", s.handleDeleteProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/", s.handleGetCart)
			r.Post("/items", s.handleAddCartItem)
			r.Put("/items/{itemID}", s.handleUpdateCartItem)
			r.Delete("/items/{itemID}", s.handleRemoveCartItem)
			r.Delete("/", s.handleClearCart)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitStrict)
			r.Post("/checkout", s.handleCartCheckout)
			r.With(middleware.RequireUser).Post("/checkout/direct", s.handleDirectCheckout)
			r.Post("/payments/webhook", s.handlePaymentWebhook)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderID}", s.handleGetOrder)
			r.Post("/{orderID}/cancel", s.handleCancelOrder)
		})
		r.Get("/users/{userID}/orders", s.handleUserOrders)
	})

	return r
}
