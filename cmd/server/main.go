package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokoline-be/internal/cart"
	"tokoline-be/internal/checkout"
	"tokoline-be/internal/config"
	"tokoline-be/internal/db"
	"tokoline-be/internal/httpx"
	"tokoline-be/internal/inventory"
	"tokoline-be/internal/logger"
	"tokoline-be/internal/notification"
	"tokoline-be/internal/order"
	"tokoline-be/internal/payment"
	"tokoline-be/internal/product"
	"tokoline-be/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	ledger := inventory.NewLedger()
	gateway := payment.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransBaseURL)
	dispatcher := notification.NewDispatcher(notification.NewSMTPMailer(cfg))

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(database, orderRepo, ledger, userRepo, dispatcher)

	checkoutSvc := checkout.NewService(
		database, cartRepo, orderRepo, productRepo, ledger, userRepo, gateway, dispatcher,
	)

	srv := httpx.NewServer(userSvc, productSvc, cartSvc, orderSvc, checkoutSvc, gateway, cfg.AppEnv)

	httpSrv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 server running at http://localhost:%s/", cfg.AppPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}

	// Drain notification goroutines before the process exits.
	dispatcher.Wait()
}
