package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"brewhaven-site/internal/auth"
	"brewhaven-site/internal/cart"
	"brewhaven-site/internal/config"
	"brewhaven-site/internal/db"
	"brewhaven-site/internal/httpserver"
	"brewhaven-site/internal/identity"
	cartitemrepo "brewhaven-site/internal/repository/cartitem"
	menurepo "brewhaven-site/internal/repository/menu"
	userrepo "brewhaven-site/internal/repository/user"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		logger.Printf("no .env file found, using environment as-is")
	}
	cfg := config.FromEnv()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	cartStore := cartitemrepo.NewPostgres(dbpool)
	cartProvider := cart.NewProvider(cartStore, logger)
	defer cartProvider.Close()

	authService := auth.New(userrepo.NewPostgres(dbpool))
	resolver := identity.NewResolver(authService, logger)

	// reload the affected cart whenever the authenticated identity changes
	authChanges, unsubscribe := authService.Subscribe()
	defer unsubscribe()
	go cartProvider.Watch(authChanges)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts:    cartProvider,
		Menu:     menurepo.NewPostgres(dbpool),
		Auth:     authService,
		Resolver: resolver,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
