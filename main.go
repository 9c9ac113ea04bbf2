package main

// GET    /products?limit=N        - list products
// GET    /products/{id}           - get one product
// POST   /products                - create a product
// PUT    /products/{id}           - replace a product
// DELETE /products/{id}           - delete a product
// POST   /carts                   - create an empty cart
// GET    /carts/{cid}             - list a cart's line-items
// POST   /carts/{cid}/product/{pid} - add a quantity of a product to a cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"product-cart-store/config"
	"product-cart-store/handler"
	"product-cart-store/logger"
	"product-cart-store/service"
	"product-cart-store/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// --- Backends ---
	products, carts, closeBackends, err := openBackends(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open store backend", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeBackends()
	log.Info("store backend ready", zap.String("backend", cfg.Store.Backend))

	// --- Service ---
	productColl, cartColl := service.NewCollections(products, carts, log)
	svc := service.NewService(productColl, cartColl, service.WithLogger(log))
	if err := svc.EnsureExists(ctx); err != nil {
		log.Fatal("failed to initialize collections", zap.Error(err))
	}

	// --- Handlers ---
	h := handler.NewHandler(svc, log, cfg.Server.MaxBodyBytes)

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      handler.NewRouter(h, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// openBackends returns the product and cart document backends selected by
// cfg.Store.Backend, plus a func releasing their connections.
func openBackends(ctx context.Context, cfg *config.Config) (store.Backend, store.Backend, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return store.NewFileBackend(filepath.Join(cfg.Store.DataDir, cfg.Store.Products+".json")),
			store.NewFileBackend(filepath.Join(cfg.Store.DataDir, cfg.Store.Carts+".json")),
			func() {}, nil

	case config.BackendPostgres:
		pg, err := store.NewPostgresStore(cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		return pg.Document(cfg.Store.Products), pg.Document(cfg.Store.Carts), func() { pg.Close() }, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, err
		}
		return store.NewRedisBackend(client, cfg.Store.Products),
			store.NewRedisBackend(client, cfg.Store.Carts),
			func() { client.Close() }, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
