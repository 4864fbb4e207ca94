package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/storelab/storefront/internal/api"
	cartapp "github.com/storelab/storefront/internal/cart/app"
	cartadapter "github.com/storelab/storefront/internal/cart/infra/adapter"
	cartmongo "github.com/storelab/storefront/internal/cart/infra/mongo"
	catalogapp "github.com/storelab/storefront/internal/catalog/app"
	catalogmongo "github.com/storelab/storefront/internal/catalog/infra/mongo"
	checkoutapp "github.com/storelab/storefront/internal/checkout/app"
	checkoutadapter "github.com/storelab/storefront/internal/checkout/infra/adapter"
	ticketapp "github.com/storelab/storefront/internal/ticket/app"
	ticketmongo "github.com/storelab/storefront/internal/ticket/infra/mongo"
	userapp "github.com/storelab/storefront/internal/user/app"
	useradapter "github.com/storelab/storefront/internal/user/infra/adapter"
	usermongo "github.com/storelab/storefront/internal/user/infra/mongo"
	"github.com/storelab/storefront/pkg/config"
	"github.com/storelab/storefront/pkg/logger"
	"github.com/storelab/storefront/pkg/metrics"
	"github.com/storelab/storefront/pkg/mongodb"
	"github.com/storelab/storefront/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service: "api",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	store, err := mongodb.Open(ctx, mongodb.Options{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDB,
		Timeout:  cfg.MongoTimeout,
	})
	if err != nil {
		log.Error("mongodb open", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error("mongodb close", slog.Any("err", err))
		}
	}()

	db := store.Database()

	productRepo := catalogmongo.NewProductRepo(db)
	categoryRepo := catalogmongo.NewCategoryRepo(db)
	cartRepo := cartmongo.NewCartRepo(db)
	ticketRepo := ticketmongo.NewTicketRepo(db)
	userRepo := usermongo.NewUserRepo(db)

	for _, ensure := range []func(context.Context) error{
		productRepo.EnsureIndexes,
		categoryRepo.EnsureIndexes,
		ticketRepo.EnsureIndexes,
		userRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Error("ensure indexes", slog.Any("err", err))
			os.Exit(1)
		}
	}

	m := metrics.NewServerMetrics("api", prometheus.DefaultRegisterer)

	catalogSvc := catalogapp.NewService(productRepo, categoryRepo)
	cartSvc := cartapp.NewService(cartRepo, cartadapter.NewCatalogServiceReader(catalogSvc))
	ticketSvc := ticketapp.NewService(ticketRepo)
	userSvc := userapp.NewService(userRepo, useradapter.NewCartServiceProvisioner(cartSvc))

	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartServiceStore(cartSvc),
		checkoutadapter.NewCatalogLedger(catalogSvc),
		checkoutadapter.NewTicketServiceWriter(ticketSvc),
		checkoutadapter.NewUserServiceStore(userSvc),
		log,
		m.Purchases,
	)

	router := api.NewRouter(api.RouterDeps{
		Carts:   api.NewCartHandler(cartSvc, checkoutSvc),
		Catalog: api.NewCatalogHandler(catalogSvc),
		Tickets: api.NewTicketHandler(ticketSvc),
		Users:   api.NewUserHandler(userSvc),
		Metrics: m,
		JWT:     cfg.JWTSecret,
		Session: cfg.SessionKey,
		AppEnv:  cfg.AppEnv,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}
	log.Info("bye")
}
