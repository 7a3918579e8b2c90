package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/kvarga/webshop-backend/api/routes"
	"github.com/kvarga/webshop-backend/internal/auth"
	"github.com/kvarga/webshop-backend/internal/products"
	"github.com/kvarga/webshop-backend/internal/users"
	"github.com/kvarga/webshop-backend/internal/wishlist"
	"github.com/kvarga/webshop-backend/pkg/auth/session"
	"github.com/kvarga/webshop-backend/pkg/config"
	"github.com/kvarga/webshop-backend/pkg/db"
	"github.com/kvarga/webshop-backend/pkg/logger"
	"github.com/kvarga/webshop-backend/pkg/metrics"
	"github.com/kvarga/webshop-backend/pkg/migrate"
	"github.com/kvarga/webshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return multierr.Append(err, dbClient.Close())
	}

	closeAll := func() error {
		return multierr.Combine(dbClient.Close(), redisClient.Close())
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return multierr.Append(err, closeAll())
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return multierr.Append(err, closeAll())
	}

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return multierr.Append(err, closeAll())
	}

	productService, err := products.NewService(products.ServiceParams{Repo: productRepo})
	if err != nil {
		return multierr.Append(err, closeAll())
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlistRepo,
		Products: productRepo,
	})
	if err != nil {
		return multierr.Append(err, closeAll())
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo:           userRepo,
		Wishlists:      wishlistRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return multierr.Append(err, closeAll())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Sessions:        sessionManager,
			HTTPMetrics:     metrics.NewHTTPMetrics(registry),
			Registry:        registry,
			AuthService:     authService,
			ProductService:  productService,
			UserService:     userService,
			WishlistService: wishlistService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return multierr.Append(err, closeAll())
	case <-ctx.Done():
	}

	logg.Info(startCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	err = multierr.Append(err, <-errCh)
	return multierr.Append(err, closeAll())
}
