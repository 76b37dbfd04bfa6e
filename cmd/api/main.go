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

	"github.com/fooddrop-app/fooddrop-backend/api/controllers"
	"github.com/fooddrop-app/fooddrop-backend/api/routes"
	authsvc "github.com/fooddrop-app/fooddrop-backend/internal/auth"
	"github.com/fooddrop-app/fooddrop-backend/internal/drops"
	"github.com/fooddrop-app/fooddrop-backend/internal/users"
	"github.com/fooddrop-app/fooddrop-backend/pkg/auth/session"
	"github.com/fooddrop-app/fooddrop-backend/pkg/config"
	"github.com/fooddrop-app/fooddrop-backend/pkg/db"
	"github.com/fooddrop-app/fooddrop-backend/pkg/logger"
	"github.com/fooddrop-app/fooddrop-backend/pkg/metrics"
	"github.com/fooddrop-app/fooddrop-backend/pkg/migrate"
	redisclient "github.com/fooddrop-app/fooddrop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Missing .env is fine outside dev.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "fooddrop-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api exited", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var (
		redisClient *redisclient.Client
		sessions    *session.Manager
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		sessions, err = session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			return err
		}
		logg.Info(ctx, "redis session tracking enabled")
	} else {
		logg.Info(ctx, "redis not configured, sessions are stateless")
	}

	userRepo := users.NewRepository(dbClient.DB())
	dropRepo := drops.NewRepository(dbClient.DB())

	dropService, err := drops.NewService(drops.ServiceParams{
		DropRepo: dropRepo,
		UserRepo: userRepo,
	})
	if err != nil {
		return err
	}

	authParams := authsvc.ServiceParams{
		UserRepo: userRepo,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	}
	if sessions != nil {
		authParams.Sessions = sessions
	}
	authService, err := authsvc.NewService(authParams)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	var cachePinger controllers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	var checker session.AccessSessionChecker
	if sessions != nil {
		checker = sessions
	}

	handler := routes.New(routes.RouterParams{
		Config:   cfg,
		Logger:   logg,
		Auth:     controllers.NewAuthController(authService, cfg.JWT, logg),
		Drops:    controllers.NewDropsController(dropService, logg),
		Health:   controllers.NewHealthController(dbClient, cachePinger, logg),
		Sessions: checker,
		Metrics:  httpMetrics,
		Registry: registry,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", server.Addr), "http server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	if err := server.Shutdown(shutdownCtx); err != nil {
		closeErr = multierr.Append(closeErr, err)
	}
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	return closeErr
}
