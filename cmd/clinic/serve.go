package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/appointment"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/auth"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/config"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/db"
	httpapi "github.com/WailSalutem-Health-Care/clinic-service/internal/http"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/logging"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/clinic-service/internal/telemetry"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// loadConfig loads and validates configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

func runServer() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()

	provider, err := telemetry.InitProvider(ctx, telemetry.ConfigFrom(cfg, version), logger)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("metrics disabled", zap.Error(err))
		metrics = nil
	}

	database, err := db.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	var feedCache appointment.FeedCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, feed cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			feedCache = appointment.NewRedisFeedCache(client, cfg.FeedCacheTTL)
			logger.Info("feed cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.FeedCacheTTL))
		}
	}

	var publisher messaging.PublisherInterface
	if cfg.RabbitMQURL != "" {
		p, err := messaging.NewPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, event publishing disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	authCfg := auth.ConfigFrom(cfg)
	if authCfg.JWKSURL == "" {
		return errors.New("AUTH_JWKS_URL is required to serve requests")
	}
	jwks, err := auth.NewJWKS(ctx, authCfg.JWKSURL, 15*time.Minute, logger)
	if err != nil {
		return fmt.Errorf("load jwks: %w", err)
	}
	defer jwks.Close()

	perms, err := auth.LoadPermissions(cfg.PermissionsFile)
	if err != nil {
		return fmt.Errorf("load permissions: %w", err)
	}

	guard := auth.NewGuard(auth.NewVerifier(authCfg, jwks), perms, logger, metrics)

	handler := httpapi.SetupRouter(httpapi.Dependencies{
		DB:        database,
		Config:    cfg,
		Guard:     guard,
		Publisher: publisher,
		FeedCache: feedCache,
		Metrics:   metrics,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
