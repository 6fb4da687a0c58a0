// cmd/application-server/main.go
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

	"go.uber.org/zap"

	"builder-network/internal/api"
	"builder-network/internal/common/aws"
	"builder-network/internal/common/config"
	"builder-network/internal/common/database"
	"builder-network/internal/common/logger"
	"builder-network/internal/common/observability"
	"builder-network/internal/common/ratelimit"
	"builder-network/pkg/registry"

	car "builder-network/internal/application/create-application-record"
	sn "builder-network/internal/application/send-notification"
	vad "builder-network/internal/application/validate-application-data"
)

// retryWithBackoff runs operation until it succeeds, doubling the delay after each failure.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	var outputs []string
	if cfg.Logging.Output != "" {
		outputs = append(outputs, cfg.Logging.Output)
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, outputs...)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting application server...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.App.Name)

	ctx := context.Background()

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := car.Migrate(ctx, pg.DB); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("builder_applications table ready")
	}

	// --- Rate limiting ---
	limiter, closeLimiter := buildLimiter(ctx, cfg, zapLog)
	defer closeLimiter()

	// --- Option catalog ---
	catalog, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("option catalog load failed", zap.Error(err))
	}
	zapLog.Info("Option catalog loaded", zap.String("catalogVersion", catalog.Version))

	// --- AWS ---
	var sesClient sn.SESService
	var snsClient sn.SNSService
	if cfg.Integrations.AWS.SES.Enabled || cfg.Integrations.AWS.SNS.Enabled {
		awsCfg, err := aws.LoadConfig(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if cfg.Integrations.AWS.SES.Enabled {
			sesClient = aws.NewSESClient(awsCfg)
		}
		if cfg.Integrations.AWS.SNS.Enabled {
			snsClient = aws.NewSNSClient(awsCfg)
		}
	}

	// --- Submission steps ---
	timeout := config.GetDuration(cfg.Submission.Timeout)

	validator, err := vad.NewHandler(vad.LoadConfig(), log)
	if err != nil {
		zapLog.Fatal("application schema failed to compile", zap.Error(err))
	}

	recordCfg := car.LoadConfig()
	if timeout > 0 {
		recordCfg.Timeout = timeout
	}
	store := car.NewHandler(recordCfg, pg.DB, log)

	notifyCfg := sn.LoadConfig()
	notifyCfg.EmailEnabled = cfg.Integrations.AWS.SES.Enabled
	notifyCfg.AlertEnabled = cfg.Integrations.AWS.SNS.Enabled
	notifyCfg.FromEmail = cfg.Integrations.AWS.SES.FromEmail
	notifyCfg.StaffAddress = cfg.Notifications.Email.StaffAddress
	notifyCfg.TopicARN = cfg.Integrations.AWS.SNS.TopicARN
	if timeout > 0 {
		notifyCfg.Timeout = timeout
	}
	notifier := sn.NewHandler(notifyCfg, sesClient, snsClient, catalog, log)

	handler := api.NewHandler(api.Options{
		Validator:         validator,
		Store:             store,
		Notifier:          notifier,
		Limiter:           limiter,
		Ready:             pg,
		Observability:     obs,
		Logger:            log,
		FailOnNotifyError: cfg.Notifications.Email.FailOnError,
		MaxBodyBytes:      cfg.Server.MaxBodyBytes,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("meter provider shutdown failed", zap.Error(err))
	}

	zapLog.Info("Application server stopped gracefully")
}

// buildLimiter prefers the shared Redis window when Redis is enabled and falls
// back to an in-process bucket.
func buildLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger) (ratelimit.Limiter, func()) {
	noop := func() {}
	rl := cfg.Submission.RateLimit
	if !rl.Enabled {
		return ratelimit.Unlimited{}, noop
	}
	window := config.GetDuration(rl.Window)

	if cfg.Database.Redis.Enabled {
		var redis *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err == nil {
			log.Info("Redis connected successfully, using shared rate limit window")
			return ratelimit.NewRedisLimiter(redis.Client, rl.Limit, window), func() { _ = redis.Close() }
		}
		log.Error("redis unavailable, using in-process rate limiting", zap.Error(err))
	}

	memory := ratelimit.NewMemoryLimiter(rl.Limit, window)
	if memory == nil {
		log.Warn("rate limit settings invalid, submissions are not limited",
			zap.Int("limit", rl.Limit), zap.Int("windowMs", rl.Window))
		return ratelimit.Unlimited{}, noop
	}
	return memory, noop
}
