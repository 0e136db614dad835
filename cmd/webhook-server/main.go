// cmd/webhook-server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/config"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/database"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/observability"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/ratelimit"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/server"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/slack"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/sync"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/teamtailor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting webhook server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Rate limiter: Redis when configured, in-process fallback otherwise ---
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RedisAddress != "" {
			redisClient, err := database.NewRedis(cfg.RateLimit)
			if err != nil {
				zapLog.Fatal("redis init failed", zap.Error(err))
			}
			if err := redisClient.Ping(ctx); err != nil {
				zapLog.Fatal("redis ping failed", zap.Error(err))
			}
			defer redisClient.Close()
			limiter = ratelimit.NewRedisLimiter(redisClient.GetClient(), cfg.RateLimit.RequestsPerMinute)
			zapLog.Info("Redis rate limiter connected", zap.String("address", cfg.RateLimit.RedisAddress))
		} else {
			memLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute)
			go func() {
				ticker := time.NewTicker(time.Minute)
				defer ticker.Stop()
				for range ticker.C {
					memLimiter.Cleanup()
				}
			}()
			limiter = memLimiter
			zapLog.Info("Using in-memory rate limiter")
		}
	}

	// --- ATS client and sync engine ---
	ats := teamtailor.NewClient(
		cfg.Teamtailor.APIKey,
		teamtailor.WithBaseURL(cfg.Teamtailor.BaseURL),
		teamtailor.WithTimeout(time.Duration(cfg.Teamtailor.Timeout)*time.Millisecond),
	)

	syncer := sync.NewSyncer(ats, log, cfg.Teamtailor.NoteUserID)

	notifier := slack.NewNotifier(cfg.Slack.WebhookURL, cfg.Teamtailor.CompanyID, log)
	if notifier.Enabled() {
		zapLog.Info("Slack notifications enabled")
	}

	handler := server.NewHandler(
		syncer,
		ats,
		notifier,
		limiter,
		obs,
		cfg.Webhook.Secret,
		cfg.App.Name,
		cfg.App.Version,
		log,
	)

	srv := server.New(cfg.Server, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	case <-sigCh:
		zapLog.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("server shutdown failed", zap.Error(err))
		}
	}

	zapLog.Info("Webhook server stopped gracefully")
}
