// The sweeper daemon periodically syncs the recent videos of every
// registered channel and serves the operational HTTP endpoints.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/r8y/channel-sync-go/internal/classifier"
	"github.com/r8y/channel-sync-go/internal/config"
	"github.com/r8y/channel-sync-go/internal/db"
	"github.com/r8y/channel-sync-go/internal/feed"
	"github.com/r8y/channel-sync-go/internal/metrics"
	"github.com/r8y/channel-sync-go/internal/notify"
	"github.com/r8y/channel-sync-go/internal/ops"
	"github.com/r8y/channel-sync-go/internal/retry"
	"github.com/r8y/channel-sync-go/internal/syncer"
	"github.com/r8y/channel-sync-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Log
	log.Info("starting sweeper")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, &db.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	store := db.NewStore(pool)

	feedClient, err := feed.NewClient(ctx, feed.Config{
		APIKey:     cfg.YouTube.APIKey,
		RSSBaseURL: cfg.YouTube.RSSBaseURL,
	})
	if err != nil {
		log.Fatal("failed to create feed client", zap.Error(err))
	}

	classifierClient := classifier.NewClient(classifier.Config{
		BaseURL: cfg.OpenRouter.BaseURL,
		APIKey:  cfg.OpenRouter.APIKey,
		Model:   cfg.OpenRouter.Model,
		Timeout: cfg.OpenRouter.Timeout,
		Retry: retry.Policy{
			MaxAttempts: cfg.OpenRouter.RetryAttempts,
			Interval:    cfg.OpenRouter.RetryInterval,
		},
	})

	notifier := notify.NewNotifier(
		notify.NewDiscordClient(notify.DiscordConfig{
			BaseURL:   cfg.Discord.BaseURL,
			BotToken:  cfg.Discord.BotToken,
			ChannelID: cfg.Discord.ChannelID,
			RoleID:    cfg.Discord.RoleID,
		}),
		notify.NewTodoistClient(notify.TodoistConfig{
			BaseURL:  cfg.Todoist.BaseURL,
			APIToken: cfg.Todoist.APIToken,
		}),
	)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	orchestrator := syncer.New(store, feedClient, classifierClient, notifier, m, syncer.Options{
		ChannelConcurrency: cfg.Sweep.ChannelConcurrency,
		VideoConcurrency:   cfg.Sweep.VideoConcurrency,
		CommentConcurrency: cfg.Sweep.CommentConcurrency,
		CommentPageSize:    cfg.Sweep.CommentPageSize,
	}, logger.Named("syncer"))

	opsServer := ops.NewServer(cfg.Ops.Port, store, registry)
	go func() {
		if err := opsServer.Start(); err != nil {
			log.Error("ops server stopped", zap.Error(err))
		}
	}()

	runSweeps(ctx, orchestrator, cfg.Sweep.Interval, log)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Ops.ShutdownTimeout)
	defer cancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("ops server shutdown failed", zap.Error(err))
	}

	log.Info("sweeper stopped")
}

// runSweeps runs one sweep immediately, then on every tick until the context
// is canceled.
func runSweeps(ctx context.Context, orchestrator *syncer.Orchestrator, interval time.Duration, log *zap.Logger) {
	sweep := func() {
		if _, err := orchestrator.SyncAllChannels(ctx); err != nil {
			log.Error("sweep failed", zap.Error(err))
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			return
		}
	}
}
