// The backfill command syncs a channel's historical videos in one shot,
// without live announcements.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/r8y/channel-sync-go/internal/classifier"
	"github.com/r8y/channel-sync-go/internal/config"
	"github.com/r8y/channel-sync-go/internal/db"
	"github.com/r8y/channel-sync-go/internal/feed"
	"github.com/r8y/channel-sync-go/internal/metrics"
	"github.com/r8y/channel-sync-go/internal/notify"
	"github.com/r8y/channel-sync-go/internal/retry"
	"github.com/r8y/channel-sync-go/internal/syncer"
	"github.com/r8y/channel-sync-go/pkg/logger"
)

func main() {
	channelID := flag.String("channel", "", "YouTube channel id to backfill (required)")
	maxVideos := flag.Int("max-videos", 200, "maximum number of historical videos to sync")
	flag.Parse()

	if *channelID == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	m := metrics.New(prometheus.NewRegistry())

	orchestrator := syncer.New(store, feedClient, classifierClient, notifier, m, syncer.Options{
		VideoConcurrency:   cfg.Sweep.VideoConcurrency,
		CommentConcurrency: cfg.Sweep.CommentConcurrency,
		CommentPageSize:    cfg.Sweep.CommentPageSize,
	}, logger.Named("backfill"))

	summary, err := orchestrator.BackfillChannel(ctx, *channelID, *maxVideos)
	if err != nil {
		log.Fatal("backfill failed", zap.String("yt_channel_id", *channelID), zap.Error(err))
	}

	if summary.VideosFailed > 0 {
		os.Exit(1)
	}
}
