package syncer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Summary reports the outcome of one sweep or backfill run.
type Summary struct {
	VideosSynced int64
	VideosFailed int64
	Duration     time.Duration
}

// SyncAllChannels syncs the recent videos of every registered channel, fanning
// out over channels and over each channel's videos with bounded concurrency.
// A channel whose feed cannot be fetched is skipped; per-video failures are
// counted and never abort the sweep.
func (o *Orchestrator) SyncAllChannels(ctx context.Context) (Summary, error) {
	start := time.Now()

	channels, err := o.store.GetAllChannels(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load channels: %w", err)
	}

	o.log.Info("starting sweep", zap.Int("channels", len(channels)))

	var synced, failed atomic.Int64
	channelSem := make(chan struct{}, o.opts.ChannelConcurrency)
	var wg sync.WaitGroup
	for _, channel := range channels {
		wg.Add(1)
		channelSem <- struct{}{}
		go func(ytChannelID string) {
			defer wg.Done()
			defer func() { <-channelSem }()
			o.sweepChannel(ctx, ytChannelID, &synced, &failed)
		}(channel.YTChannelID)
	}
	wg.Wait()

	summary := Summary{
		VideosSynced: synced.Load(),
		VideosFailed: failed.Load(),
		Duration:     time.Since(start),
	}

	o.metrics.SweepDuration.Observe(summary.Duration.Seconds())
	o.log.Info(fmt.Sprintf("%d videos synced, %d videos failed", summary.VideosSynced, summary.VideosFailed),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}

// sweepChannel syncs every entry of one channel's recent-video feed.
func (o *Orchestrator) sweepChannel(ctx context.Context, ytChannelID string, synced, failed *atomic.Int64) {
	log := o.log.With(zap.String("yt_channel_id", ytChannelID))

	snapshots, err := o.feed.RecentVideos(ctx, ytChannelID)
	if err != nil {
		log.Warn("failed to fetch channel feed, skipping channel", zap.Error(err))
		return
	}

	videoSem := make(chan struct{}, o.opts.VideoConcurrency)
	var wg sync.WaitGroup
	for _, snapshot := range snapshots {
		wg.Add(1)
		videoSem <- struct{}{}
		go func(ytVideoID string) {
			defer wg.Done()
			defer func() { <-videoSem }()

			if err := o.SyncVideo(ctx, ytVideoID, false); err != nil {
				failed.Add(1)
				o.metrics.VideosFailed.Inc()
				log.Error("video sync failed", zap.String("yt_video_id", ytVideoID), zap.Error(err))
				return
			}
			synced.Add(1)
			o.metrics.VideosSynced.Inc()
		}(snapshot.VideoID)
	}
	wg.Wait()
}
