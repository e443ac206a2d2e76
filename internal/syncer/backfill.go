package syncer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// BackfillChannel syncs up to maxVideos historical videos of one channel,
// enumerated from its uploads playlist in platform order. Live announcements
// are suppressed; per-video failures are counted and never abort the run. An
// unknown channel fails before any video is touched.
func (o *Orchestrator) BackfillChannel(ctx context.Context, ytChannelID string, maxVideos int) (Summary, error) {
	start := time.Now()
	log := o.log.With(zap.String("yt_channel_id", ytChannelID))

	if _, err := o.store.GetChannel(ctx, ytChannelID); err != nil {
		return Summary{}, fmt.Errorf("load channel %s: %w", ytChannelID, err)
	}

	videoIDs, err := o.feed.HistoricalVideoIDs(ctx, ytChannelID, maxVideos)
	if err != nil {
		return Summary{}, fmt.Errorf("enumerate channel videos: %w", err)
	}
	total := len(videoIDs)
	log.Info("starting backfill", zap.Int("videos", total))

	var synced, failed atomic.Int64
	var completed atomic.Int64
	sem := make(chan struct{}, o.opts.VideoConcurrency)
	var wg sync.WaitGroup
	for _, videoID := range videoIDs {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(ytVideoID string) {
			defer wg.Done()
			defer func() { <-sem }()

			err := o.SyncVideo(ctx, ytVideoID, true)
			done := completed.Add(1)
			if err != nil {
				failed.Add(1)
				o.metrics.VideosFailed.Inc()
				log.Error(fmt.Sprintf("[%d/%d] video sync failed", done, total), zap.String("yt_video_id", ytVideoID), zap.Error(err))
				return
			}
			synced.Add(1)
			o.metrics.VideosSynced.Inc()
			log.Info(fmt.Sprintf("[%d/%d] video synced", done, total), zap.String("yt_video_id", ytVideoID))
		}(videoID)
	}
	wg.Wait()

	summary := Summary{
		VideosSynced: synced.Load(),
		VideosFailed: failed.Load(),
		Duration:     time.Since(start),
	}

	log.Info(fmt.Sprintf("%d videos synced, %d videos failed", summary.VideosSynced, summary.VideosFailed),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}
