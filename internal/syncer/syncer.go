// Package syncer orchestrates the per-video sync pipeline and the two entry
// points that drive it: the recurring all-channel sweep and the one-shot
// channel backfill.
package syncer

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/r8y/channel-sync-go/internal/classifier"
	"github.com/r8y/channel-sync-go/internal/db"
	"github.com/r8y/channel-sync-go/internal/db/models"
	"github.com/r8y/channel-sync-go/internal/feed"
	"github.com/r8y/channel-sync-go/internal/metrics"
	"github.com/r8y/channel-sync-go/internal/notify"
)

// Store is the persistence surface the orchestrator consumes.
type Store interface {
	GetChannel(ctx context.Context, ytChannelID string) (*models.Channel, error)
	GetAllChannels(ctx context.Context) ([]*models.Channel, error)
	UpsertVideo(ctx context.Context, video *models.Video) (wasInserted bool, err error)
	GetSponsorForVideo(ctx context.Context, ytVideoID string) (*models.Sponsor, error)
	CreateSponsor(ctx context.Context, sponsor *models.Sponsor) (*models.Sponsor, error)
	AttachSponsorToVideo(ctx context.Context, sponsorID uuid.UUID, ytVideoID string) error
	BulkUpsertComments(ctx context.Context, ytVideoID string, comments []*models.Comment) error
	GetCommentsByVideo(ctx context.Context, ytVideoID string) ([]*models.Comment, error)
	PatchCommentFlags(ctx context.Context, ytCommentID string, flags models.CommentFlags) error
	AppendNotificationRecord(ctx context.Context, n *models.Notification) error
}

// FeedSource fetches channel and video data from the platform.
type FeedSource interface {
	RecentVideos(ctx context.Context, ytChannelID string) ([]feed.VideoSnapshot, error)
	VideoDetails(ctx context.Context, ytVideoID string) (*feed.VideoDetails, error)
	Comments(ctx context.Context, ytVideoID string, maxResults int) ([]feed.CommentSnapshot, error)
	HistoricalVideoIDs(ctx context.Context, ytChannelID string, maxResults int) ([]string, error)
}

// Classifier runs the two LLM operations of the pipeline.
type Classifier interface {
	ExtractSponsor(ctx context.Context, sponsorPrompt, videoDescription string) (*classifier.SponsorResult, error)
	ClassifyComment(ctx context.Context, comment, videoSponsor string) (*classifier.CommentClassification, error)
}

// Notifier dispatches notifications to the outbound sinks.
type Notifier interface {
	AnnounceLive(ctx context.Context, video *models.Video, sponsorName string) notify.Outcome
	CreateLiveTask(ctx context.Context, video *models.Video, sponsorName string) notify.Outcome
	AnnounceFlaggedComment(ctx context.Context, comment *models.Comment, video *models.Video) notify.Outcome
}

// Options bound the orchestrator's fan-out and fetch sizes. Zero values fall
// back to the defaults.
type Options struct {
	ChannelConcurrency int // concurrent channels in a sweep (default: 3)
	VideoConcurrency   int // concurrent videos per channel (default: 4)
	CommentConcurrency int // concurrent comment classifications (default: 10)
	CommentPageSize    int // top-level comments fetched per video (default: 100)
}

func (o Options) withDefaults() Options {
	if o.ChannelConcurrency <= 0 {
		o.ChannelConcurrency = 3
	}
	if o.VideoConcurrency <= 0 {
		o.VideoConcurrency = 4
	}
	if o.CommentConcurrency <= 0 {
		o.CommentConcurrency = 10
	}
	if o.CommentPageSize <= 0 {
		o.CommentPageSize = 100
	}
	return o
}

// SyncError wraps a fatal per-video failure with the video it belongs to.
type SyncError struct {
	YTVideoID string
	Err       error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync video %s: %v", e.YTVideoID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Orchestrator wires the store, feed, classifier and notifier into the sync
// pipeline.
type Orchestrator struct {
	store      Store
	feed       FeedSource
	classifier Classifier
	notifier   Notifier
	metrics    *metrics.Metrics
	opts       Options
	log        *zap.Logger
}

// New creates an Orchestrator.
func New(store Store, feedSource FeedSource, cls Classifier, notifier Notifier, m *metrics.Metrics, opts Options, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		store:      store,
		feed:       feedSource,
		classifier: cls,
		notifier:   notifier,
		metrics:    m,
		opts:       opts.withDefaults(),
		log:        log,
	}
}

// SyncVideo runs the full pipeline for one video: fetch details, persist,
// resolve the sponsor, announce if newly seen, ingest comments and classify
// the unprocessed ones. Fetch and persistence failures are fatal; sponsor
// resolution, classification and notification failures degrade the result
// without failing it. Backfill runs suppress the live announcements.
func (o *Orchestrator) SyncVideo(ctx context.Context, ytVideoID string, isBackfill bool) error {
	log := o.log.With(zap.String("yt_video_id", ytVideoID))

	details, err := o.feed.VideoDetails(ctx, ytVideoID)
	if err != nil {
		return &SyncError{YTVideoID: ytVideoID, Err: fmt.Errorf("fetch video details: %w", err)}
	}

	video := &models.Video{
		YTVideoID:    details.VideoID,
		YTChannelID:  details.ChannelID,
		Title:        details.Title,
		Description:  details.Description,
		ThumbnailURL: details.ThumbnailURL,
		PublishedAt:  details.PublishedAt,
		ViewCount:    details.ViewCount,
		LikeCount:    details.LikeCount,
		CommentCount: details.CommentCount,
	}
	wasInserted, err := o.store.UpsertVideo(ctx, video)
	if err != nil {
		return &SyncError{YTVideoID: ytVideoID, Err: fmt.Errorf("upsert video: %w", err)}
	}

	channel, err := o.store.GetChannel(ctx, details.ChannelID)
	if err != nil {
		return &SyncError{YTVideoID: ytVideoID, Err: fmt.Errorf("load channel %s: %w", details.ChannelID, err)}
	}

	sponsorName := o.resolveSponsor(ctx, log, channel, video)

	if wasInserted && !isBackfill {
		o.announceLive(ctx, log, video, sponsorName)
	}

	if err := o.ingestComments(ctx, ytVideoID); err != nil {
		return &SyncError{YTVideoID: ytVideoID, Err: err}
	}

	o.classifyComments(ctx, log, video, sponsorName)

	log.Debug("video synced", zap.Bool("was_inserted", wasInserted), zap.Bool("backfill", isBackfill))
	return nil
}

// resolveSponsor returns the display name of the video's sponsor, resolving
// and attaching it first if no attachment exists yet. Every failure degrades
// to an empty name; a video with no attachment is retried on the next sync.
func (o *Orchestrator) resolveSponsor(ctx context.Context, log *zap.Logger, channel *models.Channel, video *models.Video) string {
	existing, err := o.store.GetSponsorForVideo(ctx, video.YTVideoID)
	if err == nil {
		return existing.Name
	}
	if !db.IsNotFound(err) {
		log.Warn("failed to look up video sponsor", zap.Error(err))
		return ""
	}

	result, err := o.classifier.ExtractSponsor(ctx, channel.FindSponsorPrompt, video.Description)
	if err != nil {
		log.Warn("sponsor extraction failed", zap.Error(err))
		return ""
	}

	sponsor, err := o.store.CreateSponsor(ctx, models.NewSponsor(channel.YTChannelID, result.SponsorKey, result.SponsorName))
	if err != nil {
		log.Warn("failed to create sponsor", zap.String("sponsor_key", result.SponsorKey), zap.Error(err))
		return ""
	}

	if err := o.store.AttachSponsorToVideo(ctx, sponsor.SponsorID, video.YTVideoID); err != nil {
		log.Warn("failed to attach sponsor to video", zap.String("sponsor_key", sponsor.SponsorKey), zap.Error(err))
		return ""
	}

	return sponsor.Name
}

// announceLive dispatches the two "video went live" notifications and records
// both outcomes.
func (o *Orchestrator) announceLive(ctx context.Context, log *zap.Logger, video *models.Video, sponsorName string) {
	outcome := o.notifier.AnnounceLive(ctx, video, sponsorName)
	o.recordOutcome(ctx, log, models.NewNotification(video.YTVideoID, models.NotificationDiscordVideoLive, outcome.Success, outcome.Message))

	outcome = o.notifier.CreateLiveTask(ctx, video, sponsorName)
	o.recordOutcome(ctx, log, models.NewNotification(video.YTVideoID, models.NotificationTodoistVideoLive, outcome.Success, outcome.Message))
}

// ingestComments fetches the video's top comments and persists them in one
// statement. Either failure is fatal for the sync.
func (o *Orchestrator) ingestComments(ctx context.Context, ytVideoID string) error {
	snapshots, err := o.feed.Comments(ctx, ytVideoID, o.opts.CommentPageSize)
	if err != nil {
		return fmt.Errorf("fetch comments: %w", err)
	}
	if len(snapshots) == 0 {
		return nil
	}

	comments := make([]*models.Comment, 0, len(snapshots))
	for _, s := range snapshots {
		comments = append(comments, &models.Comment{
			YTCommentID: s.CommentID,
			YTVideoID:   ytVideoID,
			Text:        s.Text,
			Author:      s.Author,
			PublishedAt: s.PublishedAt,
			LikeCount:   s.LikeCount,
			ReplyCount:  s.ReplyCount,
		})
	}

	if err := o.store.BulkUpsertComments(ctx, ytVideoID, comments); err != nil {
		return fmt.Errorf("persist comments: %w", err)
	}

	return nil
}

// classifyComments classifies every unprocessed comment of the video with
// bounded concurrency. A failed classification leaves the comment
// unprocessed for the next sync; a flagged result triggers a notification.
func (o *Orchestrator) classifyComments(ctx context.Context, log *zap.Logger, video *models.Video, sponsorName string) {
	comments, err := o.store.GetCommentsByVideo(ctx, video.YTVideoID)
	if err != nil {
		log.Warn("failed to load comments for classification", zap.Error(err))
		return
	}

	sem := make(chan struct{}, o.opts.CommentConcurrency)
	var wg sync.WaitGroup
	for _, comment := range comments {
		if comment.IsProcessed {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(comment *models.Comment) {
			defer wg.Done()
			defer func() { <-sem }()
			o.classifyComment(ctx, log, video, comment, sponsorName)
		}(comment)
	}
	wg.Wait()
}

func (o *Orchestrator) classifyComment(ctx context.Context, log *zap.Logger, video *models.Video, comment *models.Comment, sponsorName string) {
	result, err := o.classifier.ClassifyComment(ctx, comment.Text, sponsorName)
	if err != nil {
		o.metrics.ClassificationFailures.Inc()
		log.Warn("comment classification failed", zap.String("yt_comment_id", comment.YTCommentID), zap.Error(err))
		return
	}

	flags := models.CommentFlags{
		IsEditingMistake:  result.IsEditingMistake,
		IsSponsorMention:  result.IsSponsorMention,
		IsQuestion:        result.IsQuestion,
		IsPositiveComment: result.IsPositiveComment,
	}
	if err := o.store.PatchCommentFlags(ctx, comment.YTCommentID, flags); err != nil {
		log.Warn("failed to persist comment flags", zap.String("yt_comment_id", comment.YTCommentID), zap.Error(err))
		return
	}

	if !flags.NeedsAttention() {
		return
	}

	flagged := *comment
	flagged.IsEditingMistake = flags.IsEditingMistake
	flagged.IsSponsorMention = flags.IsSponsorMention
	flagged.IsQuestion = flags.IsQuestion
	flagged.IsPositiveComment = flags.IsPositiveComment
	flagged.IsProcessed = true

	outcome := o.notifier.AnnounceFlaggedComment(ctx, &flagged, video)
	o.recordOutcome(ctx, log, models.NewCommentNotification(video.YTVideoID, comment.YTCommentID, models.NotificationDiscordFlaggedComment, outcome.Success, outcome.Message))
}

// recordOutcome appends one notification audit row. An append failure is
// logged but never fails the sync.
func (o *Orchestrator) recordOutcome(ctx context.Context, log *zap.Logger, n *models.Notification) {
	o.metrics.NotificationOutcomes.WithLabelValues(string(n.Type), strconv.FormatBool(n.Success)).Inc()
	if !n.Success {
		log.Warn("notification dispatch failed", zap.String("type", string(n.Type)), zap.String("message", n.Message))
	}
	if err := o.store.AppendNotificationRecord(ctx, n); err != nil {
		log.Warn("failed to record notification outcome", zap.String("type", string(n.Type)), zap.Error(err))
	}
}
