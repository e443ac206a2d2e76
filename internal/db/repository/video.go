package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/r8y/channel-sync-go/internal/db/dberr"
	"github.com/r8y/channel-sync-go/internal/db/models"
)

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// UpsertVideo inserts the video on first sight, otherwise refreshes only
	// the three counters. It reports whether this call performed the insert;
	// that transition happens at most once per video id.
	UpsertVideo(ctx context.Context, video *models.Video) (wasInserted bool, err error)

	// GetVideo retrieves a single video by its YouTube id.
	GetVideo(ctx context.Context, ytVideoID string) (*models.Video, error)

	// GetVideosByChannel retrieves videos for a channel, newest first.
	GetVideosByChannel(ctx context.Context, ytChannelID string, limit int) ([]*models.Video, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

func (r *videoRepository) UpsertVideo(ctx context.Context, video *models.Video) (bool, error) {
	// Title, description, thumbnail and publish time are first-writer-wins;
	// the conflict branch touches counters only. (xmax = 0) distinguishes a
	// fresh insert from a conflict update within the single statement, so
	// two concurrent calls can never both observe wasInserted=true.
	query := `
		INSERT INTO videos (yt_video_id, yt_channel_id, title, description, thumbnail_url,
		                    published_at, view_count, like_count, comment_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (yt_video_id) DO UPDATE
		SET view_count = EXCLUDED.view_count,
		    like_count = EXCLUDED.like_count,
		    comment_count = EXCLUDED.comment_count,
		    updated_at = now()
		RETURNING (xmax = 0) AS was_inserted
	`

	var wasInserted bool
	err := r.pool.QueryRow(ctx, query,
		video.YTVideoID,
		video.YTChannelID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.PublishedAt,
		video.ViewCount,
		video.LikeCount,
		video.CommentCount,
	).Scan(&wasInserted)
	if err != nil {
		return false, dberr.WrapError(err, "upsert video")
	}

	return wasInserted, nil
}

func (r *videoRepository) GetVideo(ctx context.Context, ytVideoID string) (*models.Video, error) {
	query := `
		SELECT yt_video_id, yt_channel_id, title, description, thumbnail_url,
		       published_at, view_count, like_count, comment_count, created_at, updated_at
		FROM videos
		WHERE yt_video_id = $1
	`

	video := &models.Video{}
	err := r.pool.QueryRow(ctx, query, ytVideoID).Scan(
		&video.YTVideoID,
		&video.YTChannelID,
		&video.Title,
		&video.Description,
		&video.ThumbnailURL,
		&video.PublishedAt,
		&video.ViewCount,
		&video.LikeCount,
		&video.CommentCount,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.WrapError(err, "get video")
	}

	return video, nil
}

func (r *videoRepository) GetVideosByChannel(ctx context.Context, ytChannelID string, limit int) ([]*models.Video, error) {
	query := `
		SELECT yt_video_id, yt_channel_id, title, description, thumbnail_url,
		       published_at, view_count, like_count, comment_count, created_at, updated_at
		FROM videos
		WHERE yt_channel_id = $1
		ORDER BY published_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ytChannelID, limit)
	if err != nil {
		return nil, dberr.WrapError(err, "get videos by channel")
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		video := &models.Video{}
		if err := rows.Scan(
			&video.YTVideoID,
			&video.YTChannelID,
			&video.Title,
			&video.Description,
			&video.ThumbnailURL,
			&video.PublishedAt,
			&video.ViewCount,
			&video.LikeCount,
			&video.CommentCount,
			&video.CreatedAt,
			&video.UpdatedAt,
		); err != nil {
			return nil, dberr.WrapError(err, "scan video")
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.WrapError(err, "iterate videos")
	}

	return videos, nil
}
