package models

import "time"

// Video represents a YouTube video that we're tracking. Title, description
// and publish time are first-writer-wins; only the three counters are
// refreshed on re-sight.
type Video struct {
	YTVideoID    string    `db:"yt_video_id" json:"yt_video_id"`
	YTChannelID  string    `db:"yt_channel_id" json:"yt_channel_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url"`
	PublishedAt  time.Time `db:"published_at" json:"published_at"`
	ViewCount    int64     `db:"view_count" json:"view_count"`
	LikeCount    int64     `db:"like_count" json:"like_count"`
	CommentCount int64     `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// URL returns the public watch URL for the video.
func (v *Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.YTVideoID
}
