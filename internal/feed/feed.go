// Package feed fetches channel and video data from YouTube: the lightweight
// RSS feed for recent videos and the Data API v3 for details, comments and
// historical enumeration.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrVideoNotFound is returned by VideoDetails when the id does not resolve.
var ErrVideoNotFound = errors.New("video not found")

const defaultRSSBaseURL = "https://www.youtube.com/feeds/videos.xml"

// VideoSnapshot is one entry of a channel's recent-video feed.
type VideoSnapshot struct {
	VideoID      string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// VideoDetails is the full per-video metadata from the Data API.
type VideoDetails struct {
	VideoID      string
	ChannelID    string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// CommentSnapshot is one top-level comment thread from the Data API.
type CommentSnapshot struct {
	CommentID   string
	Text        string
	Author      string
	PublishedAt time.Time
	LikeCount   int64
	ReplyCount  int64
}

// Client wraps the YouTube Data API and the RSS feed endpoint.
type Client struct {
	service    *youtube.Service
	httpClient *http.Client
	rssBaseURL string
}

// Config holds the feed client configuration.
type Config struct {
	APIKey     string
	RSSBaseURL string        // defaults to the public YouTube feed endpoint
	Timeout    time.Duration // RSS fetch timeout (default: 30 seconds)
}

// NewClient creates a feed client. The API key is required.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	if cfg.RSSBaseURL == "" {
		cfg.RSSBaseURL = defaultRSSBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service:    service,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		rssBaseURL: cfg.RSSBaseURL,
	}, nil
}
