package feed

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/youtube/v3"
)

const historicalPageSize = 50 // playlistItems.list hard cap

// VideoDetails fetches the full metadata for one video. A video id that
// resolves to no item returns ErrVideoNotFound.
func (c *Client) VideoDetails(ctx context.Context, ytVideoID string) (*VideoDetails, error) {
	call := c.service.Videos.
		List([]string{"snippet", "statistics"}).
		Id(ytVideoID).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("fetch details for video %s: %w", ytVideoID, err)
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", ytVideoID, ErrVideoNotFound)
	}

	item := response.Items[0]
	if item.Snippet == nil || item.Snippet.ChannelId == "" {
		return nil, fmt.Errorf("video %s: %w", ytVideoID, ErrVideoNotFound)
	}

	details := &VideoDetails{
		VideoID:      item.Id,
		ChannelID:    item.Snippet.ChannelId,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
		PublishedAt:  parseTimestamp(item.Snippet.PublishedAt),
	}
	if item.Statistics != nil {
		details.ViewCount = int64(item.Statistics.ViewCount)
		details.LikeCount = int64(item.Statistics.LikeCount)
		details.CommentCount = int64(item.Statistics.CommentCount)
	}

	return details, nil
}

// Comments fetches up to maxResults top-level comment threads for a video,
// ordered by relevance, plain text.
func (c *Client) Comments(ctx context.Context, ytVideoID string, maxResults int) ([]CommentSnapshot, error) {
	if maxResults <= 0 || maxResults > 100 {
		maxResults = 100
	}

	call := c.service.CommentThreads.
		List([]string{"snippet"}).
		VideoId(ytVideoID).
		Order("relevance").
		MaxResults(int64(maxResults)).
		TextFormat("plainText").
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("fetch comments for video %s: %w", ytVideoID, err)
	}

	comments := make([]CommentSnapshot, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		top := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, CommentSnapshot{
			CommentID:   item.Id,
			Text:        top.TextDisplay,
			Author:      top.AuthorDisplayName,
			PublishedAt: parseTimestamp(top.PublishedAt),
			LikeCount:   top.LikeCount,
			ReplyCount:  item.Snippet.TotalReplyCount,
		})
	}

	return comments, nil
}

// HistoricalVideoIDs enumerates up to maxResults video ids from the
// channel's uploads playlist, paging in platform order until the cap or
// source exhaustion.
func (c *Client) HistoricalVideoIDs(ctx context.Context, ytChannelID string, maxResults int) ([]string, error) {
	channelCall := c.service.Channels.
		List([]string{"contentDetails"}).
		Id(ytChannelID).
		Context(ctx)

	channelResp, err := channelCall.Do()
	if err != nil {
		return nil, fmt.Errorf("fetch uploads playlist for channel %s: %w", ytChannelID, err)
	}
	if len(channelResp.Items) == 0 || channelResp.Items[0].ContentDetails == nil {
		return nil, fmt.Errorf("channel %s has no uploads playlist", ytChannelID)
	}
	uploadsPlaylistID := channelResp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploadsPlaylistID == "" {
		return nil, fmt.Errorf("channel %s has no uploads playlist", ytChannelID)
	}

	var videoIDs []string
	pageToken := ""
	for {
		call := c.service.PlaylistItems.
			List([]string{"contentDetails"}).
			PlaylistId(uploadsPlaylistID).
			MaxResults(historicalPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("fetch playlist page for %s: %w", uploadsPlaylistID, err)
		}

		for _, item := range response.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				continue
			}
			videoIDs = append(videoIDs, item.ContentDetails.VideoId)
			if len(videoIDs) >= maxResults {
				return videoIDs, nil
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			return videoIDs, nil
		}
	}
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.High != nil {
		return t.High.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}

// parseTimestamp parses RFC3339 timestamps from the Data API; a malformed
// value yields the zero time rather than failing the whole fetch.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
