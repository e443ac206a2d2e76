package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// rssFeed models the YouTube channel Atom feed. YouTube uses Atom 1.0 with
// custom yt: and media: namespaces.
type rssFeed struct {
	XMLName xml.Name   `xml:"http://www.w3.org/2005/Atom feed"`
	Entries []rssEntry `xml:"entry"`
}

type rssEntry struct {
	VideoID   string        `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Title     string        `xml:"title"`
	Published time.Time     `xml:"published"`
	Media     rssMediaGroup `xml:"http://search.yahoo.com/mrss/ group"`
}

type rssMediaGroup struct {
	Description string `xml:"http://search.yahoo.com/mrss/ description"`
	Thumbnail   struct {
		URL string `xml:"url,attr"`
	} `xml:"http://search.yahoo.com/mrss/ thumbnail"`
	Community struct {
		StarRating struct {
			Count int64 `xml:"count,attr"`
		} `xml:"http://search.yahoo.com/mrss/ starRating"`
		Statistics struct {
			Views int64 `xml:"views,attr"`
		} `xml:"http://search.yahoo.com/mrss/ statistics"`
	} `xml:"http://search.yahoo.com/mrss/ community"`
}

// RecentVideos fetches the channel's RSS feed and returns its entries. The
// feed carries roughly the 15 most recent uploads; no pagination exists.
// Comment counts are not present in the feed and are reported as zero.
func (c *Client) RecentVideos(ctx context.Context, ytChannelID string) ([]VideoSnapshot, error) {
	feedURL := fmt.Sprintf("%s?channel_id=%s", c.rssBaseURL, url.QueryEscape(ytChannelID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create rss request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rss for channel %s: %w", ytChannelID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rss for channel %s: status %d", ytChannelID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rss body: %w", err)
	}

	return parseRSS(body)
}

// parseRSS extracts the video entries from a channel feed document.
// Entries missing an id, title or publish time are skipped.
func parseRSS(raw []byte) ([]VideoSnapshot, error) {
	var feed rssFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, fmt.Errorf("unmarshal rss feed: %w", err)
	}

	videos := make([]VideoSnapshot, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if entry.VideoID == "" || entry.Title == "" || entry.Published.IsZero() {
			continue
		}
		videos = append(videos, VideoSnapshot{
			VideoID:      entry.VideoID,
			Title:        entry.Title,
			Description:  entry.Media.Description,
			ThumbnailURL: entry.Media.Thumbnail.URL,
			PublishedAt:  entry.Published,
			ViewCount:    entry.Media.Community.Statistics.Views,
			LikeCount:    entry.Media.Community.StarRating.Count,
			CommentCount: 0,
		})
	}

	return videos, nil
}
