package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015"
      xmlns:media="http://search.yahoo.com/mrss/"
      xmlns="http://www.w3.org/2005/Atom">
  <title>Test Channel</title>
  <entry>
    <id>yt:video:dQw4w9WgXcQ</id>
    <yt:videoId>dQw4w9WgXcQ</yt:videoId>
    <yt:channelId>UCtest123</yt:channelId>
    <title>First Video</title>
    <published>2025-06-01T12:00:00+00:00</published>
    <media:group>
      <media:title>First Video</media:title>
      <media:thumbnail url="https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" width="480" height="360"/>
      <media:description>Thanks to acme.example for sponsoring!</media:description>
      <media:community>
        <media:starRating count="5200" average="5.00" min="1" max="5"/>
        <media:statistics views="120000"/>
      </media:community>
    </media:group>
  </entry>
  <entry>
    <id>yt:video:abc123def45</id>
    <yt:videoId>abc123def45</yt:videoId>
    <yt:channelId>UCtest123</yt:channelId>
    <title>Second Video</title>
    <published>2025-05-28T09:30:00+00:00</published>
    <media:group>
      <media:title>Second Video</media:title>
      <media:thumbnail url="https://i.ytimg.com/vi/abc123def45/hqdefault.jpg" width="480" height="360"/>
      <media:description>No sponsor this time.</media:description>
      <media:community>
        <media:starRating count="800" average="5.00" min="1" max="5"/>
        <media:statistics views="9000"/>
      </media:community>
    </media:group>
  </entry>
</feed>`

func TestParseRSS(t *testing.T) {
	videos, err := parseRSS([]byte(sampleFeed))
	require.NoError(t, err)
	require.Len(t, videos, 2)

	first := videos[0]
	assert.Equal(t, "dQw4w9WgXcQ", first.VideoID)
	assert.Equal(t, "First Video", first.Title)
	assert.Equal(t, "Thanks to acme.example for sponsoring!", first.Description)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", first.ThumbnailURL)
	assert.Equal(t, int64(120000), first.ViewCount)
	assert.Equal(t, int64(5200), first.LikeCount)
	assert.Equal(t, int64(0), first.CommentCount)

	wantPublished := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, first.PublishedAt.Equal(wantPublished))

	assert.Equal(t, "abc123def45", videos[1].VideoID)
}

func TestParseRSS_SkipsIncompleteEntries(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <yt:videoId>good1234567</yt:videoId>
    <title>Complete Entry</title>
    <published>2025-06-01T12:00:00+00:00</published>
  </entry>
  <entry>
    <title>No video id</title>
    <published>2025-06-01T12:00:00+00:00</published>
  </entry>
  <entry>
    <yt:videoId>notitle1234</yt:videoId>
    <published>2025-06-01T12:00:00+00:00</published>
  </entry>
</feed>`

	videos, err := parseRSS([]byte(raw))
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "good1234567", videos[0].VideoID)
}

func TestParseRSS_EmptyFeed(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>Empty Channel</title></feed>`

	videos, err := parseRSS([]byte(raw))
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestParseRSS_Malformed(t *testing.T) {
	_, err := parseRSS([]byte("not xml at all"))
	require.Error(t, err)
}
