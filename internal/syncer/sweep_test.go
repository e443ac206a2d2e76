package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r8y/channel-sync-go/internal/db/models"
	"github.com/r8y/channel-sync-go/internal/feed"
)

func TestSyncAllChannels(t *testing.T) {
	store := newFakeStore()
	feedSource := newFakeFeed()
	o := newTestOrchestrator(store, feedSource, &fakeClassifier{}, &fakeNotifier{})

	store.addChannel(models.NewChannel("UCa", "Channel A", "prompt"))
	store.addChannel(models.NewChannel("UCb", "Channel B", "prompt"))

	for _, id := range []string{"a1", "a2", "b1"} {
		channelID := "UCa"
		if id[0] == 'b' {
			channelID = "UCb"
		}
		feedSource.details[id] = &feed.VideoDetails{
			VideoID:     id,
			ChannelID:   channelID,
			Title:       "Video " + id,
			PublishedAt: time.Now(),
		}
	}
	feedSource.recent["UCa"] = []feed.VideoSnapshot{{VideoID: "a1"}, {VideoID: "a2"}}
	feedSource.recent["UCb"] = []feed.VideoSnapshot{{VideoID: "b1"}, {VideoID: "b2-gone"}}

	summary, err := o.SyncAllChannels(context.Background())
	require.NoError(t, err)

	// b2-gone has no details and fails; everything else syncs.
	assert.Equal(t, int64(3), summary.VideosSynced)
	assert.Equal(t, int64(1), summary.VideosFailed)
	assert.Len(t, store.videos, 3)
}

func TestSyncAllChannels_NoChannels(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store, newFakeFeed(), &fakeClassifier{}, &fakeNotifier{})

	summary, err := o.SyncAllChannels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.VideosSynced)
	assert.Equal(t, int64(0), summary.VideosFailed)
}

func TestSyncAllChannels_ChannelWithEmptyFeed(t *testing.T) {
	store := newFakeStore()
	feedSource := newFakeFeed()
	o := newTestOrchestrator(store, feedSource, &fakeClassifier{}, &fakeNotifier{})

	store.addChannel(models.NewChannel("UCempty", "Empty Channel", "prompt"))
	feedSource.recent["UCempty"] = []feed.VideoSnapshot{}

	summary, err := o.SyncAllChannels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.VideosSynced)
	assert.Equal(t, int64(0), summary.VideosFailed)
	assert.Empty(t, store.videos)
}

func TestSyncAllChannels_SkipsChannelOnFeedError(t *testing.T) {
	store := newFakeStore()
	feedSource := newFakeFeed()
	o := newTestOrchestrator(store, feedSource, &fakeClassifier{}, &fakeNotifier{})

	store.addChannel(models.NewChannel("UCa", "Channel A", "prompt"))
	store.addChannel(models.NewChannel("UCb", "Channel B", "prompt"))

	feedSource.recentErr["UCa"] = errors.New("feed unavailable")
	feedSource.details["b1"] = &feed.VideoDetails{VideoID: "b1", ChannelID: "UCb", Title: "B1", PublishedAt: time.Now()}
	feedSource.recent["UCb"] = []feed.VideoSnapshot{{VideoID: "b1"}}

	summary, err := o.SyncAllChannels(context.Background())
	require.NoError(t, err)

	// The broken channel contributes nothing, not failures.
	assert.Equal(t, int64(1), summary.VideosSynced)
	assert.Equal(t, int64(0), summary.VideosFailed)
}

func TestBackfillChannel(t *testing.T) {
	store := newFakeStore()
	feedSource := newFakeFeed()
	notifier := &fakeNotifier{}
	o := newTestOrchestrator(store, feedSource, &fakeClassifier{}, notifier)

	seedChannel(store)
	for _, id := range []string{"old1", "old2", "old3"} {
		seedVideo(feedSource, id)
	}
	feedSource.historical[testChannelID] = []string{"old1", "old2", "old3"}

	summary, err := o.BackfillChannel(context.Background(), testChannelID, 50)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.VideosSynced)
	assert.Equal(t, int64(0), summary.VideosFailed)
	assert.Len(t, store.videos, 3)

	// Backfill never announces.
	assert.Equal(t, 0, notifier.liveCount())
	assert.Equal(t, 0, notifier.taskCount())
}

func TestBackfillChannel_RespectsMaxVideos(t *testing.T) {
	store := newFakeStore()
	feedSource := newFakeFeed()
	o := newTestOrchestrator(store, feedSource, &fakeClassifier{}, &fakeNotifier{})

	seedChannel(store)
	for _, id := range []string{"old1", "old2", "old3"} {
		seedVideo(feedSource, id)
	}
	feedSource.historical[testChannelID] = []string{"old1", "old2", "old3"}

	summary, err := o.BackfillChannel(context.Background(), testChannelID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.VideosSynced)
	assert.Len(t, store.videos, 2)
}

func TestBackfillChannel_UnknownChannel(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store, newFakeFeed(), &fakeClassifier{}, &fakeNotifier{})

	_, err := o.BackfillChannel(context.Background(), "UCnope", 50)
	require.Error(t, err)
	assert.Empty(t, store.videos)
}

func TestBackfillChannel_CancelStopsScheduling(t *testing.T) {
	store := newFakeStore()
	feedSource := newFakeFeed()
	o := newTestOrchestratorOpts(store, feedSource, &fakeClassifier{}, &fakeNotifier{}, Options{VideoConcurrency: 1})

	seedChannel(store)
	for _, id := range []string{"old1", "old2", "old3"} {
		seedVideo(feedSource, id)
	}
	feedSource.historical[testChannelID] = []string{"old1", "old2", "old3"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feedSource.detailsHook = func(id string) {
		if id == "old1" {
			cancel()
		}
	}

	summary, err := o.BackfillChannel(ctx, testChannelID, 50)
	require.NoError(t, err)

	// The unit in flight when the cancel lands still completes.
	assert.NotNil(t, store.videos["old1"])
	// With one slot, old3's turn comes only after the cancel; it is never
	// scheduled. old2 races the cancel and may land either way.
	assert.Nil(t, store.videos["old3"])
	assert.GreaterOrEqual(t, summary.VideosSynced, int64(1))
	assert.LessOrEqual(t, summary.VideosSynced, int64(2))
	assert.Equal(t, int64(0), summary.VideosFailed)
}

func TestBackfillChannel_CountsFailures(t *testing.T) {
	store := newFakeStore()
	feedSource := newFakeFeed()
	o := newTestOrchestrator(store, feedSource, &fakeClassifier{}, &fakeNotifier{})

	seedChannel(store)
	seedVideo(feedSource, "old1")
	// old2 has no details; its sync fails but the run continues.
	feedSource.historical[testChannelID] = []string{"old1", "old2"}

	summary, err := o.BackfillChannel(context.Background(), testChannelID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.VideosSynced)
	assert.Equal(t, int64(1), summary.VideosFailed)
}
