package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/r8y/channel-sync-go/internal/classifier"
	"github.com/r8y/channel-sync-go/internal/db"
	"github.com/r8y/channel-sync-go/internal/db/models"
	"github.com/r8y/channel-sync-go/internal/feed"
	"github.com/r8y/channel-sync-go/internal/metrics"
	"github.com/r8y/channel-sync-go/internal/notify"
)

// fakeStore is an in-memory Store with the same idempotency semantics as the
// Postgres repositories.
type fakeStore struct {
	mu            sync.Mutex
	channels      map[string]*models.Channel
	videos        map[string]*models.Video
	sponsors      map[string]*models.Sponsor // keyed by channelID + "|" + sponsorKey
	sponsorVideos map[string]uuid.UUID       // videoID -> sponsorID
	comments      map[string]*models.Comment
	notifications []*models.Notification

	upsertVideoErr  error
	bulkCommentsErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		channels:      make(map[string]*models.Channel),
		videos:        make(map[string]*models.Video),
		sponsors:      make(map[string]*models.Sponsor),
		sponsorVideos: make(map[string]uuid.UUID),
		comments:      make(map[string]*models.Comment),
	}
}

func (s *fakeStore) addChannel(c *models.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[c.YTChannelID] = c
}

func (s *fakeStore) GetChannel(_ context.Context, ytChannelID string) (*models.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.channels[ytChannelID]
	if !ok {
		return nil, fmt.Errorf("get channel: %w", db.ErrNotFound)
	}
	return c, nil
}

func (s *fakeStore) GetAllChannels(_ context.Context) ([]*models.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	channels := make([]*models.Channel, 0, len(s.channels))
	for _, c := range s.channels {
		channels = append(channels, c)
	}
	return channels, nil
}

func (s *fakeStore) UpsertVideo(_ context.Context, video *models.Video) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertVideoErr != nil {
		return false, s.upsertVideoErr
	}
	if existing, ok := s.videos[video.YTVideoID]; ok {
		existing.ViewCount = video.ViewCount
		existing.LikeCount = video.LikeCount
		existing.CommentCount = video.CommentCount
		return false, nil
	}
	v := *video
	s.videos[video.YTVideoID] = &v
	return true, nil
}

func (s *fakeStore) GetSponsorForVideo(_ context.Context, ytVideoID string) (*models.Sponsor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sponsorID, ok := s.sponsorVideos[ytVideoID]
	if !ok {
		return nil, fmt.Errorf("get sponsor for video: %w", db.ErrNotFound)
	}
	for _, sp := range s.sponsors {
		if sp.SponsorID == sponsorID {
			return sp, nil
		}
	}
	return nil, fmt.Errorf("get sponsor for video: %w", db.ErrNotFound)
}

func (s *fakeStore) CreateSponsor(_ context.Context, sponsor *models.Sponsor) (*models.Sponsor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sponsor.YTChannelID + "|" + sponsor.SponsorKey
	if existing, ok := s.sponsors[key]; ok {
		return existing, nil
	}
	sp := *sponsor
	s.sponsors[key] = &sp
	return &sp, nil
}

func (s *fakeStore) AttachSponsorToVideo(_ context.Context, sponsorID uuid.UUID, ytVideoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sponsorVideos[ytVideoID]; ok {
		return nil
	}
	s.sponsorVideos[ytVideoID] = sponsorID
	return nil
}

func (s *fakeStore) BulkUpsertComments(_ context.Context, ytVideoID string, comments []*models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bulkCommentsErr != nil {
		return s.bulkCommentsErr
	}
	for _, comment := range comments {
		if existing, ok := s.comments[comment.YTCommentID]; ok {
			existing.LikeCount = comment.LikeCount
			existing.ReplyCount = comment.ReplyCount
			continue
		}
		c := *comment
		c.YTVideoID = ytVideoID
		s.comments[comment.YTCommentID] = &c
	}
	return nil
}

func (s *fakeStore) GetCommentsByVideo(_ context.Context, ytVideoID string) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []*models.Comment
	for _, c := range s.comments {
		if c.YTVideoID == ytVideoID {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	return comments, nil
}

func (s *fakeStore) PatchCommentFlags(_ context.Context, ytCommentID string, flags models.CommentFlags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[ytCommentID]
	if !ok || comment.IsProcessed {
		return nil
	}
	comment.IsEditingMistake = flags.IsEditingMistake
	comment.IsSponsorMention = flags.IsSponsorMention
	comment.IsQuestion = flags.IsQuestion
	comment.IsPositiveComment = flags.IsPositiveComment
	comment.IsProcessed = true
	return nil
}

func (s *fakeStore) AppendNotificationRecord(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *fakeStore) notificationsOfType(typ models.NotificationType) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for _, n := range s.notifications {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func (s *fakeStore) comment(id string) *models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil
	}
	copied := *c
	return &copied
}

// fakeFeed serves canned platform data.
type fakeFeed struct {
	mu         sync.Mutex
	details    map[string]*feed.VideoDetails
	comments   map[string][]feed.CommentSnapshot
	recent     map[string][]feed.VideoSnapshot
	historical map[string][]string

	detailsErr  error
	commentsErr error
	recentErr   map[string]error

	// detailsHook runs at the start of every VideoDetails call.
	detailsHook func(ytVideoID string)
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		details:    make(map[string]*feed.VideoDetails),
		comments:   make(map[string][]feed.CommentSnapshot),
		recent:     make(map[string][]feed.VideoSnapshot),
		historical: make(map[string][]string),
		recentErr:  make(map[string]error),
	}
}

func (f *fakeFeed) RecentVideos(_ context.Context, ytChannelID string) ([]feed.VideoSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.recentErr[ytChannelID]; err != nil {
		return nil, err
	}
	return f.recent[ytChannelID], nil
}

func (f *fakeFeed) VideoDetails(_ context.Context, ytVideoID string) (*feed.VideoDetails, error) {
	if f.detailsHook != nil {
		f.detailsHook(ytVideoID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	d, ok := f.details[ytVideoID]
	if !ok {
		return nil, fmt.Errorf("video %s: %w", ytVideoID, feed.ErrVideoNotFound)
	}
	return d, nil
}

func (f *fakeFeed) Comments(_ context.Context, ytVideoID string, _ int) ([]feed.CommentSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.comments[ytVideoID], nil
}

func (f *fakeFeed) HistoricalVideoIDs(_ context.Context, ytChannelID string, maxResults int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.historical[ytChannelID]
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

// fakeClassifier answers with canned results and counts its calls.
type fakeClassifier struct {
	mu sync.Mutex

	sponsorResult *classifier.SponsorResult
	sponsorErr    error
	sponsorCalls  int

	classifyFn    func(comment string) (*classifier.CommentClassification, error)
	classifyCalls int
}

func (c *fakeClassifier) ExtractSponsor(_ context.Context, _, _ string) (*classifier.SponsorResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sponsorCalls++
	if c.sponsorErr != nil {
		return nil, c.sponsorErr
	}
	if c.sponsorResult == nil {
		return &classifier.SponsorResult{SponsorName: "Acme", SponsorKey: "acme.example"}, nil
	}
	return c.sponsorResult, nil
}

func (c *fakeClassifier) ClassifyComment(_ context.Context, comment, _ string) (*classifier.CommentClassification, error) {
	c.mu.Lock()
	c.classifyCalls++
	fn := c.classifyFn
	c.mu.Unlock()
	if fn != nil {
		return fn(comment)
	}
	return &classifier.CommentClassification{IsPositiveComment: true}, nil
}

func (c *fakeClassifier) sponsorCallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sponsorCalls
}

func (c *fakeClassifier) classifyCallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.classifyCalls
}

// fakeNotifier records dispatches and reports a configurable outcome.
type fakeNotifier struct {
	mu      sync.Mutex
	live    []string // video ids announced to chat
	tasks   []string // video ids filed as tasks
	flagged []string // comment ids surfaced
	fail    bool
}

func (n *fakeNotifier) outcome(ok string) notify.Outcome {
	if n.fail {
		return notify.Outcome{Success: false, Message: "sink unavailable"}
	}
	return notify.Outcome{Success: true, Message: ok}
}

func (n *fakeNotifier) AnnounceLive(_ context.Context, video *models.Video, _ string) notify.Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.live = append(n.live, video.YTVideoID)
	return n.outcome("Message sent to Discord")
}

func (n *fakeNotifier) CreateLiveTask(_ context.Context, video *models.Video, _ string) notify.Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tasks = append(n.tasks, video.YTVideoID)
	return n.outcome("Video live task added to Todoist")
}

func (n *fakeNotifier) AnnounceFlaggedComment(_ context.Context, comment *models.Comment, _ *models.Video) notify.Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.flagged = append(n.flagged, comment.YTCommentID)
	return n.outcome("Flagged comment message sent to Discord")
}

func (n *fakeNotifier) liveCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.live)
}

func (n *fakeNotifier) taskCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.tasks)
}

func (n *fakeNotifier) flaggedComments() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.flagged...)
}

func newTestOrchestrator(store *fakeStore, feedSource *fakeFeed, cls *fakeClassifier, notifier *fakeNotifier) *Orchestrator {
	return newTestOrchestratorOpts(store, feedSource, cls, notifier, Options{})
}

func newTestOrchestratorOpts(store *fakeStore, feedSource *fakeFeed, cls *fakeClassifier, notifier *fakeNotifier, opts Options) *Orchestrator {
	m := metrics.New(prometheus.NewRegistry())
	return New(store, feedSource, cls, notifier, m, opts, zap.NewNop())
}
