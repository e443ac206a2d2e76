package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/r8y/channel-sync-go/internal/db/models"
	"github.com/r8y/channel-sync-go/internal/db/repository"
)

// Store aggregates the per-entity repositories behind the single persistence
// handle the orchestrator consumes.
type Store struct {
	Channels      repository.ChannelRepository
	Videos        repository.VideoRepository
	Sponsors      repository.SponsorRepository
	Comments      repository.CommentRepository
	Notifications repository.NotificationRepository

	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Channels:      repository.NewChannelRepository(pool),
		Videos:        repository.NewVideoRepository(pool),
		Sponsors:      repository.NewSponsorRepository(pool),
		Comments:      repository.NewCommentRepository(pool),
		Notifications: repository.NewNotificationRepository(pool),
		pool:          pool,
	}
}

// Ping verifies database connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) GetChannel(ctx context.Context, ytChannelID string) (*models.Channel, error) {
	return s.Channels.GetChannel(ctx, ytChannelID)
}

func (s *Store) GetAllChannels(ctx context.Context) ([]*models.Channel, error) {
	return s.Channels.GetAllChannels(ctx)
}

func (s *Store) UpsertVideo(ctx context.Context, video *models.Video) (bool, error) {
	return s.Videos.UpsertVideo(ctx, video)
}

func (s *Store) GetVideo(ctx context.Context, ytVideoID string) (*models.Video, error) {
	return s.Videos.GetVideo(ctx, ytVideoID)
}

func (s *Store) GetSponsorByKey(ctx context.Context, ytChannelID, sponsorKey string) (*models.Sponsor, error) {
	return s.Sponsors.GetSponsorByKey(ctx, ytChannelID, sponsorKey)
}

func (s *Store) GetSponsorForVideo(ctx context.Context, ytVideoID string) (*models.Sponsor, error) {
	return s.Sponsors.GetSponsorForVideo(ctx, ytVideoID)
}

func (s *Store) CreateSponsor(ctx context.Context, sponsor *models.Sponsor) (*models.Sponsor, error) {
	return s.Sponsors.CreateSponsor(ctx, sponsor)
}

func (s *Store) AttachSponsorToVideo(ctx context.Context, sponsorID uuid.UUID, ytVideoID string) error {
	return s.Sponsors.AttachSponsorToVideo(ctx, sponsorID, ytVideoID)
}

func (s *Store) BulkUpsertComments(ctx context.Context, ytVideoID string, comments []*models.Comment) error {
	return s.Comments.BulkUpsertComments(ctx, ytVideoID, comments)
}

func (s *Store) GetComment(ctx context.Context, ytCommentID string) (*models.Comment, error) {
	return s.Comments.GetComment(ctx, ytCommentID)
}

func (s *Store) GetCommentsByVideo(ctx context.Context, ytVideoID string) ([]*models.Comment, error) {
	return s.Comments.GetCommentsByVideo(ctx, ytVideoID)
}

func (s *Store) PatchCommentFlags(ctx context.Context, ytCommentID string, flags models.CommentFlags) error {
	return s.Comments.PatchCommentFlags(ctx, ytCommentID, flags)
}

func (s *Store) AppendNotificationRecord(ctx context.Context, n *models.Notification) error {
	return s.Notifications.AppendNotificationRecord(ctx, n)
}
