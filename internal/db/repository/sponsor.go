package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/r8y/channel-sync-go/internal/db/dberr"
	"github.com/r8y/channel-sync-go/internal/db/models"
)

// SponsorRepository defines operations for managing sponsors and their
// video attachments.
type SponsorRepository interface {
	// CreateSponsor creates the sponsor for its (channel, key) pair, or
	// returns the existing row when another caller created it first. At most
	// one sponsor ever exists per pair, even under concurrent resolution.
	CreateSponsor(ctx context.Context, sponsor *models.Sponsor) (*models.Sponsor, error)

	// GetSponsorByKey retrieves a sponsor by its (channel, key) dedup pair.
	GetSponsorByKey(ctx context.Context, ytChannelID, sponsorKey string) (*models.Sponsor, error)

	// GetSponsorForVideo retrieves the sponsor attached to a video, if any.
	GetSponsorForVideo(ctx context.Context, ytVideoID string) (*models.Sponsor, error)

	// AttachSponsorToVideo attaches a sponsor to a video. A video carries at
	// most one attachment; re-attaching is a no-op.
	AttachSponsorToVideo(ctx context.Context, sponsorID uuid.UUID, ytVideoID string) error
}

type sponsorRepository struct {
	pool *pgxpool.Pool
}

// NewSponsorRepository creates a new SponsorRepository.
func NewSponsorRepository(pool *pgxpool.Pool) SponsorRepository {
	return &sponsorRepository{pool: pool}
}

func (r *sponsorRepository) CreateSponsor(ctx context.Context, sponsor *models.Sponsor) (*models.Sponsor, error) {
	// The no-op DO UPDATE makes the statement return the surviving row even
	// when a concurrent insert won the unique-key race.
	query := `
		INSERT INTO sponsors (sponsor_id, yt_channel_id, sponsor_key, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (yt_channel_id, sponsor_key) DO UPDATE
		SET name = sponsors.name
		RETURNING sponsor_id, yt_channel_id, sponsor_key, name, created_at
	`

	out := &models.Sponsor{}
	err := r.pool.QueryRow(ctx, query,
		sponsor.SponsorID,
		sponsor.YTChannelID,
		sponsor.SponsorKey,
		sponsor.Name,
		sponsor.CreatedAt,
	).Scan(
		&out.SponsorID,
		&out.YTChannelID,
		&out.SponsorKey,
		&out.Name,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, dberr.WrapError(err, "create sponsor")
	}

	return out, nil
}

func (r *sponsorRepository) GetSponsorByKey(ctx context.Context, ytChannelID, sponsorKey string) (*models.Sponsor, error) {
	query := `
		SELECT sponsor_id, yt_channel_id, sponsor_key, name, created_at
		FROM sponsors
		WHERE yt_channel_id = $1 AND sponsor_key = $2
	`

	sponsor := &models.Sponsor{}
	err := r.pool.QueryRow(ctx, query, ytChannelID, sponsorKey).Scan(
		&sponsor.SponsorID,
		&sponsor.YTChannelID,
		&sponsor.SponsorKey,
		&sponsor.Name,
		&sponsor.CreatedAt,
	)
	if err != nil {
		return nil, dberr.WrapError(err, "get sponsor by key")
	}

	return sponsor, nil
}

func (r *sponsorRepository) GetSponsorForVideo(ctx context.Context, ytVideoID string) (*models.Sponsor, error) {
	query := `
		SELECT s.sponsor_id, s.yt_channel_id, s.sponsor_key, s.name, s.created_at
		FROM sponsors s
		JOIN sponsor_videos sv ON sv.sponsor_id = s.sponsor_id
		WHERE sv.yt_video_id = $1
	`

	sponsor := &models.Sponsor{}
	err := r.pool.QueryRow(ctx, query, ytVideoID).Scan(
		&sponsor.SponsorID,
		&sponsor.YTChannelID,
		&sponsor.SponsorKey,
		&sponsor.Name,
		&sponsor.CreatedAt,
	)
	if err != nil {
		return nil, dberr.WrapError(err, "get sponsor for video")
	}

	return sponsor, nil
}

func (r *sponsorRepository) AttachSponsorToVideo(ctx context.Context, sponsorID uuid.UUID, ytVideoID string) error {
	query := `
		INSERT INTO sponsor_videos (sponsor_id, yt_video_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (yt_video_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, sponsorID, ytVideoID)
	if err != nil {
		return dberr.WrapError(err, "attach sponsor to video")
	}

	return nil
}
