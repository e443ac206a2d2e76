// Package repository provides pgx-backed persistence for the sync pipeline.
// Every creation path is keyed on the entity's natural key and every mutation
// is a full overwrite of the mutable fields, so all operations are safe to
// retry and to run concurrently.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/r8y/channel-sync-go/internal/db/dberr"
	"github.com/r8y/channel-sync-go/internal/db/models"
)

// ChannelRepository defines operations for managing channels.
type ChannelRepository interface {
	// CreateChannel registers a channel for tracking. Operator action.
	CreateChannel(ctx context.Context, channel *models.Channel) error

	// GetChannel retrieves a single channel by its YouTube id.
	GetChannel(ctx context.Context, ytChannelID string) (*models.Channel, error)

	// GetAllChannels retrieves every tracked channel.
	GetAllChannels(ctx context.Context) ([]*models.Channel, error)

	// UpdateSponsorPrompt replaces the channel's sponsor-finding prompt.
	UpdateSponsorPrompt(ctx context.Context, ytChannelID, prompt string) error
}

type channelRepository struct {
	pool *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository.
func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &channelRepository{pool: pool}
}

func (r *channelRepository) CreateChannel(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (yt_channel_id, name, find_sponsor_prompt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (yt_channel_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		channel.YTChannelID,
		channel.Name,
		channel.FindSponsorPrompt,
		channel.CreatedAt,
		channel.UpdatedAt,
	)
	if err != nil {
		return dberr.WrapError(err, "create channel")
	}

	return nil
}

func (r *channelRepository) GetChannel(ctx context.Context, ytChannelID string) (*models.Channel, error) {
	query := `
		SELECT yt_channel_id, name, find_sponsor_prompt, created_at, updated_at
		FROM channels
		WHERE yt_channel_id = $1
	`

	channel := &models.Channel{}
	err := r.pool.QueryRow(ctx, query, ytChannelID).Scan(
		&channel.YTChannelID,
		&channel.Name,
		&channel.FindSponsorPrompt,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.WrapError(err, "get channel")
	}

	return channel, nil
}

func (r *channelRepository) GetAllChannels(ctx context.Context) ([]*models.Channel, error) {
	query := `
		SELECT yt_channel_id, name, find_sponsor_prompt, created_at, updated_at
		FROM channels
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.WrapError(err, "get all channels")
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		channel := &models.Channel{}
		if err := rows.Scan(
			&channel.YTChannelID,
			&channel.Name,
			&channel.FindSponsorPrompt,
			&channel.CreatedAt,
			&channel.UpdatedAt,
		); err != nil {
			return nil, dberr.WrapError(err, "scan channel")
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.WrapError(err, "iterate channels")
	}

	return channels, nil
}

func (r *channelRepository) UpdateSponsorPrompt(ctx context.Context, ytChannelID, prompt string) error {
	query := `
		UPDATE channels
		SET find_sponsor_prompt = $2, updated_at = now()
		WHERE yt_channel_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, ytChannelID, prompt)
	if err != nil {
		return dberr.WrapError(err, "update sponsor prompt")
	}
	if tag.RowsAffected() == 0 {
		return dberr.WrapError(dberr.ErrNotFound, "update sponsor prompt")
	}

	return nil
}
