package models

import (
	"time"

	"github.com/google/uuid"
)

// Sponsor represents a brand attributed to a channel's videos. Sponsors are
// deduplicated by (yt_channel_id, sponsor_key); the key is stable across
// display-name changes (typically a canonical link).
type Sponsor struct {
	SponsorID   uuid.UUID `db:"sponsor_id" json:"sponsor_id"`
	YTChannelID string    `db:"yt_channel_id" json:"yt_channel_id"`
	SponsorKey  string    `db:"sponsor_key" json:"sponsor_key"`
	Name        string    `db:"name" json:"name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// NewSponsor creates a new Sponsor with a generated id.
func NewSponsor(ytChannelID, sponsorKey, name string) *Sponsor {
	return &Sponsor{
		SponsorID:   uuid.New(),
		YTChannelID: ytChannelID,
		SponsorKey:  sponsorKey,
		Name:        name,
		CreatedAt:   time.Now(),
	}
}

// SponsorVideo attaches a sponsor to a video. A video carries at most one
// attachment; once created it is never updated.
type SponsorVideo struct {
	SponsorID uuid.UUID `db:"sponsor_id" json:"sponsor_id"`
	YTVideoID string    `db:"yt_video_id" json:"yt_video_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
