// Package models contains the persisted entities of the sync pipeline.
package models

import "time"

// Channel represents a YouTube channel tracked on behalf of the creator.
// Channels are created by an operator; only the sponsor-finding prompt is
// expected to change afterwards.
type Channel struct {
	YTChannelID       string    `db:"yt_channel_id" json:"yt_channel_id"`
	Name              string    `db:"name" json:"name"`
	FindSponsorPrompt string    `db:"find_sponsor_prompt" json:"find_sponsor_prompt"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// NewChannel creates a new Channel with the given information.
func NewChannel(ytChannelID, name, findSponsorPrompt string) *Channel {
	now := time.Now()
	return &Channel{
		YTChannelID:       ytChannelID,
		Name:              name,
		FindSponsorPrompt: findSponsorPrompt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
