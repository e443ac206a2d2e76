package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the outbound sink and message kind of an
// audit record.
type NotificationType string

const (
	NotificationDiscordVideoLive      NotificationType = "discord_video_live"
	NotificationTodoistVideoLive      NotificationType = "todoist_video_live"
	NotificationDiscordFlaggedComment NotificationType = "discord_flagged_comment"
)

// Notification is an append-only audit row recording the outcome of one
// notification dispatch. Rows are never updated or deleted.
type Notification struct {
	NotificationID uuid.UUID        `db:"notification_id" json:"notification_id"`
	YTVideoID      string           `db:"yt_video_id" json:"yt_video_id"`
	Type           NotificationType `db:"type" json:"type"`
	Success        bool             `db:"success" json:"success"`
	Message        string           `db:"message" json:"message"`
	YTCommentID    *string          `db:"yt_comment_id" json:"yt_comment_id,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// NewNotification creates an audit record for a video-level notification.
func NewNotification(ytVideoID string, typ NotificationType, success bool, message string) *Notification {
	return &Notification{
		NotificationID: uuid.New(),
		YTVideoID:      ytVideoID,
		Type:           typ,
		Success:        success,
		Message:        message,
		CreatedAt:      time.Now(),
	}
}

// NewCommentNotification creates an audit record that also references the
// comment that triggered it.
func NewCommentNotification(ytVideoID, ytCommentID string, typ NotificationType, success bool, message string) *Notification {
	n := NewNotification(ytVideoID, typ, success, message)
	n.YTCommentID = &ytCommentID
	return n
}
