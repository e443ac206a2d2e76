package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/r8y/channel-sync-go/internal/db/dberr"
	"github.com/r8y/channel-sync-go/internal/db/models"
)

// NotificationRepository records notification dispatch outcomes.
// The table is append-only; nothing here updates or deletes.
type NotificationRepository interface {
	// AppendNotificationRecord appends one audit row.
	AppendNotificationRecord(ctx context.Context, n *models.Notification) error

	// GetNotificationsByVideo retrieves the audit rows for a video, oldest first.
	GetNotificationsByVideo(ctx context.Context, ytVideoID string) ([]*models.Notification, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) AppendNotificationRecord(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, yt_video_id, type, success, message, yt_comment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		n.NotificationID,
		n.YTVideoID,
		string(n.Type),
		n.Success,
		n.Message,
		n.YTCommentID,
		n.CreatedAt,
	)
	if err != nil {
		return dberr.WrapError(err, "append notification record")
	}

	return nil
}

func (r *notificationRepository) GetNotificationsByVideo(ctx context.Context, ytVideoID string) ([]*models.Notification, error) {
	query := `
		SELECT notification_id, yt_video_id, type, success, message, yt_comment_id, created_at
		FROM notifications
		WHERE yt_video_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ytVideoID)
	if err != nil {
		return nil, dberr.WrapError(err, "get notifications by video")
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var typ string
		if err := rows.Scan(
			&n.NotificationID,
			&n.YTVideoID,
			&typ,
			&n.Success,
			&n.Message,
			&n.YTCommentID,
			&n.CreatedAt,
		); err != nil {
			return nil, dberr.WrapError(err, "scan notification")
		}
		n.Type = models.NotificationType(typ)
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.WrapError(err, "iterate notifications")
	}

	return notifications, nil
}
