// Package notify implements the outbound notification sinks: Discord channel
// messages and Todoist tasks. Sinks never fail their caller; each dispatch
// returns an Outcome that the orchestrator records durably.
package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/r8y/channel-sync-go/internal/db/models"
)

// Outcome is the result of one notification dispatch, success or not.
type Outcome struct {
	Success bool
	Message string
}

// Notifier fans notifications out to the configured sinks.
type Notifier struct {
	discord *DiscordClient
	todoist *TodoistClient
}

// NewNotifier creates a Notifier over both sinks.
func NewNotifier(discord *DiscordClient, todoist *TodoistClient) *Notifier {
	return &Notifier{discord: discord, todoist: todoist}
}

// AnnounceLive broadcasts a "video went live" message to the chat channel.
func (n *Notifier) AnnounceLive(ctx context.Context, video *models.Video, sponsorName string) Outcome {
	return n.discord.SendVideoLive(ctx, video, sponsorName)
}

// CreateLiveTask files a "video went live" task in the task tracker.
func (n *Notifier) CreateLiveTask(ctx context.Context, video *models.Video, sponsorName string) Outcome {
	return n.todoist.AddVideoLiveTask(ctx, video, sponsorName)
}

// AnnounceFlaggedComment broadcasts a flagged comment to the chat channel.
func (n *Notifier) AnnounceFlaggedComment(ctx context.Context, comment *models.Comment, video *models.Video) Outcome {
	return n.discord.SendFlaggedComment(ctx, comment, video)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
