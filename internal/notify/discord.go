package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/r8y/channel-sync-go/internal/db/models"
)

const defaultDiscordBaseURL = "https://discord.com/api/v10"

// DiscordClient posts messages to one channel through the Discord REST API.
type DiscordClient struct {
	baseURL    string
	botToken   string
	channelID  string
	roleID     string
	httpClient *http.Client
}

// DiscordConfig holds the Discord sink configuration.
type DiscordConfig struct {
	BaseURL   string // defaults to the public Discord API
	BotToken  string
	ChannelID string
	RoleID    string // optional role to mention in messages
	Timeout   time.Duration
}

// NewDiscordClient creates a Discord sink client.
func NewDiscordClient(cfg DiscordConfig) *DiscordClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDiscordBaseURL
	}
	return &DiscordClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		botToken:   cfg.BotToken,
		channelID:  cfg.ChannelID,
		roleID:     cfg.RoleID,
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

// SendVideoLive announces a newly published video.
func (c *DiscordClient) SendVideoLive(ctx context.Context, video *models.Video, sponsorName string) Outcome {
	if sponsorName == "" {
		sponsorName = "no sponsor"
	}
	message := fmt.Sprintf("%svideo just went live: *%s*\n\nvideo sponsor: **%s**\n\nvideo link: %s",
		c.roleMention(), video.Title, sponsorName, video.URL())

	if err := c.sendMessage(ctx, message); err != nil {
		return Outcome{Success: false, Message: fmt.Sprintf("Failed to send message to Discord: %v", err)}
	}
	return Outcome{Success: true, Message: "Message sent to Discord"}
}

// SendFlaggedComment surfaces a comment flagged by the classifier.
func (c *DiscordClient) SendFlaggedComment(ctx context.Context, comment *models.Comment, video *models.Video) Outcome {
	author := comment.Author
	if author == "" {
		author = "unknown"
	}
	message := fmt.Sprintf("%sflagged comment from *%s*\n\nleft at: %s\n\ncomment text: **%s**\n\nlike count: %d\n\ncomment link: <%s>",
		c.roleMention(), author, comment.PublishedAt.Format(time.RFC1123), comment.Text, comment.LikeCount, comment.URL())

	if err := c.sendMessage(ctx, message); err != nil {
		return Outcome{Success: false, Message: fmt.Sprintf("Failed to send flagged comment message to Discord: %v", err)}
	}
	return Outcome{Success: true, Message: "Flagged comment message sent to Discord"}
}

func (c *DiscordClient) roleMention() string {
	if c.roleID == "" {
		return ""
	}
	return fmt.Sprintf("<@&%s> ", c.roleID)
}

func (c *DiscordClient) sendMessage(ctx context.Context, content string) error {
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, c.channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord API returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
