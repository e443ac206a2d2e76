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

const defaultTodoistBaseURL = "https://api.todoist.com/rest/v2"

// TodoistClient files tasks through the Todoist REST API.
type TodoistClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// TodoistConfig holds the Todoist sink configuration.
type TodoistConfig struct {
	BaseURL  string // defaults to the public Todoist API
	APIToken string
	Timeout  time.Duration
}

// NewTodoistClient creates a Todoist sink client.
func NewTodoistClient(cfg TodoistConfig) *TodoistClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTodoistBaseURL
	}
	return &TodoistClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

type todoistTask struct {
	Content   string   `json:"content"`
	DueString string   `json:"due_string"`
	Labels    []string `json:"labels"`
}

// AddVideoLiveTask files a task for a newly published video, due today.
func (c *TodoistClient) AddVideoLiveTask(ctx context.Context, video *models.Video, sponsorName string) Outcome {
	if sponsorName == "" {
		sponsorName = "no one"
	}

	task := todoistTask{
		Content:   fmt.Sprintf("%s is live, sponsored by %s", video.URL(), sponsorName),
		DueString: "today",
		Labels:    []string{"youtube"},
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return Outcome{Success: false, Message: fmt.Sprintf("Failed to add video live task to Todoist: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks", bytes.NewReader(payload))
	if err != nil {
		return Outcome{Success: false, Message: fmt.Sprintf("Failed to add video live task to Todoist: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{Success: false, Message: fmt.Sprintf("Failed to add video live task to Todoist: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return Outcome{Success: false, Message: fmt.Sprintf("Failed to add video live task to Todoist: status %d: %s", resp.StatusCode, string(body))}
	}

	return Outcome{Success: true, Message: "Video live task added to Todoist"}
}
