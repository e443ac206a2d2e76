// Package classifier is the LLM client for the two black-box operations of
// the pipeline: sponsor extraction from a video description and multi-label
// classification of a viewer comment. Both carry an internal retry policy;
// callers see only the final outcome.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/r8y/channel-sync-go/internal/retry"
)

// Client is a client for an OpenRouter-compatible chat-completions server.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	retry      retry.Policy
}

// Config holds the configuration for the classifier client.
type Config struct {
	BaseURL string        // e.g., "https://openrouter.ai/api/v1"
	APIKey  string
	Model   string        // e.g., "openai/gpt-oss-120b"
	Timeout time.Duration // Request timeout (default: 60 seconds)
	Retry   retry.Policy  // Zero value falls back to retry.DefaultPolicy
}

// NewClient creates a new classifier client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retry:      cfg.Retry,
	}
}

// SponsorResult is the sponsor extracted from a video description. The key
// identifies the sponsor independently of its display name.
type SponsorResult struct {
	SponsorName string `json:"sponsorName"`
	SponsorKey  string `json:"sponsorKey"`
}

// CommentClassification is the multi-label result for one comment.
type CommentClassification struct {
	IsEditingMistake  bool `json:"isEditingMistake"`
	IsSponsorMention  bool `json:"isSponsorMention"`
	IsQuestion        bool `json:"isQuestion"`
	IsPositiveComment bool `json:"isPositiveComment"`
}

// ExtractSponsor locates the sponsor in a video description, guided by the
// channel's sponsor-finding prompt.
func (c *Client) ExtractSponsor(ctx context.Context, sponsorPrompt, videoDescription string) (*SponsorResult, error) {
	prompt := buildSponsorPrompt(sponsorPrompt, strings.ToLower(videoDescription))

	var result SponsorResult
	err := c.retry.Do(ctx, "extract sponsor", func(ctx context.Context) error {
		return c.generate(ctx, prompt, &result)
	})
	if err != nil {
		return nil, err
	}
	if result.SponsorKey == "" {
		return nil, fmt.Errorf("extract sponsor: empty sponsor key in response")
	}

	return &result, nil
}

// ClassifyComment classifies one comment against the four flags.
func (c *Client) ClassifyComment(ctx context.Context, comment, videoSponsor string) (*CommentClassification, error) {
	prompt := buildClassifyPrompt(comment, videoSponsor)

	var result CommentClassification
	err := c.retry.Do(ctx, "classify comment", func(ctx context.Context) error {
		return c.generate(ctx, prompt, &result)
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// chatRequest represents a request to the /chat/completions endpoint.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

// chatResponse represents a response from the /chat/completions endpoint.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generate sends one prompt and unmarshals the model's JSON answer into out.
func (c *Client) generate(ctx context.Context, prompt string, out interface{}) error {
	reqPayload := chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: &formatSpec{Type: "json_object"},
	}

	reqBody, err := json.Marshal(reqPayload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("llm API returned status %d: %s", resp.StatusCode, string(body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return fmt.Errorf("parse chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return fmt.Errorf("chat response has no choices")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("parse LLM JSON response: %w (raw: %s)", err, content)
	}

	return nil
}

func buildSponsorPrompt(sponsorPrompt, videoDescription string) string {
	return fmt.Sprintf(`Your job is to parse this youtube video's description to find the sponsor, and a key to identify the sponsor in the db. The following will tell you how to get each of those for this channel:

%s

The video description is:
%s

Return your response as JSON in this exact format:
{"sponsorName": "BrandName", "sponsorKey": "stable-key"}

Only return the JSON, no additional text or explanation.`, sponsorPrompt, videoDescription)
}

func buildClassifyPrompt(comment, videoSponsor string) string {
	if videoSponsor == "" {
		videoSponsor = "No sponsor"
	}
	return fmt.Sprintf(`Your job is to classify this youtube video's comment. You need to return a boolean true/false for each of the following criteria:

- The comment is flagging an editing mistake or a packaging mistake (typo in title/description/thumbnail, missing link in description, etc.)
- The comment mentions the video's sponsor (or the channel's sponsors in general)
- The comment is a question
- The comment is a positive comment (the general sentiment of the comment is positive; this should be true unless the comment is a direct complaint/critique, if it's neutral it should be true)

The video sponsor is:
%s

The comment is:
%s

Return your response as JSON in this exact format:
{"isEditingMistake": false, "isSponsorMention": false, "isQuestion": false, "isPositiveComment": true}

Only return the JSON, no additional text or explanation.`, videoSponsor, comment)
}
