// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Database   DatabaseConfig
	YouTube    YouTubeConfig
	OpenRouter OpenRouterConfig
	Discord    DiscordConfig
	Todoist    TodoistConfig
	Sweep      SweepConfig
	Ops        OpsConfig
	Logging    LoggingConfig
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// YouTubeConfig contains the Data API credentials and feed endpoint.
type YouTubeConfig struct {
	APIKey     string
	RSSBaseURL string
}

// OpenRouterConfig contains the LLM classifier configuration.
type OpenRouterConfig struct {
	BaseURL       string
	APIKey        string
	Model         string
	Timeout       time.Duration
	RetryAttempts int
	RetryInterval time.Duration
}

// DiscordConfig contains the chat notification sink configuration.
type DiscordConfig struct {
	BotToken  string
	ChannelID string
	RoleID    string
	BaseURL   string
}

// TodoistConfig contains the task tracker sink configuration.
type TodoistConfig struct {
	APIToken string
	BaseURL  string
}

// SweepConfig contains the sync pipeline cadence and fan-out bounds.
type SweepConfig struct {
	Interval           time.Duration
	ChannelConcurrency int
	VideoConcurrency   int
	CommentConcurrency int
	CommentPageSize    int
}

// OpsConfig contains the operational HTTP server configuration.
type OpsConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal only sees keys viper already knows about. The credentials
	// deliberately have no defaults, so they need explicit env bindings to be
	// reachable without a config file.
	for _, key := range []string{
		"youtube.apikey",
		"openrouter.apikey",
		"discord.bottoken",
		"discord.channelid",
		"discord.roleid",
		"todoist.apitoken",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every required external credential is present.
// A missing credential is fatal at startup, not a per-unit error.
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("youtube.apikey is required")
	}
	if c.OpenRouter.APIKey == "" {
		return fmt.Errorf("openrouter.apikey is required")
	}
	if c.Discord.BotToken == "" {
		return fmt.Errorf("discord.bottoken is required")
	}
	if c.Discord.ChannelID == "" {
		return fmt.Errorf("discord.channelid is required")
	}
	if c.Todoist.APIToken == "" {
		return fmt.Errorf("todoist.apitoken is required")
	}
	return nil
}

func setDefaults() {
	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "channel_sync")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 2)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// YouTube
	viper.SetDefault("youtube.rssbaseurl", "https://www.youtube.com/feeds/videos.xml")

	// OpenRouter
	viper.SetDefault("openrouter.baseurl", "https://openrouter.ai/api/v1")
	viper.SetDefault("openrouter.model", "openai/gpt-oss-120b")
	viper.SetDefault("openrouter.timeout", 60*time.Second)
	viper.SetDefault("openrouter.retryattempts", 3)
	viper.SetDefault("openrouter.retryinterval", 1*time.Minute)

	// Discord / Todoist
	viper.SetDefault("discord.baseurl", "https://discord.com/api/v10")
	viper.SetDefault("todoist.baseurl", "https://api.todoist.com/rest/v2")

	// Sweep
	viper.SetDefault("sweep.interval", 20*time.Minute)
	viper.SetDefault("sweep.channelconcurrency", 3)
	viper.SetDefault("sweep.videoconcurrency", 4)
	viper.SetDefault("sweep.commentconcurrency", 10)
	viper.SetDefault("sweep.commentpagesize", 100)

	// Ops server
	viper.SetDefault("ops.port", 8080)
	viper.SetDefault("ops.shutdowntimeout", 30*time.Second)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
