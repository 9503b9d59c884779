// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binary can run locally with minimal setup.
// For required credentials (Twitch chat), use ValidateChatReady.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	// Twitch chat
	TwitchChannel     string
	TwitchBotUsername string
	TwitchOAuthToken  string
	CommandPrefix     string

	// Trivia provider
	TriviaAPIKey     string
	TriviaAPIBaseURL string
	TriviaAPITimeout time.Duration

	// Daily trivia broadcast
	DailyChannel  string
	DailyInterval time.Duration

	// Leaderboard
	LeaderboardFile string

	// HTTP sidecar
	HTTPAddr string
}

// Load reads environment variables and applies defaults. It doesn't fail if Twitch creds are
// missing; use ValidateChatReady() when you require the chat bot. The daily broadcast channel
// is optional: when empty, the scheduled trivia job skips every tick.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TwitchChannel = os.Getenv("TWITCH_CHANNEL")
	cfg.TwitchBotUsername = os.Getenv("TWITCH_BOT_USERNAME")
	cfg.TwitchOAuthToken = os.Getenv("TWITCH_OAUTH_TOKEN")
	cfg.CommandPrefix = os.Getenv("COMMAND_PREFIX")
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = "!"
	}

	cfg.TriviaAPIKey = os.Getenv("TRIVIA_API_KEY")
	cfg.TriviaAPIBaseURL = os.Getenv("TRIVIA_API_URL")
	if cfg.TriviaAPIBaseURL == "" {
		cfg.TriviaAPIBaseURL = "https://api.api-ninjas.com/v1/trivia"
	}
	cfg.TriviaAPITimeout = 10 * time.Second
	if v := os.Getenv("TRIVIA_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid TRIVIA_API_TIMEOUT: %q", v)
		}
		cfg.TriviaAPITimeout = d
	}

	// Daily trivia defaults to the main chat channel unless overridden.
	cfg.DailyChannel = os.Getenv("DAILY_TRIVIA_CHANNEL")
	if cfg.DailyChannel == "" {
		cfg.DailyChannel = cfg.TwitchChannel
	}
	cfg.DailyInterval = 120 * time.Minute
	if v := os.Getenv("DAILY_TRIVIA_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid DAILY_TRIVIA_INTERVAL: %q", v)
		}
		cfg.DailyInterval = d
	}

	cfg.LeaderboardFile = os.Getenv("LEADERBOARD_FILE")
	if cfg.LeaderboardFile == "" {
		cfg.LeaderboardFile = "leaderboard.json"
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}

// ValidateChatReady checks required fields for connecting the chat bot.
func (c *Config) ValidateChatReady() error {
	if c.TwitchChannel == "" || c.TwitchBotUsername == "" || c.TwitchOAuthToken == "" {
		return fmt.Errorf("missing twitch env: require TWITCH_CHANNEL, TWITCH_BOT_USERNAME, TWITCH_OAUTH_TOKEN")
	}
	return nil
}
