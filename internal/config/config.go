// Package config loads the harvester configuration from environment
// variables, with a .env file as fallback for local development.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// ConsoleURL is the documentation console page to drive.
	ConsoleURL string
	// LoginEndpointID is the panel whose execution yields the token.
	LoginEndpointID string
	// LoginPayload is the request body for the login endpoint.
	LoginPayload map[string]interface{}

	// APIBaseURL and ProbePath locate the REST verification call.
	APIBaseURL string
	ProbePath  string
	// WSURL, when set, enables the WebSocket verification probe.
	WSURL string

	Headless        bool
	SessionTimeout  time.Duration
	MetricsAddr     string
	HarvestInterval time.Duration
}

func Load() (*Config, error) {
	// missing .env is fine, env vars may already be set
	_ = godotenv.Load()

	cfg := &Config{
		ConsoleURL:      strings.TrimSpace(os.Getenv("CONSOLE_URL")),
		LoginEndpointID: strings.TrimSpace(os.Getenv("CONSOLE_LOGIN_ENDPOINT")),
		APIBaseURL:      strings.TrimSpace(os.Getenv("API_BASE_URL")),
		ProbePath:       strings.TrimSpace(os.Getenv("API_PROBE_PATH")),
		WSURL:           strings.TrimSpace(os.Getenv("API_WS_URL")),
		MetricsAddr:     strings.TrimSpace(os.Getenv("METRICS_ADDR")),
		Headless:        true,
		SessionTimeout:  90 * time.Second,
		HarvestInterval: 15 * time.Minute,
	}

	if raw := strings.TrimSpace(os.Getenv("CONSOLE_LOGIN_PAYLOAD")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.LoginPayload); err != nil {
			return nil, fmt.Errorf("CONSOLE_LOGIN_PAYLOAD is not valid JSON: %w", err)
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CONSOLE_HEADLESS")); raw != "" {
		headless, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("CONSOLE_HEADLESS is not a boolean: %w", err)
		}
		cfg.Headless = headless
	}

	if raw := strings.TrimSpace(os.Getenv("CONSOLE_SESSION_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("CONSOLE_SESSION_TIMEOUT is not a duration: %w", err)
		}
		cfg.SessionTimeout = timeout
	}

	if raw := strings.TrimSpace(os.Getenv("HARVEST_INTERVAL")); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("HARVEST_INTERVAL is not a duration: %w", err)
		}
		cfg.HarvestInterval = interval
	}

	if cfg.ProbePath == "" {
		cfg.ProbePath = "/"
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":2112"
	}

	return cfg, nil
}
