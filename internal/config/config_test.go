package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CONSOLE_URL", "CONSOLE_LOGIN_ENDPOINT", "CONSOLE_LOGIN_PAYLOAD",
		"CONSOLE_HEADLESS", "CONSOLE_SESSION_TIMEOUT", "API_BASE_URL",
		"API_PROBE_PATH", "API_WS_URL", "METRICS_ADDR", "HARVEST_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Headless)
	assert.Equal(t, ":2112", cfg.MetricsAddr)
	assert.Equal(t, "/", cfg.ProbePath)
	assert.Equal(t, 90*time.Second, cfg.SessionTimeout)
	assert.Equal(t, 15*time.Minute, cfg.HarvestInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONSOLE_URL", "https://api.example.com/docs")
	t.Setenv("CONSOLE_LOGIN_ENDPOINT", "createUser")
	t.Setenv("CONSOLE_LOGIN_PAYLOAD", `{"name": "Divin Dass"}`)
	t.Setenv("CONSOLE_HEADLESS", "false")
	t.Setenv("HARVEST_INTERVAL", "5m")
	t.Setenv("METRICS_ADDR", ":9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/docs", cfg.ConsoleURL)
	assert.Equal(t, "createUser", cfg.LoginEndpointID)
	assert.Equal(t, map[string]interface{}{"name": "Divin Dass"}, cfg.LoginPayload)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 5*time.Minute, cfg.HarvestInterval)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"payload not json", "CONSOLE_LOGIN_PAYLOAD", "{broken"},
		{"headless not bool", "CONSOLE_HEADLESS", "maybe"},
		{"interval not duration", "HARVEST_INTERVAL", "soon"},
		{"timeout not duration", "CONSOLE_SESSION_TIMEOUT", "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
