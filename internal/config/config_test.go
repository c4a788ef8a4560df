package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "@every 6h", cfg.KeyRateSchedule)
	assert.InDelta(t, 5.0, cfg.BankMargin, 1e-9)
	assert.False(t, cfg.MailEnabled())
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FINCALC_PORT", "9100")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("FRONTEND_ORIGIN", "https://calc.example.com")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port, "prefixed variable should win")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Contains(t, cfg.AllowedOrigins(), "https://calc.example.com")
}

func TestNewConfig_InvalidSchedule(t *testing.T) {
	t.Setenv("KEY_RATE_SCHEDULE", "every now and then")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestNewConfig_ScheduleIgnoredWhenFeedDisabled(t *testing.T) {
	t.Setenv("KEY_RATE_ENABLED", "false")
	t.Setenv("KEY_RATE_SCHEDULE", "every now and then")

	_, err := NewConfig()
	assert.NoError(t, err)
}

func TestNewConfig_SMTPRequiresSender(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")

	_, err := NewConfig()
	assert.Error(t, err)

	t.Setenv("SENDER_EMAIL", "plans@example.com")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.True(t, cfg.MailEnabled())
}

func TestNewConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"7070\"\nBANK_MARGIN: 3.5\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.InDelta(t, 3.5, cfg.BankMargin, 1e-9)
}
