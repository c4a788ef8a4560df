package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const envPrefix = "FINCALC"

// Config holds application configuration
type Config struct {
	Port              string
	LogLevel          string
	FrontendOrigin    string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CBRURL            string
	KeyRateEnabled    bool
	KeyRateSchedule   string
	BankMargin        float64
	SMTPHost          string
	SMTPPort          string
	SMTPUsername      string
	SMTPPassword      string
	SenderEmail       string
}

var defaults = map[string]any{
	"PORT":                "8080",
	"LOG_LEVEL":           "info",
	"FRONTEND_ORIGIN":     "",
	"RATE_LIMIT_REQUESTS": 60,
	"RATE_LIMIT_WINDOW":   "1m",
	"CBR_URL":             "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx",
	"KEY_RATE_ENABLED":    true,
	"KEY_RATE_SCHEDULE":   "@every 6h",
	"BANK_MARGIN":         5.0,
	"SMTP_HOST":           "",
	"SMTP_PORT":           "587",
	"SMTP_USERNAME":       "",
	"SMTP_PASSWORD":       "",
	"SENDER_EMAIL":        "",
}

// NewConfig loads configuration from environment variables and an optional
// config file named by CONFIG_FILE. Each key may be set either as KEY or
// FINCALC_KEY; the prefixed form wins.
func NewConfig() (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
		if err := v.BindEnv(key, envPrefix+"_"+key, key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		FrontendOrigin:    v.GetString("FRONTEND_ORIGIN"),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
		CBRURL:            v.GetString("CBR_URL"),
		KeyRateEnabled:    v.GetBool("KEY_RATE_ENABLED"),
		KeyRateSchedule:   v.GetString("KEY_RATE_SCHEDULE"),
		BankMargin:        v.GetFloat64("BANK_MARGIN"),
		SMTPHost:          v.GetString("SMTP_HOST"),
		SMTPPort:          v.GetString("SMTP_PORT"),
		SMTPUsername:      v.GetString("SMTP_USERNAME"),
		SMTPPassword:      v.GetString("SMTP_PASSWORD"),
		SenderEmail:       v.GetString("SENDER_EMAIL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.KeyRateEnabled {
		if c.CBRURL == "" {
			return fmt.Errorf("CBR_URL is required when KEY_RATE_ENABLED is set")
		}
		if _, err := cron.ParseStandard(c.KeyRateSchedule); err != nil {
			return fmt.Errorf("invalid KEY_RATE_SCHEDULE %q: %w", c.KeyRateSchedule, err)
		}
	}
	if c.SMTPHost != "" && c.SenderEmail == "" {
		return fmt.Errorf("SENDER_EMAIL is required when SMTP_HOST is set")
	}
	return nil
}

// MailEnabled reports whether SMTP delivery is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// AllowedOrigins returns the CORS origins the API accepts.
func (c *Config) AllowedOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:3001",
		"http://localhost:3002",
	}
	if c.FrontendOrigin != "" {
		origins = append(origins, c.FrontendOrigin)
	}
	return origins
}
