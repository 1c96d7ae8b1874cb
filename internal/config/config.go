package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/ktantikarun/petrolprice-line-bot/internal/notify"
)

const defaultSourceURL = "https://www.moneybuffalo.in.th/rate/oil-price"

type Config struct {
	Port string

	// SourceURL is the published price page; RenderServiceURL is an optional
	// browserless-style content endpoint used to execute the page's scripts.
	SourceURL        string
	RenderServiceURL string
	FetchTimeout     time.Duration

	// PollInterval is integer seconds or a cron expression.
	PollInterval string

	ChannelAccessToken string
	ChannelSecret      string

	DBDriver    string
	DBDSN       string
	AutoMigrate bool

	Email notify.EmailConfig
}

// FromEnv builds a Config from environment variables, with sane defaults.
func FromEnv() Config {
	cfg := Config{
		Port:               getenv("PORT", "5000"),
		SourceURL:          getenv("SOURCE_URL", defaultSourceURL),
		RenderServiceURL:   os.Getenv("RENDER_SERVICE_URL"),
		FetchTimeout:       time.Duration(getenvInt("FETCH_TIMEOUT_SECONDS", 60)) * time.Second,
		PollInterval:       getenv("POLL_INTERVAL", "3600"),
		ChannelAccessToken: os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		ChannelSecret:      os.Getenv("LINE_CHANNEL_SECRET"),
		DBDriver:           getenv("PETROLBOT_DB_DRIVER", "memory"),
		DBDSN:              getenv("PETROLBOT_DB_DSN", "petrolbot.db"),
		AutoMigrate:        getenvBool("PETROLBOT_AUTO_MIGRATE"),
	}

	cfg.Email = notify.EmailConfig{
		Provider:    getenv("EMAIL_PROVIDER", "smtp"),
		Host:        os.Getenv("EMAIL_HOST"),
		Port:        getenvInt("EMAIL_PORT", 587),
		Username:    os.Getenv("EMAIL_USERNAME"),
		Password:    os.Getenv("EMAIL_PASSWORD"),
		FromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),
		FromName:    getenv("EMAIL_FROM_NAME", "Petrol Price Bot"),
		APIKey:      os.Getenv("EMAIL_API_KEY"),
		To:          os.Getenv("EMAIL_TO"),
		UseTLS:      getenvBool("EMAIL_STARTTLS"),
	}
	cfg.Email.Enabled = cfg.Email.To != ""

	return cfg
}

// Validate checks the settings that serve/worker cannot run without. The two
// channel credentials must always come from the environment, never from code.
func (c Config) Validate() error {
	if c.ChannelAccessToken == "" {
		return errors.New("LINE_CHANNEL_ACCESS_TOKEN is required")
	}
	if c.ChannelSecret == "" {
		return errors.New("LINE_CHANNEL_SECRET is required")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getenvBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes", "TRUE", "True", "YES":
		return true
	}
	return false
}
