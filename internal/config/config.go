package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Values the front end shipped with before they moved to configuration.
	defaultCampaignID         = "67e46027c13cec9e6b46b799"
	defaultUserID             = "67e3720c2b0e4aa7ffe7a190"
	defaultExternalCampaignID = "temp_campaign_id"
	defaultExternalUserID     = "temp_user_id"
)

type Config struct {
	Env                string
	ServerAddr         string
	FrontendOrigin     string
	LogLevel           string
	CRMBaseURL         string
	CRMTimeout         time.Duration
	DefaultCampaignID  string
	DefaultUserID      string
	ExternalCampaignID string
	ExternalUserID     string
	StrictPrograms     bool
	ProgramsRetryMax   int
	CacheTTLSeconds    int
	RedisURL           string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitExternal  int
	RateLimitWindowSec int
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// Load reads the environment, after merging a local .env file when present.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		ServerAddr:         getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigin:     getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CRMBaseURL:         strings.TrimSuffix(getEnv("CRM_BASE_URL", "http://localhost:4000"), "/"),
		CRMTimeout:         time.Duration(getEnvInt("CRM_TIMEOUT_SECONDS", 15)) * time.Second,
		DefaultCampaignID:  getEnv("DEFAULT_CAMPAIGN_ID", defaultCampaignID),
		DefaultUserID:      getEnv("DEFAULT_USER_ID", defaultUserID),
		ExternalCampaignID: getEnv("EXTERNAL_CAMPAIGN_ID", defaultExternalCampaignID),
		ExternalUserID:     getEnv("EXTERNAL_USER_ID", defaultExternalUserID),
		StrictPrograms:     getEnvBool("STRICT_PROGRAMS", false),
		ProgramsRetryMax:   getEnvInt("PROGRAMS_RETRY_MAX", 2),
		CacheTTLSeconds:    getEnvInt("CACHE_TTL_SECONDS", 300),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RateLimitExternal:  getEnvInt("RATE_LIMIT_EXTERNAL", 5),
		RateLimitWindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.CRMBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("CRM_BASE_URL must be an absolute url")
	}
	if c.CRMTimeout <= 0 {
		return errors.New("CRM_TIMEOUT_SECONDS must be positive")
	}
	if c.ProgramsRetryMax < 0 {
		c.ProgramsRetryMax = 0
	}
	return nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}
