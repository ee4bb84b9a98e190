package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAppName          = "LoL Stats Service"
	defaultAppEnv           = "development"
	defaultPort             = "8000"
	defaultLogLevel         = "info"
	defaultShutdownDelay    = 10 * time.Second
	defaultPhonePrefix      = "+7"
	defaultPhoneLength      = 12
	defaultMinUsernameLen   = 3
	defaultCaptchaAnswer    = "42"
	defaultRejectionProb    = 0.3
	defaultMaxFailed        = 5
	defaultSubmitsPerMinute = 5
	defaultDedupeTTL        = 15 * time.Minute
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration

	// Registration rule knobs.
	MinUsernameLen       int
	PhonePrefix          string
	PhoneLength          int
	CaptchaAnswer        string
	RejectionProbability float64
	BcryptCost           int

	// MaxFailedAttempts is configurable but never read back by the login
	// flow; lockout is a known gap.
	MaxFailedAttempts int

	SubmitsPerMinute int
	DedupeTTL        time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:              getEnv("APP_NAME", defaultAppName),
		AppEnv:               getEnv("APP_ENV", defaultAppEnv),
		Port:                 getEnv("PORT", defaultPort),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		ShutdownPeriod:       defaultShutdownDelay,
		MinUsernameLen:       defaultMinUsernameLen,
		PhonePrefix:          getEnv("PHONE_PREFIX", defaultPhonePrefix),
		PhoneLength:          defaultPhoneLength,
		CaptchaAnswer:        getEnv("CAPTCHA_ANSWER", defaultCaptchaAnswer),
		RejectionProbability: defaultRejectionProb,
		BcryptCost:           bcrypt.DefaultCost,
		MaxFailedAttempts:    defaultMaxFailed,
		SubmitsPerMinute:     defaultSubmitsPerMinute,
		DedupeTTL:            defaultDedupeTTL,
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv("MIN_USERNAME_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid MIN_USERNAME_LENGTH: %q", v)
		}
		cfg.MinUsernameLen = n
	}

	if v := os.Getenv("PHONE_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < len(cfg.PhonePrefix) {
			return Config{}, fmt.Errorf("invalid PHONE_LENGTH: %q", v)
		}
		cfg.PhoneLength = n
	}

	if v := os.Getenv("RANDOM_ERROR_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 || p > 1 {
			return Config{}, fmt.Errorf("invalid RANDOM_ERROR_PROBABILITY: %q", v)
		}
		cfg.RejectionProbability = p
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			return Config{}, fmt.Errorf("invalid BCRYPT_COST: %q", v)
		}
		cfg.BcryptCost = n
	}

	if v := os.Getenv("MAX_FAILED_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid MAX_FAILED_ATTEMPTS: %q", v)
		}
		cfg.MaxFailedAttempts = n
	}

	if v := os.Getenv("SUBMITS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid SUBMITS_PER_MINUTE: %q", v)
		}
		cfg.SubmitsPerMinute = n
	}

	if v := os.Getenv("DEDUPE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEDUPE_TTL: %w", err)
		}
		cfg.DedupeTTL = d
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
