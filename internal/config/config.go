package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// ErrMissingCredential reports configuration the service cannot start without.
var ErrMissingCredential = errors.New("missing required configuration")

const (
	ProviderGemini = "gemini"
	ProviderArk    = "ark"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config aggregates every setting of the service.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
	Log     LogConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"5000"`
	Addr string
}

// AIConfig describes the remote generative model.
type AIConfig struct {
	Provider string `env:"AI_PROVIDER" envDefault:"gemini"`

	GeminiAPIKey           string   `env:"GEMINI_API_KEY"`
	GeminiModel            string   `env:"GEMINI_MODEL"`
	GeminiModelPreferences []string `env:"GEMINI_MODEL_PREFERENCES" envSeparator:"," envDefault:"gemini-2.5-flash,gemini-2.0-flash,gemini-1.5-flash,gemini-1.0-pro,gemini-pro"`
	GeminiBaseURL          string   `env:"GEMINI_BASE_URL"`

	ArkAPIKey  string `env:"ARK_API_KEY"`
	ArkModel   string `env:"ARK_MODEL"`
	ArkBaseURL string `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	ArkRegion  string `env:"ARK_REGION" envDefault:"cn-beijing"`

	MaxOutputTokens int     `env:"AI_MAX_OUTPUT_TOKENS" envDefault:"0"`
	Temperature     float64 `env:"AI_TEMPERATURE" envDefault:"0"`
}

// SessionConfig describes the transcript store and the session cookie.
type SessionConfig struct {
	Backend      string        `env:"SESSION_BACKEND" envDefault:"memory"`
	Secret       string        `env:"SESSION_SECRET"`
	CookieName   string        `env:"SESSION_COOKIE" envDefault:"bible_chat_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"bible-chat:transcript:"`
}

// LogConfig describes the zap logger.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads the configuration from the process environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := listenAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Session.Backend = strings.ToLower(strings.TrimSpace(cfg.Session.Backend))

	if err := cfg.AI.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listenAddr accepts "5000", ":5000" or "127.0.0.1:5000".
func listenAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "5000"
	}
	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}
	if strings.Contains(port, ":") {
		return port, nil
	}
	return ":" + port, nil
}

func (c AIConfig) validate() error {
	switch c.Provider {
	case ProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY not found in environment variables", ErrMissingCredential)
		}
		if strings.TrimSpace(c.GeminiModel) == "" && len(c.GeminiModelPreferences) == 0 {
			return fmt.Errorf("%w: GEMINI_MODEL or GEMINI_MODEL_PREFERENCES must be set", ErrMissingCredential)
		}
	case ProviderArk:
		if strings.TrimSpace(c.ArkAPIKey) == "" || strings.TrimSpace(c.ArkModel) == "" {
			return fmt.Errorf("%w: ARK_API_KEY and ARK_MODEL are required for the ark provider", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("invalid AI_PROVIDER value: %q", c.Provider)
	}
	return nil
}

func (c SessionConfig) validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for the redis session backend", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("invalid SESSION_BACKEND value: %q", c.Backend)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("invalid SESSION_TTL value: %s", c.TTL)
	}
	return nil
}
