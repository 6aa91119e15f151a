package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_ENV = "dev"

	BACKEND_HTTP   = "http"
	BACKEND_OPENAI = "openai"
)

type Config struct {
	Env     string
	Predict PredictConfig
	OpenAI  OpenAIConfig
	Session SessionConfig
	Log     LogConfig
	UI      UIConfig
}

type PredictConfig struct {
	Backend string
	BaseURL string
	Timeout time.Duration
	OAuth   OAuthConfig
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// Enabled reports whether client-credentials auth should wrap the prediction client.
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.TokenURL != ""
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type SessionConfig struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type UIConfig struct {
	HealthInterval time.Duration
	MarkdownStyle  string
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Env: getEnv("APP_ENV", DEFAULT_ENV),
		Predict: PredictConfig{
			Backend: strings.ToLower(getEnv("CLASSIFIER_BACKEND", BACKEND_HTTP)),
			BaseURL: strings.TrimRight(getEnv("PREDICT_BASE_URL", "http://localhost:5000"), "/"),
			Timeout: getEnvDuration("PREDICT_TIMEOUT", 10*time.Second, &errs),
			OAuth: OAuthConfig{
				ClientID:     os.Getenv("PREDICT_OAUTH_CLIENT_ID"),
				ClientSecret: os.Getenv("PREDICT_OAUTH_CLIENT_SECRET"),
				TokenURL:     os.Getenv("PREDICT_OAUTH_TOKEN_URL"),
				Scopes:       splitList(os.Getenv("PREDICT_OAUTH_SCOPES")),
			},
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Session: SessionConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      getEnvBool("VALKEY_TLS", false, &errs),
			TTL:      getEnvDuration("SESSION_TTL", 10*time.Minute, &errs),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10, &errs),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3, &errs),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7, &errs),
		},
		UI: UIConfig{
			HealthInterval: getEnvDuration("HEALTH_INTERVAL", 15*time.Second, &errs),
			MarkdownStyle:  getEnv("MARKDOWN_STYLE", "auto"),
		},
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error

	switch c.Predict.Backend {
	case BACKEND_HTTP:
		u, err := url.Parse(c.Predict.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PREDICT_BASE_URL %q is not an absolute url", c.Predict.BaseURL))
		}
	case BACKEND_OPENAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("CLASSIFIER_BACKEND %q is not one of http, openai", c.Predict.Backend))
	}

	if c.Predict.Timeout <= 0 {
		errs = append(errs, errors.New("PREDICT_TIMEOUT must be positive"))
	}
	if c.UI.HealthInterval <= 0 {
		errs = append(errs, errors.New("HEALTH_INTERVAL must be positive"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Log.File != "" && (c.Log.MaxSizeMB <= 0 || c.Log.MaxBackups <= 0 || c.Log.MaxAgeDays <= 0) {
		errs = append(errs, fmt.Errorf("invalid log rotation: size=%d backups=%d age_days=%d",
			c.Log.MaxSizeMB, c.Log.MaxBackups, c.Log.MaxAgeDays))
	}
	return errs
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
