package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort      = 3000
	defaultEnv       = "development"
	defaultModel     = "gpt-4o-mini"
	defaultEndpoint  = "https://api.openai.com"
	defaultMaxTokens = 450

	defaultWindowSec   = 60
	defaultBurstLimit  = 30
	defaultSteadyLimit = 20
)

// AppConfig holds runtime startup configuration loaded from YAML, with
// secrets and operational toggles overridable from the environment.
type AppConfig struct {
	Port           int              `yaml:"port"`
	Env            string           `yaml:"env"` // "development" | "production"
	AllowedOrigins []string         `yaml:"allowed_origins"`
	Maintenance    MaintenanceConfig `yaml:"maintenance"`
	OpenAI         OpenAIConfig     `yaml:"openai"`
	S3             S3Config         `yaml:"s3"`
	Redis          RedisConfig      `yaml:"redis"`
	RateLimit      RateLimitConfig  `yaml:"rate_limit"`
}

type MaintenanceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Message string `yaml:"message"`
}

type OpenAIConfig struct {
	APIKey    string `yaml:"api_key"`
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type S3Config struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicBase      string `yaml:"public_base"`
}

// Configured reports whether every field needed to presign is present.
func (c S3Config) Configured() bool {
	return c.Region != "" && c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

// RateLimitConfig tunes the two stacked sliding-window limiters: Burst is the
// coarse per-IP ceiling across the whole API, Steady the tighter per-endpoint
// ceiling on the simplify routes. Both share one window.
type RateLimitConfig struct {
	WindowSec int `yaml:"window_sec"`
	Burst     int `yaml:"burst"`
	Steady    int `yaml:"steady"`
}

type rawAppConfig struct {
	Port           int               `yaml:"port"`
	Env            string            `yaml:"env"`
	NodeEnv        string            `yaml:"node_env"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	CORSOrigins    []string          `yaml:"cors_allowed_origins"`
	Maintenance    rawMaintenance    `yaml:"maintenance"`
	OpenAI         rawOpenAI         `yaml:"openai"`
	S3             rawS3             `yaml:"s3"`
	Redis          rawRedis          `yaml:"redis"`
	RedisURL       string            `yaml:"redis_url"`
	RateLimit      rawRateLimit      `yaml:"rate_limit"`
}

type rawMaintenance struct {
	Enabled *bool  `yaml:"enabled"`
	Mode    *bool  `yaml:"mode"`
	Message string `yaml:"message"`
}

type rawOpenAI struct {
	APIKey    string `yaml:"api_key"`
	Endpoint  string `yaml:"endpoint"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens *int   `yaml:"max_tokens"`
}

type rawS3 struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicBase      string `yaml:"public_base"`
}

type rawRedis struct {
	URL string `yaml:"url"`
}

type rawRateLimit struct {
	WindowSec *int `yaml:"window_sec"`
	Burst     *int `yaml:"burst"`
	Steady    *int `yaml:"steady"`
}

// Load reads configuration from path, falling back to pure defaults plus
// environment overrides when the default config file does not exist. Unknown
// YAML keys are rejected.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		raw := rawAppConfig{}
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		applyRawAppConfig(&cfg, raw)
	case os.IsNotExist(err) && path == DefaultConfigPath:
		// env-only deployment, keep defaults
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.RateLimit.WindowSec < 1 {
		return nil, fmt.Errorf("invalid rate_limit.window_sec %d, expected >= 1", cfg.RateLimit.WindowSec)
	}
	if cfg.RateLimit.Burst < 1 || cfg.RateLimit.Steady < 1 {
		return nil, fmt.Errorf("invalid rate limit ceilings burst=%d steady=%d, expected >= 1", cfg.RateLimit.Burst, cfg.RateLimit.Steady)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Maintenance: MaintenanceConfig{
			Message: "Service temporarily unavailable.",
		},
		OpenAI: OpenAIConfig{
			Endpoint:  defaultEndpoint,
			Model:     defaultModel,
			MaxTokens: defaultMaxTokens,
		},
		RateLimit: RateLimitConfig{
			WindowSec: defaultWindowSec,
			Burst:     defaultBurstLimit,
			Steady:    defaultSteadyLimit,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSOrigins)
	}

	if raw.Maintenance.Enabled != nil {
		cfg.Maintenance.Enabled = *raw.Maintenance.Enabled
	}
	if raw.Maintenance.Mode != nil {
		cfg.Maintenance.Enabled = *raw.Maintenance.Mode
	}
	if v := strings.TrimSpace(raw.Maintenance.Message); v != "" {
		cfg.Maintenance.Message = v
	}

	if v := strings.TrimSpace(raw.OpenAI.APIKey); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(raw.OpenAI.Endpoint); v != "" {
		cfg.OpenAI.Endpoint = v
	}
	if v := strings.TrimSpace(raw.OpenAI.BaseURL); v != "" {
		cfg.OpenAI.Endpoint = v
	}
	if v := strings.TrimSpace(raw.OpenAI.Model); v != "" {
		cfg.OpenAI.Model = v
	}
	if raw.OpenAI.MaxTokens != nil && *raw.OpenAI.MaxTokens > 0 {
		cfg.OpenAI.MaxTokens = *raw.OpenAI.MaxTokens
	}

	if v := strings.TrimSpace(raw.S3.Region); v != "" {
		cfg.S3.Region = v
	}
	if v := strings.TrimSpace(raw.S3.Bucket); v != "" {
		cfg.S3.Bucket = v
	}
	if v := strings.TrimSpace(raw.S3.AccessKeyID); v != "" {
		cfg.S3.AccessKeyID = v
	}
	if v := strings.TrimSpace(raw.S3.SecretAccessKey); v != "" {
		cfg.S3.SecretAccessKey = v
	}
	if v := strings.TrimSpace(raw.S3.PublicBase); v != "" {
		cfg.S3.PublicBase = strings.TrimRight(v, "/")
	}

	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.Redis.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.Redis.URL = v
	}

	if raw.RateLimit.WindowSec != nil {
		cfg.RateLimit.WindowSec = *raw.RateLimit.WindowSec
	}
	if raw.RateLimit.Burst != nil {
		cfg.RateLimit.Burst = *raw.RateLimit.Burst
	}
	if raw.RateLimit.Steady != nil {
		cfg.RateLimit.Steady = *raw.RateLimit.Steady
	}

	cfg.Env = normalizeEnv(cfg.Env)
}

// applyEnvOverrides lets deployments keep secrets and toggles out of the YAML
// file. Environment values always win over file values.
func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); v != "" {
		cfg.OpenAI.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("MAINTENANCE_MODE")); v != "" {
		cfg.Maintenance.Enabled = strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("MAINTENANCE_MESSAGE")); v != "" {
		cfg.Maintenance.Message = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.Redis.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("S3_REGION")); v != "" {
		cfg.S3.Region = v
	}
	if v := strings.TrimSpace(os.Getenv("S3_BUCKET")); v != "" {
		cfg.S3.Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")); v != "" {
		cfg.S3.AccessKeyID = v
	}
	if v := strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")); v != "" {
		cfg.S3.SecretAccessKey = v
	}
	if v := strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE")); v != "" {
		cfg.S3.PublicBase = strings.TrimRight(v, "/")
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}
