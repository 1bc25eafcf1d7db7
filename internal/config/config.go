// Package config assembles the application configuration from defaults, an
// optional YAML file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/tutorforge/internal/contentgen"
	"github.com/abhisek/tutorforge/internal/llm"
)

type Config struct {
	Server     ServerConfig      `yaml:"server"`
	LLM        llm.Config        `yaml:"llm"`
	Generation contentgen.Config `yaml:"generation"`
	Store      StoreConfig       `yaml:"store"`
	Log        LogConfig         `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes caps the size of a request body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// StoreConfig configures persistence of results and LLM events.
type StoreConfig struct {
	// Path is the SQLite database file. Empty uses the XDG data directory.
	Path string `yaml:"path"`

	// Disabled turns persistence off entirely.
	Disabled bool `yaml:"disabled"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // dev or prod
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		LLM:        llm.DefaultConfig(),
		Generation: contentgen.DefaultConfig(),
		Log:        LogConfig{Mode: "dev"},
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("TUTORFORGE_ADDR", &c.Server.Addr)
	if v, ok := lookup("TUTORFORGE_CORS_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	str("TUTORFORGE_LOG_MODE", &c.Log.Mode)
	str("TUTORFORGE_DB", &c.Store.Path)

	str("TUTORFORGE_LLM_PROVIDER", &c.LLM.Provider)
	str("TUTORFORGE_GEMINI_API_KEY", &c.LLM.Gemini.APIKey)
	str("TUTORFORGE_GEMINI_MODEL", &c.LLM.Gemini.Model)
	str("TUTORFORGE_GEMINI_BASE_URL", &c.LLM.Gemini.BaseURL)
	str("TUTORFORGE_OPENAI_API_KEY", &c.LLM.OpenAI.APIKey)
	str("TUTORFORGE_OPENAI_MODEL", &c.LLM.OpenAI.Model)
	str("TUTORFORGE_OPENAI_BASE_URL", &c.LLM.OpenAI.BaseURL)
	str("TUTORFORGE_ANTHROPIC_API_KEY", &c.LLM.Anthropic.APIKey)
	str("TUTORFORGE_ANTHROPIC_MODEL", &c.LLM.Anthropic.Model)
	str("TUTORFORGE_OPENROUTER_API_KEY", &c.LLM.OpenRouter.APIKey)
	str("TUTORFORGE_OPENROUTER_MODEL", &c.LLM.OpenRouter.Model)
	str("TUTORFORGE_OPENROUTER_SITE_URL", &c.LLM.OpenRouter.SiteURL)
	str("TUTORFORGE_OPENROUTER_APP_NAME", &c.LLM.OpenRouter.AppName)

	// Well-known key variables fill in whatever the prefixed ones left empty.
	if c.LLM.Gemini.APIKey == "" {
		str("GOOGLE_AI_API_KEY", &c.LLM.Gemini.APIKey)
	}
	if c.LLM.Gemini.APIKey == "" {
		str("GEMINI_API_KEY", &c.LLM.Gemini.APIKey)
	}
	if c.LLM.OpenAI.APIKey == "" {
		str("OPENAI_API_KEY", &c.LLM.OpenAI.APIKey)
	}
	if c.LLM.Anthropic.APIKey == "" {
		str("ANTHROPIC_API_KEY", &c.LLM.Anthropic.APIKey)
	}
	if c.LLM.OpenRouter.APIKey == "" {
		str("OPENROUTER_API_KEY", &c.LLM.OpenRouter.APIKey)
	}

	if v, ok := lookup("TUTORFORGE_LLM_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TUTORFORGE_LLM_TIMEOUT: %w", err)
		}
		c.LLM.Timeout = d
	}
	if v, ok := lookup("TUTORFORGE_LLM_MAX_ATTEMPTS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TUTORFORGE_LLM_MAX_ATTEMPTS: %w", err)
		}
		c.LLM.Retry.MaxAttempts = n
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first configuration problem. A missing API key for
// the selected provider is fatal at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server address is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server max body bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	switch strings.ToLower(c.Log.Mode) {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("unknown log mode %q (want dev or prod)", c.Log.Mode)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}
