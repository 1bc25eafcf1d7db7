package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
	assert.Zero(t, cfg.LLM.Timeout)
	assert.Positive(t, cfg.Generation.Lesson.MaxTokens)

	// Defaults alone lack an API key for the default provider.
	assert.Error(t, cfg.Validate())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutorforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  allowed_origins: ["https://learn.example.com"]
llm:
  provider: openai
  timeout: 30s
  openai:
    api_key: from-file
    model: gpt-4o
generation:
  quiz:
    max_tokens: 1024
    temperature: 0.2
log:
  mode: prod
`), 0o644))

	t.Setenv("TUTORFORGE_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("TUTORFORGE_ADDR", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://learn.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1024, cfg.Generation.Quiz.MaxTokens)
	assert.Equal(t, 0.2, cfg.Generation.Quiz.Temperature)
	// Untouched sections keep their defaults.
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
	assert.Positive(t, cfg.Generation.Lesson.MaxTokens)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv_GeminiKeyDiscovery(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"prefixed wins", map[string]string{"TUTORFORGE_GEMINI_API_KEY": "a", "GOOGLE_AI_API_KEY": "b", "GEMINI_API_KEY": "c"}, "a"},
		{"google ai key", map[string]string{"GOOGLE_AI_API_KEY": "b", "GEMINI_API_KEY": "c"}, "b"},
		{"gemini key", map[string]string{"GEMINI_API_KEY": "c"}, "c"},
		{"none", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.applyEnv(envMap(tt.env)))
			assert.Equal(t, tt.want, cfg.LLM.Gemini.APIKey)
		})
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		"TUTORFORGE_LLM_PROVIDER":     "mock",
		"TUTORFORGE_LLM_TIMEOUT":      "5s",
		"TUTORFORGE_LLM_MAX_ATTEMPTS": "3",
		"TUTORFORGE_CORS_ORIGINS":     "https://a.example, https://b.example ,",
		"TUTORFORGE_DB":               "/tmp/tf.db",
		"TUTORFORGE_LOG_MODE":         "prod",
	}))
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/tf.db", cfg.Store.Path)
	assert.Equal(t, "prod", cfg.Log.Mode)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_BadValues(t *testing.T) {
	for _, env := range []map[string]string{
		{"TUTORFORGE_LLM_TIMEOUT": "soon"},
		{"TUTORFORGE_LLM_MAX_ATTEMPTS": "many"},
	} {
		assert.Error(t, Default().applyEnv(envMap(env)))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"mock provider", func(c *Config) { c.LLM.Provider = "mock" }, true},
		{"gemini with key", func(c *Config) { c.LLM.Gemini.APIKey = "k" }, true},
		{"missing key", func(c *Config) {}, false},
		{"empty addr", func(c *Config) { c.LLM.Provider = "mock"; c.Server.Addr = " " }, false},
		{"bad log mode", func(c *Config) { c.LLM.Provider = "mock"; c.Log.Mode = "loud" }, false},
		{"zero attempts", func(c *Config) { c.LLM.Provider = "mock"; c.LLM.Retry.MaxAttempts = 0 }, false},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "palm" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
