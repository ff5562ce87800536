package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "GROQ_API_KEY", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"MCQGEN_GROQ_API_KEY", "MCQGEN_LLM_TIMEOUT", "MCQGEN_ADDR", "PORT",
		"MCQGEN_ALLOWED_ORIGINS", "MCQGEN_LOG_LEVEL", "MCQGEN_LOG_JSON",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mcqgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 40, cfg.Routing.HeavyThreshold)
	assert.Equal(t, "groq", cfg.Routing.Light[0].Provider)
	assert.Equal(t, 8192, cfg.Generation.MaxTokens)
	assert.Equal(t, 0.2, cfg.Audit.Temperature)
	assert.Equal(t, time.Minute, cfg.LLM.Timeout)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
llm:
  timeout: 20s
  groq:
    api_key: gsk-file
    model: llama-3.1-8b-instant
  retry:
    max_retries: 4
    initial_wait: 500ms
    max_wait: 5s
    multiplier: 1.5
routing:
  heavy_threshold: 25
  light:
    - provider: groq
  heavy:
    - provider: anthropic
      model: claude-sonnet
  audit:
    - provider: openrouter
      model: mistralai/mistral-7b-instruct
generation:
  max_tokens: 4000
  temperature: 0.7
server:
  addr: 127.0.0.1:9000
  allowed_origins: ["https://quizapo.example"]
log:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "gsk-file", cfg.LLM.Groq.APIKey)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Groq.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.Groq.BaseURL, "unset keys keep defaults")
	assert.Equal(t, 4, cfg.LLM.Retry.MaxRetries)
	assert.Equal(t, 25, cfg.Routing.HeavyThreshold)
	assert.Len(t, cfg.Routing.Light, 1)
	assert.Equal(t, "openrouter", cfg.Routing.Audit[0].Provider)
	assert.Equal(t, 4000, cfg.Generation.MaxTokens)
	assert.Equal(t, 4096, cfg.Audit.MaxTokens)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://quizapo.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCQGEN_GROQ_API_KEY", "gsk-env")
	t.Setenv("PORT", "3000")
	t.Setenv("MCQGEN_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MCQGEN_LOG_LEVEL", "WARN")
	path := writeFile(t, "llm:\n  groq:\n    api_key: gsk-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gsk-env", cfg.LLM.Groq.APIKey)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown provider",
			body:    "routing:\n  light:\n    - provider: cohere\n",
			wantErr: `unknown provider "cohere"`,
		},
		{
			name:    "empty heavy chain",
			body:    "routing:\n  heavy: []\n",
			wantErr: "Heavy",
		},
		{
			name:    "link without provider",
			body:    "routing:\n  light:\n    - model: gpt-4o\n",
			wantErr: "Provider",
		},
		{
			name:    "temperature out of range",
			body:    "generation:\n  temperature: 1.5\n",
			wantErr: "Temperature",
		},
		{
			name:    "bad log level",
			body:    "log:\n  level: verbose\n",
			wantErr: "Level",
		},
		{
			name:    "bad yaml",
			body:    "llm: [",
			wantErr: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeFile(t, tt.body))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should mention %q", err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
