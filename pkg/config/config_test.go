package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spielbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
bot:
  seed: 42
  max_attempts: 5
  retry_delay: 250ms
  call_timeout: 30s
llm:
  transport: ollama
  model: llama3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Bot.Seed)
	assert.Equal(t, 5, cfg.Bot.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Bot.RetryDelay))
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Bot.CallTimeout))
	assert.Equal(t, TransportOllama, cfg.LLM.Transport)
	assert.Equal(t, "llama3", cfg.LLM.Model)

	// Untouched sections keep their defaults.
	assert.Equal(t, "http://localhost:11434", cfg.LLM.OllamaHost)
	assert.Equal(t, "episodes.db", cfg.Persistence.Path)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"zero attempts", "bot:\n  max_attempts: 0\n", "max_attempts"},
		{"unknown transport", "llm:\n  transport: telepathy\n", "transport"},
		{"bad duration", "bot:\n  retry_delay: soon\n", "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestRetryConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.Bot.MaxAttempts = 4
	cfg.Bot.RetryDelay = Duration(2 * time.Second)

	rc := cfg.RetryConfig()
	assert.Equal(t, 4, rc.MaxAttempts)
	assert.Equal(t, 2*time.Second, rc.Delay)
	assert.Equal(t, time.Duration(cfg.Bot.CallTimeout), rc.CallTimeout)
}
