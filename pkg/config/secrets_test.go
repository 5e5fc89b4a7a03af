package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.enc")
	in := map[string]string{
		"openai":    "sk-test-123",
		"anthropic": "sk-ant-456",
	}

	require.NoError(t, SaveSecrets(path, "hunter2", in))

	out, err := LoadSecrets(path, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSecretsWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.enc")
	require.NoError(t, SaveSecrets(path, "correct", map[string]string{"openai": "sk"}))

	_, err := LoadSecrets(path, "incorrect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt")
}

func TestSecretsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.enc")
	require.NoError(t, SaveSecrets(path, "pw", map[string]string{"openai": "sk"}))

	// Chop the file below the salt size.
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o600))

	_, err := LoadSecrets(path, "pw")
	require.Error(t, err)
}

func TestResolveAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	key, err := ResolveAPIKey("openai", "", "")
	require.NoError(t, err)
	assert.Equal(t, "sk-env", key)
}

func TestResolveAPIKeyFromSecretsFile(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	path := filepath.Join(t.TempDir(), "secrets.enc")
	require.NoError(t, SaveSecrets(path, "pw", map[string]string{"anthropic": "sk-file"}))

	key, err := ResolveAPIKey("anthropic", path, "pw")
	require.NoError(t, err)
	assert.Equal(t, "sk-file", key)
}

func TestResolveAPIKeyMissing(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := ResolveAPIKey("gemini", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
