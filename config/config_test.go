package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "changeme")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultEmbeddingURL, cfg.EmbeddingURL)
	assert.Equal(t, DefaultChatModel, cfg.ChatModel)
	assert.Equal(t, DefaultChromaURL, cfg.ChromaURL)
	assert.Equal(t, DefaultCollection, cfg.Collection)
	assert.Equal(t, DefaultUploadDir, cfg.UploadDir)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CHROMADB_COLLECTION", "mydocs")
	t.Setenv("UPLOAD_DIR", "/tmp/uploads")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mydocs", cfg.Collection)
	assert.Equal(t, "/tmp/uploads", cfg.UploadDir)
}

func TestLoadMissingSecrets(t *testing.T) {
	tests := []string{"GEMINI_API_KEY", "ADMIN_USERNAME", "ADMIN_PASSWORD", "SESSION_SECRET"}
	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
