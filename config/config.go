package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Defaults for the non-secret parts of the configuration. Secrets never
// have defaults; startup fails when they are missing.
const (
	DefaultPort         = "8080"
	DefaultEmbeddingURL = "https://generativelanguage.googleapis.com/v1beta/models/embedding-001:embedContent"
	DefaultChatModel    = "gemini-2.0-flash"
	DefaultChromaURL    = "http://localhost:8000"
	DefaultCollection   = "documents"
	DefaultUploadDir    = "uploads"
)

// Config holds everything the server reads from the environment. It is built
// once in main and handed to the components that need it.
type Config struct {
	Port string

	// Gemini API access for embeddings and chat completion.
	GeminiAPIKey string
	EmbeddingURL string
	ChatModel    string

	// ChromaDB connection.
	ChromaURL  string
	Collection string

	// Upload handling.
	UploadDir string

	// Auth.
	AdminUsername string
	AdminPassword string
	SessionSecret string

	UnidocLicenseKey string

	// "json" or "console".
	LogFormat string
}

// Load reads configuration from the environment, after a best-effort load of
// a local .env file. It returns an error when any required secret is unset.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getenvDefault("PORT", DefaultPort),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		EmbeddingURL:     getenvDefault("EMBEDDING_URL", DefaultEmbeddingURL),
		ChatModel:        getenvDefault("CHAT_MODEL", DefaultChatModel),
		ChromaURL:        getenvDefault("CHROMA_URL", DefaultChromaURL),
		Collection:       getenvDefault("CHROMADB_COLLECTION", DefaultCollection),
		UploadDir:        getenvDefault("UPLOAD_DIR", DefaultUploadDir),
		AdminUsername:    os.Getenv("ADMIN_USERNAME"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		UnidocLicenseKey: os.Getenv("UNIDOC_LICENSE_KEY"),
		LogFormat:        getenvDefault("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	missing := []string{}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.AdminUsername == "" {
		missing = append(missing, "ADMIN_USERNAME")
	}
	if c.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
