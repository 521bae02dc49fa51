package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Ollama    OllamaConfig
	Storage   StorageConfig
	Index     IndexConfig
	Retrieval RetrievalConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port int
	// Owner is the identity assigned to notes created without one.
	Owner string
}

type OllamaConfig struct {
	BaseURL         string
	CompletionModel string
	EmbedModel      string
}

type StorageConfig struct {
	DataDir string
}

type IndexConfig struct {
	Name      string
	Dimension int
}

type RetrievalConfig struct {
	TopK int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:  4200,
			Owner: "demo-user",
		},
		Ollama: OllamaConfig{
			BaseURL:         "http://localhost:11434",
			CompletionModel: "mistral",
			EmbedModel:      "nomic-embed-text",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Index: IndexConfig{
			Name:      "notes",
			Dimension: 768,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".stickies")
}

// Load reads configuration from defaults, an optional .env file in the
// working directory, and STICKIES_* environment variables (which win).
func Load() (Config, error) {
	// A missing .env file is fine; env vars and defaults still apply.
	_ = godotenv.Load()

	cfg := defaults()
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	setString("STICKIES_OWNER", &cfg.Server.Owner)
	setString("STICKIES_OLLAMA_BASE_URL", &cfg.Ollama.BaseURL)
	setString("STICKIES_COMPLETION_MODEL", &cfg.Ollama.CompletionModel)
	setString("STICKIES_EMBED_MODEL", &cfg.Ollama.EmbedModel)
	setString("STICKIES_DATA_DIR", &cfg.Storage.DataDir)
	setString("STICKIES_INDEX_NAME", &cfg.Index.Name)
	setString("STICKIES_LOG_LEVEL", &cfg.Log.Level)

	if err := setInt("STICKIES_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if err := setInt("STICKIES_INDEX_DIMENSION", &cfg.Index.Dimension); err != nil {
		return err
	}
	if err := setInt("STICKIES_RETRIEVAL_TOP_K", &cfg.Retrieval.TopK); err != nil {
		return err
	}
	return nil
}

func setString(env string, dst *string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(env string, dst *int) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parsing %s=%q: %w", env, v, err)
	}
	*dst = n
	return nil
}
