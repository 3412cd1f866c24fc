// Package config loads application configuration from environment variables.
// All variables use the ASKORA_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/eval"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Cache   CacheConfig
	Content ContentConfig
	Levels  LevelsConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// AIConfig holds Gemini gateway settings.
type AIConfig struct {
	APIKey      string
	Models      []string // candidate preference order
	Backoff     time.Duration
	CallTimeout time.Duration
}

// CacheConfig holds explanation-cache settings. An empty URL selects the
// in-memory cache.
type CacheConfig struct {
	URL string
	TTL time.Duration
}

// ContentConfig holds curriculum location settings.
type ContentConfig struct {
	Dir string
}

// LevelsConfig points at an optional YAML level-band table.
type LevelsConfig struct {
	BandsPath string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present, matching how the service was
// always deployed.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("ASKORA_SERVER_PORT", 8000),
			Host: envStr("ASKORA_SERVER_HOST", "0.0.0.0"),
		},
		AI: AIConfig{
			APIKey:      envStr("ASKORA_GEMINI_API_KEY", envStr("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY"))),
			Models:      envList("ASKORA_AI_MODELS", nil),
			Backoff:     envDur("ASKORA_AI_BACKOFF", time.Second),
			CallTimeout: envDur("ASKORA_AI_CALL_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			URL: envStr("ASKORA_CACHE_URL", ""),
			TTL: envDur("ASKORA_CACHE_TTL", time.Hour),
		},
		Content: ContentConfig{
			Dir: envStr("ASKORA_CONTENT_DIR", "./rag_data"),
		},
		Levels: LevelsConfig{
			BandsPath: envStr("ASKORA_LEVEL_BANDS_PATH", ""),
		},
		Log: LogConfig{
			Level:  envStr("ASKORA_LOG_LEVEL", "info"),
			Format: envStr("ASKORA_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("ASKORA_GEMINI_API_KEY is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("ASKORA_SERVER_PORT %d out of range", c.Server.Port)
	}
	return nil
}

// LevelBands returns the proficiency band table: the configured YAML file
// when set, the built-in defaults otherwise. A path that does not load or a
// table that does not validate is a startup error.
func (c *Config) LevelBands() ([]eval.Band, error) {
	if c.Levels.BandsPath == "" {
		return eval.DefaultBands(), nil
	}

	data, err := os.ReadFile(c.Levels.BandsPath)
	if err != nil {
		return nil, fmt.Errorf("reading level bands: %w", err)
	}

	var file struct {
		Bands []eval.Band `yaml:"bands"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.Levels.BandsPath, err)
	}
	if len(file.Bands) == 0 {
		return nil, fmt.Errorf("%s defines no bands", c.Levels.BandsPath)
	}
	return file.Bands, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
