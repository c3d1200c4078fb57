package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr       string
	CORSOrigin string
	LogLevel   string
	// LLM backend
	LLMProvider  string
	OpenAIAPIKey string
	OpenAIURL    string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration
	// Engagement tuning
	NaughtyRate float64
	Saturation  int
	TiersFile   string
	Seed        int64
	// Session leases
	RedisURL       string
	SessionTTL     time.Duration
	MaxUploadBytes int64
}

func Load() Config {
	return Config{
		Addr:       getenv("API_ADDR", ":8787"),
		CORSOrigin: getenv("WISHLIST_CORS_ORIGIN", "*"),
		LogLevel:   getenv("WISHLIST_LOG_LEVEL", "info"),
		// LLM - OpenAI-compatible by default, gemini via WISHLIST_LLM_PROVIDER
		LLMProvider:  normalizeProvider(getenv("WISHLIST_LLM_PROVIDER", "openai")),
		OpenAIAPIKey: getenv("OPENAI_API_KEY", ""),
		OpenAIURL:    getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:  getenv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:   time.Duration(getenvInt("WISHLIST_LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		NaughtyRate:  getenvFloat("WISHLIST_NAUGHTY_RATE", 0.3),
		Saturation:   getenvInt("WISHLIST_SATURATION", 10),
		TiersFile:    getenv("WISHLIST_TIERS_FILE", ""),
		Seed:         int64(getenvInt("WISHLIST_SEED", 0)),
		// Redis - empty keeps leases in memory
		RedisURL:       getenv("REDIS_URL", ""),
		SessionTTL:     time.Duration(getenvInt("WISHLIST_SESSION_TTL_SECONDS", 7200)) * time.Second,
		MaxUploadBytes: int64(getenvInt("WISHLIST_MAX_UPLOAD_BYTES", 10<<20)),
	}
}

// LLMAPIKey returns the key for the configured provider.
func (c Config) LLMAPIKey() string {
	if c.LLMProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// LLMModel returns the model for the configured provider.
func (c Config) LLMModel() string {
	if c.LLMProvider == "gemini" {
		return c.GeminiModel
	}
	return c.OpenAIModel
}

// Tier is one entry of the tier file.
type Tier struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	UnlockAt float64 `yaml:"unlock_at"`
}

type tierFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadTiers reads the tier file. An empty path returns nil so the caller
// keeps its defaults.
func LoadTiers(path string) ([]Tier, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tiers file: %w", err)
	}
	var parsed tierFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse tiers file: %w", err)
	}
	if len(parsed.Tiers) == 0 {
		return nil, fmt.Errorf("tiers file %s defines no tiers", path)
	}
	return parsed.Tiers, nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
