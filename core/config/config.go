package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App      AppConfig
	Paths    PathsConfig
	Store    StoreConfig
	Database DatabaseConfig
	AI       AIConfig
	Cache    CacheConfig
	Prefetch PrefetchConfig
	Security SecurityConfig
	APIKeys  APIKeysConfig
}

type AppConfig struct {
	Version     string
	Debug       bool
	Environment string
}

type PathsConfig struct {
	BaseDir  string
	Storages string
}

// StoreConfig selects the durable key/value backend.
type StoreConfig struct {
	Driver string // memory | gorm | sql | valkey
}

type DatabaseConfig struct {
	Driver          string // sqlite | postgres
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // File path for SQLite, DB Name for Postgres
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

type AIConfig struct {
	GeminiModel       string
	OpenAIModel       string
	OpenAISearchModel string
	GeminiBaseURL     string
	OpenAIBaseURL     string
	RequestTimeout    time.Duration
	MaxRetries        int
	Cooldown          time.Duration

	// Phrase lists for message based error classification.
	DailyLimitPhrases     []string
	RateLimitPhrases      []string
	AmbiguousQuotaPhrases []string
}

type CacheConfig struct {
	TTL time.Duration
}

type PrefetchConfig struct {
	Workers   int
	QueueSize int
}

type SecurityConfig struct {
	SecretKey string
}

// APIKeysConfig holds deployment-time credentials. They are never written to
// the durable store.
type APIKeysConfig struct {
	Gemini string
}

// Global provides access to the loaded configuration globally
var Global *Config

// LoadConfig loads configuration from Environment Variables or defaults.
func LoadConfig() (*Config, error) {
	baseDir := getEnv("APP_BASE_DIR", "storages")

	debug := getEnvBool("APP_DEBUG", getEnvBool("DEBUG", false))

	geminiKey := getEnv("GEMINI_API_KEY", "")
	if geminiKey == "" {
		geminiKey = getEnv("API_KEY", "")
	}

	cfg := &Config{
		App: AppConfig{
			Version:     "v1.0.0",
			Debug:       debug,
			Environment: getEnv("APP_ENV", "development"),
		},
		Paths: PathsConfig{
			BaseDir:  baseDir,
			Storages: baseDir,
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "gorm"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Name:            getEnv("DB_NAME", filepath.Join(baseDir, "watercooler.db")),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			ValkeyAddress:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
			ValkeyPassword:  getEnv("VALKEY_PASSWORD", ""),
			ValkeyDB:        getEnvInt("VALKEY_DB", 0),
			ValkeyKeyPrefix: getEnv("VALKEY_KEY_PREFIX", "wcfc:"),
		},
		AI: AIConfig{
			GeminiModel:           getEnv("AI_GEMINI_MODEL", "gemini-2.5-flash"),
			OpenAIModel:           getEnv("AI_OPENAI_MODEL", "gpt-4o-mini"),
			OpenAISearchModel:     getEnv("AI_OPENAI_SEARCH_MODEL", "gpt-4o-mini-search-preview"),
			GeminiBaseURL:         getEnv("AI_GEMINI_BASE_URL", ""),
			OpenAIBaseURL:         getEnv("AI_OPENAI_BASE_URL", ""),
			RequestTimeout:        getEnvDuration("AI_REQUEST_TIMEOUT", 45*time.Second),
			MaxRetries:            getEnvInt("AI_MAX_RETRIES", 2),
			Cooldown:              getEnvDuration("AI_COOLDOWN_SECONDS", 60*time.Second),
			DailyLimitPhrases:     getEnvList("AI_DAILY_LIMIT_PHRASES", nil),
			RateLimitPhrases:      getEnvList("AI_RATE_LIMIT_PHRASES", nil),
			AmbiguousQuotaPhrases: getEnvList("AI_AMBIGUOUS_QUOTA_PHRASES", nil),
		},
		Cache: CacheConfig{
			TTL: getEnvDuration("CACHE_TTL", 24*time.Hour),
		},
		Prefetch: PrefetchConfig{
			Workers:   getEnvInt("PREFETCH_WORKERS", 3),
			QueueSize: getEnvInt("PREFETCH_QUEUE_SIZE", 32),
		},
		Security: SecurityConfig{SecretKey: getEnv("APP_SECRET_KEY", "")},
		APIKeys:  APIKeysConfig{Gemini: geminiKey},
	}

	Global = cfg
	return cfg, nil
}
