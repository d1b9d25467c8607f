package storage

import "context"

// IStore is the durable key/value backend shared by the cache, the registry
// and the rate-limit guard. Values are opaque strings.
type IStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every key starting with prefix. Order is not guaranteed.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases the underlying connection, if any.
	Close() error
}

// Supported backend drivers.
const (
	DriverMemory = "memory"
	DriverGorm   = "gorm"
	DriverSQL    = "sql"
	DriverValkey = "valkey"
)

// Stable keys of the persisted state layout.
const (
	KeyActiveProvider   = "watercooler-fc-ai-provider"
	KeyOpenAICredential = "watercooler-fc-openai-api-key"
	KeyFavoriteTeam     = "watercooler-fc-favorite-team"
	KeyCooldownUntil    = "watercooler-fc-cooldown-until"
	KeyDailyLimitPrefix = "watercooler-fc-daily-limit-"

	// CachePrefix namespaces cache entries so they can be listed and purged.
	CachePrefix = "cache:"
)
