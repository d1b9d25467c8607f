package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long an entry stays readable after it was written.
const DefaultTTL = 24 * time.Hour

// Entry is the serialized form of a cached value.
// Timestamp is the write time in epoch milliseconds.
type Entry[T any] struct {
	Timestamp int64 `json:"timestamp"`
	Data      T     `json:"data"`
}

type CacheStats struct {
	Entries   int       `json:"entries"`
	Expired   int       `json:"expired"`
	TotalSize int64     `json:"total_size"`
	HumanSize string    `json:"human_size"`
	Oldest    time.Time `json:"oldest,omitempty"`
	OldestAge string    `json:"oldest_age,omitempty"`
}

// ICacheUsecase is a best-effort cache. Reads degrade to a miss and writes
// never fail the caller.
type ICacheUsecase interface {
	// Get decodes the live entry for key into dst and reports whether it did.
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any)
	Clear(ctx context.Context, key string)

	// Purge removes every expired or unreadable entry and returns how many went away.
	Purge(ctx context.Context) (int, error)
	Stats(ctx context.Context) (CacheStats, error)
}

// Lookup is the typed form of ICacheUsecase.Get.
func Lookup[T any](ctx context.Context, c ICacheUsecase, key string) (T, bool) {
	var v T
	if !c.Get(ctx, key, &v) {
		var zero T
		return zero, false
	}
	return v, true
}
