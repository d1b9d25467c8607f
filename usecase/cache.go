package usecase

import (
	"context"
	"encoding/json"
	"time"

	domainCache "github.com/AzielCF/watercooler-fc/domains/cache"
	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

type cacheService struct {
	store domainStorage.IStore
	ttl   time.Duration
	now   func() time.Time
}

// NewCacheService builds the cache on top of store. Keys are namespaced under
// domainStorage.CachePrefix so Purge and Stats never touch settings.
func NewCacheService(store domainStorage.IStore, ttl time.Duration) domainCache.ICacheUsecase {
	return newCacheService(store, ttl, time.Now)
}

func newCacheService(store domainStorage.IStore, ttl time.Duration, now func() time.Time) *cacheService {
	if ttl <= 0 {
		ttl = domainCache.DefaultTTL
	}
	return &cacheService{store: store, ttl: ttl, now: now}
}

func (s *cacheService) storageKey(key string) string {
	return domainStorage.CachePrefix + key
}

// expired reports whether an entry written at ts (epoch ms) is past the TTL.
func (s *cacheService) expired(ts int64) bool {
	return s.now().UnixMilli()-ts > s.ttl.Milliseconds()
}

// decodeEntry reads the envelope. Missing or null data counts as unreadable.
func decodeEntry(raw string) (domainCache.Entry[json.RawMessage], bool) {
	var entry domainCache.Entry[json.RawMessage]
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return entry, false
	}
	if len(entry.Data) == 0 || string(entry.Data) == "null" {
		return entry, false
	}
	return entry, true
}

func (s *cacheService) Get(ctx context.Context, key string, dst any) bool {
	sk := s.storageKey(key)
	raw, ok, err := s.store.Get(ctx, sk)
	if err != nil {
		logrus.WithError(err).Warnf("[CACHE] Read failed for %s, treating as miss", key)
		return false
	}
	if !ok {
		return false
	}

	entry, readable := decodeEntry(raw)
	if !readable {
		logrus.Debugf("[CACHE] Dropping unreadable entry %s", key)
		s.remove(ctx, sk)
		return false
	}
	if s.expired(entry.Timestamp) {
		logrus.Debugf("[CACHE] Entry %s expired", key)
		s.remove(ctx, sk)
		return false
	}
	if err := json.Unmarshal(entry.Data, dst); err != nil {
		logrus.Debugf("[CACHE] Entry %s does not match requested type", key)
		s.remove(ctx, sk)
		return false
	}
	return true
}

func (s *cacheService) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(domainCache.Entry[any]{
		Timestamp: s.now().UnixMilli(),
		Data:      value,
	})
	if err != nil {
		logrus.WithError(err).Warnf("[CACHE] Could not encode %s, skipping", key)
		return
	}
	if err := s.store.Set(ctx, s.storageKey(key), string(raw)); err != nil {
		logrus.WithError(err).Warnf("[CACHE] Write failed for %s, skipping", key)
	}
}

func (s *cacheService) Clear(ctx context.Context, key string) {
	s.remove(ctx, s.storageKey(key))
}

func (s *cacheService) remove(ctx context.Context, storageKey string) {
	if err := s.store.Delete(ctx, storageKey); err != nil {
		logrus.WithError(err).Warnf("[CACHE] Delete failed for %s", storageKey)
	}
}

func (s *cacheService) Purge(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx, domainStorage.CachePrefix)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, k := range keys {
		raw, ok, err := s.store.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		if entry, readable := decodeEntry(raw); readable && !s.expired(entry.Timestamp) {
			continue
		}
		if err := s.store.Delete(ctx, k); err != nil {
			return removed, err
		}
		removed++
	}

	logrus.Infof("[CACHE] Purged %d of %d entries", removed, len(keys))
	return removed, nil
}

func (s *cacheService) Stats(ctx context.Context) (domainCache.CacheStats, error) {
	keys, err := s.store.Keys(ctx, domainStorage.CachePrefix)
	if err != nil {
		return domainCache.CacheStats{}, err
	}

	var stats domainCache.CacheStats
	var oldest int64
	for _, k := range keys {
		raw, ok, err := s.store.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		stats.Entries++
		stats.TotalSize += int64(len(raw))

		entry, readable := decodeEntry(raw)
		if !readable || s.expired(entry.Timestamp) {
			stats.Expired++
			continue
		}
		if oldest == 0 || entry.Timestamp < oldest {
			oldest = entry.Timestamp
		}
	}

	stats.HumanSize = humanize.Bytes(uint64(stats.TotalSize))
	if oldest > 0 {
		stats.Oldest = time.UnixMilli(oldest)
		stats.OldestAge = humanize.RelTime(stats.Oldest, s.now(), "ago", "from now")
	}
	return stats, nil
}
