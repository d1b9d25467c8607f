package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AzielCF/watercooler-fc/repository"
)

// fakeClock es un reloj manual para probar TTL y cooldowns
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var errStoreDown = errors.New("store unavailable")

// flakyStore wraps a MemoryStore and fails writes or reads on demand.
type flakyStore struct {
	*repository.MemoryStore
	failSet bool
	failGet bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: repository.NewMemoryStore()}
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errStoreDown
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if s.failSet {
		return errStoreDown
	}
	return s.MemoryStore.Set(ctx, key, value)
}

// slowStore widens the gap between a read and the following write and counts
// writes per key.
type slowStore struct {
	*repository.MemoryStore
	delay  time.Duration
	clock  *fakeClock
	mu     sync.Mutex
	writes map[string]int
}

func newSlowStore(delay time.Duration, clock *fakeClock) *slowStore {
	return &slowStore{MemoryStore: repository.NewMemoryStore(), delay: delay, clock: clock, writes: map[string]int{}}
}

func (s *slowStore) Get(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(s.delay)
	return s.MemoryStore.Get(ctx, key)
}

func (s *slowStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.writes[key]++
	s.mu.Unlock()
	s.clock.Advance(time.Second)
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *slowStore) Writes(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[key]
}
