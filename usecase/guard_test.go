package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AzielCF/watercooler-fc/aiengine/classifier"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	domainRateLimit "github.com/AzielCF/watercooler-fc/domains/ratelimit"
	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errGeminiRateLimit = &domainProvider.ProviderError{
		Kind:     domainProvider.ErrorKindSDK,
		Provider: domainProvider.Gemini,
		Status:   429,
		Code:     "RESOURCE_EXHAUSTED",
		Message:  "Resource has been exhausted (e.g. check quota).",
	}
	errGeminiDaily = errors.New("You have reached the daily limit, quota has been exhausted for this project")
)

func newTestGuard(t *testing.T) (*guardService, *flakyStore, *fakeClock) {
	t.Helper()
	store := newFlakyStore()
	clock := newFakeClock()
	g := newGuardService(store, classifier.Default(), domainRateLimit.DefaultCooldown, clock.Now)
	return g, store, clock
}

func TestGuard_RateLimitStartsCooldown(t *testing.T) {
	g, _, clock := newTestGuard(t)
	ctx := context.Background()

	require.NoError(t, g.Allow(ctx, domainProvider.Gemini))

	res := g.HandleError(ctx, errGeminiRateLimit, domainProvider.Gemini)
	assert.Equal(t, classifier.KindRateLimited, res.Kind)
	assert.Equal(t, 60, g.Remaining(ctx))

	err := g.Allow(ctx, domainProvider.Gemini)
	assert.ErrorIs(t, err, domainRateLimit.ErrCoolingDown)
	// el cooldown es global, también bloquea al otro proveedor
	assert.ErrorIs(t, g.Allow(ctx, domainProvider.OpenAI), domainRateLimit.ErrCoolingDown)

	clock.Advance(59*time.Second + 500*time.Millisecond)
	assert.Equal(t, 1, g.Remaining(ctx))

	clock.Advance(time.Second)
	assert.Equal(t, 0, g.Remaining(ctx))
	assert.NoError(t, g.Allow(ctx, domainProvider.Gemini))
}

// Un segundo rate limit durante el cooldown no reinicia ni extiende el timer
func TestGuard_SecondRateLimitDoesNotExtend(t *testing.T) {
	g, _, clock := newTestGuard(t)
	ctx := context.Background()

	g.HandleError(ctx, errGeminiRateLimit, domainProvider.Gemini)
	clock.Advance(20 * time.Second)

	g.HandleError(ctx, errGeminiRateLimit, domainProvider.Gemini)
	assert.Equal(t, 40, g.Remaining(ctx))

	clock.Advance(40 * time.Second)
	assert.Equal(t, 0, g.Remaining(ctx))

	// una vez vencido, un nuevo rate limit arranca otro cooldown completo
	g.HandleError(ctx, errGeminiRateLimit, domainProvider.Gemini)
	assert.Equal(t, 60, g.Remaining(ctx))
}

// Varios workers con rate limit a la vez: un solo cooldown, sin extenderlo
func TestGuard_ConcurrentRateLimitsSetOneCooldown(t *testing.T) {
	clock := newFakeClock()
	store := newSlowStore(5*time.Millisecond, clock)
	g := newGuardService(store, classifier.Default(), domainRateLimit.DefaultCooldown, clock.Now)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.HandleError(ctx, errGeminiRateLimit, domainProvider.Gemini)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.Writes(domainStorage.KeyCooldownUntil))
	// the single write advanced the clock by one second
	assert.Equal(t, 59, g.Remaining(ctx))
}

func TestGuard_DailyLimitUntilNextDay(t *testing.T) {
	g, store, clock := newTestGuard(t)
	ctx := context.Background()

	res := g.HandleError(ctx, errGeminiDaily, domainProvider.Gemini)
	assert.Equal(t, classifier.KindDailyLimited, res.Kind)
	assert.Equal(t, 0, g.Remaining(ctx), "daily limits never start a countdown")

	assert.True(t, g.IsDailyLimited(ctx, domainProvider.Gemini))
	assert.False(t, g.IsDailyLimited(ctx, domainProvider.OpenAI))
	assert.ErrorIs(t, g.Allow(ctx, domainProvider.Gemini), domainRateLimit.ErrDailyLimited)
	assert.NoError(t, g.Allow(ctx, domainProvider.OpenAI))

	clock.Advance(8*time.Hour + 59*time.Minute)
	assert.True(t, g.IsDailyLimited(ctx, domainProvider.Gemini), "still the same day")

	clock.Advance(time.Minute)
	assert.False(t, g.IsDailyLimited(ctx, domainProvider.Gemini))

	_, exists, _ := store.Get(ctx, domainStorage.KeyDailyLimitPrefix+"gemini")
	assert.False(t, exists, "elapsed marker is removed")
}

func TestGuard_OtherErrorsLeaveStateAlone(t *testing.T) {
	g, _, _ := newTestGuard(t)
	ctx := context.Background()

	res := g.HandleError(ctx, domainProvider.NewConfigurationError(domainProvider.OpenAI), domainProvider.OpenAI)
	assert.Equal(t, classifier.KindConfiguration, res.Kind)

	res = g.HandleError(ctx, errors.New("connection reset by peer"), domainProvider.Gemini)
	assert.Equal(t, classifier.KindUnknown, res.Kind)

	assert.Equal(t, 0, g.Remaining(ctx))
	assert.NoError(t, g.Allow(ctx, domainProvider.Gemini))
}

func TestGuard_CorruptMarkerIsIgnored(t *testing.T) {
	g, store, _ := newTestGuard(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domainStorage.KeyCooldownUntil, "soon"))
	assert.Equal(t, 0, g.Remaining(ctx))

	_, exists, _ := store.Get(ctx, domainStorage.KeyCooldownUntil)
	assert.False(t, exists)
}

func TestGuard_Reset(t *testing.T) {
	g, _, _ := newTestGuard(t)
	ctx := context.Background()

	g.HandleError(ctx, errGeminiRateLimit, domainProvider.Gemini)
	g.HandleError(ctx, errGeminiDaily, domainProvider.Gemini)
	require.NoError(t, g.Reset(ctx))

	assert.Equal(t, 0, g.Remaining(ctx))
	assert.False(t, g.IsDailyLimited(ctx, domainProvider.Gemini))
}

func TestGuard_WatchCountsDown(t *testing.T) {
	g, _, clock := newTestGuard(t)
	g.tick = time.Millisecond
	ctx := context.Background()

	g.HandleError(ctx, errGeminiRateLimit, domainProvider.Gemini)
	clock.Advance(57 * time.Second)

	var ticks []int
	err := g.Watch(ctx, func(remaining int) {
		ticks = append(ticks, remaining)
		clock.Advance(time.Second)
	})

	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1, 0}, ticks)
}

func TestGuard_WatchStopsOnCancel(t *testing.T) {
	g, _, _ := newTestGuard(t)
	g.tick = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	g.HandleError(ctx, errGeminiRateLimit, domainProvider.Gemini)
	cancel()

	err := g.Watch(ctx, func(int) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGuard_WatchWithoutCooldown(t *testing.T) {
	g, _, _ := newTestGuard(t)

	calls := 0
	err := g.Watch(context.Background(), func(remaining int) {
		calls++
		assert.Equal(t, 0, remaining)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
