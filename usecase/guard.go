package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AzielCF/watercooler-fc/aiengine/classifier"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	domainRateLimit "github.com/AzielCF/watercooler-fc/domains/ratelimit"
	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"github.com/AzielCF/watercooler-fc/pkg/timeutils"
	"github.com/sirupsen/logrus"
)

type guardService struct {
	// mu serializes the cooldown check-and-set across concurrent callers.
	mu         sync.Mutex
	store      domainStorage.IStore
	classifier *classifier.Classifier
	cooldown   time.Duration
	now        func() time.Time
	tick       time.Duration
}

// NewGuardService persists cooldown and daily-limit state in store so that it
// survives between CLI invocations.
func NewGuardService(store domainStorage.IStore, c *classifier.Classifier, cooldown time.Duration) domainRateLimit.IGuard {
	return newGuardService(store, c, cooldown, time.Now)
}

func newGuardService(store domainStorage.IStore, c *classifier.Classifier, cooldown time.Duration, now func() time.Time) *guardService {
	if c == nil {
		c = classifier.Default()
	}
	if cooldown <= 0 {
		cooldown = domainRateLimit.DefaultCooldown
	}
	return &guardService{store: store, classifier: c, cooldown: cooldown, now: now, tick: time.Second}
}

func dailyLimitKey(p domainProvider.Identity) string {
	return domainStorage.KeyDailyLimitPrefix + string(p)
}

func (g *guardService) HandleError(ctx context.Context, err error, p domainProvider.Identity) classifier.Classified {
	res := g.classifier.Classify(err, p)
	fields := logrus.Fields{"provider": p, "kind": res.Kind}

	switch res.Kind {
	case classifier.KindRateLimited:
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.Remaining(ctx) > 0 {
			logrus.WithFields(fields).Debug("[GUARD] Rate limit while cooling down, keeping current timer")
			break
		}
		until := g.now().Add(g.cooldown)
		if err := g.store.Set(ctx, domainStorage.KeyCooldownUntil, timeutils.FormatUnixMilli(until.UnixMilli())); err != nil {
			logrus.WithFields(fields).WithError(err).Warn("[GUARD] Could not persist cooldown")
			break
		}
		logrus.WithFields(fields).Warnf("[GUARD] Rate limited, cooling down for %s", g.cooldown)

	case classifier.KindDailyLimited:
		until := timeutils.NextDayBoundary(g.now())
		if err := g.store.Set(ctx, dailyLimitKey(p), timeutils.FormatUnixMilli(until.UnixMilli())); err != nil {
			logrus.WithFields(fields).WithError(err).Warn("[GUARD] Could not persist daily limit")
			break
		}
		fields["day"] = timeutils.DayKey(g.now())
		logrus.WithFields(fields).Warnf("[GUARD] Daily limit reached, %s disabled until %s", p.DisplayName(), until.Format(time.RFC3339))

	default:
		logrus.WithFields(fields).Debug("[GUARD] Failure does not affect limits")
	}
	return res
}

func (g *guardService) Allow(ctx context.Context, p domainProvider.Identity) error {
	if g.IsDailyLimited(ctx, p) {
		return fmt.Errorf("%s: %w", p.DisplayName(), domainRateLimit.ErrDailyLimited)
	}
	if s := g.Remaining(ctx); s > 0 {
		return fmt.Errorf("%w (%ds left)", domainRateLimit.ErrCoolingDown, s)
	}
	return nil
}

// until reads a stored deadline. Elapsed or unreadable deadlines are removed.
func (g *guardService) until(ctx context.Context, key string) (time.Time, bool) {
	raw, ok, err := g.store.Get(ctx, key)
	if err != nil || !ok {
		return time.Time{}, false
	}
	t, err := timeutils.ParseUnixMilli(strings.TrimSpace(raw))
	if err != nil || !t.After(g.now()) {
		_ = g.store.Delete(ctx, key)
		return time.Time{}, false
	}
	return t, true
}

func (g *guardService) Remaining(ctx context.Context) int {
	t, ok := g.until(ctx, domainStorage.KeyCooldownUntil)
	if !ok {
		return 0
	}
	return timeutils.SecondsCeil(t.Sub(g.now()))
}

func (g *guardService) IsDailyLimited(ctx context.Context, p domainProvider.Identity) bool {
	_, ok := g.until(ctx, dailyLimitKey(p))
	return ok
}

func (g *guardService) Watch(ctx context.Context, tick func(remaining int)) error {
	remaining := g.Remaining(ctx)
	tick(remaining)
	if remaining == 0 {
		return nil
	}

	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			remaining = g.Remaining(ctx)
			tick(remaining)
			if remaining == 0 {
				return nil
			}
		}
	}
}

func (g *guardService) Reset(ctx context.Context) error {
	if err := g.store.Delete(ctx, domainStorage.KeyCooldownUntil); err != nil {
		return err
	}
	for _, p := range domainProvider.All {
		if err := g.store.Delete(ctx, dailyLimitKey(p)); err != nil {
			return err
		}
	}
	logrus.Info("[GUARD] Cooldown and daily limits cleared")
	return nil
}
