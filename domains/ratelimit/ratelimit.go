package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/watercooler-fc/aiengine/classifier"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
)

var (
	// ErrCoolingDown blocks new AI calls while a rate-limit cooldown runs.
	ErrCoolingDown = errors.New("rate limit active, cooldown in progress")
	// ErrDailyLimited blocks AI calls for a provider until the next day boundary.
	ErrDailyLimited = errors.New("daily request limit reached")
)

// DefaultCooldown is the fixed wait after a per-minute rate limit.
const DefaultCooldown = 60 * time.Second

// IGuard turns classified provider failures into cooldown and daily-limit state.
type IGuard interface {
	// HandleError classifies err and updates the guard state accordingly.
	HandleError(ctx context.Context, err error, p domainProvider.Identity) classifier.Classified
	// Allow returns nil when a new call for p may be issued.
	Allow(ctx context.Context, p domainProvider.Identity) error
	// Remaining is the cooldown left, rounded up to whole seconds.
	Remaining(ctx context.Context) int
	IsDailyLimited(ctx context.Context, p domainProvider.Identity) bool
	// Watch calls tick once per second with the remaining seconds until zero.
	Watch(ctx context.Context, tick func(remaining int)) error
	Reset(ctx context.Context) error
}

// ClassifiedError carries the classification of a failed AI call back to the
// caller. Error returns the user-facing text; Unwrap exposes the raw failure.
type ClassifiedError struct {
	classifier.Classified
}

func (e *ClassifiedError) Error() string {
	return e.FriendlyMessage
}

func (e *ClassifiedError) Unwrap() error {
	return e.Raw
}
