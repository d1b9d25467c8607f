// Package aiengine dispatches AI requests to the adapter of the provider the
// user selected.
package aiengine

import (
	"context"
	"sync"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	"github.com/sirupsen/logrus"
)

type Engine struct {
	registry  domainProvider.IRegistry
	mu        sync.RWMutex
	providers map[domainProvider.Identity]domainProvider.IProvider
}

var _ domainProvider.IFacade = (*Engine)(nil)

func NewEngine(registry domainProvider.IRegistry) *Engine {
	return &Engine{
		registry:  registry,
		providers: make(map[domainProvider.Identity]domainProvider.IProvider),
	}
}

func (e *Engine) RegisterProvider(p domainProvider.IProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.providers[p.Identity()] = p
}

// Resolve returns the adapter for the active provider. It never returns nil:
// an unregistered provider resolves to an adapter that fails every call with
// a configuration error.
func (e *Engine) Resolve(ctx context.Context) domainProvider.IProvider {
	id := e.registry.GetActiveProvider(ctx)

	e.mu.RLock()
	p, ok := e.providers[id]
	e.mu.RUnlock()
	if ok {
		return p
	}

	logrus.Warnf("[ENGINE] No adapter registered for %s", id)
	return unavailable{id: id}
}

func (e *Engine) GenerateSummary(ctx context.Context, query string, wordCount int, isFavorite bool) (*domainFootball.SummaryResult, error) {
	return e.Resolve(ctx).GenerateSummary(ctx, query, wordCount, isFavorite)
}

func (e *Engine) GenerateTeamInsights(ctx context.Context, teamName string) (*domainFootball.TeamInsights, error) {
	return e.Resolve(ctx).GenerateTeamInsights(ctx, teamName)
}

func (e *Engine) GenerateQuote(ctx context.Context, tone string) (string, error) {
	return e.Resolve(ctx).GenerateQuote(ctx, tone)
}

func (e *Engine) HealthCheck(ctx context.Context) domainProvider.HealthResult {
	return e.Resolve(ctx).HealthCheck(ctx)
}

type unavailable struct {
	id domainProvider.Identity
}

func (u unavailable) Identity() domainProvider.Identity { return u.id }

func (u unavailable) GenerateSummary(context.Context, string, int, bool) (*domainFootball.SummaryResult, error) {
	return nil, domainProvider.NewConfigurationError(u.id)
}

func (u unavailable) GenerateTeamInsights(context.Context, string) (*domainFootball.TeamInsights, error) {
	return nil, domainProvider.NewConfigurationError(u.id)
}

func (u unavailable) GenerateQuote(context.Context, string) (string, error) {
	return "", domainProvider.NewConfigurationError(u.id)
}

func (u unavailable) HealthCheck(context.Context) domainProvider.HealthResult {
	return domainProvider.HealthResult{
		Success: false,
		Message: u.id.DisplayName() + " is not available in this build.",
	}
}
