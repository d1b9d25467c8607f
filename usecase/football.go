package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AzielCF/watercooler-fc/aiengine/classifier"
	domainCache "github.com/AzielCF/watercooler-fc/domains/cache"
	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	domainRateLimit "github.com/AzielCF/watercooler-fc/domains/ratelimit"
	pkgError "github.com/AzielCF/watercooler-fc/pkg/error"
	"github.com/AzielCF/watercooler-fc/validations"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FootballService is the entry point for every content fetch: cache first,
// then the active adapter, with failures routed through the guard.
type FootballService struct {
	engine   domainProvider.IFacade
	registry domainProvider.IRegistry
	cache    domainCache.ICacheUsecase
	guard    domainRateLimit.IGuard
}

var _ domainFootball.IFootballUsecase = (*FootballService)(nil)

func NewFootballService(
	engine domainProvider.IFacade,
	registry domainProvider.IRegistry,
	cache domainCache.ICacheUsecase,
	guard domainRateLimit.IGuard,
) *FootballService {
	return &FootballService{engine: engine, registry: registry, cache: cache, guard: guard}
}

// Cache keys.
func SummaryCacheKey(topicID string, wordCount int) string {
	return fmt.Sprintf("summary-%s-%d", topicID, wordCount)
}

func InsightsCacheKey(teamName string) string {
	return "insights-" + domainFootball.Slug(teamName)
}

func QuoteCacheKey(p domainProvider.Identity, tone string) string {
	return fmt.Sprintf("quote-%s-%s", p, domainFootball.Slug(tone))
}

// fetch runs the shared cache → guard → adapter → cache cycle.
func fetch[T any](
	ctx context.Context,
	s *FootballService,
	op, key string,
	forceRefresh bool,
	call func(ctx context.Context, adapter domainProvider.IProvider) (T, error),
) (T, error) {
	var zero T
	log := logrus.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"op":         op,
		"key":        key,
	})

	if forceRefresh {
		s.cache.Clear(ctx, key)
	} else if v, ok := domainCache.Lookup[T](ctx, s.cache, key); ok {
		log.Debug("[FOOTBALL] Cache hit")
		return v, nil
	}

	adapter := s.engine.Resolve(ctx)
	p := adapter.Identity()
	log = log.WithField("provider", p)

	if err := s.guard.Allow(ctx, p); err != nil {
		log.WithError(err).Info("[FOOTBALL] Blocked by rate limit guard")
		return zero, blockedError(p, err)
	}

	start := time.Now()
	v, err := call(ctx, adapter)
	if err != nil {
		res := s.guard.HandleError(ctx, err, p)
		log.WithError(err).WithField("kind", res.Kind).Warn("[FOOTBALL] Fetch failed")
		return zero, &domainRateLimit.ClassifiedError{Classified: res}
	}

	s.cache.Set(ctx, key, v)
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("[FOOTBALL] Fetched and cached")
	return v, nil
}

func (s *FootballService) FetchSummary(ctx context.Context, req domainFootball.SummaryRequest) (*domainFootball.SummaryResult, error) {
	req.TopicID = strings.TrimSpace(req.TopicID)
	req.Query = strings.TrimSpace(req.Query)
	if err := validations.ValidateSummaryRequest(ctx, req); err != nil {
		return nil, err
	}

	return fetch(ctx, s, "summary", SummaryCacheKey(req.TopicID, req.WordCount), req.ForceRefresh,
		func(ctx context.Context, adapter domainProvider.IProvider) (*domainFootball.SummaryResult, error) {
			return adapter.GenerateSummary(ctx, req.Query, req.WordCount, req.IsFavorite)
		})
}

// FetchTopicSummary resolves topicID against the current topic list.
func (s *FootballService) FetchTopicSummary(ctx context.Context, topicID string, wordCount int, forceRefresh bool) (*domainFootball.SummaryResult, error) {
	for _, t := range s.Topics(ctx) {
		if t.ID == topicID {
			return s.FetchSummary(ctx, domainFootball.SummaryRequest{
				TopicID:      t.ID,
				Query:        t.Query,
				WordCount:    wordCount,
				IsFavorite:   t.IsFavorite,
				ForceRefresh: forceRefresh,
			})
		}
	}
	return nil, pkgError.NotFoundError(fmt.Sprintf("unknown topic %q", topicID))
}

func (s *FootballService) FetchTeamInsights(ctx context.Context, teamName string, forceRefresh bool) (*domainFootball.TeamInsights, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		teamName = s.registry.GetFavoriteTeam(ctx)
	}
	if err := validations.ValidateTeamName(ctx, teamName); err != nil {
		return nil, err
	}

	return fetch(ctx, s, "insights", InsightsCacheKey(teamName), forceRefresh,
		func(ctx context.Context, adapter domainProvider.IProvider) (*domainFootball.TeamInsights, error) {
			return adapter.GenerateTeamInsights(ctx, teamName)
		})
}

func (s *FootballService) FetchQuote(ctx context.Context, tone string, forceRefresh bool) (string, error) {
	tone = strings.TrimSpace(tone)
	if tone == "" {
		tone = domainFootball.DefaultQuoteTone
	}
	if err := validations.ValidateQuoteTone(ctx, tone); err != nil {
		return "", err
	}

	key := QuoteCacheKey(s.registry.GetActiveProvider(ctx), tone)
	return fetch(ctx, s, "quote", key, forceRefresh,
		func(ctx context.Context, adapter domainProvider.IProvider) (string, error) {
			return adapter.GenerateQuote(ctx, tone)
		})
}

func (s *FootballService) Topics(ctx context.Context) []domainFootball.Topic {
	return domainFootball.DefaultTopics(s.registry.GetFavoriteTeam(ctx))
}

func (s *FootballService) QuoteTones(ctx context.Context) []string {
	return domainFootball.QuoteTones(s.registry.GetFavoriteTeam(ctx))
}

// RunHealthCheck probes the active provider. It bypasses the cache and the guard.
func (s *FootballService) RunHealthCheck(ctx context.Context) domainProvider.HealthResult {
	return s.engine.HealthCheck(ctx)
}

// blockedError describes a call the guard refused to issue.
func blockedError(p domainProvider.Identity, err error) *domainRateLimit.ClassifiedError {
	res := classifier.Classified{
		Kind:            classifier.KindRateLimited,
		Provider:        p,
		FriendlyMessage: "Rate limit active. Please wait for the cooldown to finish before trying again.",
		Raw:             err,
	}
	if errors.Is(err, domainRateLimit.ErrDailyLimited) {
		res.Kind = classifier.KindDailyLimited
		res.FriendlyMessage = fmt.Sprintf("%s has reached its daily request limit. AI features are paused until tomorrow.", p.DisplayName())
	}
	return &domainRateLimit.ClassifiedError{Classified: res}
}
