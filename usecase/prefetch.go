package usecase

import (
	"context"
	"sync"
	"time"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	"github.com/AzielCF/watercooler-fc/pkg/workerpool"
	"github.com/sirupsen/logrus"
)

// PrefetchOptions controls a warm-up run.
type PrefetchOptions struct {
	WordCount    int
	ForceRefresh bool
	Workers      int
	QueueSize    int
	// Tones defaults to the neutral tone only.
	Tones []string
}

// PrefetchResult is the outcome of one warmed entry.
type PrefetchResult struct {
	Key      string
	Err      error
	Duration time.Duration
}

// Prefetch warms the cache for every topic summary, the favorite team insights
// and the requested quote tones. Jobs for the same cache key never overlap.
func (s *FootballService) Prefetch(ctx context.Context, opts PrefetchOptions) []PrefetchResult {
	if opts.WordCount == 0 {
		opts.WordCount = domainFootball.WordCountStandard
	}
	if len(opts.Tones) == 0 {
		opts.Tones = []string{domainFootball.DefaultQuoteTone}
	}

	type task struct {
		key string
		run func(ctx context.Context) error
	}

	var tasks []task
	for _, t := range s.Topics(ctx) {
		topic := t
		tasks = append(tasks, task{
			key: SummaryCacheKey(topic.ID, opts.WordCount),
			run: func(ctx context.Context) error {
				_, err := s.FetchSummary(ctx, domainFootball.SummaryRequest{
					TopicID:      topic.ID,
					Query:        topic.Query,
					WordCount:    opts.WordCount,
					IsFavorite:   topic.IsFavorite,
					ForceRefresh: opts.ForceRefresh,
				})
				return err
			},
		})
	}

	team := s.registry.GetFavoriteTeam(ctx)
	tasks = append(tasks, task{
		key: InsightsCacheKey(team),
		run: func(ctx context.Context) error {
			_, err := s.FetchTeamInsights(ctx, team, opts.ForceRefresh)
			return err
		},
	})

	active := s.registry.GetActiveProvider(ctx)
	for _, tone := range opts.Tones {
		tone := tone
		tasks = append(tasks, task{
			key: QuoteCacheKey(active, tone),
			run: func(ctx context.Context) error {
				_, err := s.FetchQuote(ctx, tone, opts.ForceRefresh)
				return err
			},
		})
	}

	queue := opts.QueueSize
	if queue < len(tasks) {
		queue = len(tasks)
	}
	pool := workerpool.New(opts.Workers, queue)
	pool.OnJobStart = func(workerID int, key string) {
		logrus.Debugf("[PREFETCH] Worker %d warming %s", workerID, key)
	}
	pool.OnJobEnd = func(workerID int, key string, err error) {
		if err != nil {
			logrus.WithError(err).Debugf("[PREFETCH] Worker %d failed %s", workerID, key)
		}
	}
	pool.Start(ctx)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]PrefetchResult, len(tasks))
	)
	for i, t := range tasks {
		i, t := i, t
		results[i].Key = t.key
		wg.Add(1)
		ok := pool.TryDispatch(workerpool.Job{
			Key: t.key,
			Handler: func(ctx context.Context) error {
				defer wg.Done()
				start := time.Now()
				err := t.run(ctx)
				mu.Lock()
				results[i].Err = err
				results[i].Duration = time.Since(start)
				mu.Unlock()
				return err
			},
		})
		if !ok {
			wg.Done()
			results[i].Err = context.Canceled
		}
	}

	wg.Wait()
	stats := pool.GetStats()
	pool.Stop()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logrus.WithFields(logrus.Fields{
		"total":   len(results),
		"failed":  failed,
		"dropped": stats.TotalDropped,
		"workers": stats.NumWorkers,
	}).Info("[PREFETCH] Done")
	return results
}
