package cmd

import (
	"fmt"
	"time"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	"github.com/AzielCF/watercooler-fc/usecase"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	flagPrefetchWorkers int
	flagPrefetchTones   []string
	flagPrefetchRefresh bool
	flagPrefetchWords   int
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Warm the cache for every topic, the favorite team and quotes",
	Long: `Warm the cache for every topic summary, the favorite team insights and the
requested quote tones. Runs concurrently; entries for the same key never overlap.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		workers := flagPrefetchWorkers
		if workers <= 0 {
			workers = appConfig.Prefetch.Workers
		}

		results := footballUsecase.Prefetch(cmd.Context(), usecase.PrefetchOptions{
			WordCount:    flagPrefetchWords,
			ForceRefresh: flagPrefetchRefresh,
			Workers:      workers,
			QueueSize:    appConfig.Prefetch.QueueSize,
			Tones:        flagPrefetchTones,
		})

		failed := 0
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			status := text.FgGreen.Sprint("ok")
			if r.Err != nil {
				failed++
				status = text.FgRed.Sprint(r.Err.Error())
			}
			rows = append(rows, []string{r.Key, status, r.Duration.Round(time.Millisecond).String()})
		}

		if flagJSON {
			out := make([]map[string]any, 0, len(results))
			for _, r := range results {
				entry := map[string]any{"key": r.Key, "duration_ms": r.Duration.Milliseconds()}
				if r.Err != nil {
					entry["error"] = r.Err.Error()
				}
				out = append(out, entry)
			}
			printJSON(out)
		} else {
			fmt.Println(renderTable([]string{"Key", "Status", "Took"}, rows, nil))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d prefetch jobs failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefetchCmd)

	prefetchCmd.Flags().IntVarP(&flagPrefetchWorkers, "workers", "", 0, "concurrent requests (default from PREFETCH_WORKERS)")
	prefetchCmd.Flags().StringSliceVarP(&flagPrefetchTones, "tones", "", nil, "quote tones to warm (default: the neutral tone)")
	prefetchCmd.Flags().BoolVarP(&flagPrefetchRefresh, "refresh", "r", false, "ignore cached entries")
	prefetchCmd.Flags().IntVarP(&flagPrefetchWords, "words", "w", domainFootball.WordCountStandard, wordCountUsage())
}
