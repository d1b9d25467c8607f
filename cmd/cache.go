package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache usage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := cacheUsecase.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			printJSON(stats)
			return nil
		}
		rows := [][]string{
			{"Entries", fmt.Sprint(stats.Entries)},
			{"Expired", fmt.Sprint(stats.Expired)},
			{"Size", stats.HumanSize},
		}
		if stats.OldestAge != "" {
			rows = append(rows, []string{"Oldest", stats.OldestAge})
		}
		fmt.Println(renderTable([]string{"Cache", ""}, rows, nil))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear <key>...",
	Short: "Drop cached entries, e.g. summary-world-150 or insights-celtic",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, key := range args {
			cacheUsecase.Clear(cmd.Context(), key)
		}
		fmt.Printf("Cleared %d key(s)\n", len(args))
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired and unreadable entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		n, err := cacheUsecase.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d entr%s\n", n, map[bool]string{true: "y", false: "ies"}[n == 1])
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
