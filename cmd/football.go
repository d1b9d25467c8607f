package cmd

import (
	"fmt"
	"strconv"
	"strings"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	flagRefresh   bool
	flagWordCount int
	flagTone      string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Generate a one-line water cooler quote",
	RunE: func(cmd *cobra.Command, _ []string) error {
		quote, err := footballUsecase.FetchQuote(cmd.Context(), flagTone, flagRefresh)
		if err != nil {
			return err
		}
		if flagJSON {
			printJSON(map[string]string{"quote": quote})
			return nil
		}
		fmt.Printf("“%s”\n", quote)
		return nil
	},
}

var tonesCmd = &cobra.Command{
	Use:   "tones",
	Short: "List the audiences a quote can be tailored for",
	Run: func(cmd *cobra.Command, _ []string) {
		tones := footballUsecase.QuoteTones(cmd.Context())
		if flagJSON {
			printJSON(tones)
			return
		}
		fmt.Print(bullets(tones))
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the news topics",
	Run: func(cmd *cobra.Command, _ []string) {
		topics := footballUsecase.Topics(cmd.Context())
		if flagJSON {
			printJSON(topics)
			return
		}
		rows := make([][]string, 0, len(topics))
		for _, t := range topics {
			fav := ""
			if t.IsFavorite {
				fav = "★"
			}
			rows = append(rows, []string{t.ID, t.Title, fav})
		}
		fmt.Println(renderTable([]string{"ID", "Title", "Fav"}, rows, nil))
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [topic-id]",
	Short: "Summarise the week's news for a topic",
	Long:  "Summarise the week's news for a topic. Without a topic id the favorite team topic is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topicID := ""
		if len(args) == 1 {
			topicID = args[0]
		} else {
			topicID = footballUsecase.Topics(ctx)[0].ID
		}

		res, err := footballUsecase.FetchTopicSummary(ctx, topicID, flagWordCount, flagRefresh)
		if err != nil {
			return err
		}
		printSummary(res)
		return nil
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights [team]",
	Short: "Results, form and talking points for a team",
	Long:  "Results, form and talking points for a team. Without a team name the favorite team is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		team := strings.TrimSpace(strings.Join(args, " "))
		if team == "" {
			team = registryUsecase.GetFavoriteTeam(ctx)
		}
		res, err := footballUsecase.FetchTeamInsights(ctx, team, flagRefresh)
		if err != nil {
			return err
		}
		printInsights(team, res)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the connection to the active provider",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		p := registryUsecase.GetActiveProvider(ctx)
		res := footballUsecase.RunHealthCheck(ctx)
		if flagJSON {
			printJSON(res)
		} else if res.Success {
			fmt.Println(text.FgGreen.Sprint("✔ ") + res.Message)
		} else {
			fmt.Println(text.FgRed.Sprintf("✘ %s: ", p.DisplayName()) + res.Message)
		}
		if !res.Success {
			return fmt.Errorf("health check failed for %s", p.DisplayName())
		}
		return nil
	},
}

func wordCountUsage() string {
	parts := make([]string, 0, len(domainFootball.WordCounts))
	for _, wc := range domainFootball.WordCounts {
		parts = append(parts, strconv.Itoa(wc))
	}
	return "summary length in words (" + strings.Join(parts, ", ") + ")"
}

func init() {
	rootCmd.AddCommand(quoteCmd, tonesCmd, topicsCmd, summaryCmd, insightsCmd, healthCmd)

	for _, c := range []*cobra.Command{quoteCmd, summaryCmd, insightsCmd} {
		c.Flags().BoolVarP(&flagRefresh, "refresh", "r", false, "ignore the cache and fetch again")
	}
	quoteCmd.Flags().StringVarP(&flagTone, "tone", "t", domainFootball.DefaultQuoteTone, "who the quote is for, see the tones command")
	summaryCmd.Flags().IntVarP(&flagWordCount, "words", "w", domainFootball.WordCountStandard, wordCountUsage())
}
