package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AzielCF/watercooler-fc/aiengine/classifier"
	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	domainRateLimit "github.com/AzielCF/watercooler-fc/domains/ratelimit"
	pkgError "github.com/AzielCF/watercooler-fc/pkg/error"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func bullets(items []string) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "  • %s\n", it)
	}
	return b.String()
}

func printSummary(res *domainFootball.SummaryResult) {
	if flagJSON {
		printJSON(res)
		return
	}

	fmt.Println(text.Bold.Sprint(res.Headline))
	fmt.Println()
	fmt.Println(res.Body)

	if len(res.TalkingPoints) > 0 {
		fmt.Println()
		fmt.Println(text.Bold.Sprint("Conversation starters"))
		fmt.Print(bullets(res.TalkingPoints))
	}
	if len(res.RecentResults) > 0 {
		fmt.Println()
		fmt.Println(text.Bold.Sprint("Latest results"))
		fmt.Print(bullets(res.RecentResults))
	}
	if res.FormString != "" {
		fmt.Println()
		fmt.Printf("%s %s\n", text.Bold.Sprint("Form:"), colorForm(res.FormString))
	}
	if len(res.StandingsSnippet) > 0 {
		rows := make([][]string, 0, len(res.StandingsSnippet))
		for _, r := range res.StandingsSnippet {
			rows = append(rows, []string{r.Position, r.TeamName, r.Played, r.GoalDifference, r.Points})
		}
		fmt.Println()
		fmt.Println(renderTable(
			[]string{"Pos", "Team", "P", "GD", "Pts"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
		))
	}

	citations := domainFootball.LimitCitations(res.Citations, domainFootball.CitationDisplayLimit)
	if len(citations) > 0 {
		fmt.Println()
		fmt.Println(text.Faint.Sprint("Sources"))
		for _, c := range citations {
			fmt.Println(text.Faint.Sprintf("  %s (%s)", c.Title, c.URI))
		}
	}
}

func printInsights(team string, res *domainFootball.TeamInsights) {
	if flagJSON {
		printJSON(res)
		return
	}

	fmt.Println(text.Bold.Sprintf("%s insights", team))
	fmt.Printf("%s %s\n\n", text.Bold.Sprint("Form:"), colorForm(res.FormString))
	if len(res.RecentResults) > 0 {
		fmt.Println(text.Bold.Sprint("Latest results"))
		fmt.Print(bullets(res.RecentResults))
		fmt.Println()
	}
	if len(res.TalkingPoints) > 0 {
		fmt.Println(text.Bold.Sprint("Conversation starters"))
		fmt.Print(bullets(res.TalkingPoints))
		fmt.Println()
	}
	fmt.Printf("“%s”\n", res.Quote)
}

func colorForm(form string) string {
	var b strings.Builder
	for _, r := range form {
		switch r {
		case 'W':
			b.WriteString(text.FgGreen.Sprint("W"))
		case 'D':
			b.WriteString(text.FgYellow.Sprint("D"))
		case 'L':
			b.WriteString(text.FgRed.Sprint("L"))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// printError renders failures the way the banners of a UI would.
func printError(err error) {
	var ce *domainRateLimit.ClassifiedError
	if !errors.As(err, &ce) {
		fmt.Fprintln(os.Stderr, text.FgRed.Sprint("Error: ")+err.Error())
		var nf pkgError.NotFoundError
		if errors.As(err, &nf) {
			fmt.Fprintln(os.Stderr, "List the topics with: watercooler topics")
		}
		return
	}

	fmt.Fprintln(os.Stderr, text.FgRed.Sprint("Error: ")+ce.FriendlyMessage)
	switch ce.Kind {
	case classifier.KindConfiguration:
		if ce.Provider.ExternallyConfigured() {
			fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY in the environment or the .env file")
		} else {
			fmt.Fprintf(os.Stderr, "Set a key with: watercooler settings credential %s <key>\n", ce.Provider)
		}
	case classifier.KindRateLimited:
		fmt.Fprintln(os.Stderr, "Follow the cooldown with: watercooler cooldown watch")
	case classifier.KindDailyLimited:
		fmt.Fprintf(os.Stderr, "AI features for %s are paused until tomorrow. Switch provider with: watercooler settings provider openai\n", ce.Provider.DisplayName())
	default:
		if flagDebug && ce.Raw != nil {
			fmt.Fprintln(os.Stderr, text.Faint.Sprint(ce.Raw.Error()))
		} else {
			fmt.Fprintln(os.Stderr, "Run with --debug for technical details, or check: watercooler settings show")
		}
	}
}
