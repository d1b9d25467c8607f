package parser

import (
	"testing"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummary_NeverFailsOnJunk(t *testing.T) {
	inputs := []string{
		"",
		"no markers at all",
		"[HEADLINE]never closed",
		"[/SUMMARY] close before open [SUMMARY]",
		"[STARTERS][/STARTERS]",
		"[TABLE]\n| | |\n[/TABLE]",
		"[[[]]]/][",
		"[HEADLINE][/HEADLINE][SUMMARY]   [/SUMMARY]",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var res domainFootball.SummaryResult
			require.NotPanics(t, func() { res = ParseSummary(in) })
			assert.Empty(t, res.Headline)
			assert.Empty(t, res.Body)
			assert.Empty(t, res.TalkingPoints)
			assert.NotNil(t, res.TalkingPoints)
			assert.Empty(t, res.Citations)
			assert.Empty(t, res.RecentResults)
			assert.Empty(t, res.FormString)
			assert.Empty(t, res.StandingsSnippet)
		})
	}
}

func TestParseSummary_WellFormed(t *testing.T) {
	res := ParseSummary("[HEADLINE]A[/HEADLINE][SUMMARY]B[/SUMMARY][STARTERS]- C\n- D[/STARTERS]")

	assert.Equal(t, "A", res.Headline)
	assert.Equal(t, "B", res.Body)
	assert.Equal(t, []string{"C", "D"}, res.TalkingPoints)
	assert.Nil(t, res.StandingsSnippet)
}

func TestParseSummary_FavoriteSections(t *testing.T) {
	text := `Sure! Here is your summary.
[HEADLINE] Celtic cruise at Parkhead [/HEADLINE]
[SUMMARY]
Celtic won again.
[/SUMMARY]
[STARTERS]
* Who starts up front?
• Is the title race over?

- 
[/STARTERS]
[RESULTS]
- Celtic 3-0 Hearts
- Aberdeen 1-1 Celtic
[/RESULTS]
[FORM] W-D-W-W-L [/FORM]
[TABLE]
Pos | Team | P | GD | Pts
1 | Celtic | 10 | +22 | 28
2 | Rangers | 10
| 3 | Hearts | 10 | +5 | 19 |
[/TABLE]`

	res := ParseSummary(text)

	assert.Equal(t, "Celtic cruise at Parkhead", res.Headline)
	assert.Equal(t, "Celtic won again.", res.Body)
	assert.Equal(t, []string{"Who starts up front?", "Is the title race over?"}, res.TalkingPoints)
	assert.Equal(t, []string{"Celtic 3-0 Hearts", "Aberdeen 1-1 Celtic"}, res.RecentResults)
	assert.Equal(t, "WDWWL", res.FormString)
	require.Len(t, res.StandingsSnippet, 2)
	assert.Equal(t, domainFootball.StandingsRow{
		Position: "1", TeamName: "Celtic", Played: "10", GoalDifference: "+22", Points: "28",
	}, res.StandingsSnippet[0])
	assert.Equal(t, "Hearts", res.StandingsSnippet[1].TeamName)
}

func TestSection_FirstPairNonGreedy(t *testing.T) {
	text := "[QUOTE]one[/QUOTE] filler [QUOTE]two[/QUOTE]"
	assert.Equal(t, "one", Section(text, SectionQuote))
	assert.Equal(t, "", Section(text, "MISSING"))
	assert.Equal(t, "", Section(text, ""))
}

func TestParseStandings_DropsMalformedLines(t *testing.T) {
	block := "1 | Celtic | 10 | +22 | 28\n2 | Rangers | 10"

	rows := ParseStandings(block)

	require.Len(t, rows, 1)
	assert.Equal(t, "Celtic", rows[0].TeamName)
	assert.Equal(t, "28", rows[0].Points)
}

// Tabla markdown completa: cabecera y separador no son filas
func TestParseStandings_MarkdownTable(t *testing.T) {
	block := "| Pos | Team | P | GD | Pts |\n" +
		"|---|:---|---:|:-:|---|\n" +
		"| 1 | Celtic | 10 | +21 | 28 |\n" +
		"| 2 | Rangers | 10 | +15 | 24 |"

	rows := ParseStandings(block)

	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].Position)
	assert.Equal(t, "Celtic", rows[0].TeamName)
	assert.Equal(t, "+21", rows[0].GoalDifference)
	assert.Equal(t, "Rangers", rows[1].TeamName)

	rows = ParseStandings("Position | Team | Played | GD | Points\n3 | Hearts | 10 | +4 | 17")
	require.Len(t, rows, 1)
	assert.Equal(t, "Hearts", rows[0].TeamName)
}

func TestParseStandings_KeepsValuesVerbatim(t *testing.T) {
	rows := ParseStandings("1st | St. Mirren | ten | -3 | n/a")
	require.Len(t, rows, 1)
	assert.Equal(t, "1st", rows[0].Position)
	assert.Equal(t, "ten", rows[0].Played)
	assert.Equal(t, "n/a", rows[0].Points)
}

func TestParseForm(t *testing.T) {
	cases := map[string]string{
		"W-W-D":      "WWD",
		"w w d l":    "WWDL",
		"L,L,W/D|W":  "LLWDW",
		"":           "",
		"WWWWWW":     "",
		"Win, draw":  "",
		"N/A":        "",
		" D \n":      "D",
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseForm(in), "input %q", in)
	}
}

func TestParseInsights(t *testing.T) {
	text := `[RESULTS]
- Celtic 2-1 Rangers
[/RESULTS]
[STARTERS]
- Big week ahead
[/STARTERS]
[QUOTE] "What a week to be a Celtic fan!" [/QUOTE]
[FORM]WWDWW[/FORM]`

	res := ParseInsights(text)

	assert.Equal(t, []string{"Celtic 2-1 Rangers"}, res.RecentResults)
	assert.Equal(t, []string{"Big week ahead"}, res.TalkingPoints)
	assert.Equal(t, "What a week to be a Celtic fan!", res.Quote)
	assert.Equal(t, "WWDWW", res.FormString)

	empty := ParseInsights("")
	assert.Empty(t, empty.Quote)
	assert.Empty(t, empty.FormString)
	assert.Empty(t, empty.RecentResults)
}

func TestDedupCitations(t *testing.T) {
	in := []domainFootball.Citation{
		{URI: "https://bbc.co.uk/sport/1", Title: "BBC"},
		{URI: "https://skysports.com/x", Title: "Sky"},
		{URI: "https://bbc.co.uk/sport/1", Title: "BBC Sport again"},
		{URI: "", Title: "no uri"},
		{URI: "https://celticfc.com", Title: ""},
	}

	out := DedupCitations(in)

	assert.Equal(t, []domainFootball.Citation{
		{URI: "https://bbc.co.uk/sport/1", Title: "BBC"},
		{URI: "https://skysports.com/x", Title: "Sky"},
		{URI: "https://celticfc.com", Title: "Source"},
	}, out)
	assert.NotNil(t, DedupCitations(nil))
}

func TestCleanQuote(t *testing.T) {
	assert.Equal(t, "Big game tonight.", CleanQuote(`  "Big game tonight."  `))
	assert.Equal(t, "Big game tonight.", CleanQuote("“Big game tonight.”"))
	assert.Equal(t, "It's the keeper's fault", CleanQuote("It's the keeper's fault"))
	assert.Equal(t, "", CleanQuote(`""`))
}
