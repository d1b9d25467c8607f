package providers

import (
	"fmt"
	"strings"
)

const favoriteTeamAddon = `
You are also writing for a dedicated fan of the team in this query. Include these sections as well when recent news covers them:

[RESULTS]
- The results of their last 2-3 matches, including the competition.
- Example: Celtic 3 - 0 St. Mirren (Scottish Premiership)
[/RESULTS]

[FORM]
Their form over the last 5 matches as W, D and L letters, most recent first (e.g. WWDLD).
[/FORM]

[TABLE]
The five league table rows around the team, one per line, formatted as Pos | Team | P | GD | Pts
- 1 | Celtic | 10 | +21 | 28
[/TABLE]
`

func summaryPrompt(query string, wordCount int, isFavorite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a football news expert and a friendly colleague, working as the assistant of the "Watercooler FC" app.
Summarise the most important football news from the past week about %s.
The summary should be approximately %d words.

Structure your whole response with the following markers and nothing else:

[HEADLINE]
A catchy, conversational headline about the most exciting story.
[/HEADLINE]

[SUMMARY]
The news summary.
[/SUMMARY]

[STARTERS]
- A conversation starter based on the news.
- Another conversation starter.
- A third conversation starter.
[/STARTERS]
`, query, wordCount)
	if isFavorite {
		b.WriteString(favoriteTeamAddon)
	}
	return b.String()
}

func insightsPrompt(teamName string) string {
	return fmt.Sprintf(`You are a football expert from "Watercooler FC".
For the team "%s", provide the following based on the latest available data:
1. The results of their last 2-3 matches, including the competition.
2. 3-4 interesting, up-to-date conversation starters.
3. One single, catchy water cooler line about the team, phrased as a quote.
4. Their form over the last 5 matches as W, D and L letters, most recent first (e.g. WWDLD).

Structure your whole response with the following markers and nothing else:

[RESULTS]
- [Home Team] X - Y [Away Team] ([Competition])
- [Home Team] A - B [Away Team] ([Competition])
[/RESULTS]

[STARTERS]
- A conversation starter.
- Another conversation starter.
- A third conversation starter.
[/STARTERS]

[QUOTE]
The water cooler quote.
[/QUOTE]

[FORM]
The form string, e.g. WWDLD.
[/FORM]
`, teamName)
}

func quotePrompt(tone string) string {
	return fmt.Sprintf(`You are a witty football pundit who tailors comments to the audience.
Give one short, insightful or funny "water cooler" quote about the current state of world football.

Tailor it for talking to: "%s".

With "My Boss" keep it insightful and professional. With "A Funny Colleague" it can be humorous or sarcastic.
If the audience names a team (e.g. "A Die-hard Liverpool Fan"), say something a fan of that team would enjoy.

It must be a single sentence.

Return only the quote itself, with no labels, extra text or quotation marks.
`, tone)
}

const healthCheckPrompt = `Reply with the single word OK.`

// fallbackQuote is used when the insights response has no [QUOTE] section.
func fallbackQuote(teamName string) string {
	return fmt.Sprintf("Couldn't generate a quote for %s, but are they signing anyone new?", teamName)
}

// fallbackForm is shown when no form string could be parsed.
const fallbackForm = "N/A"
