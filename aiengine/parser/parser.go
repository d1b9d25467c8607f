// Package parser extracts structured data from the marker delimited plain text
// protocol the prompts ask the models to follow:
//
//	[HEADLINE]...[/HEADLINE]
//	[SUMMARY]...[/SUMMARY]
//	[STARTERS]
//	- point
//	[/STARTERS]
//
// Every function here is total. Missing, empty or malformed sections yield
// empty values, never an error.
package parser

import (
	"regexp"
	"strings"
	"sync"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
)

// Section names used by the prompts.
const (
	SectionHeadline = "HEADLINE"
	SectionSummary  = "SUMMARY"
	SectionStarters = "STARTERS"
	SectionResults  = "RESULTS"
	SectionForm     = "FORM"
	SectionTable    = "TABLE"
	SectionQuote    = "QUOTE"
)

const standingsFields = 5

var (
	sectionMu sync.RWMutex
	sectionRE = map[string]*regexp.Regexp{}

	bulletRE = regexp.MustCompile(`^(?:[-*•]+\s*)+`)
	formRE   = regexp.MustCompile(`^[WDL]{1,5}$`)
	ruleRE   = regexp.MustCompile(`^:?-+:?$`)
)

func sectionPattern(name string) *regexp.Regexp {
	sectionMu.RLock()
	re, ok := sectionRE[name]
	sectionMu.RUnlock()
	if ok {
		return re
	}

	q := regexp.QuoteMeta(name)
	re = regexp.MustCompile(`(?s)\[` + q + `\](.*?)\[/` + q + `\]`)

	sectionMu.Lock()
	sectionRE[name] = re
	sectionMu.Unlock()
	return re
}

// Section returns the trimmed text between the first [NAME] ... [/NAME] pair.
func Section(text, name string) string {
	if text == "" || name == "" {
		return ""
	}
	m := sectionPattern(name).FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Lines splits a block on line breaks, strips bullet markers and surrounding
// whitespace and drops empty lines. Order is preserved.
func Lines(block string) []string {
	out := []string{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(bulletRE.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ListSection is Lines applied to a named section.
func ListSection(text, name string) []string {
	return Lines(Section(text, name))
}

// ParseStandings keeps only lines that split into exactly five pipe separated
// fields. Values are kept verbatim.
func ParseStandings(block string) []domainFootball.StandingsRow {
	rows := []domainFootball.StandingsRow{}
	for _, line := range Lines(block) {
		line = strings.Trim(line, "|")
		parts := strings.Split(line, "|")
		if len(parts) != standingsFields {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if isTableRule(parts) || isTableHeader(parts) {
			continue
		}
		rows = append(rows, domainFootball.StandingsRow{
			Position:       parts[0],
			TeamName:       parts[1],
			Played:         parts[2],
			GoalDifference: parts[3],
			Points:         parts[4],
		})
	}
	return rows
}

// isTableRule matches markdown separator rows like |---|:--:|.
func isTableRule(parts []string) bool {
	for _, p := range parts {
		if !ruleRE.MatchString(p) {
			return false
		}
	}
	return true
}

func isTableHeader(parts []string) bool {
	first := strings.ToLower(parts[0])
	return first == "pos" || first == "position"
}

// ParseForm normalizes a form block ("W-W-D", "w w d l") to the W/D/L letters.
// Anything that does not reduce to one to five of those letters yields "".
func ParseForm(block string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(block) {
		switch r {
		case ' ', '-', ',', '/', '|', '\t', '\n', '\r':
			continue
		}
		b.WriteRune(r)
	}
	form := b.String()
	if !formRE.MatchString(form) {
		return ""
	}
	return form
}

// ParseSummary fills every field of a SummaryResult except Citations.
func ParseSummary(text string) domainFootball.SummaryResult {
	res := domainFootball.SummaryResult{
		Headline:      Section(text, SectionHeadline),
		Body:          Section(text, SectionSummary),
		TalkingPoints: ListSection(text, SectionStarters),
		Citations:     []domainFootball.Citation{},
	}
	if results := ListSection(text, SectionResults); len(results) > 0 {
		res.RecentResults = results
	}
	res.FormString = ParseForm(Section(text, SectionForm))
	if rows := ParseStandings(Section(text, SectionTable)); len(rows) > 0 {
		res.StandingsSnippet = rows
	}
	return res
}

// ParseInsights extracts the insights sections. Quote and form are left empty
// when absent; callers decide on placeholders.
func ParseInsights(text string) domainFootball.TeamInsights {
	return domainFootball.TeamInsights{
		RecentResults: ListSection(text, SectionResults),
		TalkingPoints: ListSection(text, SectionStarters),
		Quote:         CleanQuote(Section(text, SectionQuote)),
		FormString:    ParseForm(Section(text, SectionForm)),
	}
}

// DedupCitations drops entries without a URI and keeps the first occurrence of
// each URI, preserving first-seen order.
func DedupCitations(in []domainFootball.Citation) []domainFootball.Citation {
	out := []domainFootball.Citation{}
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		uri := strings.TrimSpace(c.URI)
		if uri == "" {
			continue
		}
		if _, ok := seen[uri]; ok {
			continue
		}
		seen[uri] = struct{}{}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = "Source"
		}
		out = append(out, domainFootball.Citation{URI: uri, Title: title})
	}
	return out
}

// CleanQuote trims whitespace and surrounding quotation characters.
func CleanQuote(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\"“”"))
}
