package football

import (
	"context"
	"fmt"
	"strings"
)

// Citation is a web source backing a generated summary.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// StandingsRow is one league table line, kept verbatim as returned upstream.
type StandingsRow struct {
	Position       string `json:"position"`
	TeamName       string `json:"teamName"`
	Played         string `json:"played"`
	GoalDifference string `json:"goalDifference"`
	Points         string `json:"points"`
}

// SummaryResult is the parsed outcome of a news summary request.
type SummaryResult struct {
	Headline         string         `json:"headline"`
	Body             string         `json:"body"`
	TalkingPoints    []string       `json:"talkingPoints"`
	Citations        []Citation     `json:"citations"`
	RecentResults    []string       `json:"recentResults,omitempty"`
	FormString       string         `json:"formString,omitempty"`
	StandingsSnippet []StandingsRow `json:"standingsSnippet,omitempty"`
}

// TeamInsights is the parsed outcome of a team insights request.
type TeamInsights struct {
	RecentResults []string `json:"recentResults"`
	TalkingPoints []string `json:"talkingPoints"`
	Quote         string   `json:"quote"`
	FormString    string   `json:"formString"`
}

// Topic is a news feed entry the user can summarise.
type Topic struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Query      string `json:"query"`
	IsFavorite bool   `json:"isFavorite,omitempty"`
}

// Summary lengths offered to the user.
const (
	WordCountBrief    = 75
	WordCountStandard = 150
	WordCountDetailed = 250
)

// WordCounts lists the accepted summary lengths.
var WordCounts = []int{WordCountBrief, WordCountStandard, WordCountDetailed}

const (
	DefaultFavoriteTeam = "Celtic"
	DefaultQuoteTone    = "A Neutral Colleague"
)

// Slug lower-cases s and joins whitespace separated words with dashes.
func Slug(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

// FavoriteTopic builds the feed entry for the user's team.
func FavoriteTopic(team string) Topic {
	return Topic{
		ID:         "favorite-" + Slug(team),
		Title:      fmt.Sprintf("%s News", team),
		Query:      fmt.Sprintf("latest news and developments about %s from the past week", team),
		IsFavorite: true,
	}
}

// DefaultTopics returns the favorite team topic followed by the fixed topics.
func DefaultTopics(team string) []Topic {
	return []Topic{
		FavoriteTopic(team),
		{
			ID:    "scottish",
			Title: "Scottish Football",
			Query: "latest major news and results in Scottish football from the past week",
		},
		{
			ID:    "world",
			Title: "World Football",
			Query: "most significant world football news, transfers, and results from the past week",
		},
	}
}

// QuoteTones returns the audiences a quote can be tailored for.
func QuoteTones(team string) []string {
	return []string{
		DefaultQuoteTone,
		"My Boss",
		"A Funny Colleague",
		fmt.Sprintf("A Die-hard %s Fan", team),
		"A Rival Fan",
		"Someone New to Football",
	}
}

// SummaryRequest describes a summary fetch.
type SummaryRequest struct {
	TopicID      string
	Query        string
	WordCount    int
	IsFavorite   bool
	ForceRefresh bool
}

// IFootballUsecase is the surface the CLI (or any other front end) calls.
type IFootballUsecase interface {
	FetchQuote(ctx context.Context, tone string, forceRefresh bool) (string, error)
	FetchSummary(ctx context.Context, req SummaryRequest) (*SummaryResult, error)
	FetchTeamInsights(ctx context.Context, teamName string, forceRefresh bool) (*TeamInsights, error)
	Topics(ctx context.Context) []Topic
	QuoteTones(ctx context.Context) []string
}

// CitationDisplayLimit caps how many sources a front end shows per summary.
const CitationDisplayLimit = 5

// LimitCitations returns at most n citations.
func LimitCitations(in []Citation, n int) []Citation {
	if n <= 0 || len(in) <= n {
		return in
	}
	return in[:n]
}
