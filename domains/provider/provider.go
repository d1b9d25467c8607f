package provider

import (
	"context"
	"strings"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
)

// Identity names an AI vendor.
type Identity string

const (
	Gemini Identity = "gemini"
	OpenAI Identity = "openai"

	// Default is used whenever no valid selection has been persisted.
	Default = Gemini
)

// All lists the supported providers in display order.
var All = []Identity{Gemini, OpenAI}

// ParseIdentity normalizes s and reports whether it names a supported provider.
func ParseIdentity(s string) (Identity, bool) {
	id := Identity(strings.ToLower(strings.TrimSpace(s)))
	switch id {
	case Gemini, OpenAI:
		return id, true
	}
	return "", false
}

// DisplayName is the human label used in messages.
func (i Identity) DisplayName() string {
	switch i {
	case Gemini:
		return "Gemini"
	case OpenAI:
		return "OpenAI"
	}
	return string(i)
}

// ExternallyConfigured reports whether the credential comes from the deployment
// environment and can never be changed at runtime.
func (i Identity) ExternallyConfigured() bool {
	return i == Gemini
}

// HealthResult is the outcome of a connectivity probe.
type HealthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IProvider is the contract every AI adapter implements.
type IProvider interface {
	Identity() Identity
	GenerateSummary(ctx context.Context, query string, wordCount int, isFavorite bool) (*domainFootball.SummaryResult, error)
	GenerateTeamInsights(ctx context.Context, teamName string) (*domainFootball.TeamInsights, error)
	GenerateQuote(ctx context.Context, tone string) (string, error)
	// HealthCheck never returns an error; failures are reported in the result.
	HealthCheck(ctx context.Context) HealthResult
}

// ICredentialSource hands credentials to the adapters.
type ICredentialSource interface {
	GetCredential(ctx context.Context, p Identity) (string, bool)
}

// IRegistry stores the active provider selection and its credentials.
type IRegistry interface {
	ICredentialSource
	GetActiveProvider(ctx context.Context) Identity
	SetActiveProvider(ctx context.Context, p Identity) error
	SetCredential(ctx context.Context, p Identity, value string) error
	GetActiveCredential(ctx context.Context) (string, bool)
	GetFavoriteTeam(ctx context.Context) string
	SetFavoriteTeam(ctx context.Context, team string) error
}

// IFacade routes every call to the adapter of the active provider.
type IFacade interface {
	Resolve(ctx context.Context) IProvider
	GenerateSummary(ctx context.Context, query string, wordCount int, isFavorite bool) (*domainFootball.SummaryResult, error)
	GenerateTeamInsights(ctx context.Context, teamName string) (*domainFootball.TeamInsights, error)
	GenerateQuote(ctx context.Context, tone string) (string, error)
	HealthCheck(ctx context.Context) HealthResult
}
