package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AzielCF/watercooler-fc/aiengine/parser"
	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// geminiAttempts is used when Options.MaxRetries is unset.
const geminiAttempts = 3

// GeminiProvider is the adapter for the Google Gemini API
type GeminiProvider struct {
	credentials domainProvider.ICredentialSource
	opts        Options
	// backoff is the wait before retry i (0-based) after a 503.
	backoff func(i int) time.Duration
}

var _ domainProvider.IProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates the Gemini adapter. The credential is looked up on
// every call so a changed environment is picked up without rebuilding.
func NewGeminiProvider(credentials domainProvider.ICredentialSource, opts Options) *GeminiProvider {
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}
	return &GeminiProvider{
		credentials: credentials,
		opts:        opts,
		backoff: func(i int) time.Duration {
			return time.Duration(1<<uint(i)) * time.Second
		},
	}
}

func (p *GeminiProvider) Identity() domainProvider.Identity {
	return domainProvider.Gemini
}

func (p *GeminiProvider) newClient(ctx context.Context) (*genai.Client, error) {
	apiKey, err := credential(ctx, p.credentials, domainProvider.Gemini)
	if err != nil {
		return nil, err
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.opts.HTTPClient,
	}
	if p.opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = p.opts.BaseURL
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &domainProvider.ProviderError{
			Kind:     domainProvider.ErrorKindUnknown,
			Provider: domainProvider.Gemini,
			Message:  fmt.Sprintf("failed to create Gemini client: %v", err),
			Err:      err,
		}
	}
	return client, nil
}

// generate issues one bounded call and returns the raw response.
func (p *GeminiProvider) generate(ctx context.Context, op, prompt string, search bool) (*genai.GenerateContentResponse, error) {
	client, err := p.newClient(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.timeout())
	defer cancel()

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}}
	cfg := &genai.GenerateContentConfig{}
	if search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	start := time.Now()
	resp, err := p.generateContentWithRetry(ctx, client, p.opts.Model, contents, cfg)
	if err != nil {
		wrapped := p.wrapError(ctx, err)
		logrus.WithFields(logrus.Fields{
			"op":    op,
			"model": p.opts.Model,
		}).WithError(wrapped).Debug("[GEMINI] Call failed")
		return nil, wrapped
	}

	logrus.WithFields(logrus.Fields{
		"op":      op,
		"model":   p.opts.Model,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("[GEMINI] Call succeeded")
	logUsage("GEMINI", op, p.extractUsage(resp.UsageMetadata, search))
	return resp, nil
}

func (p *GeminiProvider) generateContentWithRetry(ctx context.Context, client *genai.Client, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	attempts := geminiAttempts
	if p.opts.MaxRetries > 0 {
		attempts = p.opts.MaxRetries + 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isUnavailable(err) || i == attempts-1 {
			return nil, err
		}
		logrus.Debugf("[GEMINI] 503 from upstream, retry %d/%d", i+1, attempts-1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.backoff(i)):
		}
	}
	return nil, lastErr
}

func isUnavailable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 503
	}
	return strings.Contains(err.Error(), "503")
}

// wrapError maps SDK failures onto ProviderError.
func (p *GeminiProvider) wrapError(ctx context.Context, err error) error {
	if pe, ok := timeoutError(ctx, err, domainProvider.Gemini, p.opts.timeout()); ok {
		return pe
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		doc := map[string]any{
			"error": map[string]any{
				"code":    apiErr.Code,
				"message": apiErr.Message,
				"status":  apiErr.Status,
				"details": apiErr.Details,
			},
		}
		body, _ := json.Marshal(doc)
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		return &domainProvider.ProviderError{
			Kind:     domainProvider.ErrorKindSDK,
			Provider: domainProvider.Gemini,
			Status:   apiErr.Code,
			Code:     apiErr.Status,
			Body:     string(body),
			Message:  msg,
			Err:      err,
		}
	}

	return &domainProvider.ProviderError{
		Kind:     domainProvider.ErrorKindUnknown,
		Provider: domainProvider.Gemini,
		Message:  err.Error(),
		Err:      err,
	}
}

func (p *GeminiProvider) extractUsage(usage *genai.GenerateContentResponseUsageMetadata, searched bool) *UsageStats {
	if usage == nil {
		return nil
	}
	in := int(usage.PromptTokenCount)
	out := int(usage.CandidatesTokenCount) + int(usage.ThoughtsTokenCount)
	cached := int(usage.CachedContentTokenCount)
	return &UsageStats{
		Model:        p.opts.Model,
		InputTokens:  in,
		OutputTokens: out,
		CachedTokens: cached,
		CostUSD:      calculateCost(p.opts.Model, in, out, cached, searched),
	}
}

// groundingCitations reads the web sources of the first candidate.
func groundingCitations(resp *genai.GenerateContentResponse) []domainFootball.Citation {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	var out []domainFootball.Citation
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out = append(out, domainFootball.Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return out
}

func (p *GeminiProvider) GenerateSummary(ctx context.Context, query string, wordCount int, isFavorite bool) (*domainFootball.SummaryResult, error) {
	resp, err := p.generate(ctx, "summary", summaryPrompt(query, wordCount, isFavorite), true)
	if err != nil {
		return nil, err
	}
	res := parser.ParseSummary(resp.Text())
	res.Citations = parser.DedupCitations(groundingCitations(resp))
	return &res, nil
}

func (p *GeminiProvider) GenerateTeamInsights(ctx context.Context, teamName string) (*domainFootball.TeamInsights, error) {
	resp, err := p.generate(ctx, "insights", insightsPrompt(teamName), true)
	if err != nil {
		return nil, err
	}
	res := parser.ParseInsights(resp.Text())
	applyInsightsFallbacks(&res, teamName)
	return &res, nil
}

func (p *GeminiProvider) GenerateQuote(ctx context.Context, tone string) (string, error) {
	resp, err := p.generate(ctx, "quote", quotePrompt(tone), false)
	if err != nil {
		return "", err
	}
	return parser.CleanQuote(resp.Text()), nil
}

func (p *GeminiProvider) HealthCheck(ctx context.Context) domainProvider.HealthResult {
	resp, err := p.generate(ctx, "health", healthCheckPrompt, false)
	if err != nil {
		return healthFailure(p.opts.classifier(), err)
	}
	if strings.TrimSpace(resp.Text()) == "" {
		return domainProvider.HealthResult{Success: false, Message: "Gemini answered with an empty response."}
	}
	return domainProvider.HealthResult{
		Success: true,
		Message: fmt.Sprintf("Connected to Gemini (%s).", p.opts.Model),
	}
}

func applyInsightsFallbacks(res *domainFootball.TeamInsights, teamName string) {
	if res.Quote == "" {
		res.Quote = fallbackQuote(teamName)
	}
	if res.FormString == "" {
		res.FormString = fallbackForm
	}
}
