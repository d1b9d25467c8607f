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
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

// OpenAIProvider is the adapter for the OpenAI API
type OpenAIProvider struct {
	credentials domainProvider.ICredentialSource
	opts        Options
}

var _ domainProvider.IProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates the OpenAI adapter. The key is the one the user
// stored through the registry.
func NewOpenAIProvider(credentials domainProvider.ICredentialSource, opts Options) *OpenAIProvider {
	if opts.Model == "" {
		opts.Model = DefaultOpenAIModel
	}
	if opts.SearchModel == "" {
		opts.SearchModel = DefaultOpenAISearchModel
	}
	return &OpenAIProvider{credentials: credentials, opts: opts}
}

func (p *OpenAIProvider) Identity() domainProvider.Identity {
	return domainProvider.OpenAI
}

func (p *OpenAIProvider) newClient(ctx context.Context) (openai.Client, error) {
	apiKey, err := credential(ctx, p.credentials, domainProvider.OpenAI)
	if err != nil {
		return openai.Client{}, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(p.opts.timeout()),
		option.WithMaxRetries(p.opts.MaxRetries),
	}
	if p.opts.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.opts.BaseURL))
	}
	if p.opts.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(p.opts.HTTPClient))
	}
	return openai.NewClient(opts...), nil
}

// complete issues one bounded chat completion. search switches to the search
// model with web search enabled.
func (p *OpenAIProvider) complete(ctx context.Context, op, prompt string, search bool) (*openai.ChatCompletion, error) {
	client, err := p.newClient(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.timeout())
	defer cancel()

	model := p.opts.Model
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	}
	if search {
		model = p.opts.SearchModel
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: "medium",
		}
	}
	params.Model = openai.ChatModel(model)

	start := time.Now()
	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		wrapped := p.wrapError(ctx, err)
		logrus.WithFields(logrus.Fields{
			"op":    op,
			"model": model,
		}).WithError(wrapped).Debug("[OPENAI] Call failed")
		return nil, wrapped
	}

	logrus.WithFields(logrus.Fields{
		"op":      op,
		"model":   model,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("[OPENAI] Call succeeded")
	logUsage("OPENAI", op, extractOpenAIUsage(model, completion.Usage, search))
	return completion, nil
}

// wrapError maps SDK failures onto ProviderError.
func (p *OpenAIProvider) wrapError(ctx context.Context, err error) error {
	if pe, ok := timeoutError(ctx, err, domainProvider.OpenAI, p.opts.timeout()); ok {
		return pe
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body, _ := json.Marshal(map[string]any{
			"error": map[string]any{
				"code":    apiErr.Code,
				"message": apiErr.Message,
				"type":    apiErr.Type,
				"param":   apiErr.Param,
			},
		})
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("OpenAI request failed with status %d", apiErr.StatusCode)
		}
		return &domainProvider.ProviderError{
			Kind:     domainProvider.ErrorKindSDK,
			Provider: domainProvider.OpenAI,
			Status:   apiErr.StatusCode,
			Code:     apiErr.Code,
			Body:     string(body),
			Message:  msg,
			Err:      err,
		}
	}

	return &domainProvider.ProviderError{
		Kind:     domainProvider.ErrorKindUnknown,
		Provider: domainProvider.OpenAI,
		Message:  err.Error(),
		Err:      err,
	}
}

func extractOpenAIUsage(model string, usage openai.CompletionUsage, searched bool) *UsageStats {
	in := int(usage.PromptTokens)
	out := int(usage.CompletionTokens)
	cached := int(usage.PromptTokensDetails.CachedTokens)
	return &UsageStats{
		Model:        model,
		InputTokens:  in,
		OutputTokens: out,
		CachedTokens: cached,
		CostUSD:      calculateCost(model, in, out, cached, searched),
	}
}

func firstMessage(c *openai.ChatCompletion) (openai.ChatCompletionMessage, bool) {
	if c == nil || len(c.Choices) == 0 {
		return openai.ChatCompletionMessage{}, false
	}
	return c.Choices[0].Message, true
}

func annotationCitations(msg openai.ChatCompletionMessage) []domainFootball.Citation {
	var out []domainFootball.Citation
	for _, a := range msg.Annotations {
		out = append(out, domainFootball.Citation{URI: a.URLCitation.URL, Title: a.URLCitation.Title})
	}
	return out
}

func (p *OpenAIProvider) GenerateSummary(ctx context.Context, query string, wordCount int, isFavorite bool) (*domainFootball.SummaryResult, error) {
	completion, err := p.complete(ctx, "summary", summaryPrompt(query, wordCount, isFavorite), true)
	if err != nil {
		return nil, err
	}
	msg, _ := firstMessage(completion)
	res := parser.ParseSummary(msg.Content)
	res.Citations = parser.DedupCitations(annotationCitations(msg))
	return &res, nil
}

func (p *OpenAIProvider) GenerateTeamInsights(ctx context.Context, teamName string) (*domainFootball.TeamInsights, error) {
	completion, err := p.complete(ctx, "insights", insightsPrompt(teamName), true)
	if err != nil {
		return nil, err
	}
	msg, _ := firstMessage(completion)
	res := parser.ParseInsights(msg.Content)
	applyInsightsFallbacks(&res, teamName)
	return &res, nil
}

func (p *OpenAIProvider) GenerateQuote(ctx context.Context, tone string) (string, error) {
	completion, err := p.complete(ctx, "quote", quotePrompt(tone), false)
	if err != nil {
		return "", err
	}
	msg, _ := firstMessage(completion)
	return parser.CleanQuote(msg.Content), nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) domainProvider.HealthResult {
	completion, err := p.complete(ctx, "health", healthCheckPrompt, false)
	if err != nil {
		return healthFailure(p.opts.classifier(), err)
	}
	if msg, ok := firstMessage(completion); !ok || strings.TrimSpace(msg.Content) == "" {
		return domainProvider.HealthResult{Success: false, Message: "OpenAI answered with an empty response."}
	}
	return domainProvider.HealthResult{
		Success: true,
		Message: fmt.Sprintf("Connected to OpenAI (%s).", p.opts.Model),
	}
}
