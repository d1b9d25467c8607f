package providers

import "github.com/sirupsen/logrus"

// ModelPricing define los costos por 1M tokens en USD
type ModelPricing struct {
	InputPerMToken  float64
	OutputPerMToken float64
	CacheInputPerMT float64
	// SearchPerCall is the grounding/web search surcharge per request.
	SearchPerCall float64
}

const (
	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultOpenAISearchModel = "gpt-4o-mini-search-preview"
)

var modelPrices = map[string]ModelPricing{
	"gemini-2.5-pro":             {InputPerMToken: 1.25, OutputPerMToken: 10.00, CacheInputPerMT: 0.125, SearchPerCall: 0.035},
	"gemini-2.5-flash":           {InputPerMToken: 0.30, OutputPerMToken: 2.50, CacheInputPerMT: 0.03, SearchPerCall: 0.035},
	"gemini-2.5-flash-lite":      {InputPerMToken: 0.10, OutputPerMToken: 0.40, CacheInputPerMT: 0.01, SearchPerCall: 0.035},
	"gemini-2.0-flash":           {InputPerMToken: 0.10, OutputPerMToken: 0.40, CacheInputPerMT: 0.025, SearchPerCall: 0.035},
	"gpt-4o-mini":                {InputPerMToken: 0.15, OutputPerMToken: 0.60, CacheInputPerMT: 0.075},
	"gpt-4o-mini-search-preview": {InputPerMToken: 0.15, OutputPerMToken: 0.60, SearchPerCall: 0.0275},
	"gpt-4o":                     {InputPerMToken: 2.50, OutputPerMToken: 10.00, CacheInputPerMT: 1.25},
	"gpt-4o-search-preview":      {InputPerMToken: 2.50, OutputPerMToken: 10.00, SearchPerCall: 0.035},
}

// UsageStats describes the token usage of one call.
type UsageStats struct {
	Model        string
	InputTokens  int
	OutputTokens int
	CachedTokens int
	CostUSD      float64
}

// calculateCost calcula el costo USD basado en tokens y precios del modelo.
// Unknown models cost 0.
func calculateCost(model string, inputTokens, outputTokens, cachedTokens int, searched bool) float64 {
	pricing, ok := modelPrices[model]
	if !ok {
		return 0
	}

	regularInputTokens := inputTokens - cachedTokens
	if regularInputTokens < 0 {
		regularInputTokens = 0
	}

	cost := float64(regularInputTokens)*pricing.InputPerMToken/1_000_000 +
		float64(cachedTokens)*pricing.CacheInputPerMT/1_000_000 +
		float64(outputTokens)*pricing.OutputPerMToken/1_000_000
	if searched {
		cost += pricing.SearchPerCall
	}
	return cost
}

func logUsage(tag, op string, u *UsageStats) {
	if u == nil {
		return
	}
	logrus.WithFields(logrus.Fields{
		"op":            op,
		"model":         u.Model,
		"input_tokens":  u.InputTokens,
		"output_tokens": u.OutputTokens,
		"cached_tokens": u.CachedTokens,
		"cost_usd":      u.CostUSD,
	}).Debugf("[%s] Usage", tag)
}
