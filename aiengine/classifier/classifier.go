// Package classifier maps provider failures onto the error taxonomy that drives
// cooldowns, banners and settings prompts.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	"github.com/sirupsen/logrus"
)

// Kind categorizes a failed AI call.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindRateLimited   Kind = "rate_limited"
	KindDailyLimited  Kind = "daily_limited"
	KindTimeout       Kind = "timeout"
	KindUnknown       Kind = "unknown"
)

// Retryable reports whether waiting alone can resolve the failure.
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimited, KindDailyLimited, KindTimeout:
		return true
	}
	return false
}

// OpenAI error codes.
const (
	OpenAICodeRateLimit         = "rate_limit_exceeded"
	OpenAICodeInsufficientQuota = "insufficient_quota"
	OpenAICodeInvalidAPIKey     = "invalid_api_key"
)

// Gemini statuses and reasons.
const (
	GeminiStatusResourceExhausted = "RESOURCE_EXHAUSTED"
	GeminiReasonInvalidAPIKey     = "API_KEY_INVALID"
)

// Classified is the outcome of classifying one failure.
type Classified struct {
	Kind            Kind                    `json:"kind"`
	Provider        domainProvider.Identity `json:"provider"`
	FriendlyMessage string                  `json:"friendly_message"`
	// Ambiguous is set when the decision rests only on loose phrase matching.
	Ambiguous bool  `json:"ambiguous,omitempty"`
	Raw       error `json:"-"`
}

// Policy holds the phrase lists used by the message based fallbacks.
// All matching is case-insensitive.
type Policy struct {
	DailyLimitPhrases []string
	RateLimitPhrases  []string
	// AmbiguousQuotaPhrases still classify as rate limited but mark the result Ambiguous.
	AmbiguousQuotaPhrases []string
}

// DefaultPolicy mirrors the phrasing observed from the Gemini API.
var DefaultPolicy = Policy{
	DailyLimitPhrases:     []string{"daily limit", "quota has been exhausted for this project"},
	RateLimitPhrases:      []string{"resource_exhausted", "rate limit"},
	AmbiguousQuotaPhrases: []string{"quota"},
}

const (
	maxVerbatimLength = 200

	msgGeneric      = "An unexpected error occurred while contacting the AI service."
	msgUnknown      = "An unknown error occurred. Please try again."
	msgDailyLimit   = "You've reached the daily API request limit. Please try again tomorrow."
	msgRateLimit    = "API quota exceeded. This is usually temporary. Please try again in a minute."
	msgTimeout      = "The AI service took too long to respond. Please try again."
	msgOpenAIQuota  = "Your OpenAI account has insufficient quota. Please check your plan and billing details on the OpenAI platform."
	msgOpenAIAPIKey = "The OpenAI API key is invalid. Please check it in Settings."
	msgGeminiAPIKey = "The Gemini API key is invalid. Please check the deployment configuration."
)

// configurationPrefix is the message prefix every missing credential error
// starts with, typed or not.
var configurationPrefix = strings.ToLower(strings.SplitN(domainProvider.ErrMissingCredential.Error(), ":", 2)[0])

var bracketPrefixRE = regexp.MustCompile(`\[.*?\]\s`)

// Classifier is stateless. Build it with New so empty lists fall back to DefaultPolicy.
type Classifier struct {
	policy Policy
}

func New(policy Policy) *Classifier {
	if len(policy.DailyLimitPhrases) == 0 {
		policy.DailyLimitPhrases = DefaultPolicy.DailyLimitPhrases
	}
	if len(policy.RateLimitPhrases) == 0 {
		policy.RateLimitPhrases = DefaultPolicy.RateLimitPhrases
	}
	if policy.AmbiguousQuotaPhrases == nil {
		policy.AmbiguousQuotaPhrases = DefaultPolicy.AmbiguousQuotaPhrases
	}
	return &Classifier{policy: policy}
}

var defaultClassifier = New(DefaultPolicy)

// Default returns the classifier built on DefaultPolicy.
func Default() *Classifier {
	return defaultClassifier
}

// Classify decides the failure kind. Order matters: daily limit, rate limit,
// configuration, timeout, unknown.
func (c *Classifier) Classify(err error, p domainProvider.Identity) Classified {
	out := Classified{Kind: KindUnknown, Provider: p, Raw: err}
	if err == nil {
		out.FriendlyMessage = msgUnknown
		return out
	}

	switch {
	case c.IsDailyLimitError(err, p):
		out.Kind = KindDailyLimited
	case c.isRateLimit(err, p, &out.Ambiguous):
		out.Kind = KindRateLimited
	case isConfiguration(err, p):
		out.Kind = KindConfiguration
	case isTimeout(err):
		out.Kind = KindTimeout
	}
	out.FriendlyMessage = c.friendly(err, out.Kind)

	if out.Ambiguous {
		logrus.WithFields(logrus.Fields{
			"provider": p,
			"error":    err.Error(),
		}).Warn("[CLASSIFIER] Rate limit decided by loose quota phrasing, flag for manual review")
	}
	return out
}

// IsDailyLimitError only fires for the externally configured provider; OpenAI
// quota errors are billing errors, not daily resets.
func (c *Classifier) IsDailyLimitError(err error, p domainProvider.Identity) bool {
	if err == nil || !p.ExternallyConfigured() {
		return false
	}
	return containsAny(messageText(err), c.policy.DailyLimitPhrases)
}

// IsRateLimitError reports per-minute rate limits. Daily limits never count.
func (c *Classifier) IsRateLimitError(err error, p domainProvider.Identity) bool {
	var ambiguous bool
	return c.isRateLimit(err, p, &ambiguous)
}

func (c *Classifier) isRateLimit(err error, p domainProvider.Identity, ambiguous *bool) bool {
	if err == nil || c.IsDailyLimitError(err, p) {
		return false
	}
	pe, _ := domainProvider.AsProviderError(err)

	if p == domainProvider.OpenAI {
		if pe == nil {
			return false
		}
		if pe.Code == OpenAICodeRateLimit {
			return true
		}
		// A bare 429 without a code cannot be told apart from a billing error.
		if pe.Code == "" && pe.Status == 429 {
			*ambiguous = true
			return true
		}
		return false
	}

	if pe != nil && strings.EqualFold(pe.Code, GeminiStatusResourceExhausted) {
		return true
	}
	if doc, ok := parseErrorDocument(err); ok {
		return strings.EqualFold(doc.Error.Status, GeminiStatusResourceExhausted)
	}

	text := messageText(err)
	if containsAny(text, c.policy.DailyLimitPhrases) {
		return false
	}
	if containsAny(text, c.policy.RateLimitPhrases) {
		return true
	}
	if containsAny(text, c.policy.AmbiguousQuotaPhrases) {
		*ambiguous = true
		return true
	}
	return false
}

func isConfiguration(err error, p domainProvider.Identity) bool {
	if errors.Is(err, domainProvider.ErrMissingCredential) {
		return true
	}
	if strings.HasPrefix(strings.ToLower(err.Error()), configurationPrefix) {
		return true
	}
	pe, ok := domainProvider.AsProviderError(err)
	if !ok {
		return false
	}
	if pe.Kind == domainProvider.ErrorKindConfiguration {
		return true
	}
	return isInvalidCredential(pe, p)
}

func isInvalidCredential(pe *domainProvider.ProviderError, p domainProvider.Identity) bool {
	switch p {
	case domainProvider.OpenAI:
		return pe.Code == OpenAICodeInvalidAPIKey || pe.Status == 401
	case domainProvider.Gemini:
		text := strings.ToLower(pe.Message + " " + pe.Body)
		return strings.Contains(text, strings.ToLower(GeminiReasonInvalidAPIKey)) ||
			strings.Contains(text, "api key not valid")
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	pe, ok := domainProvider.AsProviderError(err)
	return ok && pe.Kind == domainProvider.ErrorKindTimeout
}

// FriendlyMessage derives user-facing text without knowing the provider.
func (c *Classifier) FriendlyMessage(err error) string {
	if err == nil {
		return msgUnknown
	}
	p := domainProvider.Default
	if pe, ok := domainProvider.AsProviderError(err); ok && pe.Provider != "" {
		p = pe.Provider
	}
	return c.Classify(err, p).FriendlyMessage
}

func (c *Classifier) friendly(err error, kind Kind) string {
	text := err.Error()
	if text == "" {
		return msgUnknown
	}

	pe, _ := domainProvider.AsProviderError(err)
	if pe != nil {
		switch {
		case pe.Kind == domainProvider.ErrorKindConfiguration:
			return fmt.Sprintf("No API key configured for %s. Open Settings to add one.", pe.Provider.DisplayName())
		case pe.Provider == domainProvider.OpenAI && pe.Code == OpenAICodeInsufficientQuota:
			return msgOpenAIQuota
		case pe.Provider == domainProvider.OpenAI && pe.Code == OpenAICodeInvalidAPIKey:
			return msgOpenAIAPIKey
		case pe.Provider == domainProvider.Gemini && isInvalidCredential(pe, domainProvider.Gemini):
			return msgGeminiAPIKey
		}
	}

	switch kind {
	case KindDailyLimited:
		return msgDailyLimit
	case KindTimeout:
		return msgTimeout
	}

	if doc, ok := parseErrorDocument(err); ok {
		if strings.EqualFold(doc.Error.Status, GeminiStatusResourceExhausted) {
			return msgRateLimit
		}
		if doc.Error.Message != "" {
			return bracketPrefixRE.ReplaceAllString(doc.Error.Message, "")
		}
	}
	if len(text) < maxVerbatimLength {
		return text
	}
	return msgGeneric
}

// errorDocument is the `{"error": {...}}` shape both vendors use.
type errorDocument struct {
	Error struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Type    string `json:"type"`
	} `json:"error"`
}

func parseErrorDocument(err error) (errorDocument, bool) {
	candidates := []string{err.Error()}
	if pe, ok := domainProvider.AsProviderError(err); ok && pe.Body != "" {
		candidates = append([]string{pe.Body}, candidates...)
	}
	for _, raw := range candidates {
		var doc errorDocument
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, "{") {
			continue
		}
		if json.Unmarshal([]byte(trimmed), &doc) == nil && (doc.Error.Status != "" || doc.Error.Message != "") {
			return doc, true
		}
	}
	return errorDocument{}, false
}

func messageText(err error) string {
	text := err.Error()
	if pe, ok := domainProvider.AsProviderError(err); ok {
		text = pe.Message + " " + pe.Body + " " + pe.Code
	}
	return strings.ToLower(text)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Package level helpers on DefaultPolicy.

func Classify(err error, p domainProvider.Identity) Classified {
	return defaultClassifier.Classify(err, p)
}

func IsRateLimitError(err error, p domainProvider.Identity) bool {
	return defaultClassifier.IsRateLimitError(err, p)
}

func IsDailyLimitError(err error, p domainProvider.Identity) bool {
	return defaultClassifier.IsDailyLimitError(err, p)
}

func FriendlyMessage(err error) string {
	return defaultClassifier.FriendlyMessage(err)
}
