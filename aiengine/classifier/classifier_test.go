package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	"github.com/stretchr/testify/assert"
)

func openAIError(status int, code, msg string) error {
	return &domainProvider.ProviderError{
		Kind:     domainProvider.ErrorKindSDK,
		Provider: domainProvider.OpenAI,
		Status:   status,
		Code:     code,
		Message:  msg,
	}
}

func geminiError(status int, code, body string) error {
	return &domainProvider.ProviderError{
		Kind:     domainProvider.ErrorKindSDK,
		Provider: domainProvider.Gemini,
		Status:   status,
		Code:     code,
		Body:     body,
	}
}

// El límite diario gana aunque el mensaje también mencione "quota"
func TestClassify_DailyLimitBeatsQuota(t *testing.T) {
	err := errors.New("Quota exceeded: you have hit the daily limit for this quota")

	res := Classify(err, domainProvider.Gemini)

	assert.Equal(t, KindDailyLimited, res.Kind)
	assert.False(t, res.Ambiguous)
	assert.True(t, IsDailyLimitError(err, domainProvider.Gemini))
	assert.False(t, IsRateLimitError(err, domainProvider.Gemini))
}

func TestClassify_DailyLimitOnlyForGemini(t *testing.T) {
	err := openAIError(429, OpenAICodeInsufficientQuota, "daily limit reached, quota has been exhausted for this project")

	assert.False(t, IsDailyLimitError(err, domainProvider.OpenAI))
	assert.False(t, IsRateLimitError(err, domainProvider.OpenAI))

	res := Classify(err, domainProvider.OpenAI)
	assert.Equal(t, KindUnknown, res.Kind)
	assert.Equal(t, msgOpenAIQuota, res.FriendlyMessage)
}

func TestClassify_OpenAICodes(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		kind      Kind
		ambiguous bool
	}{
		{"rate limit code", openAIError(429, OpenAICodeRateLimit, "Rate limit reached for gpt-4o-mini"), KindRateLimited, false},
		{"billing is not a rate limit", openAIError(429, OpenAICodeInsufficientQuota, "You exceeded your current quota"), KindUnknown, false},
		{"bare 429", openAIError(429, "", "Too Many Requests"), KindRateLimited, true},
		{"invalid key", openAIError(401, OpenAICodeInvalidAPIKey, "Incorrect API key provided"), KindConfiguration, false},
		{"401 without code", openAIError(401, "", "Unauthorized"), KindConfiguration, false},
		{"plain error mentioning rate limit", errors.New("rate limit"), KindUnknown, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Classify(tc.err, domainProvider.OpenAI)
			assert.Equal(t, tc.kind, res.Kind)
			assert.Equal(t, tc.ambiguous, res.Ambiguous)
			assert.Equal(t, domainProvider.OpenAI, res.Provider)
			assert.Same(t, tc.err, res.Raw)
		})
	}
}

func TestClassify_GeminiRateLimit(t *testing.T) {
	body := `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`

	t.Run("sdk status", func(t *testing.T) {
		res := Classify(geminiError(429, GeminiStatusResourceExhausted, body), domainProvider.Gemini)
		assert.Equal(t, KindRateLimited, res.Kind)
		assert.Equal(t, msgRateLimit, res.FriendlyMessage)
		assert.False(t, res.Ambiguous)
	})

	t.Run("json message", func(t *testing.T) {
		res := Classify(errors.New(body), domainProvider.Gemini)
		assert.Equal(t, KindRateLimited, res.Kind)
		assert.Equal(t, msgRateLimit, res.FriendlyMessage)
	})

	t.Run("substring fallback", func(t *testing.T) {
		assert.True(t, IsRateLimitError(errors.New("got RESOURCE_EXHAUSTED from upstream"), domainProvider.Gemini))
		assert.True(t, IsRateLimitError(errors.New("Rate Limit hit"), domainProvider.Gemini))
	})

	t.Run("json with another status is not a rate limit", func(t *testing.T) {
		err := errors.New(`{"error":{"code":400,"message":"[400] Bad request, quota field missing","status":"INVALID_ARGUMENT"}}`)
		res := Classify(err, domainProvider.Gemini)
		assert.Equal(t, KindUnknown, res.Kind)
		assert.Equal(t, "Bad request, quota field missing", res.FriendlyMessage)
	})
}

// "quota" suelto se clasifica como rate limit pero queda marcado
func TestClassify_AmbiguousQuotaIsFlagged(t *testing.T) {
	res := Classify(errors.New("quota problem"), domainProvider.Gemini)
	assert.Equal(t, KindRateLimited, res.Kind)
	assert.True(t, res.Ambiguous)
}

func TestClassify_PolicyIsConfigurable(t *testing.T) {
	c := New(Policy{
		DailyLimitPhrases:     []string{"per day"},
		AmbiguousQuotaPhrases: []string{},
	})

	assert.True(t, c.IsDailyLimitError(errors.New("Requests per day exceeded"), domainProvider.Gemini))
	assert.False(t, c.IsDailyLimitError(errors.New("daily limit"), domainProvider.Gemini))

	// sin frases ambiguas "quota" ya no cuenta
	assert.False(t, c.IsRateLimitError(errors.New("quota problem"), domainProvider.Gemini))
	assert.True(t, c.IsRateLimitError(errors.New("rate limit"), domainProvider.Gemini))
}

func TestClassify_Configuration(t *testing.T) {
	err := domainProvider.NewConfigurationError(domainProvider.OpenAI)

	res := Classify(err, domainProvider.OpenAI)

	assert.Equal(t, KindConfiguration, res.Kind)
	assert.Contains(t, res.FriendlyMessage, "No API key configured for OpenAI")
	assert.False(t, res.Kind.Retryable())

	wrapped := fmt.Errorf("summary: %w", domainProvider.ErrMissingCredential)
	assert.Equal(t, KindConfiguration, Classify(wrapped, domainProvider.Gemini).Kind)

	invalid := geminiError(400, "INVALID_ARGUMENT", `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
	res = Classify(invalid, domainProvider.Gemini)
	assert.Equal(t, KindConfiguration, res.Kind)
	assert.Equal(t, msgGeminiAPIKey, res.FriendlyMessage)
}

// Solo el texto del mensaje, sin tipo ni sentinel en la cadena
func TestClassify_ConfigurationFromMessage(t *testing.T) {
	err := errors.New(domainProvider.ErrMissingCredential.Error())
	assert.Equal(t, KindConfiguration, Classify(err, domainProvider.Gemini).Kind)

	err = errors.New("Configuration Error: no API key configured for OpenAI")
	res := Classify(err, domainProvider.OpenAI)
	assert.Equal(t, KindConfiguration, res.Kind)
	assert.False(t, res.Kind.Retryable())

	assert.Equal(t, KindUnknown, Classify(errors.New("bad configuration"), domainProvider.Gemini).Kind)
}

func TestClassify_ShortRateLimitMessageIsVerbatim(t *testing.T) {
	res := Classify(errors.New("rate limit reached"), domainProvider.Gemini)
	assert.Equal(t, KindRateLimited, res.Kind)
	assert.Equal(t, "rate limit reached", res.FriendlyMessage)

	res = Classify(openAIError(429, OpenAICodeRateLimit, "Rate limit reached for gpt-4o-mini"), domainProvider.OpenAI)
	assert.Equal(t, KindRateLimited, res.Kind)
	assert.Equal(t, "Rate limit reached for gpt-4o-mini", res.FriendlyMessage)
}

func TestClassify_Timeout(t *testing.T) {
	res := Classify(fmt.Errorf("generate: %w", context.DeadlineExceeded), domainProvider.Gemini)
	assert.Equal(t, KindTimeout, res.Kind)
	assert.Equal(t, msgTimeout, res.FriendlyMessage)
	assert.True(t, res.Kind.Retryable())

	pe := &domainProvider.ProviderError{Kind: domainProvider.ErrorKindTimeout, Provider: domainProvider.OpenAI, Message: "took too long"}
	assert.Equal(t, KindTimeout, Classify(pe, domainProvider.OpenAI).Kind)
}

func TestFriendlyMessage(t *testing.T) {
	assert.Equal(t, msgUnknown, FriendlyMessage(nil))
	assert.Equal(t, "connection refused", FriendlyMessage(errors.New("connection refused")))
	assert.Equal(t, msgGeneric, FriendlyMessage(errors.New(strings.Repeat("x", 250))))
	assert.Equal(t, msgOpenAIAPIKey, FriendlyMessage(openAIError(401, OpenAICodeInvalidAPIKey, "Incorrect API key provided")))
	assert.Equal(t, msgDailyLimit, FriendlyMessage(errors.New("You hit the daily limit")))
}

func TestClassify_NilError(t *testing.T) {
	res := Classify(nil, domainProvider.Gemini)
	assert.Equal(t, KindUnknown, res.Kind)
	assert.Equal(t, msgUnknown, res.FriendlyMessage)
}
