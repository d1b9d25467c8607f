package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AzielCF/watercooler-fc/aiengine/classifier"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
)

const defaultTimeout = 45 * time.Second

// Options configures an adapter. Zero values fall back to sensible defaults.
type Options struct {
	Model string
	// SearchModel is used for web-search backed calls. Gemini uses Model with
	// the search tool instead.
	SearchModel string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	HTTPClient  *http.Client
	Classifier  *classifier.Classifier
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}

func (o Options) classifier() *classifier.Classifier {
	if o.Classifier == nil {
		return classifier.Default()
	}
	return o.Classifier
}

// credential is the pre-flight check every operation runs before any network
// call.
func credential(ctx context.Context, src domainProvider.ICredentialSource, p domainProvider.Identity) (string, error) {
	if src == nil {
		return "", domainProvider.NewConfigurationError(p)
	}
	key, ok := src.GetCredential(ctx, p)
	if !ok || key == "" {
		return "", domainProvider.NewConfigurationError(p)
	}
	return key, nil
}

// timeoutError reports whether err was caused by the per-call deadline and
// wraps it accordingly.
func timeoutError(ctx context.Context, err error, p domainProvider.Identity, limit time.Duration) (*domainProvider.ProviderError, bool) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domainProvider.ProviderError{
			Kind:     domainProvider.ErrorKindTimeout,
			Provider: p,
			Message:  fmt.Sprintf("%s did not respond within %s", p.DisplayName(), limit),
			Err:      err,
		}, true
	}
	return nil, false
}

func healthFailure(c *classifier.Classifier, err error) domainProvider.HealthResult {
	return domainProvider.HealthResult{Success: false, Message: c.FriendlyMessage(err)}
}
