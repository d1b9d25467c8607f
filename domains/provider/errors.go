package provider

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is raised before any network call when the active
// provider has no credential configured.
var ErrMissingCredential = errors.New("configuration error: missing API key")

// ErrorKind tags the shape of a ProviderError.
type ErrorKind string

const (
	// ErrorKindHTTP carries a status code and the raw response body.
	ErrorKindHTTP ErrorKind = "http"
	// ErrorKindSDK carries a vendor error code and message decoded by the SDK.
	ErrorKindSDK ErrorKind = "sdk"
	// ErrorKindConfiguration is a pre-flight failure, no request was sent.
	ErrorKindConfiguration ErrorKind = "configuration"
	// ErrorKindTimeout means the bounded request deadline expired.
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindUnknown wraps anything else.
	ErrorKindUnknown ErrorKind = "unknown"
)

// ProviderError is the stable error shape adapters return so that the
// classifier never has to inspect vendor specific types.
type ProviderError struct {
	Kind     ErrorKind
	Provider Identity
	// Status is the HTTP status code, 0 when unknown.
	Status int
	// Code is the vendor error code ("rate_limit_exceeded", "RESOURCE_EXHAUSTED", ...).
	Code string
	// Body is the raw JSON error document when one is available.
	Body    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Body != "":
		return e.Body
	case e.Err != nil:
		return e.Err.Error()
	}
	return fmt.Sprintf("%s provider error (%s)", e.Provider.DisplayName(), e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewConfigurationError builds the pre-flight error for a missing credential.
func NewConfigurationError(p Identity) *ProviderError {
	return &ProviderError{
		Kind:     ErrorKindConfiguration,
		Provider: p,
		Message:  fmt.Sprintf("%s: no API key configured for %s", ErrMissingCredential.Error(), p.DisplayName()),
		Err:      ErrMissingCredential,
	}
}

// AsProviderError extracts a ProviderError from an error chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
