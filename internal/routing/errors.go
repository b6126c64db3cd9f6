package routing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// FailureKind classifies why a provider attempt failed
type FailureKind string

const (
	// FailureTimeout covers request timeouts and cancelled contexts
	FailureTimeout FailureKind = "timeout"
	// FailureInvalidResponse covers non-success HTTP statuses and responses
	// missing required geometry or summary fields
	FailureInvalidResponse FailureKind = "invalid_response"
	// FailureDegenerateDistance covers provider results whose distance
	// rounds to zero, usually both endpoints snapped to the same graph node
	FailureDegenerateDistance FailureKind = "degenerate_distance"
)

// ErrAllProvidersFailed signals that every provider in the fallback chain
// failed. The resolver masks it with a synthetic route.
var ErrAllProvidersFailed = errors.New("all routing providers failed")

// ProviderError is a classified failure from a single provider attempt.
// Diagnostic holds the raw payload for logging; it is never shown to users.
type ProviderError struct {
	Provider   Provider
	Kind       FailureKind
	Message    string
	Diagnostic string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying the same provider could help.
// Degenerate distances are deterministic, so retrying is wasted quota.
func (e *ProviderError) Retryable() bool {
	return e.Kind != FailureDegenerateDistance
}

func newTimeoutError(provider Provider, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: FailureTimeout, Err: err}
}

func newInvalidResponseError(provider Provider, message, diagnostic string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: FailureInvalidResponse, Message: message, Diagnostic: diagnostic}
}

func newDegenerateDistanceError(provider Provider, distanceKm float64) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     FailureDegenerateDistance,
		Message:  fmt.Sprintf("distance %.4f km rounds to zero", distanceKm),
	}
}

// classifyTransportError maps an HTTP transport failure to a ProviderError
func classifyTransportError(provider Provider, err error) *ProviderError {
	if isTimeout(err) {
		return newTimeoutError(provider, err)
	}
	return &ProviderError{Provider: provider, Kind: FailureInvalidResponse, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Timeout()
	}
	return false
}

// failureKind extracts the kind from a provider error for metrics labels
func failureKind(err error) FailureKind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return FailureInvalidResponse
}
