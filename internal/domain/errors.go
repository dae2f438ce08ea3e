package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument signals a caller violation: undefined or malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrLocationNotFound signals that geocoding returned no match.
	ErrLocationNotFound = errors.New("location not found")
	// ErrNoResults signals that no category search returned a place.
	ErrNoResults = errors.New("no businesses found")
	// ErrQuotaExceeded signals an exhausted provider quota (OVER_QUERY_LIMIT).
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrRequestDenied signals that the provider rejected the API key (REQUEST_DENIED).
	ErrRequestDenied = errors.New("provider request denied")
	// ErrProviderError signals any other provider failure.
	ErrProviderError = errors.New("provider error")
)

// ProviderStatusError carries the raw provider status next to the mapped sentinel.
type ProviderStatusError struct {
	Endpoint string
	Status   string
	Message  string
	Kind     error
}

func (e *ProviderStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s returned %s: %s", e.Kind.Error(), e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s returned %s", e.Kind.Error(), e.Endpoint, e.Status)
}

func (e *ProviderStatusError) Unwrap() error { return e.Kind }

// NewProviderStatusError maps a provider status string onto a sentinel kind.
func NewProviderStatusError(endpoint, status, message string) error {
	var kind error
	switch status {
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		kind = ErrQuotaExceeded
	case "REQUEST_DENIED":
		kind = ErrRequestDenied
	default:
		kind = ErrProviderError
	}
	return &ProviderStatusError{Endpoint: endpoint, Status: status, Message: message, Kind: kind}
}
