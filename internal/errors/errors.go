package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrTrackNotFound      = errors.New("mix not found")
	ErrEmptyFeed          = errors.New("no mixes to play")
	ErrNoUser             = errors.New("no user configured")
	ErrMediaUnavailable   = errors.New("media session unavailable")
	ErrAudioUnavailable   = errors.New("audio output unavailable")
	ErrCacheUnavailable   = errors.New("cache unavailable")
	ErrStorageUnavailable = errors.New("blob storage unavailable")
	ErrConfigNotFound     = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// MixError wraps an error with a user-facing suggestion.
type MixError struct {
	Err        error
	Suggestion string
}

func (e *MixError) Error() string {
	return e.Err.Error()
}

func (e *MixError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &MixError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var mixErr *MixError
	if errors.As(err, &mixErr) && mixErr.Suggestion != "" {
		return mixErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrTrackNotFound) {
		return "Run 'mixtape feed' to list available mixes"
	}

	if errors.Is(err, ErrNoUser) {
		return "Set catalog.user in your config or pass --user"
	}

	if errors.Is(err, ErrEmptyFeed) {
		return "The feed is empty. Upload a mix or check catalog.url"
	}

	if errors.Is(err, ErrAudioUnavailable) {
		return "This build has no sound output. Rebuild with CGO_ENABLED=1"
	}

	if errors.Is(err, ErrMediaUnavailable) {
		return "Media keys need a D-Bus session bus. Set media.enabled = false to silence this"
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "jwt") ||
		strings.Contains(errStr, "api key") {
		return "Check catalog.api_key in your config"
	}

	if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "429") {
		return "Too many requests. Wait a moment and try again"
	}

	if errors.Is(err, ErrCatalogUnavailable) || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return "Check your internet connection and catalog.url, then try again"
	}

	if errors.Is(err, ErrCacheUnavailable) {
		return "Check cache.addr or remove the [cache] section to disable caching"
	}

	if errors.Is(err, ErrStorageUnavailable) {
		return "Check the [storage] endpoint and credentials"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'mixtape config init' to create a config file"
	}

	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "The catalog is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:\n", len(p.Errors))
	for i, err := range p.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}
