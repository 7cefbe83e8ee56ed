package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"explicit", WithSuggestion(errors.New("boom"), "do this"), "do this"},
		{"not found", fmt.Errorf("load mix: %w", ErrTrackNotFound), "Run 'mixtape feed' to list available mixes"},
		{"no user", ErrNoUser, "Set catalog.user in your config or pass --user"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:3000: connect: connection refused"), "Check your internet connection and catalog.url, then try again"},
		{"unauthorized", errors.New("catalog error 401: JWT expired"), "Check catalog.api_key in your config"},
		{"invalid config", fmt.Errorf("%w: bad driver", ErrInvalidConfig), "Run 'mixtape config init' to create a config file"},
		{"unknown", errors.New("something odd"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSuggestion(tt.err); got != tt.want {
				t.Errorf("GetSuggestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMixErrorUnwrap(t *testing.T) {
	err := WithSuggestion(ErrEmptyFeed, "upload something")
	if !errors.Is(err, ErrEmptyFeed) {
		t.Error("errors.Is() = false through MixError")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q", got)
	}
	got := Format(ErrTrackNotFound)
	if !strings.HasPrefix(got, "Error: mix not found") || !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q", got)
	}
	if got := Format(errors.New("plain")); got != "Error: plain" {
		t.Errorf("Format() = %q", got)
	}
}

func TestPartialResult(t *testing.T) {
	var p PartialResult[[]string]
	p.AddError(nil)
	if p.HasErrors() || p.ErrorSummary() != "" {
		t.Fatal("nil error recorded")
	}

	p.AddError(errors.New("liked: timeout"))
	if p.ErrorSummary() != "liked: timeout" {
		t.Errorf("ErrorSummary() = %q", p.ErrorSummary())
	}

	p.AddError(errors.New("uploaded: 500"))
	if !strings.HasPrefix(p.ErrorSummary(), "2 errors occurred:") {
		t.Errorf("ErrorSummary() = %q", p.ErrorSummary())
	}
}
