package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/core"
	mixerrors "github.com/tessro/mixtape/internal/errors"
)

const (
	restPrefix = "/rest/v1"

	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// REST reads mixes from a PostgREST endpoint.
type REST struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	retryWait  time.Duration
	log        *zap.Logger
}

// NewREST creates a client for the service at baseURL. apiKey is sent both
// as the apikey header and as a bearer token.
func NewREST(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *REST {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &REST{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		retryWait:  baseRetryWait,
		log:        log.Named("catalog"),
	}
}

// Feed returns the newest mixes.
func (c *REST) Feed(ctx context.Context, limit int) ([]core.Track, error) {
	params := map[string]string{
		"select": "*",
		"order":  "created_at.desc",
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var rows []Mix
	if err := c.get(ctx, BuildURL("/mixes", params), &rows); err != nil {
		return nil, err
	}
	return tracks(rows), nil
}

// Mix returns the mix with the given ID.
func (c *REST) Mix(ctx context.Context, id string) (*core.Track, error) {
	var rows []Mix
	path := BuildURL("/mixes", map[string]string{
		"select": "*",
		"id":     "eq." + id,
		"limit":  "1",
	})
	if err := c.get(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", mixerrors.ErrTrackNotFound, id)
	}
	t := rows[0].Track()
	return &t, nil
}

// Uploaded returns the mixes uploaded by user.
func (c *REST) Uploaded(ctx context.Context, user string) ([]core.Track, error) {
	var rows []Mix
	path := BuildURL("/mixes", map[string]string{
		"select":      "*",
		"uploaded_by": "eq." + user,
		"order":       "created_at.desc",
	})
	if err := c.get(ctx, path, &rows); err != nil {
		return nil, err
	}
	return tracks(rows), nil
}

// likeRow is a likes row with its mix embedded through the foreign key.
type likeRow struct {
	Mix *Mix `json:"mixes"`
}

// Liked returns the mixes user has liked.
func (c *REST) Liked(ctx context.Context, user string) ([]core.Track, error) {
	var likes []likeRow
	path := BuildURL("/likes", map[string]string{
		"select":  "mixes(*)",
		"user_id": "eq." + user,
		"order":   "created_at.desc",
	})
	if err := c.get(ctx, path, &likes); err != nil {
		return nil, err
	}

	rows := make([]Mix, 0, len(likes))
	for _, l := range likes {
		if l.Mix != nil {
			rows = append(rows, *l.Mix)
		}
	}
	return tracks(rows), nil
}

func (c *REST) get(ctx context.Context, path string, result interface{}) error {
	fullURL := c.baseURL + restPrefix + path
	c.log.Debug("request", zap.String("url", fullURL))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1)) // exponential backoff
			c.log.Debug("retry", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("apikey", c.apiKey)
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", mixerrors.ErrCatalogUnavailable, err)
			c.log.Warn("network error", zap.Error(err))
			continue // Retry on network error
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		c.log.Debug("response", zap.Int("status", resp.StatusCode))

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 {
			lastErr = parseAPIError(resp.StatusCode, body)
			c.log.Warn("server error, will retry", zap.Error(lastErr))
			continue
		}

		// Don't retry 4xx errors
		if resp.StatusCode >= 400 {
			return parseAPIError(resp.StatusCode, body)
		}

		if result != nil && len(body) > 0 {
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// APIError is a PostgREST error response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("catalog error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("catalog error %d: %s", e.Status, e.Message)
}

func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	return apiErr
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
