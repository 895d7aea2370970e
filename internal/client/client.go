package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/imfreedom/urlmap/internal/logging"
	"github.com/imfreedom/urlmap/internal/urlmap"
	"github.com/imfreedom/urlmap/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// DefaultCacheDuration is the default cache validity duration
	DefaultCacheDuration = 30 * time.Second

	apiPrefix = "/api/v1"
)

// Status describes a running server
type Status struct {
	Version string `json:"version"`
	Entries int    `json:"entries"`
}

// Client represents an HTTP client for a urlmap server
type Client struct {
	// BaseURL is the server root (e.g., "http://192.168.1.20:8377")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff doubles the delay after every failed attempt
	UseExponentialBackoff bool

	// CacheDuration is how long to cache the fetched table (0 = no cache)
	CacheDuration time.Duration

	cacheMutex  sync.RWMutex
	cachedTable *urlmap.Table
	cacheTime   time.Time
}

// NewClient creates a client for the server at baseURL.
// A trailing "/api/v1" (as printed by 'urlmap scan') is accepted.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, apiPrefix)

	return &Client{
		BaseURL:               baseURL,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		CacheDuration:         DefaultCacheDuration,
	}
}

// Status reports the server's version and table size
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.getJSON(ctx, apiPrefix+"/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Table fetches the server's table, using the cache if it is fresh
func (c *Client) Table(ctx context.Context) (*urlmap.Table, error) {
	if c.CacheDuration > 0 {
		c.cacheMutex.RLock()
		if c.cachedTable != nil && time.Since(c.cacheTime) < c.CacheDuration {
			table := c.cachedTable
			c.cacheMutex.RUnlock()
			return table, nil
		}
		c.cacheMutex.RUnlock()
	}

	var table *urlmap.Table
	err := c.withRetry(ctx, func() error {
		body, err := c.get(ctx, apiPrefix+"/namespaces")
		if err != nil {
			return err
		}
		table, err = urlmap.DecodeJSON(body)
		if err != nil {
			return newParseError("invalid namespace table", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Tables are immutable, so the cached pointer is shared freely
	if c.CacheDuration > 0 {
		c.cacheMutex.Lock()
		c.cachedTable = table
		c.cacheTime = time.Now()
		c.cacheMutex.Unlock()
	}

	logging.Debug("Fetched remote table", zap.String("server", c.BaseURL), zap.Int("entries", table.Len()))
	return table, nil
}

// Lookup asks the server for a single namespace
func (c *Client) Lookup(ctx context.Context, namespace string) (string, error) {
	if namespace == "" {
		return "", urlmap.ErrEmptyNamespace
	}

	var entry urlmap.Entry
	err := c.getJSON(ctx, apiPrefix+"/namespaces/"+url.PathEscape(namespace), &entry)
	if err != nil {
		if e, ok := err.(*Error); ok && e.Type == ErrTypeNotFound {
			e.Err = &urlmap.NotFoundError{Namespace: namespace}
		}
		return "", err
	}
	return entry.BaseURL, nil
}

// Resolve asks the server for the URL of a gi-docgen reference
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	var resp struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	}
	if err := c.getJSON(ctx, apiPrefix+"/resolve?ref="+url.QueryEscape(ref), &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// getJSON performs a GET with retries and decodes the body into v
func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	return c.withRetry(ctx, func() error {
		body, err := c.get(ctx, path)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, v); err != nil {
			return newParseError("failed to parse JSON response", err)
		}
		return nil
	})
}

// withRetry runs attempt until it succeeds, fails permanently, or retries run out
func (c *Client) withRetry(ctx context.Context, attempt func() error) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for i := 0; i <= c.MaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(currentDelay):
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
		logging.Debug("Retrying request", zap.String("server", c.BaseURL), zap.Int("attempt", i+1), zap.Error(err))
	}

	return lastErr
}

// get performs a single GET and returns the body of a 200 response
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, newNetworkError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, newNetworkError(fmt.Sprintf("GET %s failed", path), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError("failed to read response body", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	// Error bodies carry a message and, for misses, close matches
	var apiErr struct {
		Error       string   `json:"error"`
		Suggestions []string `json:"suggestions"`
	}
	message := fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		message = apiErr.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, &Error{
			Type:        ErrTypeNotFound,
			Message:     message,
			StatusCode:  resp.StatusCode,
			Suggestions: apiErr.Suggestions,
		}
	case http.StatusBadRequest:
		return nil, &Error{Type: ErrTypeBadRequest, Message: message, StatusCode: resp.StatusCode}
	default:
		return nil, newHTTPError(resp.StatusCode, message)
	}
}
