package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/sportadmin/internal/ports"
)

// Doer is the seam between the client and the actual HTTP stack.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the single point of outbound HTTP traffic. It attaches the
// stored bearer credential, normalizes every failure into *domain.APIError,
// and never retries on its own. It holds no cache state.
type Client struct {
	baseURL *url.URL
	httpc   Doer
	tokens  ports.TokenStore
	logger  *slog.Logger
	debug   bool
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP stack, mainly for tests.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.httpc = d }
}

// WithDebugLogging enables structured request/response logging. Production
// builds leave this off.
func WithDebugLogging() Option {
	return func(c *Client) { c.debug = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, tokens ports.TokenStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  slog.Default().With("module", "rest", "layer", "adapter"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		// Create calls carry a client-generated idempotency key so a retried
		// submission cannot produce a duplicate entity server-side.
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}

	if token, tokenErr := c.tokens.Token(ctx); tokenErr == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		apiErr := networkError(err)
		c.logRequest(ctx, method, u, 0, time.Since(start), apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := networkError(err)
		c.logRequest(ctx, method, u, resp.StatusCode, time.Since(start), apiErr)
		return apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := normalizeError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized {
			// The stored credential is dead; drop it so the next request
			// goes out unauthenticated instead of failing the same way.
			_ = c.tokens.Clear(ctx)
		}
		c.logRequest(ctx, method, u, resp.StatusCode, time.Since(start), apiErr)
		return apiErr
	}

	c.logRequest(ctx, method, u, resp.StatusCode, time.Since(start), nil)

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func (c *Client) logRequest(ctx context.Context, method string, u *url.URL, status int, elapsed time.Duration, err error) {
	if !c.debug {
		return
	}
	fields := []any{
		"method", method,
		"path", u.Path,
		"params", u.RawQuery,
		"status_code", status,
		"elapsed_ms", elapsed.Milliseconds(),
	}
	if err != nil {
		fields = append(fields, "outcome", "failure", "error", err.Error())
		c.logger.WarnContext(ctx, "request failed", fields...)
		return
	}
	c.logger.DebugContext(ctx, "request completed", append(fields, "outcome", "success")...)
}
