package unihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/calimero-network/unihttp/internal/singleflight"
)

// Client executes HTTP calls against a single base URL and classifies every
// outcome into a Result. The resolved configuration is immutable after New,
// so a single instance is safe for concurrent use; concurrent calls run
// independently with no ordering between them.
type Client struct {
	baseURL        string
	transport      http.RoundTripper
	timeout        time.Duration
	defaultHeaders map[string]string
	tokenProvider  TokenProvider
	refreshFunc    RefreshFunc
	refreshGroup   *singleflight.Group
	metrics        *MetricsCollector
	debug          *DebugConfig
	logger         Logger
}

// New resolves and validates the configuration and returns a ready client.
// The base URL and a TokenProvider are required; everything else defaults
// (30s timeout, http.DefaultTransport, empty default headers). Invalid
// configuration fails fast with a *ConfigError.
func New(baseURL string, options ...Option) (*Client, error) {
	client := &Client{
		baseURL:        baseURL,
		transport:      http.DefaultTransport,
		timeout:        30 * time.Second,
		defaultHeaders: map[string]string{},
		debug:          DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		return nil, err
	}

	return client, nil
}

// Get performs a GET against path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) Result[any] {
	return decodeAny(c.exchange(ctx, http.MethodGet, path, nil, opts))
}

// Post performs a POST with body JSON-encoded when non-nil.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) Result[any] {
	return decodeAny(c.exchange(ctx, http.MethodPost, path, body, opts))
}

// Put performs a PUT with body JSON-encoded when non-nil.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) Result[any] {
	return decodeAny(c.exchange(ctx, http.MethodPut, path, body, opts))
}

// Delete performs a DELETE against path relative to the base URL.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) Result[any] {
	return decodeAny(c.exchange(ctx, http.MethodDelete, path, nil, opts))
}

// GetTyped performs a GET and decodes the response body into T.
func GetTyped[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) Result[T] {
	return decodeTyped[T](c.exchange(ctx, http.MethodGet, path, nil, opts))
}

// PostTyped performs a POST and decodes the response body into T.
func PostTyped[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) Result[T] {
	return decodeTyped[T](c.exchange(ctx, http.MethodPost, path, body, opts))
}

// PutTyped performs a PUT and decodes the response body into T.
func PutTyped[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) Result[T] {
	return decodeTyped[T](c.exchange(ctx, http.MethodPut, path, body, opts))
}

// DeleteTyped performs a DELETE and decodes the response body into T.
func DeleteTyped[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) Result[T] {
	return decodeTyped[T](c.exchange(ctx, http.MethodDelete, path, nil, opts))
}

// exchange is the shared execution routine behind every verb: URL join,
// header merge, token injection, deadline, dispatch, classification and the
// single auth refresh-and-retry. It returns the raw body and status on
// success, or a classified ErrorInfo.
func (c *Client) exchange(ctx context.Context, method, path string, body any, opts []RequestOption) (raw []byte, status int, errInfo *ErrorInfo) {
	start := time.Now()

	ro := &requestOptions{}
	for _, opt := range opts {
		opt(ro)
	}

	fullURL := c.resolveURL(path)
	endpoint := endpointLabel(path)

	var requestID string
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debugEnabled() && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("starting request", "requestID", requestID, "method", method, "url", fullURL)
	}

	if c.metrics != nil {
		c.metrics.RecordRequestStart(method, endpoint)
	}
	defer func() {
		duration := time.Since(start)
		if c.metrics != nil {
			c.metrics.RecordRequestEnd(method, endpoint)
			c.metrics.RecordRequest(method, endpoint, status, duration)
			if errInfo != nil {
				c.metrics.RecordError(string(errInfo.Kind), method, endpoint)
			}
		}
		if c.debugEnabled() && c.debug.LogRequests && c.logger != nil {
			if errInfo != nil {
				c.logger.Debug("request failed", "requestID", requestID, "kind", string(errInfo.Kind), "status", errInfo.Status, "duration", duration)
			} else {
				c.logger.Debug("request completed", "requestID", requestID, "status", status, "duration", duration)
			}
		}
	}()

	timeout := c.timeout
	if ro.timeout > 0 {
		timeout = ro.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, networkError("encode request body: %v", err)
		}
		payload = encoded
	}

	token, err := c.tokenProvider(ctx)
	if err != nil {
		return nil, 0, authError(0, "token lookup failed: %v", err)
	}

	resp, dispatchErr := c.roundTrip(ctx, method, fullURL, payload, ro, token)
	if dispatchErr != nil {
		return nil, 0, dispatchErr
	}

	if isAuthStatus(resp.StatusCode) && c.refreshFunc != nil {
		rejectedStatus := resp.StatusCode
		status = rejectedStatus
		drain(resp)

		if c.debugEnabled() && c.debug.LogAuth && c.logger != nil {
			c.logger.Debug("token rejected, refreshing", "requestID", requestID, "status", rejectedStatus)
		}

		if err := c.refreshToken(ctx); err != nil {
			if c.metrics != nil {
				c.metrics.RecordTokenRefresh("failure")
			}
			return nil, status, authError(rejectedStatus, "token refresh failed: %v", err)
		}
		if c.metrics != nil {
			c.metrics.RecordTokenRefresh("success")
			c.metrics.RecordAuthRetry(method, endpoint)
		}

		token, err = c.tokenProvider(ctx)
		if err != nil {
			return nil, status, authError(rejectedStatus, "token lookup after refresh failed: %v", err)
		}

		resp, dispatchErr = c.roundTrip(ctx, method, fullURL, payload, ro, token)
		if dispatchErr != nil {
			return nil, 0, dispatchErr
		}

		if isAuthStatus(resp.StatusCode) {
			status = resp.StatusCode
			drain(resp)
			return nil, status, authError(status, "authentication failed after token refresh")
		}
	}

	status = resp.StatusCode
	raw, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, 0, networkError("read response body: %v", readErr)
	}

	if status < 200 || status > 299 {
		return nil, status, statusError(status, "%s", statusMessage(status, raw))
	}

	return raw, status, nil
}

// roundTrip builds and dispatches a single attempt. Headers are layered
// defaults < per-call < Authorization, matching the merge order callers see.
func (c *Client) roundTrip(ctx context.Context, method, url string, payload []byte, ro *requestOptions, token string) (*http.Response, *ErrorInfo) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, networkError("build request: %v", err)
	}

	for k, v := range c.defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range ro.headers {
		req.Header.Set(k, v)
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, timeoutError("request deadline exceeded: %v", err)
		}
		return nil, networkError("%v", err)
	}
	return resp, nil
}

// refreshToken runs the refresh hook, coalesced through the single-flight
// group when WithSingleFlightRefresh is configured so concurrent 401s share
// one in-progress refresh.
func (c *Client) refreshToken(ctx context.Context) error {
	if c.refreshGroup != nil {
		return c.refreshGroup.Do("refresh", func() error {
			return c.refreshFunc(ctx)
		})
	}
	return c.refreshFunc(ctx)
}

// resolveURL joins the base URL and path with exactly one slash between
// them: trailing slashes on the base are trimmed and a leading slash is
// added to the path when missing.
func (c *Client) resolveURL(path string) string {
	base := strings.TrimRight(c.baseURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// endpointLabel keeps metric cardinality bounded: the path without query.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// statusMessage derives a short error message from a failed response,
// preferring the body's "message" or "error" field when it is JSON.
func statusMessage(status int, raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := http.StatusText(status)
	if text == "" {
		text = "unexpected status"
	}
	return text
}

func decodeAny(raw []byte, status int, errInfo *ErrorInfo) Result[any] {
	if errInfo != nil {
		return Result[any]{Error: errInfo}
	}
	var v any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			// Not JSON: pass the raw body through.
			v = string(raw)
		}
	}
	return Result[any]{Data: &v}
}

func decodeTyped[T any](raw []byte, status int, errInfo *ErrorInfo) Result[T] {
	if errInfo != nil {
		return Result[T]{Error: errInfo}
	}
	var v T
	if len(raw) > 0 {
		if sp, ok := any(&v).(*string); ok {
			// T == string receives the body verbatim.
			*sp = string(raw)
		} else if err := json.Unmarshal(raw, &v); err != nil {
			return Result[T]{Error: statusError(status, "decode response body: %v", err)}
		}
	}
	return Result[T]{Data: &v}
}
