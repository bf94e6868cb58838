package unihttp

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/calimero-network/unihttp/internal/singleflight"
)

// WithTransport overrides the network primitive used to perform exchanges.
// When omitted, the host-provided http.DefaultTransport is used.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithTimeout sets the client-wide per-request deadline (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithDefaultHeaders merges headers into every request issued by the
// client. The map is copied, so later mutation by the caller has no effect.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithDefaultHeader sets a single default header.
func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithTokenProvider sets the per-request bearer token source. Required.
func WithTokenProvider(provider TokenProvider) Option {
	return func(c *Client) {
		c.tokenProvider = provider
	}
}

// WithRefreshFunc sets the hook invoked once when the server rejects the
// current token with 401/403; the rejected request is then retried once.
// Without it, 401/403 classify as plain HttpStatus failures.
func WithRefreshFunc(fn RefreshFunc) Option {
	return func(c *Client) {
		c.refreshFunc = fn
	}
}

// WithSingleFlightRefresh coalesces concurrent token refreshes: when several
// in-flight calls hit a 401 at the same time they await one shared refresh
// instead of each issuing their own. Off by default.
func WithSingleFlightRefresh() Option {
	return func(c *Client) {
		c.refreshGroup = singleflight.New()
	}
}

// WithMetrics enables Prometheus metrics collection on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a plain console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithZapLogger enables debug logging through a zap logger.
func WithZapLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewZapLogger(logger)
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the resolved configuration and returns a
// *ConfigError aggregating every problem found, or nil.
func (c *Client) ValidateConfiguration() error {
	var problems []string

	if c.baseURL == "" {
		problems = append(problems, "baseURL must not be empty")
	}
	if c.timeout <= 0 {
		problems = append(problems, fmt.Sprintf("timeout must be positive, got %v", c.timeout))
	}
	if c.tokenProvider == nil {
		problems = append(problems, "a TokenProvider is required (use StaticTokenProvider(\"\") for unauthenticated clients)")
	}
	if c.transport == nil {
		problems = append(problems, "transport must not be nil")
	}
	if c.debugEnabled() && c.logger == nil {
		problems = append(problems, "a logger must be set when debug logging is enabled")
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}
