package unihttp

import (
	"context"
	"net/http"
	"time"
)

// TokenProvider yields the bearer token attached to an outgoing request.
// An empty token means the request proceeds unauthenticated without an
// Authorization header. Implementations may be stateful (backed by shared
// storage) and must be safe for concurrent use.
type TokenProvider func(ctx context.Context) (string, error)

// RefreshFunc performs a token refresh, including persisting the new token
// wherever the TokenProvider reads it from. After it returns, the pipeline
// re-invokes the TokenProvider and retries the rejected request once.
type RefreshFunc func(ctx context.Context) error

// ErrorKind classifies a request failure.
type ErrorKind string

const (
	// KindNetwork means the transport could not complete the exchange.
	KindNetwork ErrorKind = "Network"
	// KindTimeout means the per-call deadline expired before completion.
	KindTimeout ErrorKind = "Timeout"
	// KindHTTPStatus means the transport completed with a non-2xx status
	// that was not resolved by the auth-retry path.
	KindHTTPStatus ErrorKind = "HttpStatus"
	// KindAuth means a 401/403 persisted after one refresh-and-retry, or
	// the token machinery itself failed.
	KindAuth ErrorKind = "Auth"
)

// ErrorInfo describes a classified request failure. Status is set only when
// the transport completed and returned a response; its absence means the
// failure occurred before any response was obtained.
type ErrorInfo struct {
	Kind    ErrorKind
	Message string
	Status  int
}

// Result is the uniform outcome of one call: exactly one of Data and Error
// is set, never both, never neither. Callers check Error before reading
// Data instead of handling exceptions.
type Result[T any] struct {
	Data  *T
	Error *ErrorInfo
}

// Ok reports whether the call succeeded.
func (r Result[T]) Ok() bool {
	return r.Error == nil
}

// Option configures a Client at construction time.
type Option func(*Client)

// RequestOption adjusts a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers map[string]string
	timeout time.Duration // 0 means use the client default
}

// WithHeaders merges headers into this call, winning over the client's
// default headers on key collision.
func WithHeaders(headers map[string]string) RequestOption {
	return func(ro *requestOptions) {
		if ro.headers == nil {
			ro.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			ro.headers[k] = v
		}
	}
}

// WithHeader sets a single header for this call.
func WithHeader(key, value string) RequestOption {
	return func(ro *requestOptions) {
		if ro.headers == nil {
			ro.headers = make(map[string]string, 1)
		}
		ro.headers[key] = value
	}
}

// WithRequestTimeout overrides the client's default deadline for this call.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(ro *requestOptions) {
		ro.timeout = d
	}
}

// RoundTripperFunc adapts a function to http.RoundTripper, mainly for
// transport stubs in tests.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
