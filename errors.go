package unihttp

import (
	"fmt"
	"strings"
)

// ConfigError reports construction-time validation failures. It is returned
// by New and never via Result: misconfiguration is caller misuse, not an
// expected per-call outcome.
type ConfigError struct {
	Problems []string
}

// Error implements error interface.
func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Problems) == 1 {
		return fmt.Sprintf("unihttp: invalid configuration: %s", e.Problems[0])
	}
	return fmt.Sprintf("unihttp: invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// Error implements error so an ErrorInfo can be wrapped or logged directly,
// even though the primary contract is Result.Error as data.
func (e *ErrorInfo) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsNetwork reports whether the failure happened at the transport level.
func (e *ErrorInfo) IsNetwork() bool { return e != nil && e.Kind == KindNetwork }

// IsTimeout reports whether the call's deadline expired.
func (e *ErrorInfo) IsTimeout() bool { return e != nil && e.Kind == KindTimeout }

// IsHTTPStatus reports whether the server answered with a non-2xx status.
func (e *ErrorInfo) IsHTTPStatus() bool { return e != nil && e.Kind == KindHTTPStatus }

// IsAuth reports whether authentication failed past the refresh-and-retry.
func (e *ErrorInfo) IsAuth() bool { return e != nil && e.Kind == KindAuth }

func networkError(format string, args ...any) *ErrorInfo {
	return &ErrorInfo{Kind: KindNetwork, Message: fmt.Sprintf(format, args...)}
}

func timeoutError(format string, args ...any) *ErrorInfo {
	return &ErrorInfo{Kind: KindTimeout, Message: fmt.Sprintf(format, args...)}
}

func authError(status int, format string, args ...any) *ErrorInfo {
	return &ErrorInfo{Kind: KindAuth, Status: status, Message: fmt.Sprintf(format, args...)}
}

func statusError(status int, format string, args ...any) *ErrorInfo {
	return &ErrorInfo{Kind: KindHTTPStatus, Status: status, Message: fmt.Sprintf(format, args...)}
}
