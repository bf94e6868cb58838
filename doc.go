// Package unihttp provides a universal HTTP client that behaves the same in
// every host process: one uniform result shape for every outcome, bearer
// token authentication with transparent refresh, and per-request deadlines.
//
//   - Every call returns a Result – success data or a classified error
//     (Network / Timeout / HttpStatus / Auth), never a thrown surprise
//   - Bearer tokens are fetched per request from a caller supplied
//     TokenProvider; a 401/403 triggers exactly one refresh-and-retry
//   - Per-call timeouts with a client-wide default; no call outlives its
//     deadline
//   - Transport is injected (http.RoundTripper), so the same client code
//     runs against the real network, a proxy or a test stub
//   - Optional single-flight refresh coalescing, Prometheus metrics and
//     lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - No implicit global state; every client owns its resolved configuration
//   - Safe concurrent use of a single *Client instance
//
// Typical usage:
//
//	client, err := unihttp.New("https://api.example.com",
//	    unihttp.WithTokenProvider(unihttp.EnvTokenProvider("API_TOKEN")),
//	    unihttp.WithTimeout(10*time.Second),
//	    unihttp.WithDefaultHeader("X-Client", "unihttp"),
//	)
//	if err != nil {
//	    // construction-time misconfiguration (ConfigError)
//	}
//	res := client.Get(ctx, "/api/hello")
//	if res.Error != nil {
//	    // classified failure: res.Error.Kind, res.Error.Status
//	}
//
// URL joining rule: the base URL's trailing slashes are trimmed and the path
// always contributes exactly one leading slash, so "https://host/" + "/v1"
// and "https://host" + "v1" both resolve to "https://host/v1".
//
// Only auth failures trigger a retry, and only once; retry policy for
// network or timeout failures belongs to the caller.
package unihttp
