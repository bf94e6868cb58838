package unihttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func TestStaticTokenProvider(t *testing.T) {
	provider := StaticTokenProvider("fixed")

	token, err := provider(context.Background())
	if err != nil {
		t.Fatalf("provider returned error: %v", err)
	}
	if token != "fixed" {
		t.Errorf("Expected 'fixed', got %q", token)
	}
}

func TestEnvTokenProvider(t *testing.T) {
	t.Setenv("UNIHTTP_TEST_TOKEN", "from-env")
	provider := EnvTokenProvider("UNIHTTP_TEST_TOKEN")

	token, err := provider(context.Background())
	if err != nil {
		t.Fatalf("provider returned error: %v", err)
	}
	if token != "from-env" {
		t.Errorf("Expected 'from-env', got %q", token)
	}

	// Re-reads the variable on every call, picking up external refreshes.
	t.Setenv("UNIHTTP_TEST_TOKEN", "rotated")
	token, _ = provider(context.Background())
	if token != "rotated" {
		t.Errorf("Expected 'rotated' after env rewrite, got %q", token)
	}
}

func TestEnvTokenProviderUnsetMeansUnauthenticated(t *testing.T) {
	t.Setenv("UNIHTTP_TEST_TOKEN", "")
	provider := EnvTokenProvider("UNIHTTP_TEST_TOKEN")

	token, err := provider(context.Background())
	if err != nil {
		t.Fatalf("provider returned error: %v", err)
	}
	if token != "" {
		t.Errorf("Expected empty token for unset variable, got %q", token)
	}
}

func TestTokenSourceProvider(t *testing.T) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "static-source"})
	provider := TokenSourceProvider(source)

	token, err := provider(context.Background())
	if err != nil {
		t.Fatalf("provider returned error: %v", err)
	}
	if token != "static-source" {
		t.Errorf("Expected 'static-source', got %q", token)
	}
}

func TestClientCredentialsProvider(t *testing.T) {
	var tokenRequests int
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST to token endpoint, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"access_token":"cc-token","token_type":"bearer","expires_in":3600}`)); err != nil {
			t.Fatalf(failedWriteMsg, err)
		}
	}))
	defer authServer.Close()

	provider := ClientCredentialsProvider(context.Background(), authServer.URL+"/oauth/token", "client-id", "client-secret", "read")

	token, err := provider(context.Background())
	if err != nil {
		t.Fatalf("provider returned error: %v", err)
	}
	if token != "cc-token" {
		t.Errorf("Expected 'cc-token', got %q", token)
	}

	// Second call reuses the cached token instead of hitting the endpoint.
	if _, err := provider(context.Background()); err != nil {
		t.Fatalf("provider returned error on reuse: %v", err)
	}
	if tokenRequests != 1 {
		t.Errorf("Expected one token endpoint hit, got %d", tokenRequests)
	}
}

func TestClientCredentialsProviderEndpointError(t *testing.T) {
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer authServer.Close()

	provider := ClientCredentialsProvider(nil, authServer.URL+"/oauth/token", "bad-id", "bad-secret")

	if _, err := provider(context.Background()); err == nil {
		t.Fatal("Expected error from rejected client credentials")
	}
}
