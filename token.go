package unihttp

import (
	"context"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// StaticTokenProvider always yields the same token. An empty token produces
// unauthenticated requests.
func StaticTokenProvider(token string) TokenProvider {
	return func(context.Context) (string, error) {
		return token, nil
	}
}

// EnvTokenProvider reads the token from a process environment variable on
// every call, so a refresh that rewrites the variable is picked up by the
// next request without restarting the client.
func EnvTokenProvider(name string) TokenProvider {
	return func(context.Context) (string, error) {
		return os.Getenv(name), nil
	}
}

// TokenSourceProvider adapts an oauth2.TokenSource. Wrap the source with
// oauth2.ReuseTokenSource to get caching and expiry-driven refresh.
func TokenSourceProvider(source oauth2.TokenSource) TokenProvider {
	return func(context.Context) (string, error) {
		token, err := source.Token()
		if err != nil {
			return "", err
		}
		return token.AccessToken, nil
	}
}

// ClientCredentialsProvider obtains tokens through the OAuth2 client
// credentials flow. Tokens are cached and re-fetched near expiry by the
// underlying source. The context is detached from caller cancellation so a
// single aborted request cannot poison token acquisition for the client.
func ClientCredentialsProvider(ctx context.Context, tokenURL, clientID, clientSecret string, scopes ...string) TokenProvider {
	if ctx == nil {
		ctx = context.Background()
	} else {
		ctx = context.WithoutCancel(ctx)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}

	return TokenSourceProvider(config.TokenSource(ctx))
}
