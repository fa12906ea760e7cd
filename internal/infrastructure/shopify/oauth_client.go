package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"dropship-storefront-connect/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// oauthClient adapts go-shopify's App to the OAuthClient port for one set of
// application credentials.
type oauthClient struct {
	app    goshopify.App
	logger zerolog.Logger
}

// NewOAuthClient creates an OAuth client for the given credentials.
func NewOAuthClient(apiKey, apiSecret, redirectURL string, logger zerolog.Logger) ports.OAuthClient {
	return &oauthClient{
		app: goshopify.App{
			ApiKey:      apiKey,
			ApiSecret:   apiSecret,
			RedirectUrl: redirectURL,
		},
		logger: logger,
	}
}

// VerifyCallback checks the hmac parameter the provider signs callback URLs
// with.
func (c *oauthClient) VerifyCallback(u *url.URL) error {
	ok, err := c.app.VerifyAuthorizationURL(u)
	if err != nil {
		return fmt.Errorf("failed to verify authorization URL: %w", err)
	}
	if !ok {
		return errors.New("authorization URL signature mismatch")
	}
	return nil
}

// ExchangeToken exchanges an authorization code for an access token.
func (c *oauthClient) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	token, err := c.app.GetAccessToken(ctx, shop, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}
	return token, nil
}

// ClientPool hands out OAuth clients keyed by credentials, so bindings that
// snapshotted the same parameters share a client.
type ClientPool struct {
	mu      sync.Mutex
	clients map[string]ports.OAuthClient
	logger  zerolog.Logger
}

// NewClientPool creates a new OAuth client pool.
func NewClientPool(logger zerolog.Logger) *ClientPool {
	return &ClientPool{
		clients: make(map[string]ports.OAuthClient),
		logger:  logger,
	}
}

// GetClient returns the client for a credentials set, creating it on first
// use.
func (p *ClientPool) GetClient(apiKey, apiSecret, redirectURL string) ports.OAuthClient {
	key := apiKey + "|" + redirectURL

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[key]; ok {
		return client
	}

	client := NewOAuthClient(apiKey, apiSecret, redirectURL, p.logger)
	p.clients[key] = client
	return client
}

var _ ports.OAuthClientPool = (*ClientPool)(nil)
