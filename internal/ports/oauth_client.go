package ports

import (
	"context"
	"net/url"
)

// OAuthClient completes the provider OAuth handshake for one set of
// application credentials.
type OAuthClient interface {
	// VerifyCallback checks the provider's HMAC signature on a callback URL.
	VerifyCallback(u *url.URL) error

	// ExchangeToken exchanges an authorization code for an access token.
	ExchangeToken(ctx context.Context, shop string, code string) (string, error)
}

// OAuthClientPool hands out OAuth clients for the credentials snapshotted on
// a binding, so the handshake uses the parameters the install started with.
type OAuthClientPool interface {
	GetClient(apiKey, apiSecret, redirectURL string) OAuthClient
}
