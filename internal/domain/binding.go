package domain

import (
	"fmt"
	"net/url"
	"time"
)

// ShopBinding associates an external shop domain with an owning account.
// The install parameters are snapshotted from configuration at creation time
// so a binding's install URL stays stable even if configuration changes.
type ShopBinding struct {
	ID             string
	ShopDomain     string
	OwnerAccountID int64
	OwnerRole      string
	Verified       bool

	// Secrets snapshot, copied from configuration when the binding is created.
	APIKey      string
	APISecret   string
	Scopes      string
	RedirectURL string
	APIVersion  string

	// AccessToken is stored encrypted and set only when the OAuth callback
	// verifies the installation.
	AccessToken string

	CreatedAt     time.Time
	CreatedBy     int64
	CreatedByRole string
	VerifiedAt    *time.Time
}

// InstallURL builds the provider authorization URL from the binding's
// snapshot. The parameter set and ordering are a compatibility contract with
// the OAuth provider; only redirect_uri is query-escaped.
func (b *ShopBinding) InstallURL() string {
	return fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&grant_options[]=per-user",
		b.ShopDomain,
		b.APIKey,
		b.Scopes,
		url.QueryEscape(b.RedirectURL),
	)
}
