package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstallURL_OnlyRedirectURIIsEscaped(t *testing.T) {
	b := &ShopBinding{
		ShopDomain:  "demo-store.myshopify.com",
		APIKey:      "abc123",
		Scopes:      "read_orders,write_orders",
		RedirectURL: "https://app.example.com/auth/callback",
	}

	assert.Equal(t,
		"https://demo-store.myshopify.com/admin/oauth/authorize"+
			"?client_id=abc123"+
			"&scope=read_orders,write_orders"+
			"&redirect_uri=https%3A%2F%2Fapp.example.com%2Fauth%2Fcallback"+
			"&grant_options[]=per-user",
		b.InstallURL())
}
