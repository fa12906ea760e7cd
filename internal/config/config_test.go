package config

import (
	"testing"

	"dropship-storefront-connect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeConfig() Config {
	return Config{
		APIKey:      "key",
		APISecret:   "secret",
		Scopes:      "read_products",
		RedirectURL: "https://connect.example.com/callback",
		APIVersion:  "2024-01",
		AppHost:     "https://console.example.com",
	}
}

func TestValidateInstall_CompleteConfigPasses(t *testing.T) {
	assert.NoError(t, completeConfig().ValidateInstall())
}

func TestValidateInstall_EnumeratesEveryMissingParameter(t *testing.T) {
	err := Config{}.ValidateInstall()

	require.Error(t, err)
	var domErr *domain.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, domain.KindConfiguration, domErr.Kind)
	assert.Equal(t, []string{
		"SHOPIFY_API_KEY",
		"SHOPIFY_API_SECRET",
		"SHOPIFY_SCOPES",
		"SHOPIFY_REDIRECT_URL",
		"SHOPIFY_API_VERSION",
		"APP_HOST",
	}, domErr.Missing)
}

func TestValidateInstall_WhitespaceCountsAsMissing(t *testing.T) {
	cfg := completeConfig()
	cfg.Scopes = "   "

	err := cfg.ValidateInstall()

	require.Error(t, err)
	var domErr *domain.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, []string{"SHOPIFY_SCOPES"}, domErr.Missing)
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("APP_HOST", "https://console.example.com/")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "https://console.example.com", cfg.AppHost)
}
