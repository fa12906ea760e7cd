package config

import (
	"os"
	"strings"

	"dropship-storefront-connect/internal/domain"
)

// Config is the process configuration, read from the environment once at
// startup and injected where needed. It is never mutated afterwards.
type Config struct {
	// Install parameters, snapshotted into every binding at creation.
	APIKey      string
	APISecret   string
	Scopes      string
	RedirectURL string
	APIVersion  string
	AppHost     string

	// WebhookSecret signs inbound provider webhooks.
	WebhookSecret string

	// Process-level settings.
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string
	EncryptionKey string
}

// installParams maps the required install parameters to the environment
// variables operators must set. Validation reports the variable names.
var installParams = []struct {
	name  string
	value func(Config) string
}{
	{"SHOPIFY_API_KEY", func(c Config) string { return c.APIKey }},
	{"SHOPIFY_API_SECRET", func(c Config) string { return c.APISecret }},
	{"SHOPIFY_SCOPES", func(c Config) string { return c.Scopes }},
	{"SHOPIFY_REDIRECT_URL", func(c Config) string { return c.RedirectURL }},
	{"SHOPIFY_API_VERSION", func(c Config) string { return c.APIVersion }},
	{"APP_HOST", func(c Config) string { return c.AppHost }},
}

// FromEnv snapshots the environment into a Config.
func FromEnv() Config {
	cfg := Config{
		APIKey:        strings.TrimSpace(os.Getenv("SHOPIFY_API_KEY")),
		APISecret:     strings.TrimSpace(os.Getenv("SHOPIFY_API_SECRET")),
		Scopes:        strings.TrimSpace(os.Getenv("SHOPIFY_SCOPES")),
		RedirectURL:   strings.TrimSpace(os.Getenv("SHOPIFY_REDIRECT_URL")),
		APIVersion:    strings.TrimSpace(os.Getenv("SHOPIFY_API_VERSION")),
		AppHost:       strings.TrimRight(strings.TrimSpace(os.Getenv("APP_HOST")), "/"),
		WebhookSecret: strings.TrimSpace(os.Getenv("SHOPIFY_WEBHOOK_SECRET")),
		Port:          os.Getenv("PORT"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: os.Getenv("MONGODB_DATABASE"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		EncryptionKey: os.Getenv("ENCRYPTION_KEY"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}
	return cfg
}

// ValidateInstall checks every required install parameter and reports all
// missing names in one error, never just the first.
func (c Config) ValidateInstall() error {
	var missing []string
	for _, p := range installParams {
		if strings.TrimSpace(p.value(c)) == "" {
			missing = append(missing, p.name)
		}
	}
	if len(missing) > 0 {
		return domain.NewConfigurationError(missing)
	}
	return nil
}
