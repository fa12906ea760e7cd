package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// WebhookVerifier validates the X-Shopify-Hmac-SHA256 signature the provider
// attaches to webhook deliveries.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier creates a verifier for the shared webhook secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Verify checks the signature over the raw request body.
func (v *WebhookVerifier) Verify(payload []byte, hmacHeader string) error {
	if hmacHeader == "" {
		return errors.New("missing hmac header")
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(hmacHeader)) {
		return errors.New("webhook signature mismatch")
	}
	return nil
}
