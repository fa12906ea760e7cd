package domain

// WebhookEvent is a verified provider notification delivered to the service,
// e.g. app/uninstalled when a merchant removes the application.
type WebhookEvent struct {
	Topic    string `json:"topic"`
	Shop     string `json:"shop"`
	Payload  []byte `json:"payload"`
	Verified bool   `json:"verified"`
}
