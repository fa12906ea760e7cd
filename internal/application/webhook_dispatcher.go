package application

import (
	"context"

	"dropship-storefront-connect/internal/domain"

	"github.com/rs/zerolog"
)

// WebhookHandler processes webhook events for the topics it declares.
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes webhook events to registered handlers.
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a new webhook dispatcher.
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler adds a handler to the dispatch chain.
func (d *WebhookDispatcher) RegisterHandler(h WebhookHandler) {
	d.handlers = append(d.handlers, h)
}

// Dispatch delivers the event to every handler that accepts its topic.
// Unhandled topics are logged and acknowledged, not failed, so the provider
// does not retry events the service does not care about.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	handled := false
	for _, h := range d.handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}
		handled = true
		if err := h.Handle(ctx, event); err != nil {
			return err
		}
	}
	if !handled {
		d.logger.Debug().
			Str("topic", event.Topic).
			Str("shop", event.Shop).
			Msg("No handler registered for webhook topic")
	}
	return nil
}
