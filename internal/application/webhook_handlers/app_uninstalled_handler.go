package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"dropship-storefront-connect/internal/domain"
	"dropship-storefront-connect/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler removes a shop's binding when the merchant uninstalls
// the application, returning the domain to the unbound state.
type AppUninstalledHandler struct {
	logger   zerolog.Logger
	bindings ports.BindingRepository
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler.
func NewAppUninstalledHandler(logger zerolog.Logger, bindings ports.BindingRepository) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger:   logger,
		bindings: bindings,
	}
}

// CanHandle returns true if this handler can process the given topic.
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == "app/uninstalled"
}

// Handle processes an app uninstalled webhook event.
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shopDomain := event.Shop
	if shopDomain == "" {
		var shopData map[string]interface{}
		if err := json.Unmarshal(event.Payload, &shopData); err != nil {
			return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
		}
		if d, ok := shopData["domain"].(string); ok {
			shopDomain = d
		} else if d, ok := shopData["myshopify_domain"].(string); ok {
			shopDomain = d
		}
	}
	if shopDomain == "" {
		return fmt.Errorf("app uninstalled webhook carries no shop domain")
	}

	binding, err := h.bindings.FindByDomain(ctx, shopDomain)
	if err != nil {
		return fmt.Errorf("failed to look up binding for uninstalled shop: %w", err)
	}
	if binding == nil {
		h.logger.Info().
			Str("shop", shopDomain).
			Msg("App uninstalled for a shop with no binding, nothing to clean up")
		return nil
	}

	if err := h.bindings.DeleteByDomain(ctx, shopDomain); err != nil {
		return fmt.Errorf("failed to delete binding for uninstalled shop: %w", err)
	}

	h.logger.Info().
		Str("shop", shopDomain).
		Int64("owner", binding.OwnerAccountID).
		Msg("App uninstalled - binding removed")

	return nil
}
