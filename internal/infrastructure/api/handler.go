package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"dropship-storefront-connect/internal/application"
	"dropship-storefront-connect/internal/domain"
	"dropship-storefront-connect/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Identity headers set by the console's auth gateway.
const (
	HeaderAccountID = "X-Account-ID"
	HeaderRole      = "X-Account-Role"
)

// ConnectService is the application surface the HTTP layer depends on.
type ConnectService interface {
	ConnectStore(ctx context.Context, input application.ConnectInput) (*application.ConnectResult, error)
	CompleteInstall(ctx context.Context, shop string, callbackURL *url.URL) (*domain.ShopBinding, error)
	ListBindings(ctx context.Context, accountID, role string) ([]*domain.ShopBinding, error)
	DisconnectStore(ctx context.Context, accountID, role, shop string) error
}

// Handler exposes the storefront connect operations over HTTP.
type Handler struct {
	service    ConnectService
	dispatcher *application.WebhookDispatcher
	verifier   *shopify.WebhookVerifier
	metrics    *Metrics
	appHost    string
	logger     zerolog.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(
	service ConnectService,
	dispatcher *application.WebhookDispatcher,
	verifier *shopify.WebhookVerifier,
	metrics *Metrics,
	appHost string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		service:    service,
		dispatcher: dispatcher,
		verifier:   verifier,
		metrics:    metrics,
		appHost:    appHost,
		logger:     logger,
	}
}

// Routes mounts the handler's endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/integrations/storefront/connect", h.ConnectStore)
	r.Get("/integrations/storefront/callback", h.InstallCallback)
	r.Get("/integrations/storefront/bindings", h.ListBindings)
	r.Delete("/integrations/storefront/bindings/{shop}", h.DisconnectStore)
	r.Post("/webhooks/storefront", h.Webhook)
}

type connectRequest struct {
	Shop string `json:"shop"`
}

type bindingResponse struct {
	ShopDomain     string     `json:"shopDomain"`
	OwnerAccountID int64      `json:"ownerAccountId"`
	OwnerRole      string     `json:"ownerRole"`
	Verified       bool       `json:"verified"`
	CreatedAt      time.Time  `json:"createdAt"`
	VerifiedAt     *time.Time `json:"verifiedAt,omitempty"`
}

// ConnectStore handles POST /integrations/storefront/connect.
func (h *Handler) ConnectStore(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.metrics.ObserveConnect(OutcomeRejected)
		h.writeError(w, domain.NewError(domain.KindValidation, "invalid request body"))
		return
	}

	result, err := h.service.ConnectStore(r.Context(), application.ConnectInput{
		AccountID:  r.Header.Get(HeaderAccountID),
		Role:       r.Header.Get(HeaderRole),
		ShopDomain: req.Shop,
	})
	if err != nil {
		h.metrics.ObserveConnect(connectOutcome(err))
		h.writeError(w, err)
		return
	}

	if result.Reused {
		h.metrics.ObserveConnect(OutcomeReused)
	} else {
		h.metrics.ObserveConnect(OutcomeCreated)
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"installUrl": result.InstallURL})
}

// InstallCallback handles the provider OAuth redirect.
func (h *Handler) InstallCallback(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")

	binding, err := h.service.CompleteInstall(r.Context(), shop, r.URL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	redirect := fmt.Sprintf("%s/stores?connected=1&shop=%s",
		h.appHost, url.QueryEscape(binding.ShopDomain))
	http.Redirect(w, r, redirect, http.StatusFound)
}

// ListBindings handles GET /integrations/storefront/bindings.
func (h *Handler) ListBindings(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.service.ListBindings(r.Context(),
		r.Header.Get(HeaderAccountID), r.Header.Get(HeaderRole))
	if err != nil {
		h.writeError(w, err)
		return
	}

	items := make([]bindingResponse, 0, len(bindings))
	for _, b := range bindings {
		items = append(items, bindingResponse{
			ShopDomain:     b.ShopDomain,
			OwnerAccountID: b.OwnerAccountID,
			OwnerRole:      b.OwnerRole,
			Verified:       b.Verified,
			CreatedAt:      b.CreatedAt,
			VerifiedAt:     b.VerifiedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// DisconnectStore handles DELETE /integrations/storefront/bindings/{shop}.
func (h *Handler) DisconnectStore(w http.ResponseWriter, r *http.Request) {
	shop := chi.URLParam(r, "shop")

	err := h.service.DisconnectStore(r.Context(),
		r.Header.Get(HeaderAccountID), r.Header.Get(HeaderRole), shop)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Webhook handles POST /webhooks/storefront.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	topic := r.Header.Get("X-Shopify-Topic")
	if topic == "" {
		h.writeError(w, domain.NewError(domain.KindValidation, "missing X-Shopify-Topic header"))
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, domain.NewError(domain.KindValidation, "failed to read request body"))
		return
	}
	defer r.Body.Close()

	hmacHeader := r.Header.Get("X-Shopify-Hmac-SHA256")
	if err := h.verifier.Verify(payload, hmacHeader); err != nil {
		h.logger.Warn().Err(err).Str("topic", topic).Msg("Webhook signature verification failed")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event := &domain.WebhookEvent{
		Topic:    topic,
		Shop:     r.Header.Get("X-Shopify-Shop-Domain"),
		Payload:  payload,
		Verified: true,
	}

	h.metrics.ObserveWebhook(topic)

	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.logger.Error().Err(err).Str("topic", topic).Msg("Failed to dispatch webhook event")
		// 500 triggers a provider retry.
		http.Error(w, "failed to process webhook event", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

type errorBody struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
	Missing []string         `json:"missing,omitempty"`
}

// writeError maps the error taxonomy to stable status codes. Anything outside
// the taxonomy is reported generically and logged with full detail.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var domErr *domain.Error
	if !errors.As(err, &domErr) {
		h.logger.Error().Err(err).Msg("Unexpected error")
		h.writeJSON(w, http.StatusInternalServerError, map[string]errorBody{
			"error": {Kind: "internal_error", Message: "internal server error"},
		})
		return
	}

	h.writeJSON(w, statusForKind(domErr.Kind), map[string]errorBody{
		"error": {Kind: domErr.Kind, Message: domErr.Message, Missing: domErr.Missing},
	})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidIdentity, domain.KindValidation, domain.KindConfiguration:
		return http.StatusBadRequest
	case domain.KindPrincipalNotFound, domain.KindBindingNotFound:
		return http.StatusNotFound
	case domain.KindBindingConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func connectOutcome(err error) string {
	switch domain.KindOf(err) {
	case domain.KindBindingConflict:
		return OutcomeConflict
	case domain.KindInvalidIdentity, domain.KindValidation, domain.KindConfiguration, domain.KindPrincipalNotFound:
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
