package webhook_handlers

import (
	"context"
	"testing"
	"time"

	"dropship-storefront-connect/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBindingRepository struct {
	mock.Mock
}

func (m *mockBindingRepository) FindByDomain(ctx context.Context, shopDomain string) (*domain.ShopBinding, error) {
	args := m.Called(ctx, shopDomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShopBinding), args.Error(1)
}

func (m *mockBindingRepository) Create(ctx context.Context, binding *domain.ShopBinding) error {
	args := m.Called(ctx, binding)
	return args.Error(0)
}

func (m *mockBindingRepository) DeleteByDomain(ctx context.Context, shopDomain string) error {
	args := m.Called(ctx, shopDomain)
	return args.Error(0)
}

func (m *mockBindingRepository) MarkVerified(ctx context.Context, shopDomain string, encryptedToken string, at time.Time) error {
	args := m.Called(ctx, shopDomain, encryptedToken, at)
	return args.Error(0)
}

func (m *mockBindingRepository) ListByOwner(ctx context.Context, ownerAccountID int64) ([]*domain.ShopBinding, error) {
	args := m.Called(ctx, ownerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShopBinding), args.Error(1)
}

func TestCanHandle(t *testing.T) {
	h := NewAppUninstalledHandler(zerolog.Nop(), new(mockBindingRepository))

	assert.True(t, h.CanHandle("app/uninstalled"))
	assert.False(t, h.CanHandle("orders/create"))
}

func TestHandle_RemovesBinding(t *testing.T) {
	bindings := new(mockBindingRepository)
	h := NewAppUninstalledHandler(zerolog.Nop(), bindings)

	bindings.On("FindByDomain", mock.Anything, "demo.myshopify.com").
		Return(&domain.ShopBinding{ShopDomain: "demo.myshopify.com", OwnerAccountID: 42}, nil)
	bindings.On("DeleteByDomain", mock.Anything, "demo.myshopify.com").Return(nil)

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		Topic: "app/uninstalled",
		Shop:  "demo.myshopify.com",
	})

	require.NoError(t, err)
	bindings.AssertCalled(t, "DeleteByDomain", mock.Anything, "demo.myshopify.com")
}

func TestHandle_FallsBackToPayloadDomain(t *testing.T) {
	bindings := new(mockBindingRepository)
	h := NewAppUninstalledHandler(zerolog.Nop(), bindings)

	bindings.On("FindByDomain", mock.Anything, "demo.myshopify.com").
		Return(&domain.ShopBinding{ShopDomain: "demo.myshopify.com"}, nil)
	bindings.On("DeleteByDomain", mock.Anything, "demo.myshopify.com").Return(nil)

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:   "app/uninstalled",
		Payload: []byte(`{"myshopify_domain":"demo.myshopify.com"}`),
	})

	require.NoError(t, err)
}

func TestHandle_NoBindingIsNotAnError(t *testing.T) {
	bindings := new(mockBindingRepository)
	h := NewAppUninstalledHandler(zerolog.Nop(), bindings)

	bindings.On("FindByDomain", mock.Anything, "ghost.myshopify.com").Return(nil, nil)

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		Topic: "app/uninstalled",
		Shop:  "ghost.myshopify.com",
	})

	require.NoError(t, err)
	bindings.AssertNotCalled(t, "DeleteByDomain", mock.Anything, mock.Anything)
}

func TestHandle_MissingDomainFails(t *testing.T) {
	h := NewAppUninstalledHandler(zerolog.Nop(), new(mockBindingRepository))

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:   "app/uninstalled",
		Payload: []byte(`{}`),
	})

	assert.Error(t, err)
}
