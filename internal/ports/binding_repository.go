package ports

import (
	"context"
	"time"

	"dropship-storefront-connect/internal/domain"
)

// BindingRepository defines the interface for shop binding persistence.
type BindingRepository interface {
	// FindByDomain retrieves the binding for a shop domain, or nil when absent.
	FindByDomain(ctx context.Context, shopDomain string) (*domain.ShopBinding, error)

	// Create inserts a new binding. The storage layer enforces uniqueness on
	// shopDomain; a duplicate insert returns a domain.Error with
	// KindBindingConflict.
	Create(ctx context.Context, binding *domain.ShopBinding) error

	// DeleteByDomain removes the binding for a shop domain.
	DeleteByDomain(ctx context.Context, shopDomain string) error

	// MarkVerified flips the binding to verified and stores the encrypted
	// access token obtained from the OAuth handshake.
	MarkVerified(ctx context.Context, shopDomain string, encryptedToken string, at time.Time) error

	// ListByOwner retrieves all bindings attributed to an owner account.
	ListByOwner(ctx context.Context, ownerAccountID int64) ([]*domain.ShopBinding, error)
}
