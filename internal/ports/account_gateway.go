package ports

import (
	"context"

	"dropship-storefront-connect/internal/domain"
)

// AccountGateway resolves a caller-supplied account id and role to the
// principal a binding is attributed to. An unknown or unauthorized account
// yields a domain.Error with KindPrincipalNotFound carrying the lookup's
// message.
type AccountGateway interface {
	ResolvePrincipal(ctx context.Context, accountID int64, role string) (domain.Principal, error)
}
