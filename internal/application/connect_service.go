package application

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dropship-storefront-connect/internal/config"
	"dropship-storefront-connect/internal/domain"
	"dropship-storefront-connect/internal/ports"

	"github.com/rs/zerolog"
)

// ConnectService implements the storefront binding and installation flow.
// It depends on ports (interfaces) not concrete implementations.
type ConnectService struct {
	bindings   ports.BindingRepository
	accounts   ports.AccountGateway
	encryption ports.EncryptionService
	clients    ports.OAuthClientPool
	cfg        config.Config
	logger     zerolog.Logger
	now        func() time.Time
}

// NewConnectService creates a new connect application service.
func NewConnectService(
	bindings ports.BindingRepository,
	accounts ports.AccountGateway,
	encryption ports.EncryptionService,
	clients ports.OAuthClientPool,
	cfg config.Config,
	logger zerolog.Logger,
) *ConnectService {
	return &ConnectService{
		bindings:   bindings,
		accounts:   accounts,
		encryption: encryption,
		clients:    clients,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// ConnectInput carries the caller-supplied parameters of a connect request.
type ConnectInput struct {
	AccountID  string
	Role       string
	ShopDomain string
}

// ConnectResult is the successful outcome of a connect request.
type ConnectResult struct {
	InstallURL string
	Binding    *domain.ShopBinding
	// Reused is true when an existing verified binding owned by the caller
	// was returned without any mutation.
	Reused bool
}

// ConnectStore decides, for a requested shop domain and requesting account,
// whether to bind the shop, reject the request as a conflict, reclaim an
// abandoned pending binding, or reuse an existing binding idempotently. On
// success it returns the OAuth authorization URL.
//
// Steps run strictly in order: identity resolution, validation, binding
// resolution, creation. Each step's failure aborts the request.
func (s *ConnectService) ConnectStore(ctx context.Context, input ConnectInput) (*ConnectResult, error) {
	principal, err := s.resolvePrincipal(ctx, input.AccountID, input.Role)
	if err != nil {
		return nil, err
	}

	shop := strings.TrimSpace(input.ShopDomain)
	if shop == "" {
		return nil, domain.NewError(domain.KindValidation, "shop is required")
	}

	if err := s.cfg.ValidateInstall(); err != nil {
		return nil, err
	}

	owner := principal.EffectiveOwner()

	existing, err := s.bindings.FindByDomain(ctx, shop)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to look up binding")
		return nil, domain.WrapError(domain.KindPersistence, "failed to look up binding", err)
	}

	switch {
	case existing == nil:
		// Absent: proceed to creation.

	case existing.Verified && existing.OwnerAccountID == owner:
		// Verified and owned by the caller: idempotent reuse, no mutation.
		s.logger.Info().
			Str("shop", shop).
			Int64("owner", owner).
			Msg("Shop already connected by this account, reusing binding")
		return &ConnectResult{InstallURL: existing.InstallURL(), Binding: existing, Reused: true}, nil

	case existing.Verified:
		return nil, domain.NewError(domain.KindBindingConflict,
			fmt.Sprintf("shop %s is already registered and verified by another account", shop))

	default:
		// Unverified, any owner: an abandoned install attempt confers no
		// exclusivity. Delete it and start over.
		s.logger.Info().
			Str("shop", shop).
			Int64("previousOwner", existing.OwnerAccountID).
			Int64("owner", owner).
			Msg("Reclaiming unverified binding")
		if err := s.bindings.DeleteByDomain(ctx, shop); err != nil {
			s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to delete stale binding")
			return nil, domain.WrapError(domain.KindPersistence, "failed to delete stale binding", err)
		}
	}

	binding := &domain.ShopBinding{
		ShopDomain:     shop,
		OwnerAccountID: owner,
		OwnerRole:      principal.RoleName(),
		Verified:       false,
		APIKey:         s.cfg.APIKey,
		APISecret:      s.cfg.APISecret,
		Scopes:         s.cfg.Scopes,
		RedirectURL:    s.cfg.RedirectURL,
		APIVersion:     s.cfg.APIVersion,
		CreatedAt:      s.now(),
		CreatedBy:      principal.AccountID(),
		CreatedByRole:  principal.RoleName(),
	}

	if err := s.bindings.Create(ctx, binding); err != nil {
		// A concurrent connect for the same domain hits the storage uniqueness
		// constraint; report that as a conflict, not a storage failure.
		if domain.KindOf(err) == domain.KindBindingConflict {
			return nil, err
		}
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to create binding")
		return nil, domain.WrapError(domain.KindPersistence, "failed to create binding", err)
	}

	s.logger.Info().
		Str("shop", shop).
		Int64("owner", owner).
		Int64("createdBy", principal.AccountID()).
		Str("role", principal.RoleName()).
		Msg("Created pending binding")

	return &ConnectResult{InstallURL: binding.InstallURL(), Binding: binding}, nil
}

// CompleteInstall handles the provider OAuth callback: it verifies the
// callback signature with the binding's snapshotted credentials, exchanges
// the authorization code for an access token, and flips the binding to
// verified. Any failure leaves the binding pending.
func (s *ConnectService) CompleteInstall(ctx context.Context, shop string, callbackURL *url.URL) (*domain.ShopBinding, error) {
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return nil, domain.NewError(domain.KindValidation, "shop is required")
	}

	binding, err := s.bindings.FindByDomain(ctx, shop)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, "failed to look up binding", err)
	}
	if binding == nil {
		return nil, domain.NewError(domain.KindBindingNotFound,
			fmt.Sprintf("no pending installation for shop %s", shop))
	}
	if binding.Verified {
		return nil, domain.NewError(domain.KindBindingConflict,
			fmt.Sprintf("shop %s is already verified", shop))
	}

	client := s.clients.GetClient(binding.APIKey, binding.APISecret, binding.RedirectURL)

	if err := client.VerifyCallback(callbackURL); err != nil {
		s.logger.Warn().Err(err).Str("shop", shop).Msg("Callback signature verification failed")
		return nil, domain.WrapError(domain.KindValidation, "invalid callback signature", err)
	}

	code := callbackURL.Query().Get("code")
	if code == "" {
		return nil, domain.NewError(domain.KindValidation, "code is required")
	}

	token, err := client.ExchangeToken(ctx, shop, code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Token exchange failed")
		return nil, domain.WrapError(domain.KindPersistence, "token exchange failed", err)
	}

	encrypted, err := s.encryption.Encrypt(token)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to encrypt access token")
		return nil, domain.WrapError(domain.KindPersistence, "failed to encrypt access token", err)
	}

	verifiedAt := s.now()
	if err := s.bindings.MarkVerified(ctx, shop, encrypted, verifiedAt); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to mark binding verified")
		return nil, domain.WrapError(domain.KindPersistence, "failed to mark binding verified", err)
	}

	binding.Verified = true
	binding.AccessToken = encrypted
	binding.VerifiedAt = &verifiedAt

	s.logger.Info().
		Str("shop", shop).
		Int64("owner", binding.OwnerAccountID).
		Msg("Installation verified")

	return binding, nil
}

// ListBindings returns the bindings attributed to the caller's effective
// owner account.
func (s *ConnectService) ListBindings(ctx context.Context, accountID, role string) ([]*domain.ShopBinding, error) {
	principal, err := s.resolvePrincipal(ctx, accountID, role)
	if err != nil {
		return nil, err
	}

	bindings, err := s.bindings.ListByOwner(ctx, principal.EffectiveOwner())
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, "failed to list bindings", err)
	}
	return bindings, nil
}

// DisconnectStore removes a binding. The effective owner may remove its own
// bindings; admins may remove any.
func (s *ConnectService) DisconnectStore(ctx context.Context, accountID, role, shop string) error {
	principal, err := s.resolvePrincipal(ctx, accountID, role)
	if err != nil {
		return err
	}

	shop = strings.TrimSpace(shop)
	if shop == "" {
		return domain.NewError(domain.KindValidation, "shop is required")
	}

	binding, err := s.bindings.FindByDomain(ctx, shop)
	if err != nil {
		return domain.WrapError(domain.KindPersistence, "failed to look up binding", err)
	}
	if binding == nil {
		return domain.NewError(domain.KindBindingNotFound,
			fmt.Sprintf("no binding for shop %s", shop))
	}
	if binding.OwnerAccountID != principal.EffectiveOwner() && principal.RoleName() != domain.RoleAdmin {
		return domain.NewError(domain.KindBindingConflict,
			fmt.Sprintf("shop %s is owned by another account", shop))
	}

	if err := s.bindings.DeleteByDomain(ctx, shop); err != nil {
		return domain.WrapError(domain.KindPersistence, "failed to delete binding", err)
	}

	s.logger.Info().
		Str("shop", shop).
		Int64("owner", binding.OwnerAccountID).
		Int64("requestedBy", principal.AccountID()).
		Msg("Binding removed")

	return nil
}

// resolvePrincipal parses the caller-supplied account id and resolves it to
// the principal bindings are attributed to.
func (s *ConnectService) resolvePrincipal(ctx context.Context, accountID, role string) (domain.Principal, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(accountID), 10, 64)
	if err != nil || id <= 0 {
		return nil, domain.NewError(domain.KindInvalidIdentity,
			fmt.Sprintf("invalid account id %q", accountID))
	}

	principal, err := s.accounts.ResolvePrincipal(ctx, id, role)
	if err != nil {
		if domain.KindOf(err) != "" {
			return nil, err
		}
		return nil, domain.WrapError(domain.KindPersistence, "failed to resolve principal", err)
	}
	return principal, nil
}
