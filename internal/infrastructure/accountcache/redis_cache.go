package accountcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dropship-storefront-connect/internal/domain"
	"dropship-storefront-connect/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPrincipalCache is a read-through cache in front of an AccountGateway.
// Cache failures are logged and fall through to the underlying gateway;
// lookup failures are never cached.
type RedisPrincipalCache struct {
	next   ports.AccountGateway
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisPrincipalCache creates a new caching gateway decorator.
func NewRedisPrincipalCache(next ports.AccountGateway, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisPrincipalCache {
	return &RedisPrincipalCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// cachedPrincipal is the serialized form of a resolved principal.
type cachedPrincipal struct {
	Kind     string `json:"kind"`
	ID       int64  `json:"id"`
	ParentID int64  `json:"parentId,omitempty"`
	Role     string `json:"role"`
}

const (
	kindMain  = "main"
	kindStaff = "staff"
)

func cacheKey(accountID int64, role string) string {
	return fmt.Sprintf("principal:%d:%s", accountID, role)
}

// ResolvePrincipal returns a cached resolution when present, otherwise asks
// the underlying gateway and caches the result.
func (c *RedisPrincipalCache) ResolvePrincipal(ctx context.Context, accountID int64, role string) (domain.Principal, error) {
	key := cacheKey(accountID, role)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var cached cachedPrincipal
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached.toPrincipal(), nil
		}
		c.logger.Warn().Str("key", key).Msg("Dropping undecodable principal cache entry")
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("Principal cache read failed")
	}

	principal, err := c.next.ResolvePrincipal(ctx, accountID, role)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(fromPrincipal(principal)); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Debug().Err(err).Str("key", key).Msg("Principal cache write failed")
		}
	}

	return principal, nil
}

func (p cachedPrincipal) toPrincipal() domain.Principal {
	if p.Kind == kindStaff {
		return domain.StaffAccount{ID: p.ID, ParentID: p.ParentID, Role: p.Role}
	}
	return domain.MainAccount{ID: p.ID, Role: p.Role}
}

func fromPrincipal(p domain.Principal) cachedPrincipal {
	if staff, ok := p.(domain.StaffAccount); ok {
		return cachedPrincipal{Kind: kindStaff, ID: staff.ID, ParentID: staff.ParentID, Role: staff.Role}
	}
	return cachedPrincipal{Kind: kindMain, ID: p.AccountID(), Role: p.RoleName()}
}
