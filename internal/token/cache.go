// Package token caches harvested bearer tokens and re-harvests them before
// they expire.
package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// renew this long before the recorded expiration
	defaultRenewAhead = 1 * time.Hour
	// tokens whose expiration cannot be decoded are cached this long
	defaultFallbackTTL = 24 * time.Hour
)

// HarvestFunc obtains a fresh token, typically by driving the documentation
// console's login endpoint.
type HarvestFunc func(ctx context.Context) (string, error)

// Cache hands out a cached token until it nears expiration, then harvests a
// new one. Safe for concurrent use.
type Cache struct {
	harvest     HarvestFunc
	renewAhead  time.Duration
	fallbackTTL time.Duration
	log         zerolog.Logger

	mu          sync.RWMutex
	token       string
	expiresAt   time.Time
	lastRefresh time.Time
}

func NewCache(harvest HarvestFunc, log zerolog.Logger) *Cache {
	return &Cache{
		harvest:     harvest,
		renewAhead:  defaultRenewAhead,
		fallbackTTL: defaultFallbackTTL,
		log:         log,
	}
}

func (c *Cache) fresh() bool {
	return c.token != "" && time.Now().Before(c.expiresAt.Add(-c.renewAhead))
}

// Get returns the cached token or harvests a new one when the cache is empty
// or within the renewal window of its expiration.
func (c *Cache) Get(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.fresh() {
		token := c.token
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have refreshed while we waited for the write lock
	if c.fresh() {
		return c.token, nil
	}

	token, err := c.harvest(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("harvest returned no token")
	}

	expiresAt, err := decodeExpiration(token)
	if err != nil {
		c.log.Warn().Err(err).Dur("fallback_ttl", c.fallbackTTL).Msg("could not decode token expiration")
		expiresAt = time.Now().Add(c.fallbackTTL)
	}

	c.token = token
	c.expiresAt = expiresAt
	c.lastRefresh = time.Now()

	c.log.Info().Time("expires_at", expiresAt).Dur("expires_in", time.Until(expiresAt)).Msg("token refreshed")
	return token, nil
}

// TTL reports how long the cached token remains usable; zero when empty.
func (c *Cache) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return 0
	}
	ttl := time.Until(c.expiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Invalidate forces a harvest on the next Get.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.log.Info().Msg("token cache invalidated")
}

// decodeExpiration extracts the exp claim from a JWT-shaped token.
func decodeExpiration(token string) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("not a JWT")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("could not decode JWT payload: %w", err)
	}

	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, fmt.Errorf("could not unmarshal JWT claims: %w", err)
	}
	if claims.Exp == 0 {
		return time.Time{}, fmt.Errorf("no expiration claim")
	}

	return time.Unix(claims.Exp, 0), nil
}
