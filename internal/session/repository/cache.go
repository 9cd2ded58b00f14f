package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"movie-booking-admin/backend/internal/session/domain"
)

const (
	sessionPrefix        = "session:"
	jtiPrefix            = "jti:"
	revokedSessionPrefix = "revoked_session:"
)

// ErrEmptyKey is returned when a session key or jti is empty.
var ErrEmptyKey = errors.New("session: empty key")

// Cache implements Repository over a KV.
type Cache struct {
	kv KV
}

// NewCache returns a session cache backed by kv.
func NewCache(kv KV) *Cache {
	return &Cache{kv: kv}
}

func (c *Cache) PutIdentity(ctx context.Context, id *domain.Identity, ttl time.Duration) error {
	if id == nil || id.SessionKey == "" {
		return ErrEmptyKey
	}
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, sessionPrefix+id.SessionKey, string(b), ttl)
}

func (c *Cache) GetIdentity(ctx context.Context, sessionKey string) (*domain.Identity, error) {
	if sessionKey == "" {
		return nil, nil
	}
	raw, ok, err := c.kv.Get(ctx, sessionPrefix+sessionKey)
	if err != nil || !ok {
		return nil, err
	}
	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("session: decode identity: %w", err)
	}
	return &id, nil
}

func (c *Cache) Forget(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return ErrEmptyKey
	}
	return c.kv.Delete(ctx, sessionPrefix+sessionKey)
}

func (c *Cache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return ErrEmptyKey
	}
	return c.kv.Set(ctx, jtiPrefix+jti, "", ttl)
}

func (c *Cache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, ErrEmptyKey
	}
	_, ok, err := c.kv.Get(ctx, jtiPrefix+jti)
	return ok, err
}

// RevokeSession marks every token issued for sessionKey as revoked for ttl.
func (c *Cache) RevokeSession(ctx context.Context, sessionKey string, ttl time.Duration) error {
	if sessionKey == "" {
		return ErrEmptyKey
	}
	return c.kv.Set(ctx, revokedSessionPrefix+sessionKey, "", ttl)
}

func (c *Cache) IsSessionRevoked(ctx context.Context, sessionKey string) (bool, error) {
	if sessionKey == "" {
		return false, ErrEmptyKey
	}
	_, ok, err := c.kv.Get(ctx, revokedSessionPrefix+sessionKey)
	return ok, err
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.kv.Ping(ctx)
}
