package repository

import (
	"context"
	"time"

	"movie-booking-admin/backend/internal/session/domain"
)

// Repository is the session cache: session key to identity, plus revocation markers for
// single jtis and for whole sessions.
// Every entry expires on its own after the TTL it was written with.
type Repository interface {
	PutIdentity(ctx context.Context, id *domain.Identity, ttl time.Duration) error
	// GetIdentity returns (nil, nil) when the session key is unknown or expired.
	GetIdentity(ctx context.Context, sessionKey string) (*domain.Identity, error)
	Forget(ctx context.Context, sessionKey string) error
	// Revoke writes an empty marker for jti.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked is true iff a marker exists for jti, whatever its value.
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeSession rejects every token whose subject is sessionKey, including refreshed ones.
	RevokeSession(ctx context.Context, sessionKey string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionKey string) (bool, error)
	Ping(ctx context.Context) error
}

// KV is the key-value primitive the cache is built on.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ok false when key is absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
