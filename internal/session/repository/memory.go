package repository

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize bounds the in-process cache.
const DefaultMemorySize = 100_000

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryKV is an in-process KV for single-instance deployments and tests. Entries are
// evicted after maxTTL by the LRU and, when written with a shorter ttl, treated as
// absent once their own expiry passes.
//
// Revocation markers live in a separate LRU with no size bound: they only leave on expiry,
// so a burst of logins cannot make a revoked token valid again.
type MemoryKV struct {
	lru     *expirable.LRU[string, entry]
	markers *expirable.LRU[string, entry]
	maxTTL  time.Duration
	nowF    func() time.Time
}

// NewMemoryKV returns a MemoryKV holding at most size session entries for at most maxTTL each.
func NewMemoryKV(size int, maxTTL time.Duration) *MemoryKV {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryKV{
		lru:     expirable.NewLRU[string, entry](size, nil, maxTTL),
		markers: expirable.NewLRU[string, entry](0, nil, maxTTL),
		maxTTL:  maxTTL,
		nowF:    time.Now,
	}
}

func (m *MemoryKV) store(key string) *expirable.LRU[string, entry] {
	if strings.HasPrefix(key, jtiPrefix) || strings.HasPrefix(key, revokedSessionPrefix) {
		return m.markers
	}
	return m.lru
}

func (m *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 || ttl > m.maxTTL {
		ttl = m.maxTTL
	}
	m.store(key).Add(key, entry{value: value, expiresAt: m.nowF().Add(ttl)})
	return nil
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	s := m.store(key)
	e, ok := s.Get(key)
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.After(m.nowF()) {
		s.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.store(key).Remove(key)
	return nil
}

func (m *MemoryKV) Ping(context.Context) error { return nil }

func (m *MemoryKV) Close() error {
	m.lru.Purge()
	m.markers.Purge()
	return nil
}
