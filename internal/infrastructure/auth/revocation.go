package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations remembers tokens ended by logout and staff whose sessions were
// cut. Entries only need to outlive the tokens they reject.
type Revocations interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	TokenRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeStaff rejects every token of the staff member issued up to now.
	RevokeStaff(ctx context.Context, staffID string, ttl time.Duration) error
	StaffRevokedAt(ctx context.Context, staffID string) (time.Time, bool, error)
}

// IsRevoked checks claims against both kinds of revocation. Token iat has
// second precision, so a token issued in the same second as a staff-wide cut
// is rejected too.
func IsRevoked(ctx context.Context, r Revocations, c *Claims) (bool, error) {
	if c.ID != "" {
		revoked, err := r.TokenRevoked(ctx, c.ID)
		if err != nil || revoked {
			return revoked, err
		}
	}
	cut, ok, err := r.StaffRevokedAt(ctx, c.StaffID)
	if err != nil || !ok {
		return false, err
	}
	return c.IssuedAtTime().Unix() <= cut.Unix(), nil
}

const revocationKeyPrefix = "teashop:revoked:"

// RedisRevocations shares revocations between instances. Keys expire with the
// tokens they reject.
type RedisRevocations struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRevocations(client redis.UniversalClient) *RedisRevocations {
	return &RedisRevocations{client: client, prefix: revocationKeyPrefix}
}

func (r *RedisRevocations) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+"token:"+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *RedisRevocations) TokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+"token:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRevocations) RevokeStaff(ctx context.Context, staffID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+"staff:"+staffID, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke staff sessions: %w", err)
	}
	return nil
}

func (r *RedisRevocations) StaffRevokedAt(ctx context.Context, staffID string) (time.Time, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+"staff:"+staffID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("check staff revocation: %w", err)
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse staff revocation %q: %w", raw, err)
	}
	return time.Unix(secs, 0), true, nil
}

// MemoryRevocations keeps revocations in process memory. They are lost on
// restart and invisible to other instances.
type MemoryRevocations struct {
	mu     sync.Mutex
	now    func() time.Time
	tokens map[string]time.Time // jti -> expiry
	staff  map[string]memoryCut
}

type memoryCut struct {
	at      time.Time
	expires time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		now:    time.Now,
		tokens: make(map[string]time.Time),
		staff:  make(map[string]memoryCut),
	}
}

func (m *MemoryRevocations) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.pruneLocked(now)
	m.tokens[jti] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocations) TokenRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expires, ok := m.tokens[jti]
	return ok && m.now().Before(expires), nil
}

func (m *MemoryRevocations) RevokeStaff(_ context.Context, staffID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.pruneLocked(now)
	cut := memoryCut{at: now}
	if ttl > 0 {
		cut.expires = now.Add(ttl)
	}
	m.staff[staffID] = cut
	return nil
}

func (m *MemoryRevocations) StaffRevokedAt(_ context.Context, staffID string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cut, ok := m.staff[staffID]
	if !ok || cut.expired(m.now()) {
		return time.Time{}, false, nil
	}
	return cut.at, true, nil
}

func (c memoryCut) expired(now time.Time) bool {
	return !c.expires.IsZero() && !now.Before(c.expires)
}

// pruneLocked drops entries that can no longer reject a token.
func (m *MemoryRevocations) pruneLocked(now time.Time) {
	for jti, expires := range m.tokens {
		if !now.Before(expires) {
			delete(m.tokens, jti)
		}
	}
	for id, cut := range m.staff {
		if cut.expired(now) {
			delete(m.staff, id)
		}
	}
}

var (
	_ Revocations = (*RedisRevocations)(nil)
	_ Revocations = (*MemoryRevocations)(nil)
)
