package auth

import (
	"sync"
	"time"
)

// TokenBlacklist records access tokens that were invalidated before their
// natural expiry, typically on logout. Entries are kept only as long as
// the token itself would remain valid, so the set stays bounded by the
// access token lifetime.
type TokenBlacklist struct {
	mu       sync.RWMutex
	entries  map[string]time.Time
	ttl      time.Duration
	timeFunc func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewTokenBlacklist creates a blacklist whose entries expire after ttl.
// A background janitor removes stale entries every sweep interval until
// Close is called.
func NewTokenBlacklist(ttl time.Duration) *TokenBlacklist {
	b := &TokenBlacklist{
		entries:  make(map[string]time.Time),
		ttl:      ttl,
		timeFunc: time.Now,
		done:     make(chan struct{}),
	}
	go b.janitor(ttl)
	return b
}

// newTestTokenBlacklist creates a blacklist without a janitor goroutine
// and with an injectable clock.
func newTestTokenBlacklist(ttl time.Duration, timeFunc func() time.Time) *TokenBlacklist {
	return &TokenBlacklist{
		entries:  make(map[string]time.Time),
		ttl:      ttl,
		timeFunc: timeFunc,
		done:     make(chan struct{}),
	}
}

// Add records a token as revoked until its blacklist entry expires.
func (b *TokenBlacklist) Add(token string) {
	expiry := b.timeFunc().Add(b.ttl)
	b.mu.Lock()
	b.entries[token] = expiry
	b.mu.Unlock()
}

// Contains reports whether the token is currently blacklisted. Expired
// entries are treated as absent even before the janitor removes them.
func (b *TokenBlacklist) Contains(token string) bool {
	b.mu.RLock()
	expiry, ok := b.entries[token]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	return b.timeFunc().Before(expiry)
}

// Close stops the janitor goroutine. Safe to call more than once.
func (b *TokenBlacklist) Close() {
	b.once.Do(func() {
		close(b.done)
	})
}

func (b *TokenBlacklist) janitor(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.sweep()
		}
	}
}

func (b *TokenBlacklist) sweep() {
	now := b.timeFunc()
	b.mu.Lock()
	for token, expiry := range b.entries {
		if !now.Before(expiry) {
			delete(b.entries, token)
		}
	}
	b.mu.Unlock()
}
