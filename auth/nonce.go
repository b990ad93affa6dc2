package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNonceInvalid = errors.New("nonce unknown or expired")

// NonceStore hands out single-use login nonces.
type NonceStore interface {
	Issue(ctx context.Context) (string, error)
	// Consume removes nonce and fails with ErrNonceInvalid when it was never
	// issued, has already been used or has expired.
	Consume(ctx context.Context, nonce string) error
	// Evict drops expired nonces.
	Evict(ctx context.Context) error
}

func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// MemNonceStore keeps nonces in process memory. Deployments with more than
// one instance need RedisNonceStore instead.
type MemNonceStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	expiry map[string]time.Time
	now    func() time.Time
}

var _ NonceStore = (*MemNonceStore)(nil)

func NewMemNonceStore(ttl time.Duration) *MemNonceStore {
	return &MemNonceStore{
		ttl:    ttl,
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Issue evicts expired entries before storing the new nonce.
func (s *MemNonceStore) Issue(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	nonce := newNonce()
	s.expiry[nonce] = now.Add(s.ttl)
	return nonce, nil
}

func (s *MemNonceStore) Consume(ctx context.Context, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiry[nonce]
	if !ok {
		return ErrNonceInvalid
	}
	delete(s.expiry, nonce)
	if s.now().After(exp) {
		return ErrNonceInvalid
	}
	return nil
}

func (s *MemNonceStore) Evict(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(s.now())
	return nil
}

func (s *MemNonceStore) evictLocked(now time.Time) {
	for nonce, exp := range s.expiry {
		if now.After(exp) {
			delete(s.expiry, nonce)
		}
	}
}

// Len is the number of stored nonces, expired ones included until the next
// eviction.
func (s *MemNonceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}
