package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemNonceStore(ttl time.Duration) (*MemNonceStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemNonceStore(ttl)
	store.now = clock.now
	return store, clock
}

func TestMemNonceStoreIssueDistinct(t *testing.T) {
	store, _ := newTestMemNonceStore(5 * time.Minute)
	ctx := context.Background()

	a, err := store.Issue(ctx)
	require.NoError(t, err)
	b, err := store.Issue(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
	assert.Equal(t, 2, store.Len())
}

func TestMemNonceStoreConsumeOnce(t *testing.T) {
	store, _ := newTestMemNonceStore(5 * time.Minute)
	ctx := context.Background()

	nonce, err := store.Issue(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Consume(ctx, nonce))
	require.ErrorIs(t, store.Consume(ctx, nonce), ErrNonceInvalid)
	require.ErrorIs(t, store.Consume(ctx, "never-issued"), ErrNonceInvalid)
}

func TestMemNonceStoreExpiry(t *testing.T) {
	store, clock := newTestMemNonceStore(5 * time.Minute)
	ctx := context.Background()

	old, err := store.Issue(ctx)
	require.NoError(t, err)

	clock.advance(5*time.Minute + time.Second)

	// issuing sweeps expired entries
	_, err = store.Issue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	require.ErrorIs(t, store.Consume(ctx, old), ErrNonceInvalid)
}

func TestMemNonceStoreConsumeExpiredWithoutSweep(t *testing.T) {
	store, clock := newTestMemNonceStore(time.Minute)
	ctx := context.Background()

	nonce, err := store.Issue(ctx)
	require.NoError(t, err)
	clock.advance(2 * time.Minute)

	require.ErrorIs(t, store.Consume(ctx, nonce), ErrNonceInvalid)
	assert.Equal(t, 0, store.Len())
}

func TestMemNonceStoreEvict(t *testing.T) {
	store, clock := newTestMemNonceStore(time.Minute)
	ctx := context.Background()

	_, err := store.Issue(ctx)
	require.NoError(t, err)
	clock.advance(30 * time.Second)
	fresh, err := store.Issue(ctx)
	require.NoError(t, err)
	clock.advance(45 * time.Second)

	require.NoError(t, store.Evict(ctx))
	assert.Equal(t, 1, store.Len())
	require.NoError(t, store.Consume(ctx, fresh))
}
