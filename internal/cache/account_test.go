package cache

import (
	"errors"
	"testing"
	"time"

	"leaflow_checkin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	accounts []model.Account
	err      error
	calls    int
}

func (f *fakeLister) ListEnabled() ([]model.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

func newTestAccountCache(store *fakeLister, ttl time.Duration) (*AccountCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)}
	c := NewAccountCache(store, ttl)
	c.now = clock.now
	return c, clock
}

func TestAccountCacheReadThrough(t *testing.T) {
	store := &fakeLister{accounts: []model.Account{{ID: 1, Name: "alice"}}}
	c, _ := newTestAccountCache(store, time.Minute)

	accounts, err := c.GetEnabled()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, 1, store.calls)

	// 快照有效期内不回源
	_, err = c.GetEnabled()
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
}

func TestAccountCacheExpiry(t *testing.T) {
	store := &fakeLister{accounts: []model.Account{{ID: 1}}}
	c, clock := newTestAccountCache(store, time.Minute)

	_, err := c.GetEnabled()
	require.NoError(t, err)

	clock.advance(time.Minute)
	_, err = c.GetEnabled()
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestAccountCacheInvalidate(t *testing.T) {
	store := &fakeLister{accounts: []model.Account{{ID: 1, Name: "alice"}}}
	c, _ := newTestAccountCache(store, time.Minute)

	_, err := c.GetEnabled()
	require.NoError(t, err)

	store.accounts = []model.Account{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}}
	c.Invalidate()

	accounts, err := c.GetEnabled()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, 2, store.calls)
}

func TestAccountCacheStoreError(t *testing.T) {
	store := &fakeLister{err: errors.New("db down")}
	c, _ := newTestAccountCache(store, time.Minute)

	_, err := c.GetEnabled()
	assert.Error(t, err)

	// 失败不会留下有效快照
	store.err = nil
	store.accounts = []model.Account{{ID: 1}}
	accounts, err := c.GetEnabled()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
