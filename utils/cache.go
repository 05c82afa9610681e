package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"chatwheel/models"
)

// CacheEntry is one cached account snapshot.
type CacheEntry struct {
	Account   models.Account
	ExpiresAt time.Time
}

// AccountCache is a TTL cache of account snapshots keyed by account ID.
type AccountCache struct {
	data          map[string]*CacheEntry
	mutex         sync.RWMutex
	ttl           time.Duration
	cleanupTicker *time.Ticker
	done          chan struct{}
	log           *zap.Logger
}

// NewAccountCache starts a cache whose cleanup runs every interval.
func NewAccountCache(ttl, interval time.Duration, log *zap.Logger) *AccountCache {
	if log == nil {
		log = zap.NewNop()
	}
	c := &AccountCache{
		data:          make(map[string]*CacheEntry),
		ttl:           ttl,
		cleanupTicker: time.NewTicker(interval),
		done:          make(chan struct{}),
		log:           log,
	}
	go c.cleanupRoutine()
	return c
}

// Close stops the cleanup routine.
func (c *AccountCache) Close() {
	c.cleanupTicker.Stop()
	close(c.done)
}

// Get returns a copy of the cached account.
func (c *AccountCache) Get(id string) (*models.Account, bool) {
	c.mutex.RLock()
	entry, exists := c.data[id]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.Delete(id)
		return nil, false
	}

	acc := entry.Account
	return &acc, true
}

// Set stores a copy of acc.
func (c *AccountCache) Set(acc *models.Account) {
	entry := &CacheEntry{
		Account:   *acc,
		ExpiresAt: time.Now().Add(c.ttl),
	}

	c.mutex.Lock()
	c.data[acc.ID] = entry
	c.mutex.Unlock()
}

// Delete removes an account from cache.
func (c *AccountCache) Delete(id string) {
	c.mutex.Lock()
	delete(c.data, id)
	c.mutex.Unlock()
}

// Size returns the number of entries in cache.
func (c *AccountCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func (c *AccountCache) cleanupRoutine() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}

func (c *AccountCache) cleanup() {
	now := time.Now()

	c.mutex.Lock()
	expired := 0
	for id, entry := range c.data {
		if now.After(entry.ExpiresAt) {
			delete(c.data, id)
			expired++
		}
	}
	size := len(c.data)
	c.mutex.Unlock()

	if expired > 0 {
		c.log.Debug("cleaned up expired cache entries", zap.Int("expired", expired), zap.Int("size", size))
	}
}

// CachedStore serves reads from an AccountCache and refreshes it from every
// write's returned row. Reads may lag writes made by other processes by up
// to the cache TTL.
type CachedStore struct {
	AccountStore
	cache *AccountCache
}

func NewCachedStore(store AccountStore, cache *AccountCache) *CachedStore {
	return &CachedStore{AccountStore: store, cache: cache}
}

func (s *CachedStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if acc, found := s.cache.Get(id); found {
		return acc, nil
	}

	acc, err := s.AccountStore.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(acc)
	return acc, nil
}

func (s *CachedStore) CreateAccount(ctx context.Context, acc models.Account) (*models.Account, error) {
	created, err := s.AccountStore.CreateAccount(ctx, acc)
	if err != nil {
		return nil, err
	}
	s.cache.Set(created)
	return created, nil
}

func (s *CachedStore) UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	acc, err := s.AccountStore.UpdateAccount(ctx, id, upd)
	if err != nil {
		s.cache.Delete(id)
		return nil, err
	}
	s.cache.Set(acc)
	return acc, nil
}

func (s *CachedStore) CompareAndSetPoints(ctx context.Context, id string, old, next int64) (bool, error) {
	ok, err := s.AccountStore.CompareAndSetPoints(ctx, id, old, next)
	// The cached row no longer matches either way.
	s.cache.Delete(id)
	return ok, err
}
