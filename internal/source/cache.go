package source

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores fetched pages by key.
type Cache interface {
	Get(ctx context.Context, key Key) (Page, bool, error)
	Set(ctx context.Context, key Key, page Page, ttl time.Duration) error
}

// memoryCacheMaxEntries bounds MemoryCache; keys come from request URLs.
const memoryCacheMaxEntries = 1024

// MemoryCache is a process-local cache. Expired entries are dropped on read
// and swept on every write; past maxEntries the entry closest to expiry goes.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[Key]memoryEntry
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	page    Page
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[Key]memoryEntry{}, maxEntries: memoryCacheMaxEntries, now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key Key) (Page, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return Page{}, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return Page{}, false, nil
	}
	return e.page, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key Key, page Page, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
	if _, ok := m.entries[key]; !ok && m.maxEntries > 0 {
		for len(m.entries) >= m.maxEntries {
			m.evictOldest()
		}
	}
	m.entries[key] = memoryEntry{page: page, expires: now.Add(ttl)}
	return nil
}

func (m *MemoryCache) evictOldest() {
	var (
		oldest Key
		at     time.Time
		found  bool
	)
	for k, e := range m.entries {
		if !found || e.expires.Before(at) {
			oldest, at, found = k, e.expires, true
		}
	}
	if found {
		delete(m.entries, oldest)
	}
}

// RedisCache shares pages between instances as JSON values.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCache(rdb *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "call-history:"
	}
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (r *RedisCache) key(k Key) string { return r.prefix + k.String() }

func (r *RedisCache) Get(ctx context.Context, key Key) (Page, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Page{}, false, nil
	}
	if err != nil {
		return Page{}, false, err
	}
	var p Page
	if err := json.Unmarshal(raw, &p); err != nil {
		return Page{}, false, err
	}
	return p, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key Key, page Page, ttl time.Duration) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(key), raw, ttl).Err()
}
