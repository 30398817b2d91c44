package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache 进程内缓存，未配置 Redis 时使用
// LRU 的整体 TTL 只是上限，每个 key 还有自己的过期时间
type MemoryCache struct {
	data *expirable.LRU[string, memoryEntry]
	now  func() time.Time
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache(capacity int, maxTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		data: expirable.NewLRU[string, memoryEntry](capacity, nil, maxTTL),
		now:  time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	entry, ok := c.data.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.data.Remove(key)
		return ErrCacheMiss
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	entry := memoryEntry{data: data}
	if expiration > 0 {
		entry.expiresAt = c.now().Add(expiration)
	}
	c.data.Add(key, entry)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.data.Remove(key)
	return nil
}
