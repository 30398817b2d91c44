// Package lock 提供短期的互斥锁，用于在调用分类服务之前拦截并发的重复举报。
// 锁只是优化，唯一索引才是最终保证。
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired 锁已被其他请求持有
var ErrNotAcquired = errors.New("lock: already held")

// Locker 获取锁，返回的 release 必须调用
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// 只有持有者才能删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker SET NX + 持有者 token
type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "trust-feed:lock:"}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return func() {
		// 请求 ctx 可能已取消，释放使用独立的 ctx
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		releaseScript.Run(releaseCtx, l.client, []string{fullKey}, token)
	}, nil
}

// LocalLocker 进程内实现，未配置 Redis 时使用
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time), now: time.Now}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, ErrNotAcquired
	}
	expiresAt := now.Add(ttl)
	l.held[key] = expiresAt

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key] == expiresAt {
			delete(l.held, key)
		}
	}, nil
}

// New 有 Redis 时使用 Redis，否则退化为进程内锁
func New(client *redis.Client) Locker {
	if client == nil {
		return NewLocalLocker()
	}
	return NewRedisLocker(client)
}
