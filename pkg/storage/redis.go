package storage

import (
	"context"
	"time"

	"github.com/angelmondragon/nexora-storefront/pkg/redis"
)

type redisStore interface {
	GetSession(ctx context.Context, sessionID, key string, ttl time.Duration) (string, bool, error)
	SetSession(ctx context.Context, sessionID, key, value string, ttl time.Duration) error
	DelSession(ctx context.Context, sessionID, key string) error
	Ping(ctx context.Context) error
}

var _ redisStore = (*redis.Client)(nil)

// RedisBackend stores session keys as plain redis strings. Reads and writes
// both push the expiry out by ttl.
type RedisBackend struct {
	store redisStore
	ttl   time.Duration
}

func NewRedisBackend(store redisStore, ttl time.Duration) *RedisBackend {
	return &RedisBackend{store: store, ttl: ttl}
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *RedisBackend) Session(sessionID string) KV {
	return &redisKV{backend: r, sessionID: NormalizeSessionID(sessionID)}
}

type redisKV struct {
	backend   *RedisBackend
	sessionID string
}

func (kv *redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	return kv.backend.store.GetSession(ctx, kv.sessionID, key, kv.backend.ttl)
}

func (kv *redisKV) Set(ctx context.Context, key, value string) error {
	return kv.backend.store.SetSession(ctx, kv.sessionID, key, value, kv.backend.ttl)
}

func (kv *redisKV) Remove(ctx context.Context, key string) error {
	return kv.backend.store.DelSession(ctx, kv.sessionID, key)
}
