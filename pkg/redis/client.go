// Package redis stores shopper session state in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/nexora-storefront/pkg/config"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace  = "nx"
	sessionPrefix = "session"
)

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	GetEx(context.Context, string, time.Duration) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client reads and writes session-scoped keys of the form nx:session:<id>:<key>.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// New dials Redis with the pool and timeout settings from cfg and pings it once.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "redis_db", opts.DB), "redis session store connected")
	}
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
	case cfg.Address == "":
		return nil, errors.New("redis url or address is required")
	}

	opts.PoolSize = firstPositive(opts.PoolSize, cfg.PoolSize)
	opts.MinIdleConns = firstPositive(opts.MinIdleConns, cfg.MinIdleConns)
	opts.DialTimeout = firstPositive(opts.DialTimeout, cfg.DialTimeout)
	opts.ReadTimeout = firstPositive(opts.ReadTimeout, cfg.ReadTimeout)
	opts.WriteTimeout = firstPositive(opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func firstPositive[T int | time.Duration](current, fallback T) T {
	if current > 0 {
		return current
	}
	return fallback
}

// GetSession reads one session key. A positive ttl slides the key's expiry
// forward so active sessions never lapse.
func (c *Client) GetSession(ctx context.Context, sessionID, key string, ttl time.Duration) (string, bool, error) {
	if c.store == nil {
		return "", false, errNotInitialized
	}
	name := SessionKey(sessionID, key)
	var cmd *redis.StringCmd
	if ttl > 0 {
		cmd = c.store.GetEx(ctx, name, ttl)
	} else {
		cmd = c.store.Get(ctx, name)
	}
	value, err := cmd.Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return value, true, nil
}

// SetSession writes one session key. Zero ttl keeps it forever.
func (c *Client) SetSession(ctx context.Context, sessionID, key, value string, ttl time.Duration) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Set(ctx, SessionKey(sessionID, key), value, ttl).Err()
}

// DelSession removes one session key.
func (c *Client) DelSession(ctx context.Context, sessionID, key string) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Del(ctx, SessionKey(sessionID, key)).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// SessionKey namespaces key under sessionID, skipping blank parts.
func SessionKey(sessionID, key string) string {
	parts := []string{keyNamespace, sessionPrefix}
	for _, part := range []string{sessionID, key} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ":")
}
