package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written by Redis.
const KeyPrefix = "cardfeed:cache:"

// ErrEmptyAddress is returned when no Redis address is configured.
var ErrEmptyAddress = errors.New("redis address is required")

const connectionTimeout = 5 * time.Second

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
}

// NewRedisClient connects and pings a Redis server.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Redis is a shared cache backed by Redis. Backend errors are logged and
// treated as misses.
type Redis struct {
	client *redis.Client
	log    logger.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, log logger.Logger) *Redis {
	if log == nil {
		log = logger.NewNop()
	}
	return &Redis{client: client, log: log}
}

func (r *Redis) key(k string) string {
	return KeyPrefix + k
}

// Get returns the cached value for key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("Redis cache get failed",
				logger.String("redis_key", r.key(key)),
				logger.Error(err),
			)
		}
		return nil, false
	}
	return val, true
}

// Set stores value with an expiry. A non-positive ttl stores nothing.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.log.Warn("Redis cache set failed",
			logger.String("redis_key", r.key(key)),
			logger.Duration("ttl", ttl),
			logger.Error(err),
		)
	}
}
