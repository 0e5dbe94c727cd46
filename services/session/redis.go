package sessionsvc

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisStore keeps values in redis under a key prefix, so that a session can be shared between hosts.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration // 0: no expiration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

// DialRedis connects to the redis server at `addr` and pings it.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", addr)
	}
	return rdb, nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting %q", key)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte) error {
	return errors.Wrapf(s.rdb.Set(ctx, s.key(key), val, s.ttl).Err(), "setting %q", key)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(s.rdb.Del(ctx, s.key(key)).Err(), "deleting %q", key)
}
