package transient

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	cl     redis.UniversalClient
	prefix string
}

func NewRedis(cl redis.UniversalClient, prefix string) *Redis {
	return &Redis{
		cl:     cl,
		prefix: prefix,
	}
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.cl.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to get transient %v", key)
	}
	return v, nil
}

func (s *Redis) Set(ctx context.Context, key string, value []byte, expire time.Duration) error {
	err := s.cl.Set(ctx, s.prefix+key, value, expire).Err()
	if err != nil {
		return errors.Wrapf(err, "failed to set transient %v", key)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	err := s.cl.Del(ctx, s.prefix+key).Err()
	if err != nil {
		return errors.Wrapf(err, "failed to delete transient %v", key)
	}
	return nil
}
