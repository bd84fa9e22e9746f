package transient

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"
)

const (
	storeFlag  = "transient-store"
	prefixFlag = "transient-prefix"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StorePG     = "pg"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   storeFlag,
			Usage:  "transient store backend (memory, redis, pg)",
			Value:  StoreMemory,
			EnvVar: "TRANSIENT_STORE",
		},
		cli.StringFlag{
			Name:   prefixFlag,
			Usage:  "transient key prefix",
			Value:  "lazy-embed:",
			EnvVar: "TRANSIENT_PREFIX",
		},
	)
}

// Store is an expiring key-value store.
// Get returns nil value without error if key is missing or expired.
// Zero expire keeps value forever.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expire time.Duration) error
	Delete(ctx context.Context, key string) error
}

func New(c *cli.Context, pg *cs.PG, redis *cs.RedisClient) (Store, error) {
	prefix := c.String(prefixFlag)
	backend := c.String(storeFlag)
	log.WithField("backend", backend).Info("setting transient store")
	switch backend {
	case StoreMemory, "":
		return NewMemory(), nil
	case StoreRedis:
		if redis == nil {
			return nil, errors.New("redis client not configured")
		}
		return NewRedis(redis.Get(), prefix), nil
	case StorePG:
		if pg == nil || pg.Get() == nil {
			return nil, errors.New("db not initialized")
		}
		return NewPG(pg.Get(), prefix), nil
	}
	return nil, errors.Errorf("unknown transient store %v", backend)
}
