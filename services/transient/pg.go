package transient

import (
	"context"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/webtor-io/lazy-embed/models"
)

type PG struct {
	db     pg.DBI
	prefix string
}

func NewPG(db pg.DBI, prefix string) *PG {
	return &PG{
		db:     db,
		prefix: prefix,
	}
}

func (s *PG) Get(ctx context.Context, key string) ([]byte, error) {
	t, err := models.GetTransient(ctx, s.db, s.prefix+key)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	return t.Value, nil
}

func (s *PG) Set(ctx context.Context, key string, value []byte, expire time.Duration) error {
	t := &models.Transient{
		Key:   s.prefix + key,
		Value: value,
	}
	if expire > 0 {
		e := time.Now().Add(expire)
		t.ExpiresAt = &e
	}
	return models.SetTransient(ctx, s.db, t)
}

func (s *PG) Delete(ctx context.Context, key string) error {
	return models.DeleteTransient(ctx, s.db, s.prefix+key)
}
