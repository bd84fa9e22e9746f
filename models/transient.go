package models

import (
	"context"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
)

type Transient struct {
	tableName struct{}   `pg:"transient"`
	Key       string     `pg:"key,pk"`
	Value     []byte     `pg:"value,notnull"`
	ExpiresAt *time.Time `pg:"expires_at"`
	CreatedAt time.Time  `pg:"created_at,notnull,default:now()"`
	UpdatedAt time.Time  `pg:"updated_at,notnull,default:now()"`
}

// GetTransient returns a non-expired transient by key or nil if there is none
func GetTransient(ctx context.Context, db pg.DBI, key string) (*Transient, error) {
	t := &Transient{}
	err := db.Model(t).
		Context(ctx).
		Where("key = ?", key).
		Where("expires_at IS NULL OR expires_at > now()").
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get transient")
	}
	return t, nil
}

// SetTransient inserts or replaces transient value
func SetTransient(ctx context.Context, db pg.DBI, t *Transient) error {
	t.UpdatedAt = time.Now()
	_, err := db.Model(t).
		Context(ctx).
		OnConflict("(key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("expires_at = EXCLUDED.expires_at").
		Set("updated_at = EXCLUDED.updated_at").
		Insert()
	if err != nil {
		return errors.Wrap(err, "failed to set transient")
	}
	return nil
}

func DeleteTransient(ctx context.Context, db pg.DBI, key string) error {
	_, err := db.Model((*Transient)(nil)).
		Context(ctx).
		Where("key = ?", key).
		Delete()
	if err != nil {
		return errors.Wrap(err, "failed to delete transient")
	}
	return nil
}
