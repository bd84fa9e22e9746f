package video_cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/webtor-io/lazy-embed/models"
	"github.com/webtor-io/lazy-embed/services/transient"
)

// CacheKey is the transient holding metadata of all seen videos.
const CacheKey = "video-embed-cache"

type entries map[string]*models.VideoMetadata

// VideoCache keeps video metadata in a single transient entry
// keyed by Digest. Put is a read-modify-write without locking,
// concurrent writers may lose each other's updates.
type VideoCache struct {
	store transient.Store
}

func New(store transient.Store) *VideoCache {
	return &VideoCache{
		store: store,
	}
}

func Digest(ref *models.VideoReference) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%v-%v", ref.Provider, ref.VideoID)))
	return hex.EncodeToString(sum[:])
}

func (s *VideoCache) load(ctx context.Context) (entries, error) {
	data, err := s.store.Get(ctx, CacheKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read video cache")
	}
	if len(data) == 0 {
		return entries{}, nil
	}
	var e entries
	err = json.Unmarshal(data, &e)
	if err != nil {
		log.WithError(err).Warn("got corrupted video cache, starting with empty one")
		return entries{}, nil
	}
	if e == nil {
		e = entries{}
	}
	for k, v := range e {
		if v == nil {
			delete(e, k)
		}
	}
	return e, nil
}

// Get returns cached metadata or nil if video was not cached yet
func (s *VideoCache) Get(ctx context.Context, ref *models.VideoReference) (*models.VideoMetadata, error) {
	e, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	md, ok := e[Digest(ref)]
	if !ok {
		return nil, nil
	}
	return md, nil
}

func (s *VideoCache) Put(ctx context.Context, ref *models.VideoReference, md *models.VideoMetadata) error {
	e, err := s.load(ctx)
	if err != nil {
		return err
	}
	e[Digest(ref)] = md
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "failed to marshal video cache")
	}
	err = s.store.Set(ctx, CacheKey, data, 0)
	if err != nil {
		return errors.Wrap(err, "failed to write video cache")
	}
	return nil
}

// All returns every cached entry keyed by digest
func (s *VideoCache) All(ctx context.Context) (map[string]*models.VideoMetadata, error) {
	return s.load(ctx)
}

// Size returns size of the stored cache entry in bytes
func (s *VideoCache) Size(ctx context.Context) (int, error) {
	data, err := s.store.Get(ctx, CacheKey)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read video cache")
	}
	return len(data), nil
}

func (s *VideoCache) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, CacheKey)
}
