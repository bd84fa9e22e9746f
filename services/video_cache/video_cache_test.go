package video_cache

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webtor-io/lazy-embed/models"
	"github.com/webtor-io/lazy-embed/services/transient"
)

type failingStore struct {
	err error
}

func (s *failingStore) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, s.err
}

func (s *failingStore) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return s.err
}

func (s *failingStore) Delete(_ context.Context, _ string) error {
	return s.err
}

var (
	ytRef    = &models.VideoReference{Provider: models.ProviderYouTube, VideoID: "dQw4w9WgXcQ"}
	vimeoRef = &models.VideoReference{Provider: models.ProviderVimeo, VideoID: "76979871"}
)

func TestDigest(t *testing.T) {
	assert.Equal(t, "3edc76c2cff88e1669618c6beabc524a", Digest(ytRef))
	assert.Equal(t, Digest(ytRef), Digest(&models.VideoReference{Provider: models.ProviderYouTube, VideoID: "dQw4w9WgXcQ"}))
	assert.NotEqual(t, Digest(ytRef), Digest(&models.VideoReference{Provider: models.ProviderVimeo, VideoID: "dQw4w9WgXcQ"}))
}

func TestVideoCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(transient.NewMemory())
	md := &models.VideoMetadata{
		Proportions:  56,
		ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		Title:        "Never Gonna Give You Up",
	}

	require.NoError(t, c.Put(ctx, ytRef, md))

	got, err := c.Get(ctx, ytRef)
	require.NoError(t, err)
	assert.Equal(t, md, got)
}

func TestVideoCache_Miss(t *testing.T) {
	ctx := context.Background()
	c := New(transient.NewMemory())

	got, err := c.Get(ctx, ytRef)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Put(ctx, ytRef, &models.VideoMetadata{Proportions: 56}))
	got, err = c.Get(ctx, vimeoRef)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVideoCache_KeepsAllEntriesInOneTransient(t *testing.T) {
	ctx := context.Background()
	store := transient.NewMemory()
	c := New(store)

	require.NoError(t, c.Put(ctx, ytRef, &models.VideoMetadata{Proportions: 56, Title: "a"}))
	require.NoError(t, c.Put(ctx, vimeoRef, &models.VideoMetadata{Proportions: 75, Title: "b"}))

	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "a", all[Digest(ytRef)].Title)
	assert.Equal(t, "b", all[Digest(vimeoRef)].Title)

	raw, err := store.Get(ctx, CacheKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"thumbnail_url"`)
}

func TestVideoCache_CorruptedEntryIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := transient.NewMemory()
	require.NoError(t, store.Set(ctx, CacheKey, []byte("{not json"), 0))
	c := New(store)

	got, err := c.Get(ctx, ytRef)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Put(ctx, ytRef, &models.VideoMetadata{Proportions: 56}))
	got, err = c.Get(ctx, ytRef)
	require.NoError(t, err)
	assert.Equal(t, 56, got.Proportions)
}

func TestVideoCache_NullEntriesSkipped(t *testing.T) {
	ctx := context.Background()
	store := transient.NewMemory()
	require.NoError(t, store.Set(ctx, CacheKey, []byte(`{"a":null,"b":{"proportions":75,"thumbnail_url":"","title":"t"}}`), 0))
	c := New(store)

	all, err := c.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, &models.VideoMetadata{Proportions: 75, Title: "t"}, all["b"])
}

func TestVideoCache_StoreError(t *testing.T) {
	ctx := context.Background()
	c := New(&failingStore{err: errors.New("connection refused")})

	_, err := c.Get(ctx, ytRef)
	assert.Error(t, err)

	err = c.Put(ctx, ytRef, &models.VideoMetadata{})
	assert.Error(t, err)
}

func TestVideoCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := New(transient.NewMemory())
	require.NoError(t, c.Put(ctx, ytRef, &models.VideoMetadata{Proportions: 56}))

	size, err := c.Size(ctx)
	require.NoError(t, err)
	assert.Greater(t, size, 0)

	require.NoError(t, c.Clear(ctx))
	got, err := c.Get(ctx, ytRef)
	require.NoError(t, err)
	assert.Nil(t, got)
}
