package transient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissing(t *testing.T) {
	s := NewMemory()
	v, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, "k", []byte("value"), 0))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	require.NoError(t, s.Delete(ctx, "k"))
	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMemory_Expire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemory()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, s.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(59 * time.Second)
	v, _ := s.Get(ctx, "short")
	assert.Equal(t, []byte("a"), v)

	now = now.Add(time.Second)
	v, _ = s.Get(ctx, "short")
	assert.Nil(t, v)

	now = now.Add(24 * 365 * time.Hour)
	v, _ = s.Get(ctx, "forever")
	assert.Equal(t, []byte("b"), v)
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in, 0))
	in[0] = 'x'

	out, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), out)
	out[1] = 'y'

	again, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}
