package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *Cache {
	c, err := New(filepath.Join(t.TempDir(), "cache.db"))
	require.Nil(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestKey(t *testing.T) {
	assert.Equal(t, "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709", Key(nil))
	assert.NotEqual(t, Key([]byte("a")), Key([]byte("b")))
}

func TestPutGet(t *testing.T) {
	c := newCache(t)
	sha := Key([]byte("source"))

	e, err := c.Get(sha, "opts")
	require.Nil(t, err)
	assert.Nil(t, e)

	want := &Entry{Width: 32, Height: 16, Colors: 5, Bitmap: []byte{1, 2, 3}}
	require.Nil(t, c.Put(sha, "opts", want))

	got, err := c.Get(sha, "opts")
	require.Nil(t, err)
	assert.Equal(t, want, got)

	// Different options miss
	got, err = c.Get(sha, "other")
	require.Nil(t, err)
	assert.Nil(t, got)

	// Replacing keeps a single entry
	want.Bitmap = []byte{4, 5}
	require.Nil(t, c.Put(sha, "opts", want))
	got, err = c.Get(sha, "opts")
	require.Nil(t, err)
	assert.Equal(t, []byte{4, 5}, got.Bitmap)

	n, err := c.Len()
	require.Nil(t, err)
	assert.Equal(t, 1, n)
}

func TestPurge(t *testing.T) {
	c := newCache(t)
	require.Nil(t, c.Put(Key([]byte("a")), "x", &Entry{Bitmap: []byte{1}}))
	require.Nil(t, c.Put(Key([]byte("b")), "x", &Entry{Bitmap: []byte{2}}))

	n, err := c.Len()
	require.Nil(t, err)
	assert.Equal(t, 2, n)

	require.Nil(t, c.Purge())
	n, err = c.Len()
	require.Nil(t, err)
	assert.Equal(t, 0, n)
}
