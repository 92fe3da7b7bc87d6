// Copyright © 2026 TreeCAS Authors

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treecas/treecas/pkg/cas"
)

func TestDevInoCache(t *testing.T) {
	cache := NewDevInoCache()
	assert.Equal(t, 0, cache.Len())

	_, ok := cache.Lookup(1, 100)
	assert.False(t, ok)

	keyA := cas.KeyFromBytes([]byte("a"))
	keyB := cas.KeyFromBytes([]byte("b"))

	cache.Insert(1, 100, keyA, "/dest/one/a")
	cache.Insert(1, 200, keyB, "/dest/one/b")

	got, ok := cache.Lookup(1, 100)
	require.True(t, ok)
	assert.Equal(t, keyA, got)

	got, ok = cache.Lookup(1, 200)
	require.True(t, ok)
	assert.Equal(t, keyB, got)

	assert.Equal(t, 2, cache.Len())

	src, ok := cache.Source(keyA)
	require.True(t, ok)
	assert.Equal(t, "/dest/one/a", src)

	_, ok = cache.Source(cas.KeyFromBytes([]byte("c")))
	assert.False(t, ok)
}

func TestDevInoCache_SourceKeepsFirstInstance(t *testing.T) {
	cache := NewDevInoCache()
	key := cas.KeyFromBytes([]byte("same content"))

	cache.Insert(1, 100, key, "/dest/one/f")
	cache.Insert(1, 300, key, "/dest/two/f")

	// both inodes resolve to the key
	got, ok := cache.Lookup(1, 100)
	require.True(t, ok)
	assert.Equal(t, key, got)
	got, ok = cache.Lookup(1, 300)
	require.True(t, ok)
	assert.Equal(t, key, got)

	// the first recorded instance stays the hardlink source
	src, ok := cache.Source(key)
	require.True(t, ok)
	assert.Equal(t, "/dest/one/f", src)
}
