// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(t.TempDir(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestKey(t *testing.T) {
	k := Key("a", "b")
	assert.True(t, strings.HasPrefix(k, keyPrefix))
	assert.Equal(t, k, Key("a", "b"))
	assert.NotEqual(t, k, Key("ab"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.NotEqual(t, Key(), Key(""))
}

func TestCaches(t *testing.T) {
	impls := map[string]func(t *testing.T) Cache{
		"memory": func(t *testing.T) Cache {
			return NewMemoryCache(time.Hour, time.Minute)
		},
		"sqlite": func(t *testing.T) Cache {
			return newSQLite(t)
		},
		"layered": func(t *testing.T) Cache {
			return NewLayeredCache(NewMemoryCache(time.Hour, time.Minute), newSQLite(t))
		},
	}

	for name, newCache := range impls {
		t.Run(name, func(t *testing.T) {
			c := newCache(t)

			_, ok := c.Get("missing")
			assert.False(t, ok)

			require.NoError(t, c.Set("k", []byte("v1"), 0))
			got, ok := c.Get("k")
			require.True(t, ok)
			assert.Equal(t, []byte("v1"), got)

			require.NoError(t, c.Set("k", []byte("v2"), time.Hour))
			got, _ = c.Get("k")
			assert.Equal(t, []byte("v2"), got)

			require.NoError(t, c.Delete("k"))
			_, ok = c.Get("k")
			assert.False(t, ok)

			require.NoError(t, c.Set("a", []byte("1"), 0))
			require.NoError(t, c.Set("b", []byte("2"), 0))
			require.NoError(t, c.Clear())
			_, okA := c.Get("a")
			_, okB := c.Get("b")
			assert.False(t, okA || okB)
		})
	}
}

func TestSQLiteCacheExpiry(t *testing.T) {
	c := newSQLite(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set("short", []byte("x"), time.Minute))
	require.NoError(t, c.Set("long", []byte("y"), time.Hour))

	now = now.Add(2 * time.Minute)

	_, ok := c.Get("short")
	assert.False(t, ok, "expired entry should miss")
	_, ok = c.Get("long")
	assert.True(t, ok)

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "expired entry deleted on read")

	now = now.Add(2 * time.Hour)
	purged, err := c.Purge()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestSQLiteCachePersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	c, err := NewSQLiteCache(dir, time.Hour)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", []byte("kept"), 0))
	require.NoError(t, c.Close())

	assert.FileExists(t, filepath.Join(dir, dbFile))

	c, err = NewSQLiteCache(dir, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("kept"), got)
}

func TestSQLiteCacheRejectsNonPositiveTTL(t *testing.T) {
	c, err := NewSQLiteCache(t.TempDir(), 0)
	require.NoError(t, err)
	defer c.Close()

	assert.Error(t, c.Set("k", []byte("v"), 0))
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	mem := NewMemoryCache(time.Hour, time.Minute)
	disk := newSQLite(t)
	require.NoError(t, disk.Set("k", []byte("from disk"), 0))

	c := NewLayeredCache(mem, disk)

	_, ok := mem.Get("k")
	require.False(t, ok)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("from disk"), got)

	got, ok = mem.Get("k")
	require.True(t, ok, "disk hit should be promoted to memory")
	assert.Equal(t, []byte("from disk"), got)
}

func TestLayeredCacheClose(t *testing.T) {
	disk, err := NewSQLiteCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	c := NewLayeredCache(NewMemoryCache(time.Hour, time.Minute), disk)
	require.NoError(t, c.Close())

	assert.Error(t, disk.Set("k", []byte("v"), 0), "database closed")
}
