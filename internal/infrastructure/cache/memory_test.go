package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var got entry
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "ecosystems:slug:reef", entry{Name: "Reef"}, time.Minute))
	require.NoError(t, c.Set(ctx, "ecosystems:slug:tundra", entry{Name: "Tundra"}, time.Minute))
	require.NoError(t, c.Set(ctx, "ecosystems:list", []entry{{Name: "Reef"}}, time.Minute))

	found, err = c.Get(ctx, "ecosystems:slug:reef", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Reef", got.Name)

	require.NoError(t, c.DeletePattern(ctx, "ecosystems:slug:*"))
	found, _ = c.Get(ctx, "ecosystems:slug:tundra", &got)
	assert.False(t, found)

	var list []entry
	found, _ = c.Get(ctx, "ecosystems:list", &list)
	assert.True(t, found)

	require.NoError(t, c.Delete(ctx, "ecosystems:list"))
	found, _ = c.Get(ctx, "ecosystems:list", &list)
	assert.False(t, found)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache().(*memoryCache)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", entry{Name: "v"}, time.Minute))
	now = now.Add(2 * time.Minute)

	var got entry
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
