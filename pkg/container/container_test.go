package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildlife-catalog-backend/internal/config"
	speciesrepo "wildlife-catalog-backend/internal/domains/species/repository"
)

func load(t *testing.T, vars map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(vars)
	require.NoError(t, err)
	return cfg
}

func TestNewContainer_Memory(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(ctx, load(t, map[string]string{}))
	require.NoError(t, err)
	defer c.Cleanup()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.SQLite)
	assert.Nil(t, c.Redis)

	list, err := c.EcosystemService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)

	assert.Equal(t, map[string]string{"store": "memory", "cache": "ok"}, c.HealthCheck(ctx))
}

func TestNewContainer_SQLiteSeedsOnce(t *testing.T) {
	ctx := context.Background()
	vars := map[string]string{
		"STORE_DRIVER":      "sqlite",
		"STORE_SQLITE_PATH": filepath.Join(t.TempDir(), "catalog.db"),
	}

	first, err := NewContainer(ctx, load(t, vars))
	require.NoError(t, err)
	first.Cleanup()

	second, err := NewContainer(ctx, load(t, vars))
	require.NoError(t, err)
	defer second.Cleanup()

	all, err := second.SpeciesRepo.List(ctx, speciesrepo.Scan{})
	require.NoError(t, err)
	assert.Len(t, all, 11)
}

func TestNewContainer_NoSeed(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(ctx, load(t, map[string]string{"STORE_SEED": "false"}))
	require.NoError(t, err)
	defer c.Cleanup()

	list, err := c.EcosystemRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
