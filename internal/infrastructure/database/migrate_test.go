package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildlife-catalog-backend/internal/infrastructure/database/migrations"
)

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;\n"
	up := upSection(content)

	assert.Contains(t, up, "CREATE TABLE a")
	assert.NotContains(t, up, "DROP TABLE")

	assert.Equal(t, "SELECT 1;", upSection("SELECT 1;"))
}

func TestEmbeddedMigrations(t *testing.T) {
	content, err := fs.ReadFile(migrations.FS, "0001_catalog.sql")
	require.NoError(t, err)

	up := upSection(string(content))
	for _, table := range []string{"ecosystems", "species", "contributions"} {
		assert.True(t, strings.Contains(up, "CREATE TABLE IF NOT EXISTS "+table), table)
	}
	assert.Contains(t, up, "ON DELETE CASCADE")
	assert.NotContains(t, up, "DROP TABLE")
}
