package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildlife-catalog-backend/internal/domains/species/model"
	infradb "wildlife-catalog-backend/internal/infrastructure/database"
	"wildlife-catalog-backend/internal/infrastructure/database/migrations"
)

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(Scan{})
	assert.Contains(t, query, "WHERE 1=1 ORDER BY created_at ASC, id ASC")
	assert.Empty(t, args)

	eco := uuid.New()
	mammal := model.TypeMammal
	approved := false
	query, args = buildListQuery(Scan{EcosystemID: &eco, Type: &mammal, IsApproved: &approved})
	assert.Contains(t, query, "AND ecosystem_id = $1 AND type = $2 AND is_approved = $3")
	assert.NotContains(t, query, "conservation_status =")
	assert.Equal(t, []interface{}{eco, mammal, false}, args)
}

func TestLockEcosystemQuery(t *testing.T) {
	// A plain read or FOR KEY SHARE would not wait for an uncommitted rename
	assert.Contains(t, lockEcosystemQuery, "FOR SHARE")
}

// =====================================================
// POSTGRES INTEGRATION
// =====================================================

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("WILDLIFE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("WILDLIFE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, infradb.ApplyMigrations(ctx, pool, migrations.FS))
	return pool
}

func TestUpdateIfApproval_WaitsForRename(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewPostgresRepository(pool)

	ecoID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO ecosystems (id, name, slug, description) VALUES ($1, 'Savanna', $2, 'Grassland')`,
		ecoID, "savanna-"+ecoID.String())
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM ecosystems WHERE id = $1`, ecoID)
	})

	now := time.Now().UTC()
	sp := &model.Species{
		ID:                 uuid.New(),
		Name:               "Lion",
		ScientificName:     "Panthera leo",
		Habitat:            "grassland",
		Diet:               "zebra",
		FunFact:            "naps",
		ConservationStatus: model.ConservationVulnerable,
		Type:               model.TypeMammal,
		EcosystemID:        ecoID,
		IsApproved:         true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, repo.Create(ctx, sp))
	assert.Equal(t, "Savanna", sp.EcosystemName)

	// Rename in flight: ecosystem row updated, species copies rewritten
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `UPDATE ecosystems SET name = 'African Savanna' WHERE id = $1`, ecoID)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `UPDATE species SET ecosystem_name = 'African Savanna' WHERE ecosystem_id = $1`, ecoID)
	require.NoError(t, err)

	edited := sp.Clone()
	edited.Diet = "zebra, wildebeest"
	done := make(chan error, 1)
	go func() {
		done <- repo.UpdateIfApproval(ctx, edited, true)
	}()

	select {
	case err := <-done:
		_ = tx.Rollback(ctx)
		t.Fatalf("species write finished while the rename was uncommitted: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, <-done)
	assert.Equal(t, "African Savanna", edited.EcosystemName)

	stored, err := repo.GetByID(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, "African Savanna", stored.EcosystemName)
	assert.Equal(t, "zebra, wildebeest", stored.Diet)
}

func TestCreate_UnknownEcosystem(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresRepository(testPool(t))

	err := repo.Create(ctx, &model.Species{
		ID:          uuid.New(),
		Name:        "Ghost",
		EcosystemID: uuid.New(),
		IsApproved:  true,
	})
	assert.ErrorIs(t, err, model.ErrEcosystemNotFound)
}
