package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contributionmodel "wildlife-catalog-backend/internal/domains/contribution/model"
	ecosystemmodel "wildlife-catalog-backend/internal/domains/ecosystem/model"
	speciesmodel "wildlife-catalog-backend/internal/domains/species/model"
)

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "wildlife.db")
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	s, err := Open(path)
	require.NoError(t, err)

	eco := &ecosystemmodel.Ecosystem{
		ID: uuid.New(), Name: "Pantanal", Slug: "pantanal",
		Description: "Wetland", Characteristics: []string{"seasonal floods"},
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Ecosystems().Create(ctx, eco))

	sp := &speciesmodel.Species{
		ID: uuid.New(), Name: "Jaguar", ScientificName: "Panthera onca",
		Habitat: "wetland", Diet: "carnivore", FunFact: "strong bite",
		ConservationStatus: speciesmodel.ConservationNearThreatened,
		Type:               speciesmodel.TypeMammal,
		EcosystemID:        eco.ID, IsApproved: true,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Species().Create(ctx, sp))

	owner := uuid.New()
	c := &contributionmodel.Contribution{
		ID: uuid.New(), OwnerID: owner, Title: "Tracks", Description: "Near the river",
		Kind: contributionmodel.KindObservation, Payload: []byte(`{"count":2}`),
		Status: contributionmodel.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Contributions().Create(ctx, c))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	gotSpecies, err := reopened.Species().GetByID(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pantanal", gotSpecies.EcosystemName)
	assert.Equal(t, "Panthera onca", gotSpecies.ScientificName)

	gotContribution, err := reopened.Contributions().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, gotContribution.OwnerID)
	assert.JSONEq(t, `{"count":2}`, string(gotContribution.Payload))

	gotEco, err := reopened.Ecosystems().GetBySlug(ctx, "pantanal")
	require.NoError(t, err)
	assert.Equal(t, []string{"seasonal floods"}, gotEco.Characteristics)
}

func TestStore_DeleteCascadeIsPersisted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wildlife.db")

	s, err := Open(path)
	require.NoError(t, err)

	eco := &ecosystemmodel.Ecosystem{ID: uuid.New(), Name: "Reef", Slug: "reef"}
	require.NoError(t, s.Ecosystems().Create(ctx, eco))
	sp := &speciesmodel.Species{ID: uuid.New(), Name: "Clownfish", EcosystemID: eco.ID, IsApproved: true}
	require.NoError(t, s.Species().Create(ctx, sp))

	removed, err := s.Ecosystems().Delete(ctx, eco.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	_, err = reopened.Species().GetByID(ctx, sp.ID)
	assert.ErrorIs(t, err, speciesmodel.ErrSpeciesNotFound)
	assert.Equal(t, path, reopened.Path())
}
