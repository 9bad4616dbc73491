// Package seed loads the built-in wildlife catalog. Seeded records have no
// owner and are approved.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	ecosystemmodel "wildlife-catalog-backend/internal/domains/ecosystem/model"
	ecosystemrepo "wildlife-catalog-backend/internal/domains/ecosystem/repository"
	speciesmodel "wildlife-catalog-backend/internal/domains/species/model"
	speciesrepo "wildlife-catalog-backend/internal/domains/species/repository"
	"wildlife-catalog-backend/pkg/logger"
)

//go:embed catalog.json
var catalogJSON []byte

// namespace makes seeded IDs stable across runs and stores
var namespace = uuid.MustParse("5b0c2f4e-8d0e-4a49-9b7c-0f3c1e6a9d21")

type ecosystemEntry struct {
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	Description     string         `json:"description"`
	Image           string         `json:"image"`
	Characteristics []string       `json:"characteristics"`
	Species         []speciesEntry `json:"species"`
}

type speciesEntry struct {
	Name               string                          `json:"name"`
	ScientificName     string                          `json:"scientific_name"`
	Habitat            string                          `json:"habitat"`
	Diet               string                          `json:"diet"`
	FunFact            string                          `json:"fun_fact"`
	ConservationStatus speciesmodel.ConservationStatus `json:"conservation_status"`
	Type               speciesmodel.Type               `json:"type"`
	Region             string                          `json:"region"`
}

// Result counts what a run inserted
type Result struct {
	Ecosystems int
	Species    int
	Skipped    bool
}

// Catalog decodes the embedded catalog into records stamped with now
func Catalog(now time.Time) ([]*ecosystemmodel.Ecosystem, []*speciesmodel.Species, error) {
	var entries []ecosystemEntry
	if err := json.Unmarshal(catalogJSON, &entries); err != nil {
		return nil, nil, fmt.Errorf("decode catalog: %w", err)
	}

	var ecosystems []*ecosystemmodel.Ecosystem
	var species []*speciesmodel.Species
	for _, e := range entries {
		image := e.Image
		eco := &ecosystemmodel.Ecosystem{
			ID:              uuid.NewSHA1(namespace, []byte("ecosystem:"+e.Slug)),
			Name:            e.Name,
			Slug:            e.Slug,
			Description:     e.Description,
			Image:           &image,
			Characteristics: e.Characteristics,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		ecosystems = append(ecosystems, eco)

		for _, s := range e.Species {
			region := s.Region
			species = append(species, &speciesmodel.Species{
				ID:                 uuid.NewSHA1(namespace, []byte("species:"+e.Slug+":"+s.Name)),
				Name:               s.Name,
				ScientificName:     s.ScientificName,
				Habitat:            s.Habitat,
				Diet:               s.Diet,
				FunFact:            s.FunFact,
				ConservationStatus: s.ConservationStatus,
				Type:               s.Type,
				EcosystemID:        eco.ID,
				EcosystemName:      eco.Name,
				Region:             &region,
				OwnerID:            nil,
				IsApproved:         true,
				CreatedAt:          now,
				UpdatedAt:          now,
			})
		}
	}

	return ecosystems, species, nil
}

// Run inserts the catalog when the store has no ecosystems yet
func Run(
	ctx context.Context,
	ecosystems ecosystemrepo.Repository,
	species speciesrepo.Repository,
	now time.Time,
) (Result, error) {
	// Step 1: Only seed an empty store
	existing, err := ecosystems.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list ecosystems: %w", err)
	}
	if len(existing) > 0 {
		return Result{Skipped: true}, nil
	}

	// Step 2: Decode
	ecos, sps, err := Catalog(now)
	if err != nil {
		return Result{}, err
	}

	// Step 3: Ecosystems first, species reference them
	var result Result
	for _, e := range ecos {
		if err := ecosystems.Create(ctx, e); err != nil {
			return result, fmt.Errorf("create ecosystem %s: %w", e.Slug, err)
		}
		result.Ecosystems++
	}
	for _, s := range sps {
		if err := species.Create(ctx, s); err != nil {
			return result, fmt.Errorf("create species %s: %w", s.Name, err)
		}
		result.Species++
	}

	logger.Info("catalog seeded", map[string]interface{}{
		"ecosystems": result.Ecosystems,
		"species":    result.Species,
	})
	return result, nil
}
