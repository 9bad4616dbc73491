package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/species/model"
	"wildlife-catalog-backend/internal/domains/species/repository"
)

var _ repository.Repository = (*SpeciesRepository)(nil)

// SpeciesRepository is the species view of a Store
type SpeciesRepository struct {
	store *Store
}

func (r *SpeciesRepository) Create(_ context.Context, s *model.Species) error {
	var name string
	err := r.store.update(func(st *state) error {
		if _, exists := st.species[s.ID]; exists {
			return fmt.Errorf("species %s already exists", s.ID)
		}
		eco, ok := st.ecosystems[s.EcosystemID]
		if !ok {
			return model.ErrEcosystemNotFound
		}
		stored := s.Clone()
		stored.EcosystemName = eco.Name
		st.species[s.ID] = stored
		st.track(s.ID)
		name = eco.Name
		return nil
	})
	if err != nil {
		return err
	}
	s.EcosystemName = name
	return nil
}

func (r *SpeciesRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Species, error) {
	var found *model.Species
	r.store.view(func(st *state) {
		found = st.species[id].Clone()
	})
	if found == nil {
		return nil, model.ErrSpeciesNotFound
	}
	return found, nil
}

func (r *SpeciesRepository) UpdateIfApproval(_ context.Context, s *model.Species, expected bool) error {
	var name string
	err := r.store.update(func(st *state) error {
		current, ok := st.species[s.ID]
		if !ok {
			return model.ErrSpeciesNotFound
		}
		if current.IsApproved != expected {
			return model.ErrStale
		}
		eco, ok := st.ecosystems[s.EcosystemID]
		if !ok {
			return model.ErrEcosystemNotFound
		}
		stored := s.Clone()
		stored.OwnerID = current.OwnerID
		stored.CreatedAt = current.CreatedAt
		stored.EcosystemName = eco.Name
		st.species[s.ID] = stored
		name = eco.Name
		return nil
	})
	if err != nil {
		return err
	}
	s.EcosystemName = name
	return nil
}

func (r *SpeciesRepository) DeleteIfApproval(_ context.Context, id uuid.UUID, expected bool) error {
	return r.store.update(func(st *state) error {
		current, ok := st.species[id]
		if !ok {
			return model.ErrSpeciesNotFound
		}
		if current.IsApproved != expected {
			return model.ErrStale
		}
		delete(st.species, id)
		st.forget(id)
		return nil
	})
}

func (r *SpeciesRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.store.update(func(st *state) error {
		if _, ok := st.species[id]; !ok {
			return model.ErrSpeciesNotFound
		}
		delete(st.species, id)
		st.forget(id)
		return nil
	})
}

func (r *SpeciesRepository) List(_ context.Context, scan repository.Scan) ([]*model.Species, error) {
	result := make([]*model.Species, 0)
	r.store.view(func(st *state) {
		for _, id := range sortedIDs(st, st.species) {
			s := st.species[id]
			if scan.Matches(s) {
				result = append(result, s.Clone())
			}
		}
	})
	return result, nil
}
