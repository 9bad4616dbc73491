package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/ecosystem/model"
	"wildlife-catalog-backend/internal/domains/ecosystem/repository"
)

var _ repository.Repository = (*EcosystemRepository)(nil)

// EcosystemRepository is the ecosystem view of a Store
type EcosystemRepository struct {
	store *Store
}

func (r *EcosystemRepository) Create(_ context.Context, e *model.Ecosystem) error {
	return r.store.update(func(st *state) error {
		if _, exists := st.ecosystems[e.ID]; exists {
			return fmt.Errorf("ecosystem %s already exists", e.ID)
		}
		if slugInUse(st, e.Slug) {
			return model.ErrSlugTaken
		}
		st.ecosystems[e.ID] = e.Clone()
		st.track(e.ID)
		return nil
	})
}

func (r *EcosystemRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Ecosystem, error) {
	var found *model.Ecosystem
	r.store.view(func(st *state) {
		found = st.ecosystems[id].Clone()
	})
	if found == nil {
		return nil, model.ErrEcosystemNotFound
	}
	return found, nil
}

func (r *EcosystemRepository) GetBySlug(_ context.Context, slug string) (*model.Ecosystem, error) {
	var found *model.Ecosystem
	r.store.view(func(st *state) {
		for _, e := range st.ecosystems {
			if e.Slug == slug {
				found = e.Clone()
				return
			}
		}
	})
	if found == nil {
		return nil, model.ErrEcosystemNotFound
	}
	return found, nil
}

func (r *EcosystemRepository) List(_ context.Context) ([]*model.Ecosystem, error) {
	result := make([]*model.Ecosystem, 0)
	r.store.view(func(st *state) {
		for _, id := range sortedIDs(st, st.ecosystems) {
			result = append(result, st.ecosystems[id].Clone())
		}
	})
	return result, nil
}

func (r *EcosystemRepository) Update(_ context.Context, e *model.Ecosystem) error {
	return r.store.update(func(st *state) error {
		current, ok := st.ecosystems[e.ID]
		if !ok {
			return model.ErrEcosystemNotFound
		}
		stored := e.Clone()
		stored.Slug = current.Slug
		stored.CreatedAt = current.CreatedAt
		st.ecosystems[e.ID] = stored

		// Keep every species name copy in step with the rename
		if stored.Name != current.Name {
			for id, s := range st.species {
				if s.EcosystemID != e.ID {
					continue
				}
				renamed := s.Clone()
				renamed.EcosystemName = stored.Name
				st.species[id] = renamed
			}
		}
		return nil
	})
}

func (r *EcosystemRepository) Delete(_ context.Context, id uuid.UUID) (int, error) {
	removed := 0
	err := r.store.update(func(st *state) error {
		if _, ok := st.ecosystems[id]; !ok {
			return model.ErrEcosystemNotFound
		}
		for speciesID, s := range st.species {
			if s.EcosystemID == id {
				delete(st.species, speciesID)
				st.forget(speciesID)
				removed++
			}
		}
		delete(st.ecosystems, id)
		st.forget(id)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *EcosystemRepository) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	var exists bool
	r.store.view(func(st *state) {
		exists = slugInUse(st, slug)
	})
	return exists, nil
}

func slugInUse(st *state, slug string) bool {
	for _, e := range st.ecosystems {
		if e.Slug == slug {
			return true
		}
	}
	return false
}
