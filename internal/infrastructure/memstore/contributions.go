package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/contribution/model"
	"wildlife-catalog-backend/internal/domains/contribution/repository"
)

var _ repository.Repository = (*ContributionRepository)(nil)

// ContributionRepository is the contribution view of a Store
type ContributionRepository struct {
	store *Store
}

func (r *ContributionRepository) Create(_ context.Context, c *model.Contribution) error {
	return r.store.update(func(st *state) error {
		if _, exists := st.contributions[c.ID]; exists {
			return fmt.Errorf("contribution %s already exists", c.ID)
		}
		st.contributions[c.ID] = c.Clone()
		st.track(c.ID)
		return nil
	})
}

func (r *ContributionRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Contribution, error) {
	var found *model.Contribution
	r.store.view(func(st *state) {
		found = st.contributions[id].Clone()
	})
	if found == nil {
		return nil, model.ErrContributionNotFound
	}
	return found, nil
}

func (r *ContributionRepository) UpdateIfStatus(_ context.Context, c *model.Contribution, expected model.Status) error {
	return r.store.update(func(st *state) error {
		current, ok := st.contributions[c.ID]
		if !ok {
			return model.ErrContributionNotFound
		}
		if current.Status != expected {
			return model.ErrStale
		}
		stored := c.Clone()
		// Identity and ownership never change through an update
		stored.OwnerID = current.OwnerID
		stored.CreatedAt = current.CreatedAt
		st.contributions[c.ID] = stored
		return nil
	})
}

func (r *ContributionRepository) DeleteIfStatus(_ context.Context, id uuid.UUID, expected model.Status) error {
	return r.store.update(func(st *state) error {
		current, ok := st.contributions[id]
		if !ok {
			return model.ErrContributionNotFound
		}
		if current.Status != expected {
			return model.ErrStale
		}
		delete(st.contributions, id)
		st.forget(id)
		return nil
	})
}

func (r *ContributionRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.store.update(func(st *state) error {
		if _, ok := st.contributions[id]; !ok {
			return model.ErrContributionNotFound
		}
		delete(st.contributions, id)
		st.forget(id)
		return nil
	})
}

func (r *ContributionRepository) List(_ context.Context, scan repository.Scan) ([]*model.Contribution, error) {
	result := make([]*model.Contribution, 0)
	r.store.view(func(st *state) {
		for _, id := range sortedIDs(st, st.contributions) {
			c := st.contributions[id]
			if scan.Matches(c) {
				result = append(result, c.Clone())
			}
		}
	})
	return result, nil
}
