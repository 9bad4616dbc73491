package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/ecosystem/model"
	"wildlife-catalog-backend/internal/domains/ecosystem/repository"
	"wildlife-catalog-backend/internal/domains/policy"
	speciesmodel "wildlife-catalog-backend/internal/domains/species/model"
	speciesrepo "wildlife-catalog-backend/internal/domains/species/repository"
	speciesservice "wildlife-catalog-backend/internal/domains/species/service"
	"wildlife-catalog-backend/internal/shared/apperror"
	"wildlife-catalog-backend/internal/shared/query"
	"wildlife-catalog-backend/internal/shared/utils"
	"wildlife-catalog-backend/pkg/cache"
	"wildlife-catalog-backend/pkg/logger"
)

const (
	cacheKeyList       = "ecosystems:list"
	cacheKeySlugPrefix = "ecosystems:slug:"
	cacheTTL           = 10 * time.Minute
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type ecosystemService struct {
	repo        repository.Repository
	speciesRepo speciesrepo.Repository
	cache       cache.Cache
	now         func() time.Time
}

// NewEcosystemService wires the service. cache may be nil.
func NewEcosystemService(
	repo repository.Repository,
	speciesRepo speciesrepo.Repository,
	c cache.Cache,
	now func() time.Time,
) ServiceInterface {
	if now == nil {
		now = time.Now
	}
	return &ecosystemService{
		repo:        repo,
		speciesRepo: speciesRepo,
		cache:       c,
		now:         now,
	}
}

// =====================================================
// LIST
// =====================================================

func (s *ecosystemService) List(ctx context.Context) ([]*model.Ecosystem, error) {
	var cached []*model.Ecosystem
	if s.cacheGet(ctx, cacheKeyList, &cached) {
		return cached, nil
	}

	ecosystems, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to list ecosystems", err)
	}

	s.cacheSet(ctx, cacheKeyList, ecosystems)
	return ecosystems, nil
}

// =====================================================
// GET BY SLUG
// =====================================================

func (s *ecosystemService) GetBySlug(
	ctx context.Context,
	caller *policy.Caller,
	slug string,
) (*model.EcosystemDetail, error) {
	// Step 1: Ecosystem record (cached)
	ecosystem, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	// Step 2: Species are never cached; visibility depends on the caller
	members, err := s.speciesRepo.List(ctx, speciesrepo.Scan{EcosystemID: &ecosystem.ID})
	if err != nil {
		return nil, apperror.Internal("Failed to list ecosystem species", err)
	}

	visible := query.Apply(members, speciesservice.Spec(caller, speciesmodel.ListFilter{}))

	return &model.EcosystemDetail{
		Ecosystem: ecosystem,
		Species:   visible,
	}, nil
}

func (s *ecosystemService) bySlug(ctx context.Context, slug string) (*model.Ecosystem, error) {
	key := cacheKeySlugPrefix + slug

	var cached model.Ecosystem
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	ecosystem, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, model.ErrEcosystemNotFound) {
			return nil, model.NewEcosystemNotFoundError()
		}
		return nil, apperror.Internal("Failed to get ecosystem", err)
	}

	s.cacheSet(ctx, key, ecosystem)
	return ecosystem, nil
}

// =====================================================
// CREATE
// =====================================================

func (s *ecosystemService) Create(
	ctx context.Context,
	caller *policy.Caller,
	req model.CreateEcosystemRequest,
) (*model.Ecosystem, error) {
	// Step 1: Admin only
	if err := policy.CanPerform(caller, policy.ActionCreate, policy.EcosystemTarget{}).Err(); err != nil {
		return nil, err
	}

	// Step 2: Validate request
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	// Step 3: Derive a free slug
	name := req.Name
	slug, err := utils.UniqueSlug(ctx, utils.GenerateSlug(name), s.repo.ExistsBySlug)
	if err != nil {
		return nil, apperror.Internal("Failed to check slug", err)
	}

	// Step 4: Save
	now := s.now()
	characteristics := req.Characteristics
	if characteristics == nil {
		characteristics = []string{}
	}
	ecosystem := &model.Ecosystem{
		ID:              uuid.New(),
		Name:            name,
		Slug:            slug,
		Description:     req.Description,
		Image:           req.Image,
		Characteristics: characteristics,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, ecosystem); err != nil {
		if errors.Is(err, model.ErrSlugTaken) {
			return nil, model.NewSlugTakenError(slug)
		}
		return nil, apperror.Internal("Failed to create ecosystem", err)
	}

	// Step 5: Invalidate listings
	s.invalidate(ctx)

	logger.Info("ecosystem created", map[string]interface{}{
		"ecosystem_id": ecosystem.ID.String(),
		"slug":         slug,
		"admin_id":     caller.ID.String(),
	})

	return ecosystem, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *ecosystemService) Update(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
	req model.UpdateEcosystemRequest,
) (*model.Ecosystem, error) {
	if err := policy.CanPerform(caller, policy.ActionUpdate, policy.EcosystemTarget{}).Err(); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next := req.Apply(current)
	next.UpdatedAt = s.now()

	// The repository copies a new name into every species of this ecosystem
	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, model.ErrEcosystemNotFound) {
			return nil, model.NewEcosystemNotFoundError()
		}
		return nil, apperror.Internal("Failed to update ecosystem", err)
	}

	s.invalidate(ctx)

	if next.Name != current.Name {
		logger.Info("ecosystem renamed", map[string]interface{}{
			"ecosystem_id": id.String(),
			"from":         current.Name,
			"to":           next.Name,
		})
	}

	return next, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *ecosystemService) Delete(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
) error {
	if err := policy.CanPerform(caller, policy.ActionDelete, policy.EcosystemTarget{}).Err(); err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrEcosystemNotFound) {
			return model.NewEcosystemNotFoundError()
		}
		return apperror.Internal("Failed to delete ecosystem", err)
	}

	s.invalidate(ctx)

	logger.Info("ecosystem deleted", map[string]interface{}{
		"ecosystem_id":    id.String(),
		"admin_id":        caller.ID.String(),
		"species_removed": removed,
	})

	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *ecosystemService) load(ctx context.Context, id uuid.UUID) (*model.Ecosystem, error) {
	ecosystem, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrEcosystemNotFound) {
			return nil, model.NewEcosystemNotFoundError()
		}
		return nil, apperror.Internal("Failed to get ecosystem", err)
	}
	return ecosystem, nil
}

// Cache errors are logged and treated as misses.

func (s *ecosystemService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return found
}

func (s *ecosystemService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, cacheTTL); err != nil {
		logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (s *ecosystemService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyList); err != nil {
		logger.Warn("cache invalidation failed", map[string]interface{}{"key": cacheKeyList, "error": err.Error()})
	}
	if err := s.cache.DeletePattern(ctx, cacheKeySlugPrefix+"*"); err != nil {
		logger.Warn("cache invalidation failed", map[string]interface{}{"key": cacheKeySlugPrefix + "*", "error": err.Error()})
	}
}
