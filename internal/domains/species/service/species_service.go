package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	ecosystemmodel "wildlife-catalog-backend/internal/domains/ecosystem/model"
	"wildlife-catalog-backend/internal/domains/policy"
	"wildlife-catalog-backend/internal/domains/species/model"
	"wildlife-catalog-backend/internal/domains/species/repository"
	"wildlife-catalog-backend/internal/infrastructure/metrics"
	"wildlife-catalog-backend/internal/shared/apperror"
	"wildlife-catalog-backend/internal/shared/query"
	"wildlife-catalog-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type speciesService struct {
	repo       repository.Repository
	ecosystems EcosystemLookup
	now        func() time.Time
}

// NewSpeciesService wires the service. A nil clock uses time.Now.
func NewSpeciesService(
	repo repository.Repository,
	ecosystems EcosystemLookup,
	now func() time.Time,
) ServiceInterface {
	if now == nil {
		now = time.Now
	}
	return &speciesService{
		repo:       repo,
		ecosystems: ecosystems,
		now:        now,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *speciesService) Create(
	ctx context.Context,
	caller *policy.Caller,
	req model.CreateSpeciesRequest,
) (*model.Species, error) {
	// Step 1: Authorize
	if err := policy.CanPerform(caller, policy.ActionCreate, policy.SpeciesTarget{}).Err(); err != nil {
		return nil, err
	}

	// Step 2: Validate request
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	// Step 3: Resolve the ecosystem reference
	if err := s.checkEcosystem(ctx, req.EcosystemID); err != nil {
		return nil, err
	}

	// Step 4: Build entity. Owner and approval are never taken from input.
	now := s.now()
	owner := caller.ID
	species := &model.Species{
		ID:                 uuid.New(),
		Name:               req.Name,
		ScientificName:     req.ScientificName,
		Image:              req.Image,
		Habitat:            req.Habitat,
		Diet:               req.Diet,
		FunFact:            req.FunFact,
		ConservationStatus: req.ConservationStatus,
		Type:               req.Type,
		EcosystemID:        req.EcosystemID,
		Region:             req.Region,
		Sound:              req.Sound,
		OwnerID:            &owner,
		IsApproved:         false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// Step 5: Save (fills the ecosystem name copy)
	if err := s.repo.Create(ctx, species); err != nil {
		return nil, s.writeError(err)
	}

	return species, nil
}

// =====================================================
// GET
// =====================================================

func (s *speciesService) Get(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
) (*model.Species, error) {
	species, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.CanPerform(caller, policy.ActionRead, species.Target()).Err(); err != nil {
		return nil, err
	}

	return species, nil
}

// =====================================================
// LIST / SEARCH
// =====================================================

func (s *speciesService) List(
	ctx context.Context,
	caller *policy.Caller,
	filter model.ListFilter,
) ([]*model.Species, error) {
	// Step 1: Validate filters
	if err := filter.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	// Step 2: Turn an ecosystem alias into an id where possible
	filter, matchable, err := s.resolveEcosystem(ctx, filter)
	if err != nil {
		return nil, err
	}
	if !matchable {
		return []*model.Species{}, nil
	}

	// Step 3: Let the store apply the exact-match filters
	all, err := s.repo.List(ctx, storeScan(filter))
	if err != nil {
		return nil, apperror.Internal("Failed to list species", err)
	}

	// Step 4: Visibility, filters, text
	return query.Apply(all, Spec(caller, filter)), nil
}

func storeScan(filter model.ListFilter) repository.Scan {
	scan := repository.Scan{
		EcosystemID:        filter.EcosystemID,
		Type:               filter.Type,
		ConservationStatus: filter.ConservationStatus,
	}
	if filter.Approval != nil {
		approved := filter.Approval.IsApproved()
		scan.IsApproved = &approved
	}
	return scan
}

// Spec builds the listing query for caller. Visibility follows the read
// rule of the authorization policy.
func Spec(caller *policy.Caller, filter model.ListFilter) query.Spec[*model.Species] {
	var approved *bool
	if filter.Approval != nil {
		v := filter.Approval.IsApproved()
		approved = &v
	}

	return query.Spec[*model.Species]{
		Visible: func(sp *model.Species) bool {
			return policy.CanPerform(caller, policy.ActionRead, sp.Target()).Allowed
		},
		Filters: []query.Predicate[*model.Species]{
			query.Equals(filter.EcosystemID, func(sp *model.Species) uuid.UUID { return sp.EcosystemID }),
			query.Equals(filter.Type, func(sp *model.Species) model.Type { return sp.Type }),
			query.Equals(filter.ConservationStatus, func(sp *model.Species) model.ConservationStatus { return sp.ConservationStatus }),
			query.Equals(approved, func(sp *model.Species) bool { return sp.IsApproved }),
			func(sp *model.Species) bool {
				return filter.Ecosystem == "" || strings.EqualFold(sp.EcosystemName, filter.Ecosystem)
			},
		},
		Text:       filter.Text,
		TextFields: (*model.Species).TextFields,
	}
}

// =====================================================
// UPDATE
// =====================================================

func (s *speciesService) Update(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
	req model.UpdateSpeciesRequest,
) (*model.Species, error) {
	// Step 1: Get current state
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Step 2: Authorize against that state
	if err := policy.CanPerform(caller, policy.ActionUpdate, current.Target()).Err(); err != nil {
		return nil, err
	}

	// Step 3: Validate request
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	// Step 4: A new ecosystem must exist
	if req.ChangesEcosystem(current) {
		if err := s.checkEcosystem(ctx, *req.EcosystemID); err != nil {
			return nil, err
		}
	}

	// Step 5: Write only if the approval flag did not move meanwhile
	next := req.Apply(current)
	next.UpdatedAt = s.now()

	if err := s.repo.UpdateIfApproval(ctx, next, current.IsApproved); err != nil {
		return nil, s.writeError(err)
	}

	return next, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *speciesService) Delete(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanPerform(caller, policy.ActionDelete, current.Target()).Err(); err != nil {
		return err
	}

	if caller.IsAdmin {
		if err := s.repo.Delete(ctx, id); err != nil {
			return s.writeError(err)
		}
		if !current.IsApproved {
			// Rejecting a suggestion is deleting it
			metrics.RecordModeration("species", "reject")
		}
		logger.Info("species deleted by admin", map[string]interface{}{
			"species_id":  id.String(),
			"admin_id":    caller.ID.String(),
			"is_approved": current.IsApproved,
		})
		return nil
	}

	if err := s.repo.DeleteIfApproval(ctx, id, false); err != nil {
		return s.writeError(err)
	}
	return nil
}

// =====================================================
// APPROVE
// =====================================================

func (s *speciesService) Approve(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
) (*model.Species, error) {
	// Step 1: Get current state
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Step 2: Admin gate
	if err := policy.CanPerform(caller, policy.ActionApprove, current.Target()).Err(); err != nil {
		return nil, err
	}

	// Step 3: Already approved is a no-op
	next, changed := current.Approve(s.now())
	if !changed {
		return next, nil
	}

	// Step 4: Flip the flag only if it is still false
	if err := s.repo.UpdateIfApproval(ctx, next, false); err != nil {
		if errors.Is(err, model.ErrStale) {
			// Someone approved it first; same end state
			return s.load(ctx, id)
		}
		return nil, s.writeError(err)
	}

	metrics.RecordModeration("species", string(policy.ActionApprove))
	logger.Info("species approved", map[string]interface{}{
		"species_id": id.String(),
		"admin_id":   caller.ID.String(),
	})

	return next, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *speciesService) load(ctx context.Context, id uuid.UUID) (*model.Species, error) {
	species, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSpeciesNotFound) {
			return nil, model.NewSpeciesNotFoundError()
		}
		return nil, apperror.Internal("Failed to get species", err)
	}
	return species, nil
}

// resolveEcosystem maps filter.Ecosystem onto EcosystemID when it is an
// id or a slug. matchable is false when it contradicts ecosystem_id.
func (s *speciesService) resolveEcosystem(
	ctx context.Context,
	filter model.ListFilter,
) (model.ListFilter, bool, error) {
	alias := strings.TrimSpace(filter.Ecosystem)
	filter.Ecosystem = alias
	if alias == "" {
		return filter, true, nil
	}

	id, err := uuid.Parse(alias)
	if err != nil {
		ecosystem, lookupErr := s.ecosystems.GetBySlug(ctx, alias)
		switch {
		case lookupErr == nil:
			id = ecosystem.ID
		case errors.Is(lookupErr, ecosystemmodel.ErrEcosystemNotFound):
			// Not a slug: keep it as a name
			return filter, true, nil
		default:
			return filter, false, apperror.Internal("Failed to look up ecosystem", lookupErr)
		}
	}

	filter.Ecosystem = ""
	if filter.EcosystemID != nil && *filter.EcosystemID != id {
		return filter, false, nil
	}
	filter.EcosystemID = &id
	return filter, true, nil
}

func (s *speciesService) checkEcosystem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ecosystems.GetByID(ctx, id); err != nil {
		if errors.Is(err, ecosystemmodel.ErrEcosystemNotFound) {
			return model.NewEcosystemNotFoundError()
		}
		return apperror.Internal("Failed to look up ecosystem", err)
	}
	return nil
}

func (s *speciesService) writeError(err error) error {
	switch {
	case errors.Is(err, model.ErrSpeciesNotFound):
		return model.NewSpeciesNotFoundError()
	case errors.Is(err, model.ErrEcosystemNotFound):
		return model.NewEcosystemNotFoundError()
	case errors.Is(err, model.ErrStale):
		metrics.RecordConflict("species")
		return model.NewStaleError()
	default:
		logger.Error("species write failed", err)
		return apperror.Internal("Failed to save species", err)
	}
}
