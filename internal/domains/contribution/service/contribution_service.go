package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/contribution/model"
	"wildlife-catalog-backend/internal/domains/contribution/repository"
	"wildlife-catalog-backend/internal/domains/policy"
	"wildlife-catalog-backend/internal/infrastructure/metrics"
	"wildlife-catalog-backend/internal/shared/apperror"
	"wildlife-catalog-backend/internal/shared/query"
	"wildlife-catalog-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type contributionService struct {
	repo repository.Repository
	now  func() time.Time
}

// NewContributionService wires the service. A nil clock uses time.Now.
func NewContributionService(repo repository.Repository, now func() time.Time) ServiceInterface {
	if now == nil {
		now = time.Now
	}
	return &contributionService{
		repo: repo,
		now:  now,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *contributionService) Create(
	ctx context.Context,
	caller *policy.Caller,
	req model.CreateContributionRequest,
) (*model.Contribution, error) {
	// Step 1: Authorize
	if err := policy.CanPerform(caller, policy.ActionCreate, policy.ContributionTarget{}).Err(); err != nil {
		return nil, err
	}

	// Step 2: Validate request
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	// Step 3: Build entity. Moderation fields always start empty.
	now := s.now()
	contribution := &model.Contribution{
		ID:          uuid.New(),
		OwnerID:     caller.ID,
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Image:       req.Image,
		Location:    req.Location,
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(req.Payload) > 0 && string(req.Payload) != "null" {
		contribution.Payload = append([]byte(nil), req.Payload...)
	}

	// Step 4: Save
	if err := s.repo.Create(ctx, contribution); err != nil {
		return nil, apperror.Internal("Failed to create contribution", err)
	}

	return contribution, nil
}

// =====================================================
// GET
// =====================================================

func (s *contributionService) Get(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
) (*model.Contribution, error) {
	contribution, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.CanPerform(caller, policy.ActionRead, contribution.Target()).Err(); err != nil {
		return nil, err
	}

	return contribution, nil
}

// =====================================================
// LIST
// =====================================================

func (s *contributionService) List(
	ctx context.Context,
	caller *policy.Caller,
	filter model.ListFilter,
) ([]*model.Contribution, error) {
	if caller == nil {
		return nil, policy.CanPerform(nil, policy.ActionRead, policy.ContributionTarget{}).Err()
	}
	if !caller.IsAdmin {
		// Non-admins only ever see their own records
		filter.OwnerID = &caller.ID
	}
	return s.list(ctx, caller, filter)
}

func (s *contributionService) ListMine(
	ctx context.Context,
	caller *policy.Caller,
	filter model.ListFilter,
) ([]*model.Contribution, error) {
	if caller == nil {
		return nil, policy.CanPerform(nil, policy.ActionRead, policy.ContributionTarget{}).Err()
	}
	filter.OwnerID = &caller.ID
	return s.list(ctx, caller, filter)
}

func (s *contributionService) list(
	ctx context.Context,
	caller *policy.Caller,
	filter model.ListFilter,
) ([]*model.Contribution, error) {
	// Step 1: Validate filters
	if err := filter.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	// Step 2: Let the store apply the exact-match filters
	all, err := s.repo.List(ctx, repository.Scan{
		OwnerID: filter.OwnerID,
		Status:  filter.Status,
		Kind:    filter.Kind,
	})
	if err != nil {
		return nil, apperror.Internal("Failed to list contributions", err)
	}

	// Step 3: Visibility, filters and ordering
	spec := query.Spec[*model.Contribution]{
		Visible: func(c *model.Contribution) bool {
			return policy.CanPerform(caller, policy.ActionRead, c.Target()).Allowed
		},
		Filters: []query.Predicate[*model.Contribution]{
			query.Equals(filter.Status, func(c *model.Contribution) model.Status { return c.Status }),
			query.Equals(filter.Kind, func(c *model.Contribution) model.Kind { return c.Kind }),
			query.Equals(filter.OwnerID, func(c *model.Contribution) uuid.UUID { return c.OwnerID }),
		},
		Less: newestFirst,
	}

	return query.Apply(all, spec), nil
}

// newestFirst orders by creation time descending; ids break ties
func newestFirst(a, b *model.Contribution) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

// =====================================================
// UPDATE
// =====================================================

func (s *contributionService) Update(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
	req model.UpdateContributionRequest,
) (*model.Contribution, error) {
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

	// Step 4: Write only if still pending. An admin may edit a record that
	// has already been moderated; the guard then uses its current status.
	next := req.Apply(current)
	next.UpdatedAt = s.now()

	if err := s.repo.UpdateIfStatus(ctx, next, current.Status); err != nil {
		return nil, s.writeError(ctx, id, err)
	}

	return next, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *contributionService) Delete(
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
			return s.writeError(ctx, id, err)
		}
		logger.Info("contribution deleted by admin", map[string]interface{}{
			"contribution_id": id.String(),
			"admin_id":        caller.ID.String(),
			"status":          string(current.Status),
		})
		return nil
	}

	if err := s.repo.DeleteIfStatus(ctx, id, model.StatusPending); err != nil {
		return s.writeError(ctx, id, err)
	}
	return nil
}

// =====================================================
// MODERATION
// =====================================================

func (s *contributionService) Approve(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
) (*model.Contribution, error) {
	return s.transition(ctx, caller, id, policy.ActionApprove, func(c *model.Contribution, now time.Time) (*model.Contribution, error) {
		return c.Approve(caller.ID, now)
	})
}

func (s *contributionService) Reject(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
	notes *string,
) (*model.Contribution, error) {
	return s.transition(ctx, caller, id, policy.ActionReject, func(c *model.Contribution, now time.Time) (*model.Contribution, error) {
		return c.Reject(notes, now)
	})
}

// transition runs one lifecycle move: read, authorize, compute the next
// state, then write it only if the record is still pending
func (s *contributionService) transition(
	ctx context.Context,
	caller *policy.Caller,
	id uuid.UUID,
	action policy.Action,
	move func(*model.Contribution, time.Time) (*model.Contribution, error),
) (*model.Contribution, error) {
	// Step 1: Get current state
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Step 2: Admin gate
	if err := policy.CanPerform(caller, action, current.Target()).Err(); err != nil {
		return nil, err
	}

	// Step 3: Lifecycle rule
	next, err := move(current, s.now())
	if err != nil {
		if errors.Is(err, model.ErrInvalidTransition) {
			return nil, model.NewInvalidTransitionError(current.Status)
		}
		return nil, apperror.Internal("Failed to apply transition", err)
	}

	// Step 4: Conditional write
	if err := s.repo.UpdateIfStatus(ctx, next, model.StatusPending); err != nil {
		return nil, s.writeError(ctx, id, err)
	}

	metrics.RecordModeration("contribution", string(action))
	logger.Info("contribution moderated", map[string]interface{}{
		"contribution_id": id.String(),
		"admin_id":        caller.ID.String(),
		"action":          string(action),
		"status":          string(next.Status),
	})

	return next, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *contributionService) load(ctx context.Context, id uuid.UUID) (*model.Contribution, error) {
	contribution, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrContributionNotFound) {
			return nil, model.NewContributionNotFoundError()
		}
		return nil, apperror.Internal("Failed to get contribution", err)
	}
	return contribution, nil
}

// writeError maps a failed conditional write. A lost race is reported
// with the status the winner left behind.
func (s *contributionService) writeError(ctx context.Context, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, model.ErrContributionNotFound):
		return model.NewContributionNotFoundError()
	case errors.Is(err, model.ErrStale):
		metrics.RecordConflict("contribution")
		if latest, getErr := s.repo.GetByID(ctx, id); getErr == nil {
			return model.NewInvalidTransitionError(latest.Status)
		}
		return model.NewStaleError()
	default:
		logger.Error("contribution write failed", err)
		return apperror.Internal("Failed to save contribution", err)
	}
}
