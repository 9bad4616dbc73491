package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/contribution/model"
	"wildlife-catalog-backend/internal/domains/contribution/service"
	"wildlife-catalog-backend/internal/shared/middleware"
	"wildlife-catalog-backend/internal/shared/response"
)

// =====================================================
// CONTRIBUTION HANDLER
// =====================================================

type ContributionHandler struct {
	contributionService service.ServiceInterface
}

func NewContributionHandler(contributionService service.ServiceInterface) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
	}
}

// =====================================================
// USER ENDPOINTS
// =====================================================

// CreateContribution submits a new contribution
// POST /api/v1/contributions
func (h *ContributionHandler) CreateContribution(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 2: Call service (validates and authorizes)
	contribution, err := h.contributionService.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, contribution)
}

// GetContribution returns one contribution
// GET /api/v1/contributions/:id
func (h *ContributionHandler) GetContribution(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contribution, err := h.contributionService.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, contribution)
}

// ListContributions lists the caller's contributions; admins see all and
// may narrow by owner_id
// GET /api/v1/contributions
func (h *ContributionHandler) ListContributions(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	contributions, err := h.contributionService.List(c.Request.Context(), middleware.CallerFrom(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, contributions, &response.Meta{Total: len(contributions)})
}

// ListMyContributions lists the caller's own contributions
// GET /api/v1/my-contributions
func (h *ContributionHandler) ListMyContributions(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	contributions, err := h.contributionService.ListMine(c.Request.Context(), middleware.CallerFrom(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, contributions, &response.Meta{Total: len(contributions)})
}

// UpdateContribution edits a pending contribution
// PATCH /api/v1/contributions/:id
func (h *ContributionHandler) UpdateContribution(c *gin.Context) {
	// Step 1: Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Step 2: Decode raw body; protected fields are rejected, not ignored
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req, err := model.DecodeUpdateContributionRequest(body)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// Step 3: Call service
	contribution, err := h.contributionService.Update(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, contribution)
}

// DeleteContribution removes a contribution
// DELETE /api/v1/contributions/:id
func (h *ContributionHandler) DeleteContribution(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.contributionService.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Contribution deleted"})
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// ApproveContribution approves a pending contribution
// PATCH /api/v1/admin/contributions/:id/approve
func (h *ContributionHandler) ApproveContribution(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contribution, err := h.contributionService.Approve(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, contribution)
}

// RejectContribution rejects a pending contribution with optional notes
// PATCH /api/v1/admin/contributions/:id/reject
func (h *ContributionHandler) RejectContribution(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// An empty body is allowed
	var req model.RejectContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	contribution, err := h.contributionService.Reject(c.Request.Context(), middleware.CallerFrom(c), id, req.AdminNotes)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, contribution)
}

// =====================================================
// HELPERS
// =====================================================

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid contribution ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseFilter(c *gin.Context) (model.ListFilter, bool) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return model.ListFilter{}, false
	}

	if raw := c.Query("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			response.FromError(c, model.NewValidationError(validation.Errors{
				"owner_id": errors.New("must be a valid UUID"),
			}))
			return model.ListFilter{}, false
		}
		filter.OwnerID = &ownerID
	}

	return filter, true
}
