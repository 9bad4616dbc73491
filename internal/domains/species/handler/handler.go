package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/species/model"
	"wildlife-catalog-backend/internal/domains/species/service"
	"wildlife-catalog-backend/internal/shared/middleware"
	"wildlife-catalog-backend/internal/shared/response"
)

// =====================================================
// SPECIES HANDLER
// =====================================================

type SpeciesHandler struct {
	speciesService service.ServiceInterface
}

func NewSpeciesHandler(speciesService service.ServiceInterface) *SpeciesHandler {
	return &SpeciesHandler{
		speciesService: speciesService,
	}
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// ListSpecies lists visible species. Query: ecosystem_id, type,
// conservation_status, approval, q
// GET /api/v1/species
// GET /api/v1/search?q=
func (h *SpeciesHandler) ListSpecies(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	species, err := h.speciesService.List(c.Request.Context(), middleware.CallerFrom(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, species, &response.Meta{Total: len(species)})
}

// GetSpecies returns one species
// GET /api/v1/species/:id
func (h *SpeciesHandler) GetSpecies(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	species, err := h.speciesService.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, species)
}

// =====================================================
// USER ENDPOINTS
// =====================================================

// CreateSpecies submits a species for review
// POST /api/v1/species
func (h *SpeciesHandler) CreateSpecies(c *gin.Context) {
	// Step 1: Bind request body. A supplied is_approved or owner_id has
	// no field to land in and is ignored.
	var req model.CreateSpeciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 2: Call service
	species, err := h.speciesService.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, species)
}

// UpdateSpecies edits an unapproved species
// PATCH /api/v1/species/:id
func (h *SpeciesHandler) UpdateSpecies(c *gin.Context) {
	// Step 1: Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Step 2: Decode raw body
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req, err := model.DecodeUpdateSpeciesRequest(body)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// Step 3: Call service
	species, err := h.speciesService.Update(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, species)
}

// DeleteSpecies removes a species
// DELETE /api/v1/species/:id
func (h *SpeciesHandler) DeleteSpecies(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.speciesService.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Species deleted"})
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// ListPendingSpecies is the moderation queue
// GET /api/v1/admin/species/pending
func (h *SpeciesHandler) ListPendingSpecies(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	pending := model.ApprovalPending
	filter.Approval = &pending

	species, err := h.speciesService.List(c.Request.Context(), middleware.CallerFrom(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, species, &response.Meta{Total: len(species)})
}

// ApproveSpecies publishes a species
// PATCH /api/v1/admin/species/:id/approve
func (h *SpeciesHandler) ApproveSpecies(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	species, err := h.speciesService.Approve(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, species)
}

// =====================================================
// HELPERS
// =====================================================

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid species ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseListFilter reads the listing query string. Empty values impose no
// constraint.
func parseListFilter(c *gin.Context) (model.ListFilter, error) {
	filter := model.ListFilter{
		Text: strings.TrimSpace(c.Query("q")),
	}

	if raw := c.Query("ecosystem_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, model.NewValidationError(validation.Errors{
				"ecosystem_id": errors.New("must be a valid UUID"),
			})
		}
		filter.EcosystemID = &id
	}
	filter.Ecosystem = strings.TrimSpace(c.Query("ecosystem"))
	if raw := c.Query("type"); raw != "" {
		t := model.Type(raw)
		filter.Type = &t
	}
	if raw := c.Query("conservation_status"); raw != "" {
		cs := model.ConservationStatus(raw)
		filter.ConservationStatus = &cs
	}
	if raw := c.Query("approval"); raw != "" {
		a := model.Approval(raw)
		filter.Approval = &a
	}

	return filter, nil
}
