package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/ecosystem/model"
	"wildlife-catalog-backend/internal/domains/ecosystem/service"
	"wildlife-catalog-backend/internal/shared/middleware"
	"wildlife-catalog-backend/internal/shared/response"
)

// =====================================================
// ECOSYSTEM HANDLER
// =====================================================

type EcosystemHandler struct {
	ecosystemService service.ServiceInterface
}

func NewEcosystemHandler(ecosystemService service.ServiceInterface) *EcosystemHandler {
	return &EcosystemHandler{
		ecosystemService: ecosystemService,
	}
}

// ListEcosystems lists every ecosystem
// GET /api/v1/ecosystems
func (h *EcosystemHandler) ListEcosystems(c *gin.Context) {
	ecosystems, err := h.ecosystemService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, ecosystems, &response.Meta{Total: len(ecosystems)})
}

// GetEcosystem returns an ecosystem with its visible species
// GET /api/v1/ecosystems/:slug
func (h *EcosystemHandler) GetEcosystem(c *gin.Context) {
	detail, err := h.ecosystemService.GetBySlug(c.Request.Context(), middleware.CallerFrom(c), c.Param("slug"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// CreateEcosystem adds an ecosystem
// POST /api/v1/admin/ecosystems
func (h *EcosystemHandler) CreateEcosystem(c *gin.Context) {
	var req model.CreateEcosystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ecosystem, err := h.ecosystemService.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ecosystem)
}

// UpdateEcosystem edits an ecosystem
// PATCH /api/v1/admin/ecosystems/:id
func (h *EcosystemHandler) UpdateEcosystem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req, err := model.DecodeUpdateEcosystemRequest(body)
	if err != nil {
		response.FromError(c, err)
		return
	}

	ecosystem, err := h.ecosystemService.Update(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ecosystem)
}

// DeleteEcosystem removes an ecosystem and its species
// DELETE /api/v1/admin/ecosystems/:id
func (h *EcosystemHandler) DeleteEcosystem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.ecosystemService.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Ecosystem deleted"})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ecosystem ID")
		return uuid.Nil, false
	}
	return id, true
}
