package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/dto"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/service"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/response"
)

// TemplateHandler exposes the master template catalog.
type TemplateHandler struct {
	catalog *service.CatalogService
}

// NewTemplateHandler constructs handler.
func NewTemplateHandler(catalog *service.CatalogService) *TemplateHandler {
	return &TemplateHandler{catalog: catalog}
}

// List godoc
// @Summary List master templates
// @Tags Templates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	summaries, err := h.catalog.Summaries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// Get godoc
// @Summary Fetch one master template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /templates/{id} [get]
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Create godoc
// @Summary Save a master template
// @Tags Templates
// @Accept json
// @Produce json
// @Param payload body dto.SaveTemplateRequest true "Template"
// @Success 201 {object} response.Envelope
// @Router /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	template, err := h.catalog.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// Delete godoc
// @Summary Delete a master template
// @Tags Templates
// @Param id path string true "Template ID"
// @Success 204
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Seed godoc
// @Summary Install built-in templates when the catalog is empty
// @Tags Templates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /templates/seed [post]
func (h *TemplateHandler) Seed(c *gin.Context) {
	installed, err := h.catalog.SeedTemplatesIfNeeded(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"installed": installed}, nil)
}
