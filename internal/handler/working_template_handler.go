package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/dto"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/service"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/response"
)

// WorkingTemplateHandler exposes working template copies.
type WorkingTemplateHandler struct {
	working *service.WorkingTemplateService
}

// NewWorkingTemplateHandler constructs handler.
func NewWorkingTemplateHandler(working *service.WorkingTemplateService) *WorkingTemplateHandler {
	return &WorkingTemplateHandler{working: working}
}

// List godoc
// @Summary List working templates
// @Tags WorkingTemplates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /working-templates [get]
func (h *WorkingTemplateHandler) List(c *gin.Context) {
	templates, err := h.working.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// Get godoc
// @Summary Fetch a working template by name
// @Tags WorkingTemplates
// @Produce json
// @Param name path string true "Working template name"
// @Success 200 {object} response.Envelope
// @Router /working-templates/{name} [get]
func (h *WorkingTemplateHandler) Get(c *gin.Context) {
	template, err := h.working.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Create godoc
// @Summary Create a working copy of a master template
// @Tags WorkingTemplates
// @Accept json
// @Produce json
// @Param payload body dto.CreateWorkingTemplateRequest true "Copy request"
// @Success 201 {object} response.Envelope
// @Router /working-templates [post]
func (h *WorkingTemplateHandler) Create(c *gin.Context) {
	var req dto.CreateWorkingTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	template, err := h.working.Create(c.Request.Context(), req.TemplateID, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// Delete godoc
// @Summary Delete a working template
// @Tags WorkingTemplates
// @Param name path string true "Working template name"
// @Success 204
// @Router /working-templates/{name} [delete]
func (h *WorkingTemplateHandler) Delete(c *gin.Context) {
	if err := h.working.Delete(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
