package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/dto"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/service"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/response"
)

// InspectionHandler exposes completed inspection records.
type InspectionHandler struct {
	inspections *service.InspectionService
}

// NewInspectionHandler constructs handler.
func NewInspectionHandler(inspections *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspections: inspections}
}

// Create godoc
// @Summary Seal a completed inspection from a working template
// @Tags Inspections
// @Accept json
// @Produce json
// @Param payload body dto.CreateInspectionRequest true "Inspection context"
// @Success 201 {object} response.Envelope
// @Router /inspections [post]
func (h *InspectionHandler) Create(c *gin.Context) {
	var req dto.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	info, err := h.inspections.CreateFromWorkingTemplate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, info)
}

// Get godoc
// @Summary Fetch one completed inspection
// @Tags Inspections
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} response.Envelope
// @Router /inspections/{id} [get]
func (h *InspectionHandler) Get(c *gin.Context) {
	record, err := h.inspections.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List godoc
// @Summary List completed inspections
// @Tags Inspections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inspections [get]
func (h *InspectionHandler) List(c *gin.Context) {
	records, err := h.inspections.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
