package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/service"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/response"
)

// AuditHandler exposes the integrity ledger.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// GetByInspection godoc
// @Summary Fetch the audit entry for an inspection
// @Tags Audit
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} response.Envelope
// @Router /inspections/{id}/audit [get]
func (h *AuditHandler) GetByInspection(c *gin.Context) {
	entry, err := h.audit.GetByInspection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// List godoc
// @Summary List all audit entries
// @Tags Audit
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /audit-entries [get]
func (h *AuditHandler) List(c *gin.Context) {
	entries, err := h.audit.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Verify godoc
// @Summary Recompute and check an inspection's verification code
// @Tags Audit
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} response.Envelope
// @Router /inspections/{id}/verify [get]
func (h *AuditHandler) Verify(c *gin.Context) {
	ok, entry, err := h.audit.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"valid":             ok,
		"inspection_id":     entry.InspectionID,
		"short_hash":        entry.ShortHash,
		"verification_code": entry.VerificationCode,
	}, nil)
}
