package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/service"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/response"
)

// ReconciliationHandler exposes store-vs-filesystem reconciliation and
// windowed audit reports.
type ReconciliationHandler struct {
	reconciler *service.ReconciliationService
}

// NewReconciliationHandler constructs handler.
func NewReconciliationHandler(reconciler *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciler: reconciler}
}

// Run godoc
// @Summary Reconcile the record store against the completed-record directory
// @Tags Reconciliation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reconciliation/run [post]
func (h *ReconciliationHandler) Run(c *gin.Context) {
	result, err := h.reconciler.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AuditReport godoc
// @Summary Aggregate completed inspections over a date window
// @Tags Reconciliation
// @Produce json
// @Param from query string true "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string true "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/audit [get]
func (h *ReconciliationHandler) AuditReport(c *gin.Context) {
	from, err := parseWindowTime(c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from parameter"))
		return
	}
	to, err := parseWindowTime(c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to parameter"))
		return
	}
	report, err := h.reconciler.GenerateAuditReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

func parseWindowTime(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
