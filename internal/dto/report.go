package dto

import (
	"time"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

// ReportExportRequest queues an audit-report export job.
type ReportExportRequest struct {
	From   time.Time           `json:"from" validate:"required"`
	To     time.Time           `json:"to" validate:"required"`
	Format models.ReportFormat `json:"format" validate:"required"`
}

// ReportJobResponse acknowledges a queued export.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress to pollers.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
