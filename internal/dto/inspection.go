package dto

import (
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

// CreateInspectionRequest seals a completed record from a working template.
type CreateInspectionRequest struct {
	WorkingTemplateName string                  `json:"working_template_name" validate:"required"`
	Inspectors          []models.Inspector      `json:"inspectors" validate:"required,min=1"`
	Team                *models.WorkTeam        `json:"team,omitempty"`
	EntityReference     *models.EntityReference `json:"entity_reference,omitempty"`
	Schedule            models.ScheduleContext  `json:"schedule"`
	CompletedItems      []models.ChecklistItem  `json:"completed_items"`
}

// Context assembles the run-time context bound into the record.
func (r CreateInspectionRequest) Context() models.InspectionContext {
	return models.InspectionContext{
		Inspectors:      r.Inspectors,
		Team:            r.Team,
		EntityReference: r.EntityReference,
		Schedule:        r.Schedule,
	}
}

// InspectionSummary is the list row for completed records.
type InspectionSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	CompletedAt     string  `json:"completed_at"`
	ComplianceScore float64 `json:"compliance_score"`
	CriticalGap     bool    `json:"critical_gap"`
	ShortHash       string  `json:"short_hash"`
}
