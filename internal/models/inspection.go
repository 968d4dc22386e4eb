package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// InspectionContext is the run-time data bound into a completed record:
// who inspected, on behalf of which team, against which entity, on what
// schedule. Persisted as JSONB alongside the record.
type InspectionContext struct {
	Inspectors      []Inspector      `json:"inspectors"`
	Team            *WorkTeam        `json:"team,omitempty"`
	EntityReference *EntityReference `json:"entity_reference,omitempty"`
	Schedule        ScheduleContext  `json:"schedule"`
}

// Validate requires at least one inspector and, when a team is supplied,
// at least one qualified member.
func (c InspectionContext) Validate() error {
	if len(c.Inspectors) == 0 {
		return fmt.Errorf("at least one inspector required")
	}
	if c.Team != nil && !c.Team.HasQualifiedInspectors() {
		return fmt.Errorf("team %q has no qualified inspectors", c.Team.Name)
	}
	if c.EntityReference != nil && !c.EntityReference.EntityType.Valid() {
		return fmt.Errorf("invalid entity type %q", c.EntityReference.EntityType)
	}
	return nil
}

// Value marshals the context to JSON for persistence.
func (c InspectionContext) Value() (driver.Value, error) {
	if c.Inspectors == nil {
		c.Inspectors = []Inspector{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal inspection context: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the context struct.
func (c *InspectionContext) Scan(value interface{}) error {
	if value == nil {
		*c = InspectionContext{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported inspection context type %T", value)
	}
	if len(data) == 0 {
		*c = InspectionContext{}
		return nil
	}
	return json.Unmarshal(data, c)
}

// ChecklistItemList is a JSONB-persisted list of checklist items.
type ChecklistItemList []ChecklistItem

// Value marshals the items to JSON for persistence.
func (l ChecklistItemList) Value() (driver.Value, error) {
	if l == nil {
		l = ChecklistItemList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal checklist items: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the item list.
func (l *ChecklistItemList) Scan(value interface{}) error {
	if value == nil {
		*l = ChecklistItemList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported checklist item list type %T", value)
	}
	if len(data) == 0 {
		*l = ChecklistItemList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// CompletedInspection is a sealed inspection record. Once created its
// items, file path and audit hash never change; corrections produce a
// brand-new record.
type CompletedInspection struct {
	ID                string            `db:"id" json:"id"`
	TemplateID        string            `db:"template_id" json:"template_id"`
	WorkingTemplateID string            `db:"working_template_id" json:"working_template_id"`
	Name              string            `db:"name" json:"name"`
	Category          TemplateCategory  `db:"category" json:"category"`
	CompletedAt       time.Time         `db:"completed_at" json:"completed_at"`
	Context           InspectionContext `db:"context" json:"context"`
	CompletedItems    ChecklistItemList `db:"completed_items" json:"completed_items"`
	FileName          string            `db:"file_name" json:"file_name"`
	FilePath          string            `db:"file_path" json:"file_path"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
}

// ComplianceScore computes the record's priority-weighted completion.
func (i CompletedInspection) ComplianceScore() float64 {
	return ComplianceScore(i.CompletedItems)
}

// HasCriticalGap reports whether the record left any Critical item open.
func (i CompletedInspection) HasCriticalGap() bool {
	return HasCriticalGap(i.CompletedItems)
}

// CreatedInspectionInfo bundles everything the audit trail store learns
// about a newly sealed record. This is the only channel through which
// audit entries are registered.
type CreatedInspectionInfo struct {
	ID          string            `json:"id"`
	FileName    string            `json:"file_name"`
	FilePath    string            `json:"file_path"`
	FileHash    string            `json:"file_hash"`
	ShortHash   string            `json:"short_hash"`
	CompletedAt time.Time         `json:"completed_at"`
	Context     InspectionContext `json:"context"`
}
