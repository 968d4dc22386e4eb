package models

import (
	"fmt"
	"strings"
	"time"
)

// TemplateCategory groups master templates.
type TemplateCategory string

const (
	CategorySoilHealth     TemplateCategory = "SOIL_HEALTH"
	CategoryWaterSystems   TemplateCategory = "WATER_SYSTEMS"
	CategoryEquipment      TemplateCategory = "EQUIPMENT"
	CategoryCropHealth     TemplateCategory = "CROP_HEALTH"
	CategoryInfrastructure TemplateCategory = "INFRASTRUCTURE"
	CategoryCompliance     TemplateCategory = "COMPLIANCE"
	CategoryLivestock      TemplateCategory = "LIVESTOCK"
	CategoryGeneral        TemplateCategory = "GENERAL"
)

// Valid reports whether the category is a known value.
func (c TemplateCategory) Valid() bool {
	switch c {
	case CategorySoilHealth, CategoryWaterSystems, CategoryEquipment,
		CategoryCropHealth, CategoryInfrastructure, CategoryCompliance,
		CategoryLivestock, CategoryGeneral:
		return true
	default:
		return false
	}
}

// Structural markers the lifecycle relies on: the variables block is the
// anchor for header injection metadata, the summary block locates the
// inspector sign-off section.
const (
	MarkerVariables = "## Template Variables"
	MarkerSummary   = "## Inspector Summary"
)

// InspectionTemplate is a master template. Immutable once published:
// customization happens on working copies, never in place.
type InspectionTemplate struct {
	ID             string           `db:"id" json:"id"`
	Name           string           `db:"name" json:"name"`
	Category       TemplateCategory `db:"category" json:"category"`
	Version        string           `db:"version" json:"version"`
	RawContent     string           `db:"raw_content" json:"raw_content"`
	ChecklistItems []ChecklistItem  `db:"-" json:"checklist_items"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// Validate checks publishing requirements: non-empty name and content,
// at least one checklist item, and both structural markers present.
func (t InspectionTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name is empty")
	}
	if strings.TrimSpace(t.RawContent) == "" {
		return fmt.Errorf("template %s: raw content is empty", t.Name)
	}
	if len(t.ChecklistItems) == 0 {
		return fmt.Errorf("template %s: no checklist items", t.Name)
	}
	if !strings.Contains(t.RawContent, MarkerVariables) {
		return fmt.Errorf("template %s: missing %q marker", t.Name, MarkerVariables)
	}
	if !strings.Contains(t.RawContent, MarkerSummary) {
		return fmt.Errorf("template %s: missing %q marker", t.Name, MarkerSummary)
	}
	return nil
}

// FileName derives the category-scoped file name the catalog persists
// the template under.
func (t InspectionTemplate) FileName() string {
	name := strings.ReplaceAll(strings.TrimSpace(t.Name), " ", "_")
	return fmt.Sprintf("%s_%s.md", t.Category, name)
}

// PriorityDistribution counts checklist items per priority.
func (t InspectionTemplate) PriorityDistribution() map[Priority]int {
	dist := make(map[Priority]int, 4)
	for _, item := range t.ChecklistItems {
		dist[item.Priority]++
	}
	return dist
}

// WorkingTemplate is a named, mutable derivative of exactly one master
// template. It carries provenance but no live link: master edits never
// propagate.
type WorkingTemplate struct {
	ID               string          `db:"id" json:"id"`
	SourceTemplateID string          `db:"source_template_id" json:"source_template_id"`
	Name             string          `db:"name" json:"name"`
	RawContent       string          `db:"raw_content" json:"raw_content"`
	ChecklistItems   []ChecklistItem `db:"-" json:"checklist_items"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// FileName derives the working-namespace file name.
func (w WorkingTemplate) FileName() string {
	return fmt.Sprintf("%s.md", strings.ReplaceAll(strings.TrimSpace(w.Name), " ", "_"))
}
