package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority ranks a checklist item for compliance weighting.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Weight returns the compliance weight for the priority.
// The 4/3/2/1 table is fixed policy, not deployment-configurable.
func (p Priority) Weight() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the priority is a known value.
func (p Priority) Valid() bool {
	return p.Weight() > 0
}

// ParsePriority maps template markers like "[CRITICAL]" or "high" onto
// the typed enum.
func ParsePriority(raw string) (Priority, error) {
	cleaned := strings.ToUpper(strings.Trim(strings.TrimSpace(raw), "[]"))
	p := Priority(cleaned)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", raw)
	}
	return p, nil
}

// ChecklistItem is a single inspectable line of a template or record.
type ChecklistItem struct {
	ID            string     `db:"id" json:"id"`
	Description   string     `db:"description" json:"description"`
	Priority      Priority   `db:"priority" json:"priority"`
	SectionNumber int        `db:"section_number" json:"section_number"`
	ItemNumber    int        `db:"item_number" json:"item_number"`
	IsCompleted   bool       `db:"is_completed" json:"is_completed"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CompletedBy   *string    `db:"completed_by" json:"completed_by,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
}

// Validate enforces completion integrity: a completed item must carry
// both the completion time and the completing inspector.
func (i ChecklistItem) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return fmt.Errorf("checklist item %s: description is empty", i.ID)
	}
	if !i.Priority.Valid() {
		return fmt.Errorf("checklist item %s: invalid priority %q", i.ID, i.Priority)
	}
	if i.IsCompleted {
		if i.CompletedAt == nil {
			return fmt.Errorf("checklist item %s: completed without completion time", i.ID)
		}
		if i.CompletedBy == nil || strings.TrimSpace(*i.CompletedBy) == "" {
			return fmt.Errorf("checklist item %s: completed without inspector", i.ID)
		}
	}
	return nil
}

// ComplianceScore computes the priority-weighted fraction of completed
// items. Zero items scores 0: a record with no checklist content cannot
// attest to anything.
func ComplianceScore(items []ChecklistItem) float64 {
	total := 0
	completed := 0
	for _, item := range items {
		w := item.Priority.Weight()
		total += w
		if item.IsCompleted {
			completed += w
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// HasCriticalGap reports whether any Critical item remains incomplete.
func HasCriticalGap(items []ChecklistItem) bool {
	for _, item := range items {
		if item.Priority == PriorityCritical && !item.IsCompleted {
			return true
		}
	}
	return false
}
