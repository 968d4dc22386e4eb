package models

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TemplateMeta is the structured metadata header extracted from template text.
type TemplateMeta struct {
	Title            string
	Version          string
	Category         TemplateCategory
	InspectionType   string
	RequirementLevel string
}

var (
	sectionPattern  = regexp.MustCompile(`^##\s+Section\s+(\d+):\s*(.+)$`)
	checkboxPattern = regexp.MustCompile(`^-\s+\[([ xX])\]\s+\*\*\[([A-Za-z]+)\]\*\*\s+(.+)$`)
	metaPattern     = regexp.MustCompile(`^\*\*([^:*]+):\*\*\s*(.*)$`)
)

// ParseTemplateContent extracts the metadata header and checklist items
// from template markdown. This is the single reader of the format; the
// body is otherwise treated as an opaque payload.
func ParseTemplateContent(content string) (TemplateMeta, []ChecklistItem, error) {
	meta := TemplateMeta{Category: CategoryGeneral}
	items := make([]ChecklistItem, 0)

	section := 0
	itemInSection := 0

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		trimmed := strings.TrimSpace(line)

		if meta.Title == "" && strings.HasPrefix(trimmed, "# ") {
			meta.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			continue
		}

		if m := metaPattern.FindStringSubmatch(trimmed); m != nil {
			key := strings.TrimSpace(m[1])
			value := strings.TrimSpace(m[2])
			switch key {
			case "Template Version":
				meta.Version = value
			case "Category":
				meta.Category = ParseCategory(value)
			case "Inspection Type":
				meta.InspectionType = value
			case "Requirement Level":
				meta.RequirementLevel = value
			}
			continue
		}

		if m := sectionPattern.FindStringSubmatch(trimmed); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				section = n
				itemInSection = 0
			}
			continue
		}

		if m := checkboxPattern.FindStringSubmatch(trimmed); m != nil {
			priority, err := ParsePriority(m[2])
			if err != nil {
				return meta, nil, fmt.Errorf("section %d: %w", section, err)
			}
			itemInSection++
			items = append(items, ChecklistItem{
				ID:            fmt.Sprintf("%d.%d", section, itemInSection),
				Description:   strings.TrimSpace(m[3]),
				Priority:      priority,
				SectionNumber: section,
				ItemNumber:    itemInSection,
				IsCompleted:   m[1] != " ",
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return meta, nil, fmt.Errorf("scan template content: %w", err)
	}

	return meta, items, nil
}

// ParseCategory normalises free-text category names onto the typed enum.
// Unknown categories fall back to GENERAL rather than failing, so legacy
// template files remain loadable.
func ParseCategory(raw string) TemplateCategory {
	normalized := TemplateCategory(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")))
	if normalized.Valid() {
		return normalized
	}
	return CategoryGeneral
}
