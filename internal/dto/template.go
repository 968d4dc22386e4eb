package dto

// SaveTemplateRequest publishes a new master template.
type SaveTemplateRequest struct {
	Name       string `json:"name" validate:"required"`
	Version    string `json:"version"`
	RawContent string `json:"raw_content" validate:"required"`
}

// CreateWorkingTemplateRequest derives a working copy from a master.
type CreateWorkingTemplateRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

// TemplateSummary is the catalog list row: metadata without the full body.
type TemplateSummary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Version   string         `json:"version"`
	ItemCount int            `json:"item_count"`
	Priority  map[string]int `json:"priority_distribution"`
}
