package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

// WorkingTemplateRepository persists working copies of master templates.
type WorkingTemplateRepository struct {
	db *sqlx.DB
}

// NewWorkingTemplateRepository constructs the repository.
func NewWorkingTemplateRepository(db *sqlx.DB) *WorkingTemplateRepository {
	return &WorkingTemplateRepository{db: db}
}

// Create inserts a working template row.
func (r *WorkingTemplateRepository) Create(ctx context.Context, w *models.WorkingTemplate) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO working_templates (id, source_template_id, name, raw_content, created_at)
VALUES (:id, :source_template_id, :name, :raw_content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, w); err != nil {
		return fmt.Errorf("create working template: %w", err)
	}
	return nil
}

// GetByName resolves a working template by its unique name.
func (r *WorkingTemplateRepository) GetByName(ctx context.Context, name string) (*models.WorkingTemplate, error) {
	const query = `SELECT id, source_template_id, name, raw_content, created_at
FROM working_templates WHERE name = $1`
	var w models.WorkingTemplate
	if err := r.db.GetContext(ctx, &w, query, name); err != nil {
		return nil, fmt.Errorf("get working template: %w", err)
	}
	return &w, nil
}

// List returns all working templates ordered by name.
func (r *WorkingTemplateRepository) List(ctx context.Context) ([]models.WorkingTemplate, error) {
	const query = `SELECT id, source_template_id, name, raw_content, created_at
FROM working_templates ORDER BY name`
	working := make([]models.WorkingTemplate, 0)
	if err := r.db.SelectContext(ctx, &working, query); err != nil {
		return nil, fmt.Errorf("list working templates: %w", err)
	}
	return working, nil
}

// Delete removes a working template by name. Returns rows removed.
func (r *WorkingTemplateRepository) Delete(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM working_templates WHERE name = $1`, name)
	if err != nil {
		return 0, fmt.Errorf("delete working template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete working template rows: %w", err)
	}
	return affected, nil
}
