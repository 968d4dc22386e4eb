package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

// TemplateRepository persists master inspection templates.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository constructs the repository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a master template row. Name uniqueness is enforced per
// category by the table's unique constraint.
func (r *TemplateRepository) Create(ctx context.Context, t *models.InspectionTemplate) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO inspection_templates (id, name, category, version, raw_content, created_at)
VALUES (:id, :name, :category, :version, :raw_content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("create inspection template: %w", err)
	}
	return nil
}

// GetByID returns a master template by its identifier.
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*models.InspectionTemplate, error) {
	const query = `SELECT id, name, category, version, raw_content, created_at
FROM inspection_templates WHERE id = $1`
	var t models.InspectionTemplate
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, fmt.Errorf("get inspection template: %w", err)
	}
	return &t, nil
}

// List returns every master template ordered by category then name.
func (r *TemplateRepository) List(ctx context.Context) ([]models.InspectionTemplate, error) {
	const query = `SELECT id, name, category, version, raw_content, created_at
FROM inspection_templates ORDER BY category, name`
	templates := make([]models.InspectionTemplate, 0)
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("list inspection templates: %w", err)
	}
	return templates, nil
}

// Count returns the catalog size; used by idempotent seeding.
func (r *TemplateRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM inspection_templates`); err != nil {
		return 0, fmt.Errorf("count inspection templates: %w", err)
	}
	return count, nil
}

// Delete removes a master template row. Returns the number of rows removed.
func (r *TemplateRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inspection_templates WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete inspection template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete inspection template rows: %w", err)
	}
	return affected, nil
}
