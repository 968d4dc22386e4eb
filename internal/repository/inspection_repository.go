package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

// InspectionRepository persists sealed inspection records. Records are
// append-only: there is no update path by design.
type InspectionRepository struct {
	db *sqlx.DB
}

// NewInspectionRepository constructs the repository.
func NewInspectionRepository(db *sqlx.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// Create inserts a completed inspection row.
func (r *InspectionRepository) Create(ctx context.Context, i *models.CompletedInspection) error {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO completed_inspections
(id, template_id, working_template_id, name, category, completed_at, context, completed_items, file_name, file_path, created_at)
VALUES (:id, :template_id, :working_template_id, :name, :category, :completed_at, :context, :completed_items, :file_name, :file_path, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, i); err != nil {
		return fmt.Errorf("create completed inspection: %w", err)
	}
	return nil
}

// GetByID returns a completed inspection by its identifier.
func (r *InspectionRepository) GetByID(ctx context.Context, id string) (*models.CompletedInspection, error) {
	const query = `SELECT id, template_id, working_template_id, name, category, completed_at, context, completed_items, file_name, file_path, created_at
FROM completed_inspections WHERE id = $1`
	var i models.CompletedInspection
	if err := r.db.GetContext(ctx, &i, query, id); err != nil {
		return nil, fmt.Errorf("get completed inspection: %w", err)
	}
	return &i, nil
}

// List returns every completed inspection, newest first.
func (r *InspectionRepository) List(ctx context.Context) ([]models.CompletedInspection, error) {
	const query = `SELECT id, template_id, working_template_id, name, category, completed_at, context, completed_items, file_name, file_path, created_at
FROM completed_inspections ORDER BY completed_at DESC`
	inspections := make([]models.CompletedInspection, 0)
	if err := r.db.SelectContext(ctx, &inspections, query); err != nil {
		return nil, fmt.Errorf("list completed inspections: %w", err)
	}
	return inspections, nil
}

// ListBetween returns completed inspections with completed_at in [from, to].
func (r *InspectionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.CompletedInspection, error) {
	const query = `SELECT id, template_id, working_template_id, name, category, completed_at, context, completed_items, file_name, file_path, created_at
FROM completed_inspections WHERE completed_at >= $1 AND completed_at <= $2 ORDER BY completed_at`
	inspections := make([]models.CompletedInspection, 0)
	if err := r.db.SelectContext(ctx, &inspections, query, from, to); err != nil {
		return nil, fmt.Errorf("list completed inspections between: %w", err)
	}
	return inspections, nil
}
