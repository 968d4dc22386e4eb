package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

// AuditRepository persists audit trail entries. Rows are immutable after
// insert; created_at in particular never changes, which is what keeps
// verification codes re-derivable.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit trail entry row.
func (r *AuditRepository) Create(ctx context.Context, e *models.AuditTrailEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_trail_entries
(id, inspection_id, file_hash, short_hash, long_hash, created_at, inspector, verification_code)
VALUES (:id, :inspection_id, :file_hash, :short_hash, :long_hash, :created_at, :inspector, :verification_code)`
	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("create audit trail entry: %w", err)
	}
	return nil
}

// GetByInspection returns the audit entry for a completed inspection.
func (r *AuditRepository) GetByInspection(ctx context.Context, inspectionID string) (*models.AuditTrailEntry, error) {
	const query = `SELECT id, inspection_id, file_hash, short_hash, long_hash, created_at, inspector, verification_code
FROM audit_trail_entries WHERE inspection_id = $1`
	var e models.AuditTrailEntry
	if err := r.db.GetContext(ctx, &e, query, inspectionID); err != nil {
		return nil, fmt.Errorf("get audit trail entry: %w", err)
	}
	return &e, nil
}

// List returns every audit entry ordered by creation time.
func (r *AuditRepository) List(ctx context.Context) ([]models.AuditTrailEntry, error) {
	const query = `SELECT id, inspection_id, file_hash, short_hash, long_hash, created_at, inspector, verification_code
FROM audit_trail_entries ORDER BY created_at`
	entries := make([]models.AuditTrailEntry, 0)
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list audit trail entries: %w", err)
	}
	return entries, nil
}
