package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

// InspectorRepository persists inspector accounts; it is also the roster
// source for qualified-inspector lookups.
type InspectorRepository struct {
	db *sqlx.DB
}

// NewInspectorRepository constructs the repository.
func NewInspectorRepository(db *sqlx.DB) *InspectorRepository {
	return &InspectorRepository{db: db}
}

// FindByEmail returns an account by email.
func (r *InspectorRepository) FindByEmail(ctx context.Context, email string) (*models.InspectorAccount, error) {
	const query = `SELECT id, email, full_name, password_hash, can_inspect, active, created_at, last_login_at
FROM inspector_accounts WHERE email = $1`
	var account models.InspectorAccount
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, fmt.Errorf("find inspector by email: %w", err)
	}
	return &account, nil
}

// FindByID returns an account by identifier.
func (r *InspectorRepository) FindByID(ctx context.Context, id string) (*models.InspectorAccount, error) {
	const query = `SELECT id, email, full_name, password_hash, can_inspect, active, created_at, last_login_at
FROM inspector_accounts WHERE id = $1`
	var account models.InspectorAccount
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, fmt.Errorf("find inspector by id: %w", err)
	}
	return &account, nil
}

// UpdateLastLogin stamps the most recent successful login.
func (r *InspectorRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE inspector_accounts SET last_login_at = $1 WHERE id = $2`, ts, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// ListRoster returns the active inspectors as roster values.
func (r *InspectorRepository) ListRoster(ctx context.Context) ([]models.Inspector, error) {
	const query = `SELECT id, email, full_name, password_hash, can_inspect, active, created_at, last_login_at
FROM inspector_accounts WHERE active = TRUE ORDER BY full_name`
	accounts := make([]models.InspectorAccount, 0)
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("list inspector roster: %w", err)
	}
	roster := make([]models.Inspector, 0, len(accounts))
	for _, account := range accounts {
		roster = append(roster, account.Roster())
	}
	return roster, nil
}
