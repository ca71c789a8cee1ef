package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/uniterm/uniterm-api/internal/models"
)

// DemoUserRepository handles the canned identities shown by the demo UI.
type DemoUserRepository struct {
	db *sqlx.DB
}

// NewDemoUserRepository creates a new repository instance.
func NewDemoUserRepository(db *sqlx.DB) *DemoUserRepository {
	return &DemoUserRepository{db: db}
}

// List returns all demo users in insertion order.
func (r *DemoUserRepository) List(ctx context.Context) ([]models.DemoUser, error) {
	const query = `SELECT id, name, role, field_of_study, study_mode, year, subject, created_at FROM demo_users ORDER BY created_at ASC, id ASC`
	var users []models.DemoUser
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list demo users: %w", err)
	}
	return users, nil
}
