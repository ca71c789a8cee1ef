package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniterm/uniterm-api/internal/models"
)

// SessionPeriodRepository handles persistence for session calendar windows.
type SessionPeriodRepository struct {
	db *sqlx.DB
}

// NewSessionPeriodRepository creates a new repository instance.
func NewSessionPeriodRepository(db *sqlx.DB) *SessionPeriodRepository {
	return &SessionPeriodRepository{db: db}
}

// List returns all session periods, newest first.
func (r *SessionPeriodRepository) List(ctx context.Context) ([]models.SessionPeriod, error) {
	const query = `SELECT id, semester, academic_year, start_date, end_date, created_at FROM session_periods ORDER BY start_date DESC`
	var periods []models.SessionPeriod
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list session periods: %w", err)
	}
	return periods, nil
}

// ListChronological returns all session periods ordered by start date
// ascending, the order the current-window resolution walks them in.
func (r *SessionPeriodRepository) ListChronological(ctx context.Context) ([]models.SessionPeriod, error) {
	const query = `SELECT id, semester, academic_year, start_date, end_date, created_at FROM session_periods ORDER BY start_date ASC, id ASC`
	var periods []models.SessionPeriod
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list session periods: %w", err)
	}
	return periods, nil
}

// Create persists a new session period.
func (r *SessionPeriodRepository) Create(ctx context.Context, period *models.SessionPeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	if period.CreatedAt.IsZero() {
		period.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO session_periods (id, semester, academic_year, start_date, end_date, created_at) VALUES (:id, :semester, :academic_year, :start_date, :end_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create session period: %w", err)
	}
	return nil
}
