package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uniterm/uniterm-api/internal/models"
)

// MaintenanceRepository runs integrity maintenance over all entity tables.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository creates a new repository instance.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// RemoveDuplicates deletes duplicate rows from every entity table inside one
// transaction. Rows are walked in retrieval order (created_at, id); the first
// row per duplicate key is canonical and survives, every later row is
// deleted. Either all deletions commit or none do, so concurrent validators
// never observe a partially deduplicated store.
//
// Duplicate keys per table: subjects (name, field_of_study, study_mode,
// year); exams (subject_id, instructor_name); exam_terms (exam_id, exam_date,
// start_time, room_name); rooms (name); demo_users (name, role).
func (r *MaintenanceRepository) RemoveDuplicates(ctx context.Context) (result models.SweepResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin sweep tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Parents before children. Rows referencing a doomed parent are
	// re-pointed to the surviving row before the delete, so a term bound to
	// a duplicate exam never trips the foreign key. Re-pointing also
	// canonicalizes the child's duplicate key, so a subject collapse can
	// reveal duplicate exams in the same run.
	if result.Subjects, err = dedupe(ctx, tx, "subjects",
		`SELECT id, name || '|' || field_of_study || '|' || study_mode || '|' || year AS dup_key FROM subjects ORDER BY created_at ASC, id ASC`,
		childRef{table: "exams", column: "subject_id"}); err != nil {
		return result, err
	}
	if result.Exams, err = dedupe(ctx, tx, "exams",
		`SELECT id, subject_id || '|' || instructor_name AS dup_key FROM exams ORDER BY created_at ASC, id ASC`,
		childRef{table: "exam_terms", column: "exam_id"}); err != nil {
		return result, err
	}
	if result.ExamTerms, err = dedupe(ctx, tx, "exam_terms",
		`SELECT id, exam_id || '|' || exam_date || '|' || start_time || '|' || room_name AS dup_key FROM exam_terms ORDER BY created_at ASC, id ASC`); err != nil {
		return result, err
	}
	if result.Rooms, err = dedupe(ctx, tx, "rooms",
		`SELECT id, name AS dup_key FROM rooms ORDER BY created_at ASC, id ASC`); err != nil {
		return result, err
	}
	if result.DemoUsers, err = dedupe(ctx, tx, "demo_users",
		`SELECT id, name || '|' || role AS dup_key FROM demo_users ORDER BY created_at ASC, id ASC`); err != nil {
		return result, err
	}

	if err = tx.Commit(); err != nil {
		return result, fmt.Errorf("commit sweep tx: %w", err)
	}
	return result, nil
}

type dupRow struct {
	ID     string `db:"id"`
	DupKey string `db:"dup_key"`
}

// childRef names a table whose foreign-key column references the table being
// deduplicated.
type childRef struct {
	table  string
	column string
}

// dupGroup collects the doomed copies of one surviving row.
type dupGroup struct {
	survivor string
	doomed   []string
}

func dedupe(ctx context.Context, tx *sqlx.Tx, table, keyQuery string, children ...childRef) (int, error) {
	var rows []dupRow
	if err := tx.SelectContext(ctx, &rows, keyQuery); err != nil {
		return 0, fmt.Errorf("scan %s for duplicates: %w", table, err)
	}

	seen := make(map[string]int, len(rows))
	var groups []dupGroup
	var doomed []string
	for _, row := range rows {
		if idx, ok := seen[row.DupKey]; ok {
			groups[idx].doomed = append(groups[idx].doomed, row.ID)
			doomed = append(doomed, row.ID)
			continue
		}
		seen[row.DupKey] = len(groups)
		groups = append(groups, dupGroup{survivor: row.ID})
	}

	if len(doomed) == 0 {
		return 0, nil
	}

	for _, child := range children {
		query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = ANY($2)", child.table, child.column, child.column)
		for _, group := range groups {
			if len(group.doomed) == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, query, group.survivor, pq.Array(group.doomed)); err != nil {
				return 0, fmt.Errorf("repoint %s.%s to surviving %s: %w", child.table, child.column, table, err)
			}
		}
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1)", table)
	if _, err := tx.ExecContext(ctx, query, pq.Array(doomed)); err != nil {
		return 0, fmt.Errorf("delete %s duplicates: %w", table, err)
	}
	return len(doomed), nil
}
