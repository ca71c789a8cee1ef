package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uniterm/uniterm-api/internal/models"
)

// Sentinel errors surfaced by the transactional proposal path. The service
// layer maps them to user-facing conflict messages.
var (
	ErrRoomOccupied  = errors.New("room occupied")
	ErrCohortBusy    = errors.New("cohort already has an exam that day")
	ErrTermFinalized = errors.New("exam term already decided")
)

const examTermDetailColumns = `t.id, t.exam_id, t.exam_date, t.start_time, t.room_name,
	t.proposed_by_role, t.proposed_by_name, t.approved_by_role, t.approved_by_name,
	t.status, t.created_at,
	e.instructor_name,
	s.name AS subject_name, s.field_of_study AS subject_field_of_study,
	s.study_mode AS subject_study_mode, s.year AS subject_year`

// ExamTermRepository handles persistence for exam term proposals.
type ExamTermRepository struct {
	db *sqlx.DB
}

// NewExamTermRepository instantiates an exam term repository.
func NewExamTermRepository(db *sqlx.DB) *ExamTermRepository {
	return &ExamTermRepository{db: db}
}

// List returns joined term detail rows matching the filter, ordered by
// (exam_date, start_time) so clients see a chronological schedule.
func (r *ExamTermRepository) List(ctx context.Context, filter models.ExamTermFilter) ([]models.ExamTermDetail, error) {
	base := `FROM exam_terms t
	JOIN exams e ON e.id = t.exam_id
	JOIN subjects s ON s.id = e.subject_id
	WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.FieldOfStudy != "" {
		conditions = append(conditions, fmt.Sprintf("s.field_of_study = $%d", len(args)+1))
		args = append(args, filter.FieldOfStudy)
	}
	if filter.StudyMode != "" {
		conditions = append(conditions, fmt.Sprintf("s.study_mode = $%d", len(args)+1))
		args = append(args, filter.StudyMode)
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY t.exam_date ASC, t.start_time ASC", examTermDetailColumns, base)

	var terms []models.ExamTermDetail
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, fmt.Errorf("list exam terms: %w", err)
	}
	return terms, nil
}

// FindByID loads a term by identifier.
func (r *ExamTermRepository) FindByID(ctx context.Context, id string) (*models.ExamTerm, error) {
	const query = `SELECT id, exam_id, exam_date, start_time, room_name, proposed_by_role, proposed_by_name, approved_by_role, approved_by_name, status, created_at FROM exam_terms WHERE id = $1`
	var term models.ExamTerm
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// FindDetailByID loads a term joined with exam and subject.
func (r *ExamTermRepository) FindDetailByID(ctx context.Context, id string) (*models.ExamTermDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM exam_terms t
	JOIN exams e ON e.id = t.exam_id
	JOIN subjects s ON s.id = e.subject_id
	WHERE t.id = $1`, examTermDetailColumns)
	var term models.ExamTermDetail
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// RoomOccupied reports whether a non-rejected term already holds the
// (room, date, time) slot. excludeID supports re-validating an edit in place.
func (r *ExamTermRepository) RoomOccupied(ctx context.Context, date, startTime, roomName, excludeID string) (bool, error) {
	return r.roomOccupied(ctx, nil, date, startTime, roomName, excludeID)
}

func (r *ExamTermRepository) roomOccupied(ctx context.Context, tx *sqlx.Tx, date, startTime, roomName, excludeID string) (bool, error) {
	query := `SELECT 1 FROM exam_terms WHERE exam_date = $1 AND start_time = $2 AND room_name = $3 AND status <> $4`
	args := []interface{}{date, startTime, roomName, models.TermStatusRejected}
	if excludeID != "" {
		query += " AND id <> $5"
		args = append(args, excludeID)
	}

	var exists int
	err := get(ctx, r.db, tx, &exists, query+" LIMIT 1", args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room occupancy: %w", err)
	}
	return true, nil
}

// CohortOccupied reports whether the cohort already has a non-rejected exam
// on the given date.
func (r *ExamTermRepository) CohortOccupied(ctx context.Context, date string, cohort models.Cohort, excludeID string) (bool, error) {
	return r.cohortOccupied(ctx, nil, date, cohort, excludeID)
}

func (r *ExamTermRepository) cohortOccupied(ctx context.Context, tx *sqlx.Tx, date string, cohort models.Cohort, excludeID string) (bool, error) {
	query := `SELECT 1 FROM exam_terms t
	JOIN exams e ON e.id = t.exam_id
	JOIN subjects s ON s.id = e.subject_id
	WHERE t.exam_date = $1 AND s.field_of_study = $2 AND s.study_mode = $3 AND s.year = $4 AND t.status <> $5`
	args := []interface{}{date, cohort.FieldOfStudy, cohort.StudyMode, cohort.Year, models.TermStatusRejected}
	if excludeID != "" {
		query += " AND t.id <> $6"
		args = append(args, excludeID)
	}

	var exists int
	err := get(ctx, r.db, tx, &exists, query+" LIMIT 1", args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check cohort occupancy: %w", err)
	}
	return true, nil
}

// CreateProposed inserts a new PROPOSED term after re-running the room and
// cohort checks inside one transaction. The transaction takes an advisory
// lock keyed on the exam date, serialising concurrent proposals for the same
// day so two requests cannot both pass the checks before either commits. A
// unique-violation from the partial index on (room_name, exam_date,
// start_time) is mapped to ErrRoomOccupied as a commit-time backstop.
func (r *ExamTermRepository) CreateProposed(ctx context.Context, term *models.ExamTerm, cohort models.Cohort) error {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	if term.CreatedAt.IsZero() {
		term.CreatedAt = time.Now().UTC()
	}
	term.Status = models.TermStatusProposed

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin proposal tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, term.ExamDate); err != nil {
		return fmt.Errorf("lock proposal date: %w", err)
	}

	occupied, err := r.roomOccupied(ctx, tx, term.ExamDate, term.StartTime, term.RoomName, "")
	if err != nil {
		return err
	}
	if occupied {
		err = ErrRoomOccupied
		return err
	}

	busy, err := r.cohortOccupied(ctx, tx, term.ExamDate, cohort, "")
	if err != nil {
		return err
	}
	if busy {
		err = ErrCohortBusy
		return err
	}

	const query = `INSERT INTO exam_terms (id, exam_id, exam_date, start_time, room_name, proposed_by_role, proposed_by_name, status, created_at)
	VALUES (:id, :exam_id, :exam_date, :start_time, :room_name, :proposed_by_role, :proposed_by_name, :status, :created_at)`
	if _, err = tx.NamedExecContext(ctx, query, term); err != nil {
		if isUniqueViolation(err) {
			err = ErrRoomOccupied
			return err
		}
		return fmt.Errorf("insert exam term: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit proposal tx: %w", err)
	}
	return nil
}

// UpdateDecision records the approver identity and the terminal status. The
// UPDATE only matches while the row is still PROPOSED, so two concurrent
// decisions cannot both land: the loser matches zero rows and gets
// ErrTermFinalized instead of flipping a terminal state.
func (r *ExamTermRepository) UpdateDecision(ctx context.Context, id string, role models.UserRole, name string, status models.TermStatus) error {
	const query = `UPDATE exam_terms SET approved_by_role = $2, approved_by_name = $3, status = $4 WHERE id = $1 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, id, role, name, status, models.TermStatusProposed)
	if err != nil {
		return fmt.Errorf("update exam term decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update exam term decision: %w", err)
	}
	if affected == 0 {
		return ErrTermFinalized
	}
	return nil
}

// get runs a Get against the transaction when one is supplied, falling back
// to the pooled connection.
func get(ctx context.Context, db *sqlx.DB, tx *sqlx.Tx, dest interface{}, query string, args ...interface{}) error {
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return db.GetContext(ctx, dest, query, args...)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
