package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniterm/uniterm-api/internal/models"
)

const examDetailColumns = `e.id, e.subject_id, e.instructor_name, e.created_at,
	s.name AS subject_name, s.field_of_study AS subject_field_of_study,
	s.study_mode AS subject_study_mode, s.year AS subject_year`

// ExamRepository handles persistence for exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository creates a new repository instance.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// List returns exams joined with their subjects, filtered by cohort fields
// and instructor.
func (r *ExamRepository) List(ctx context.Context, filter models.ExamFilter) ([]models.ExamDetail, error) {
	base := "FROM exams e JOIN subjects s ON s.id = e.subject_id WHERE 1=1"
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
	if filter.InstructorName != "" {
		conditions = append(conditions, fmt.Sprintf("e.instructor_name = $%d", len(args)+1))
		args = append(args, filter.InstructorName)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.name ASC", examDetailColumns, base)
	var exams []models.ExamDetail
	if err := r.db.SelectContext(ctx, &exams, query, args...); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// FindByID returns an exam joined with its subject.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.ExamDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM exams e JOIN subjects s ON s.id = e.subject_id WHERE e.id = $1", examDetailColumns)
	var exam models.ExamDetail
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// Create persists a new exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO exams (id, subject_id, instructor_name, created_at) VALUES (:id, :subject_id, :instructor_name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}
