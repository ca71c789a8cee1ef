package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniterm/uniterm-api/internal/models"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
)

type examRepository interface {
	List(ctx context.Context, filter models.ExamFilter) ([]models.ExamDetail, error)
	FindByID(ctx context.Context, id string) (*models.ExamDetail, error)
	Create(ctx context.Context, exam *models.Exam) error
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// CreateExamRequest describes payload for creating exams.
type CreateExamRequest struct {
	SubjectID      string `json:"subject_id" validate:"required"`
	InstructorName string `json:"instructor_name" validate:"required"`
}

// ExamService manages exam reference data.
type ExamService struct {
	repo      examRepository
	subjects  subjectReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService creates a new exam service instance.
func NewExamService(repo examRepository, subjects subjectReader, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, subjects: subjects, validator: validate, logger: logger}
}

// List returns exams matching the filter.
func (s *ExamService) List(ctx context.Context, filter models.ExamFilter) ([]models.ExamDetail, error) {
	if filter.StudyMode != "" && !filter.StudyMode.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown study mode %q", filter.StudyMode))
	}
	exams, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list exams")
	}
	return exams, nil
}

// Get returns an exam with subject detail.
func (s *ExamService) Get(ctx context.Context, id string) (*models.ExamDetail, error) {
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load exam")
	}
	return exam, nil
}

// Create persists a new exam after confirming the subject exists.
func (s *ExamService) Create(ctx context.Context, req CreateExamRequest) (*models.ExamDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load subject")
	}

	exam := &models.Exam{
		SubjectID:      req.SubjectID,
		InstructorName: req.InstructorName,
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}

	return s.Get(ctx, exam.ID)
}
