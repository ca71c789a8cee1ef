package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/uniterm/uniterm-api/internal/models"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
)

type maintenanceRepository interface {
	RemoveDuplicates(ctx context.Context) (models.SweepResult, error)
}

// MaintenanceService runs administrative integrity maintenance.
type MaintenanceService struct {
	repo    maintenanceRepository
	logger  *zap.Logger
	metrics *MetricsService
	audit   *AuditTrail
}

// NewMaintenanceService creates a new maintenance service instance. metrics
// and audit may be nil.
func NewMaintenanceService(repo maintenanceRepository, logger *zap.Logger, metrics *MetricsService, audit *AuditTrail) *MaintenanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{repo: repo, logger: logger, metrics: metrics, audit: audit}
}

// RemoveDuplicates collapses duplicate rows across all entity tables and
// reports per-type deletion counts. The sweep is all-or-nothing: a failure
// rolls the whole transaction back and surfaces as an infrastructure error.
func (s *MaintenanceService) RemoveDuplicates(ctx context.Context) (models.SweepResult, error) {
	result, err := s.repo.RemoveDuplicates(ctx)
	if err != nil {
		return models.SweepResult{}, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "integrity sweep failed and was rolled back")
	}

	s.logger.Info("integrity sweep completed",
		zap.Int("subjects", result.Subjects),
		zap.Int("exams", result.Exams),
		zap.Int("exam_terms", result.ExamTerms),
		zap.Int("rooms", result.Rooms),
		zap.Int("demo_users", result.DemoUsers),
	)

	if s.metrics != nil {
		s.metrics.ObserveSweep(result)
	}
	if s.audit != nil {
		s.audit.Record(AuditEvent{
			Action:   models.AuditActionSweep,
			Resource: "all",
			Details: map[string]interface{}{
				"deleted_total": result.Total(),
				"subjects":      result.Subjects,
				"exams":         result.Exams,
				"exam_terms":    result.ExamTerms,
				"rooms":         result.Rooms,
				"demo_users":    result.DemoUsers,
			},
		})
	}

	return result, nil
}
