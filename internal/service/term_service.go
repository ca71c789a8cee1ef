package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniterm/uniterm-api/internal/models"
	"github.com/uniterm/uniterm-api/internal/repository"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
)

// TimeLayout is the canonical wire format for exam start times.
const TimeLayout = "15:04"

type examTermRepository interface {
	List(ctx context.Context, filter models.ExamTermFilter) ([]models.ExamTermDetail, error)
	FindByID(ctx context.Context, id string) (*models.ExamTerm, error)
	FindDetailByID(ctx context.Context, id string) (*models.ExamTermDetail, error)
	RoomOccupied(ctx context.Context, date, startTime, roomName, excludeID string) (bool, error)
	CohortOccupied(ctx context.Context, date string, cohort models.Cohort, excludeID string) (bool, error)
	CreateProposed(ctx context.Context, term *models.ExamTerm, cohort models.Cohort) error
	UpdateDecision(ctx context.Context, id string, role models.UserRole, name string, status models.TermStatus) error
}

type examReader interface {
	FindByID(ctx context.Context, id string) (*models.ExamDetail, error)
}

type roomReader interface {
	FindByName(ctx context.Context, name string) (*models.Room, error)
}

type sessionChecker interface {
	CurrentWindows(ctx context.Context) (models.SessionWindows, error)
}

// ProposeTermRequest describes payload for proposing an exam term.
type ProposeTermRequest struct {
	ExamID         string          `json:"exam_id" validate:"required"`
	ExamDate       string          `json:"exam_date" validate:"required,datetime=2006-01-02"`
	StartTime      string          `json:"start_time" validate:"required,datetime=15:04"`
	RoomName       string          `json:"room_name" validate:"required"`
	ProposedByRole models.UserRole `json:"proposed_by_role" validate:"required"`
	ProposedByName string          `json:"proposed_by_name" validate:"required"`
}

// DecideTermRequest records an approval decision on a proposed term.
type DecideTermRequest struct {
	ApprovedByRole models.UserRole   `json:"approved_by_role" validate:"required"`
	ApprovedByName string            `json:"approved_by_name" validate:"required"`
	Status         models.TermStatus `json:"status" validate:"required"`
}

// AvailabilityResult is the outcome of a standalone validation check.
type AvailabilityResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// CapacityCheckResult is the outcome of the composed room capacity and
// availability check.
type CapacityCheckResult struct {
	Available bool         `json:"available"`
	Message   string       `json:"message"`
	Room      *models.Room `json:"room,omitempty"`
}

// TermService is the single authority for admitting exam term proposals and
// driving them through the approval lifecycle.
type TermService struct {
	terms     examTermRepository
	exams     examReader
	rooms     roomReader
	sessions  sessionChecker
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	audit     *AuditTrail
}

// NewTermService creates a new term service instance. metrics and audit may
// be nil.
func NewTermService(terms examTermRepository, exams examReader, rooms roomReader, sessions sessionChecker, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, audit *AuditTrail) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{
		terms:     terms,
		exams:     exams,
		rooms:     rooms,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		audit:     audit,
	}
}

// Propose validates a proposal and persists it in the PROPOSED state. Checks
// run in a fixed order with short-circuit on the first failure so rejection
// messages are deterministic and actionable: exam existence, session window
// (admins may schedule outside it), room occupancy, cohort collision. The
// occupancy checks are re-run atomically with the insert, so a proposal that
// races past the pre-check still fails with the same conflict error.
func (s *TermService) Propose(ctx context.Context, req ProposeTermRequest) (*models.ExamTermDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam term payload")
	}
	if !req.ProposedByRole.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown proposer role %q", req.ProposedByRole))
	}

	exam, err := s.exams.FindByID(ctx, req.ExamID)
	if err != nil {
		if err == sql.ErrNoRows {
			s.observeProposal("not_found")
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load exam")
	}

	if req.ProposedByRole != models.RoleAdmin {
		windows, err := s.sessions.CurrentWindows(ctx)
		if err != nil {
			return nil, err
		}
		if !windows.Contains(req.ExamDate) {
			s.observeProposal("outside_session")
			return nil, appErrors.Clone(appErrors.ErrValidation,
				"exam term must fall within a session window: "+windowBoundsMessage(windows))
		}
	}

	term := &models.ExamTerm{
		ExamID:         req.ExamID,
		ExamDate:       req.ExamDate,
		StartTime:      req.StartTime,
		RoomName:       req.RoomName,
		ProposedByRole: req.ProposedByRole,
		ProposedByName: req.ProposedByName,
	}

	if err := s.terms.CreateProposed(ctx, term, exam.Cohort()); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomOccupied):
			s.observeProposal("room_conflict")
			return nil, appErrors.Clone(appErrors.ErrConflict, roomOccupiedMessage(req.RoomName, req.ExamDate, req.StartTime))
		case errors.Is(err, repository.ErrCohortBusy):
			s.observeProposal("cohort_conflict")
			return nil, appErrors.Clone(appErrors.ErrConflict, cohortBusyMessage(exam.Cohort(), req.ExamDate))
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to persist exam term")
		}
	}

	s.observeProposal("admitted")
	s.recordAudit(models.AuditActionTermProposed, term.ID, string(req.ProposedByRole), req.ProposedByName, map[string]interface{}{
		"exam_id":    req.ExamID,
		"exam_date":  req.ExamDate,
		"start_time": req.StartTime,
		"room_name":  req.RoomName,
	})

	detail, err := s.terms.FindDetailByID(ctx, term.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload exam term")
	}
	return detail, nil
}

// List returns terms matching the filter, ordered by (date, time).
func (s *TermService) List(ctx context.Context, filter models.ExamTermFilter) ([]models.ExamTermDetail, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	terms, err := s.terms.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list exam terms")
	}
	return terms, nil
}

// Get returns a term with exam and subject detail.
func (s *TermService) Get(ctx context.Context, id string) (*models.ExamTermDetail, error) {
	term, err := s.terms.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load exam term")
	}
	return term, nil
}

// Decide transitions a PROPOSED term to APPROVED or REJECTED, recording the
// approver identity. Terms already decided are finalized: re-invoking the
// transition fails rather than silently flipping a terminal state. Approval
// deliberately does not re-run proposal validation.
func (s *TermService) Decide(ctx context.Context, id string, req DecideTermRequest) (*models.ExamTermDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	if req.Status != models.TermStatusApproved && req.Status != models.TermStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be APPROVED or REJECTED")
	}
	if !req.ApprovedByRole.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown approver role %q", req.ApprovedByRole))
	}

	term, err := s.terms.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load exam term")
	}

	if term.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrFinalized, fmt.Sprintf("exam term already %s", term.Status))
	}

	if err := s.terms.UpdateDecision(ctx, id, req.ApprovedByRole, req.ApprovedByName, req.Status); err != nil {
		// A concurrent decision can finalize the term between FindByID and
		// the guarded UPDATE; surface it exactly like the pre-check does.
		if errors.Is(err, repository.ErrTermFinalized) {
			return nil, appErrors.Clone(appErrors.ErrFinalized, "exam term already decided")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to record decision")
	}

	s.recordAudit(models.AuditActionTermDecided, id, string(req.ApprovedByRole), req.ApprovedByName, map[string]interface{}{
		"status": req.Status,
	})

	detail, err := s.terms.FindDetailByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload exam term")
	}
	return detail, nil
}

// CheckRoomAvailability reports whether the (room, date, time) slot is free.
// The verdict matches check 3 of the proposal sequence; excludeTermID lets a
// client re-validate an edit without colliding with the edited term itself.
func (s *TermService) CheckRoomAvailability(ctx context.Context, date, startTime, roomName, excludeTermID string) (AvailabilityResult, error) {
	if err := validateDateTime(date, startTime); err != nil {
		return AvailabilityResult{}, err
	}

	occupied, err := s.terms.RoomOccupied(ctx, date, startTime, roomName, excludeTermID)
	if err != nil {
		return AvailabilityResult{}, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to check room availability")
	}
	if occupied {
		return AvailabilityResult{Valid: false, Message: roomOccupiedMessage(roomName, date, startTime)}, nil
	}
	return AvailabilityResult{Valid: true}, nil
}

// CheckStudentAvailability reports whether the cohort is free of exams on the
// date. The verdict matches check 4 of the proposal sequence.
func (s *TermService) CheckStudentAvailability(ctx context.Context, date string, cohort models.Cohort, excludeTermID string) (AvailabilityResult, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return AvailabilityResult{}, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	if !cohort.StudyMode.Valid() {
		return AvailabilityResult{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown study mode %q", cohort.StudyMode))
	}

	busy, err := s.terms.CohortOccupied(ctx, date, cohort, excludeTermID)
	if err != nil {
		return AvailabilityResult{}, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to check student availability")
	}
	if busy {
		return AvailabilityResult{Valid: false, Message: cohortBusyMessage(cohort, date)}, nil
	}
	return AvailabilityResult{Valid: true}, nil
}

// CheckRoomCapacityAndAvailability composes room existence, capacity and slot
// freedom into one advisory verdict. It reserves nothing; the first failing
// condition's explanation is returned.
func (s *TermService) CheckRoomCapacityAndAvailability(ctx context.Context, roomName, date, startTime string, expectedCount int) (CapacityCheckResult, error) {
	if err := validateDateTime(date, startTime); err != nil {
		return CapacityCheckResult{}, err
	}
	if expectedCount <= 0 {
		return CapacityCheckResult{}, appErrors.Clone(appErrors.ErrValidation, "expected_count must be positive")
	}

	room, err := s.rooms.FindByName(ctx, roomName)
	if err != nil {
		if err == sql.ErrNoRows {
			return CapacityCheckResult{
				Available: false,
				Message:   fmt.Sprintf("room %q does not exist", roomName),
			}, nil
		}
		return CapacityCheckResult{}, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load room")
	}

	if !room.Fits(expectedCount) {
		return CapacityCheckResult{
			Available: false,
			Message:   fmt.Sprintf("room %q has capacity %d, but %d seats are needed", roomName, room.Capacity, expectedCount),
			Room:      room,
		}, nil
	}

	occupied, err := s.terms.RoomOccupied(ctx, date, startTime, roomName, "")
	if err != nil {
		return CapacityCheckResult{}, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to check room availability")
	}
	if occupied {
		return CapacityCheckResult{
			Available: false,
			Message:   roomOccupiedMessage(roomName, date, startTime),
			Room:      room,
		}, nil
	}

	return CapacityCheckResult{
		Available: true,
		Message:   fmt.Sprintf("room %q is available (capacity: %d seats)", roomName, room.Capacity),
		Room:      room,
	}, nil
}

func (s *TermService) observeProposal(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveProposal(outcome)
	}
}

func (s *TermService) recordAudit(action, resourceID, actorRole, actorName string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.Record(AuditEvent{
		Action:     action,
		Resource:   "exam_term",
		ResourceID: resourceID,
		ActorRole:  actorRole,
		ActorName:  actorName,
		Details:    details,
	})
}

func validateDateTime(date, startTime string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	if _, err := time.Parse(TimeLayout, startTime); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "time must be formatted HH:MM")
	}
	return nil
}

func roomOccupiedMessage(roomName, date, startTime string) string {
	return fmt.Sprintf("room %q is already booked on %s at %s", roomName, date, startTime)
}

func cohortBusyMessage(cohort models.Cohort, date string) string {
	return fmt.Sprintf("students of %s (%s, year %d) already have an exam on %s",
		cohort.FieldOfStudy, cohort.StudyMode, cohort.Year, date)
}
