package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniterm/uniterm-api/internal/models"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
)

// DateLayout is the canonical wire format for all dates in the system.
const DateLayout = "2006-01-02"

const sessionWindowsCacheKey = "sessions:current"

type sessionPeriodRepository interface {
	List(ctx context.Context) ([]models.SessionPeriod, error)
	ListChronological(ctx context.Context) ([]models.SessionPeriod, error)
	Create(ctx context.Context, period *models.SessionPeriod) error
}

type windowsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateSessionPeriodRequest describes payload for creating session windows.
type CreateSessionPeriodRequest struct {
	Semester     string `json:"semester" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// SessionService resolves the session calendar: which windows are currently
// open for scheduling and whether a proposed date falls inside them.
type SessionService struct {
	repo      sessionPeriodRepository
	cache     windowsCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	today     func() string
}

// NewSessionService creates a new session service instance. cache may be nil.
func NewSessionService(repo sessionPeriodRepository, cache windowsCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
		today:     func() string { return time.Now().UTC().Format(DateLayout) },
	}
}

// ResolveWindows computes the current session windows from the persisted
// periods and a reference date. It is a pure function: the main window is the
// first non-retake period (in start-date order) still open on the reference
// date, the retake window likewise among retake periods; when every period of
// a kind lies in the past, the most recent one is reported so clients can
// still show the bounds.
func ResolveWindows(periods []models.SessionPeriod, today string) models.SessionWindows {
	var windows models.SessionWindows

	for i := range periods {
		p := periods[i]
		if p.IsRetake() {
			if windows.Retake == nil && today <= p.EndDate {
				windows.Retake = &periods[i]
			}
			continue
		}
		if windows.Main == nil && today <= p.EndDate {
			windows.Main = &periods[i]
		}
	}

	// Fall back to the latest past window of each kind.
	for i := len(periods) - 1; i >= 0; i-- {
		if windows.Main != nil && windows.Retake != nil {
			break
		}
		p := periods[i]
		if p.IsRetake() {
			if windows.Retake == nil {
				windows.Retake = &periods[i]
			}
		} else if windows.Main == nil {
			windows.Main = &periods[i]
		}
	}

	windows.Active = windows.Contains(today)
	if windows.Main != nil {
		windows.Message = fmt.Sprintf("%s session %s", strings.TrimSuffix(windows.Main.Semester, models.RetakeSuffix), windows.Main.AcademicYear)
	}
	return windows
}

// CurrentWindows returns the windows currently relevant for scheduling,
// served from cache when fresh.
func (s *SessionService) CurrentWindows(ctx context.Context) (models.SessionWindows, error) {
	var windows models.SessionWindows
	if s.cache != nil {
		if err := s.cache.Get(ctx, sessionWindowsCacheKey, &windows); err == nil {
			return windows, nil
		}
	}

	periods, err := s.repo.ListChronological(ctx)
	if err != nil {
		return windows, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load session periods")
	}

	windows = ResolveWindows(periods, s.today())

	if s.cache != nil {
		if err := s.cache.Set(ctx, sessionWindowsCacheKey, windows, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache session windows", zap.Error(err))
		}
	}
	return windows, nil
}

// CheckSessionDate reports whether the date falls inside a current session
// window. The failure message states the bounds of both windows so the caller
// can pick an admissible date.
func (s *SessionService) CheckSessionDate(ctx context.Context, date string) (bool, string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return false, "", appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	windows, err := s.CurrentWindows(ctx)
	if err != nil {
		return false, "", err
	}

	if windows.Contains(date) {
		return true, "", nil
	}
	return false, "date must fall within a session window: " + windowBoundsMessage(windows), nil
}

// List returns all session periods, newest first.
func (s *SessionService) List(ctx context.Context) ([]models.SessionPeriod, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list session periods")
	}
	return periods, nil
}

// Create persists a new session period and invalidates the cached windows.
func (s *SessionService) Create(ctx context.Context, req CreateSessionPeriodRequest) (*models.SessionPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session period payload")
	}
	if req.EndDate < req.StartDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must not be after end_date")
	}

	period := &models.SessionPeriod{
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session period")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, sessionWindowsCacheKey); err != nil {
			s.logger.Warn("failed to invalidate session windows cache", zap.Error(err))
		}
	}
	return period, nil
}

// windowBoundsMessage renders both window bounds for rejection messages.
func windowBoundsMessage(windows models.SessionWindows) string {
	if windows.Main == nil && windows.Retake == nil {
		return "no session windows are configured"
	}

	var parts []string
	if windows.Main != nil {
		parts = append(parts, fmt.Sprintf("%s - %s (main)", windows.Main.StartDate, windows.Main.EndDate))
	}
	if windows.Retake != nil {
		parts = append(parts, fmt.Sprintf("%s - %s (retake)", windows.Retake.StartDate, windows.Retake.EndDate))
	}
	return strings.Join(parts, " or ")
}
