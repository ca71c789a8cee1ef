package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniterm/uniterm-api/internal/models"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
)

type sessionPeriodRepoStub struct {
	periods []models.SessionPeriod
	err     error
	created []models.SessionPeriod
}

func (s *sessionPeriodRepoStub) List(ctx context.Context) ([]models.SessionPeriod, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.periods, nil
}

func (s *sessionPeriodRepoStub) ListChronological(ctx context.Context) ([]models.SessionPeriod, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.periods, nil
}

func (s *sessionPeriodRepoStub) Create(ctx context.Context, period *models.SessionPeriod) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *period)
	return nil
}

func winterCalendar() []models.SessionPeriod {
	return []models.SessionPeriod{
		{ID: "p1", Semester: "winter", AcademicYear: "2025/2026", StartDate: "2026-02-01", EndDate: "2026-02-07"},
		{ID: "p2", Semester: "winter_retake", AcademicYear: "2025/2026", StartDate: "2026-02-13", EndDate: "2026-02-27"},
	}
}

func newSessionService(repo *sessionPeriodRepoStub, today string) *SessionService {
	svc := NewSessionService(repo, nil, 0, validator.New(), nil)
	svc.today = func() string { return today }
	return svc
}

func TestResolveWindowsPicksOpenMainAndRetake(t *testing.T) {
	windows := ResolveWindows(winterCalendar(), "2026-01-15")
	require.NotNil(t, windows.Main)
	require.NotNil(t, windows.Retake)
	assert.Equal(t, "winter", windows.Main.Semester)
	assert.Equal(t, "winter_retake", windows.Retake.Semester)
	assert.False(t, windows.Active)
	assert.Equal(t, "winter session 2025/2026", windows.Message)
}

func TestResolveWindowsInclusiveBounds(t *testing.T) {
	for _, date := range []string{"2026-02-01", "2026-02-07", "2026-02-13", "2026-02-27"} {
		windows := ResolveWindows(winterCalendar(), date)
		assert.True(t, windows.Contains(date), "date %s should be inside a window", date)
	}
	for _, date := range []string{"2026-01-31", "2026-02-08", "2026-02-12", "2026-02-28"} {
		windows := ResolveWindows(winterCalendar(), date)
		assert.False(t, windows.Contains(date), "date %s should be outside both windows", date)
	}
}

func TestResolveWindowsFallsBackToLatestPast(t *testing.T) {
	periods := []models.SessionPeriod{
		{ID: "old", Semester: "winter", StartDate: "2025-02-01", EndDate: "2025-02-07"},
		{ID: "new", Semester: "winter", StartDate: "2026-02-01", EndDate: "2026-02-07"},
	}
	windows := ResolveWindows(periods, "2026-06-01")
	require.NotNil(t, windows.Main)
	assert.Equal(t, "new", windows.Main.ID)
	assert.Nil(t, windows.Retake)
	assert.False(t, windows.Active)
}

func TestCheckSessionDateInsideWindow(t *testing.T) {
	svc := newSessionService(&sessionPeriodRepoStub{periods: winterCalendar()}, "2026-02-01")
	valid, message, err := svc.CheckSessionDate(context.Background(), "2026-02-03")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Empty(t, message)
}

func TestCheckSessionDateOutsideWindowExplainsBounds(t *testing.T) {
	svc := newSessionService(&sessionPeriodRepoStub{periods: winterCalendar()}, "2026-02-01")
	valid, message, err := svc.CheckSessionDate(context.Background(), "2026-03-01")
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Contains(t, message, "2026-02-01 - 2026-02-07 (main)")
	assert.Contains(t, message, "2026-02-13 - 2026-02-27 (retake)")
}

func TestCheckSessionDateRejectsMalformedDate(t *testing.T) {
	svc := newSessionService(&sessionPeriodRepoStub{periods: winterCalendar()}, "2026-02-01")
	_, _, err := svc.CheckSessionDate(context.Background(), "01/02/2026")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSessionCreateRejectsInvertedRange(t *testing.T) {
	repo := &sessionPeriodRepoStub{}
	svc := newSessionService(repo, "2026-02-01")
	_, err := svc.Create(context.Background(), CreateSessionPeriodRequest{
		Semester:     "summer",
		AcademicYear: "2025/2026",
		StartDate:    "2026-07-10",
		EndDate:      "2026-06-15",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestSessionCreatePersistsPeriod(t *testing.T) {
	repo := &sessionPeriodRepoStub{}
	svc := newSessionService(repo, "2026-02-01")
	period, err := svc.Create(context.Background(), CreateSessionPeriodRequest{
		Semester:     "summer",
		AcademicYear: "2025/2026",
		StartDate:    "2026-06-15",
		EndDate:      "2026-07-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "summer", period.Semester)
	assert.Len(t, repo.created, 1)
}
