package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniterm/uniterm-api/internal/models"
	"github.com/uniterm/uniterm-api/internal/repository"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
)

type examTermRepoStub struct {
	terms     map[string]models.ExamTerm
	createErr error
	updateErr error

	roomOccupied   bool
	cohortOccupied bool
	checkErr       error

	lastExcludeID string
	created       []models.ExamTerm
	decided       []models.TermStatus
}

func (s *examTermRepoStub) List(ctx context.Context, filter models.ExamTermFilter) ([]models.ExamTermDetail, error) {
	var out []models.ExamTermDetail
	for _, term := range s.terms {
		out = append(out, models.ExamTermDetail{ExamTerm: term})
	}
	return out, nil
}

func (s *examTermRepoStub) FindByID(ctx context.Context, id string) (*models.ExamTerm, error) {
	term, ok := s.terms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &term, nil
}

func (s *examTermRepoStub) FindDetailByID(ctx context.Context, id string) (*models.ExamTermDetail, error) {
	term, ok := s.terms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.ExamTermDetail{ExamTerm: term, SubjectName: "Bazy Danych"}, nil
}

func (s *examTermRepoStub) RoomOccupied(ctx context.Context, date, startTime, roomName, excludeID string) (bool, error) {
	s.lastExcludeID = excludeID
	return s.roomOccupied, s.checkErr
}

func (s *examTermRepoStub) CohortOccupied(ctx context.Context, date string, cohort models.Cohort, excludeID string) (bool, error) {
	s.lastExcludeID = excludeID
	return s.cohortOccupied, s.checkErr
}

func (s *examTermRepoStub) CreateProposed(ctx context.Context, term *models.ExamTerm, cohort models.Cohort) error {
	if s.createErr != nil {
		return s.createErr
	}
	if term.ID == "" {
		term.ID = "term-1"
	}
	term.Status = models.TermStatusProposed
	if s.terms == nil {
		s.terms = make(map[string]models.ExamTerm)
	}
	s.terms[term.ID] = *term
	s.created = append(s.created, *term)
	return nil
}

func (s *examTermRepoStub) UpdateDecision(ctx context.Context, id string, role models.UserRole, name string, status models.TermStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	term := s.terms[id]
	term.Status = status
	term.ApprovedByRole = &role
	term.ApprovedByName = &name
	s.terms[id] = term
	s.decided = append(s.decided, status)
	return nil
}

type examReaderStub struct {
	exam *models.ExamDetail
	err  error
}

func (s examReaderStub) FindByID(ctx context.Context, id string) (*models.ExamDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.exam, nil
}

type roomReaderStub struct {
	room *models.Room
	err  error
}

func (s roomReaderStub) FindByName(ctx context.Context, name string) (*models.Room, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.room, nil
}

type sessionCheckerStub struct {
	windows models.SessionWindows
	err     error
	calls   int
}

func (s *sessionCheckerStub) CurrentWindows(ctx context.Context) (models.SessionWindows, error) {
	s.calls++
	return s.windows, s.err
}

func dbExam() *models.ExamDetail {
	return &models.ExamDetail{
		Exam:                models.Exam{ID: "exam-1", SubjectID: "subj-1", InstructorName: "Dr Piotr Wiśniewski"},
		SubjectName:         "Bazy Danych",
		SubjectFieldOfStudy: "Informatyka",
		SubjectStudyMode:    models.StudyModeStationaryI,
		SubjectYear:         2,
	}
}

func openWindows() models.SessionWindows {
	return models.SessionWindows{
		Main:   &models.SessionPeriod{Semester: "winter", StartDate: "2026-02-01", EndDate: "2026-02-07"},
		Retake: &models.SessionPeriod{Semester: "winter_retake", StartDate: "2026-02-13", EndDate: "2026-02-27"},
	}
}

func proposal(role models.UserRole) ProposeTermRequest {
	return ProposeTermRequest{
		ExamID:         "exam-1",
		ExamDate:       "2026-02-03",
		StartTime:      "10:00",
		RoomName:       "A101",
		ProposedByRole: role,
		ProposedByName: "Anna Nowak",
	}
}

func newTermService(terms *examTermRepoStub, exams examReaderStub, rooms roomReaderStub, sessions *sessionCheckerStub) *TermService {
	return NewTermService(terms, exams, rooms, sessions, validator.New(), nil, nil, nil)
}

func TestProposeAdmitsValidTerm(t *testing.T) {
	terms := &examTermRepoStub{}
	svc := newTermService(terms, examReaderStub{exam: dbExam()}, roomReaderStub{}, &sessionCheckerStub{windows: openWindows()})

	detail, err := svc.Propose(context.Background(), proposal(models.RoleStarosta))
	require.NoError(t, err)
	assert.Equal(t, models.TermStatusProposed, detail.Status)
	assert.Equal(t, "Bazy Danych", detail.SubjectName)
	require.Len(t, terms.created, 1)
	assert.Equal(t, "2026-02-03", terms.created[0].ExamDate)
}

func TestProposeUnknownExam(t *testing.T) {
	svc := newTermService(&examTermRepoStub{}, examReaderStub{err: sql.ErrNoRows}, roomReaderStub{}, &sessionCheckerStub{windows: openWindows()})

	_, err := svc.Propose(context.Background(), proposal(models.RoleStudent))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProposeOutsideSessionWindow(t *testing.T) {
	svc := newTermService(&examTermRepoStub{}, examReaderStub{exam: dbExam()}, roomReaderStub{}, &sessionCheckerStub{windows: openWindows()})

	req := proposal(models.RoleStarosta)
	req.ExamDate = "2026-03-15"
	_, err := svc.Propose(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "2026-02-01 - 2026-02-07 (main)")
	assert.Contains(t, appErr.Message, "2026-02-13 - 2026-02-27 (retake)")
}

func TestProposeAdminSkipsSessionWindow(t *testing.T) {
	terms := &examTermRepoStub{}
	sessions := &sessionCheckerStub{windows: models.SessionWindows{}}
	svc := newTermService(terms, examReaderStub{exam: dbExam()}, roomReaderStub{}, sessions)

	req := proposal(models.RoleAdmin)
	req.ExamDate = "2026-05-20"
	_, err := svc.Propose(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, sessions.calls)
	assert.Len(t, terms.created, 1)
}

func TestProposeRoomConflict(t *testing.T) {
	terms := &examTermRepoStub{createErr: repository.ErrRoomOccupied}
	svc := newTermService(terms, examReaderStub{exam: dbExam()}, roomReaderStub{}, &sessionCheckerStub{windows: openWindows()})

	_, err := svc.Propose(context.Background(), proposal(models.RoleStarosta))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, `room "A101" is already booked on 2026-02-03 at 10:00`)
}

func TestProposeCohortConflict(t *testing.T) {
	terms := &examTermRepoStub{createErr: repository.ErrCohortBusy}
	svc := newTermService(terms, examReaderStub{exam: dbExam()}, roomReaderStub{}, &sessionCheckerStub{windows: openWindows()})

	_, err := svc.Propose(context.Background(), proposal(models.RoleStarosta))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "students of Informatyka (stationary_I, year 2) already have an exam on 2026-02-03")
}

func TestProposeUnknownRole(t *testing.T) {
	svc := newTermService(&examTermRepoStub{}, examReaderStub{exam: dbExam()}, roomReaderStub{}, &sessionCheckerStub{windows: openWindows()})

	req := proposal("DZIEKAN")
	_, err := svc.Propose(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDecideApprovesProposedTerm(t *testing.T) {
	terms := &examTermRepoStub{terms: map[string]models.ExamTerm{
		"term-1": {ID: "term-1", Status: models.TermStatusProposed},
	}}
	svc := newTermService(terms, examReaderStub{}, roomReaderStub{}, &sessionCheckerStub{})

	detail, err := svc.Decide(context.Background(), "term-1", DecideTermRequest{
		ApprovedByRole: models.RoleInstructor,
		ApprovedByName: "Dr Piotr Wiśniewski",
		Status:         models.TermStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TermStatusApproved, detail.Status)
	require.NotNil(t, detail.ApprovedByName)
	assert.Equal(t, "Dr Piotr Wiśniewski", *detail.ApprovedByName)
}

func TestDecideRejectsTerminalTerm(t *testing.T) {
	terms := &examTermRepoStub{terms: map[string]models.ExamTerm{
		"term-1": {ID: "term-1", Status: models.TermStatusApproved},
	}}
	svc := newTermService(terms, examReaderStub{}, roomReaderStub{}, &sessionCheckerStub{})

	_, err := svc.Decide(context.Background(), "term-1", DecideTermRequest{
		ApprovedByRole: models.RoleAdmin,
		ApprovedByName: "Administrator",
		Status:         models.TermStatusRejected,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrFinalized.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
	assert.Empty(t, terms.decided)
}

// A concurrent decision can finalize the term after the service loads it but
// before the guarded UPDATE lands; the loser surfaces FINALIZED, same as the
// pre-check.
func TestDecideLosingRaceSurfacesFinalized(t *testing.T) {
	terms := &examTermRepoStub{
		terms: map[string]models.ExamTerm{
			"term-1": {ID: "term-1", Status: models.TermStatusProposed},
		},
		updateErr: repository.ErrTermFinalized,
	}
	svc := newTermService(terms, examReaderStub{}, roomReaderStub{}, &sessionCheckerStub{})

	_, err := svc.Decide(context.Background(), "term-1", DecideTermRequest{
		ApprovedByRole: models.RoleAdmin,
		ApprovedByName: "Administrator",
		Status:         models.TermStatusRejected,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrFinalized.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestDecideRejectsProposedAsTarget(t *testing.T) {
	svc := newTermService(&examTermRepoStub{}, examReaderStub{}, roomReaderStub{}, &sessionCheckerStub{})

	_, err := svc.Decide(context.Background(), "term-1", DecideTermRequest{
		ApprovedByRole: models.RoleAdmin,
		ApprovedByName: "Administrator",
		Status:         models.TermStatusProposed,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCheckRoomAvailabilityPassesExclusion(t *testing.T) {
	terms := &examTermRepoStub{}
	svc := newTermService(terms, examReaderStub{}, roomReaderStub{}, &sessionCheckerStub{})

	result, err := svc.CheckRoomAvailability(context.Background(), "2026-02-03", "10:00", "A101", "term-9")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "term-9", terms.lastExcludeID)
}

func TestCheckRoomAvailabilityOccupied(t *testing.T) {
	terms := &examTermRepoStub{roomOccupied: true}
	svc := newTermService(terms, examReaderStub{}, roomReaderStub{}, &sessionCheckerStub{})

	result, err := svc.CheckRoomAvailability(context.Background(), "2026-02-03", "10:00", "A101", "")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, `room "A101" is already booked`)
}

func TestCheckStudentAvailabilityBusyCohort(t *testing.T) {
	terms := &examTermRepoStub{cohortOccupied: true}
	svc := newTermService(terms, examReaderStub{}, roomReaderStub{}, &sessionCheckerStub{})

	cohort := models.Cohort{FieldOfStudy: "Informatyka", StudyMode: models.StudyModeStationaryI, Year: 2}
	result, err := svc.CheckStudentAvailability(context.Background(), "2026-02-03", cohort, "")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "students of Informatyka (stationary_I, year 2)")
}

func TestCheckRoomCapacityUnknownRoom(t *testing.T) {
	svc := newTermService(&examTermRepoStub{}, examReaderStub{}, roomReaderStub{err: sql.ErrNoRows}, &sessionCheckerStub{})

	result, err := svc.CheckRoomCapacityAndAvailability(context.Background(), "Z999", "2026-02-03", "10:00", 20)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Message, `room "Z999" does not exist`)
}

func TestCheckRoomCapacityTooSmall(t *testing.T) {
	room := &models.Room{Name: "B202", Capacity: 20}
	svc := newTermService(&examTermRepoStub{}, examReaderStub{}, roomReaderStub{room: room}, &sessionCheckerStub{})

	result, err := svc.CheckRoomCapacityAndAvailability(context.Background(), "B202", "2026-02-03", "10:00", 25)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Message, `room "B202" has capacity 20, but 25 seats are needed`)
	require.NotNil(t, result.Room)
}

func TestCheckRoomCapacityAvailable(t *testing.T) {
	room := &models.Room{Name: "A103", Capacity: 100}
	svc := newTermService(&examTermRepoStub{}, examReaderStub{}, roomReaderStub{room: room}, &sessionCheckerStub{})

	result, err := svc.CheckRoomCapacityAndAvailability(context.Background(), "A103", "2026-02-03", "10:00", 80)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Contains(t, result.Message, `room "A103" is available (capacity: 100 seats)`)
}

func TestCheckRoomCapacityRejectsBadInput(t *testing.T) {
	svc := newTermService(&examTermRepoStub{}, examReaderStub{}, roomReaderStub{}, &sessionCheckerStub{})

	_, err := svc.CheckRoomCapacityAndAvailability(context.Background(), "A101", "2026-02-03", "10:00", 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CheckRoomCapacityAndAvailability(context.Background(), "A101", "03.02.2026", "10:00", 10)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProposeInfrastructureFailure(t *testing.T) {
	terms := &examTermRepoStub{createErr: errors.New("connection reset")}
	svc := newTermService(terms, examReaderStub{exam: dbExam()}, roomReaderStub{}, &sessionCheckerStub{windows: openWindows()})

	_, err := svc.Propose(context.Background(), proposal(models.RoleStarosta))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}
