package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniterm/uniterm-api/internal/models"
)

func newExamTermRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func informatykaCohort() models.Cohort {
	return models.Cohort{FieldOfStudy: "Informatyka", StudyMode: models.StudyModeStationaryI, Year: 2}
}

func proposedTerm() *models.ExamTerm {
	return &models.ExamTerm{
		ExamID:         "exam-1",
		ExamDate:       "2026-02-03",
		StartTime:      "10:00",
		RoomName:       "A101",
		ProposedByRole: models.RoleStarosta,
		ProposedByName: "Anna Nowak",
	}
}

func TestExamTermRepositoryRoomOccupied(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM exam_terms WHERE exam_date = $1 AND start_time = $2 AND room_name = $3 AND status <> $4 LIMIT 1")).
		WithArgs("2026-02-03", "10:00", "A101", models.TermStatusRejected).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	occupied, err := repo.RoomOccupied(context.Background(), "2026-02-03", "10:00", "A101", "")
	require.NoError(t, err)
	assert.True(t, occupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamTermRepositoryRoomOccupiedExcludesTerm(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM exam_terms WHERE exam_date = $1 AND start_time = $2 AND room_name = $3 AND status <> $4 AND id <> $5 LIMIT 1")).
		WithArgs("2026-02-03", "10:00", "A101", models.TermStatusRejected, "term-9").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	occupied, err := repo.RoomOccupied(context.Background(), "2026-02-03", "10:00", "A101", "term-9")
	require.NoError(t, err)
	assert.False(t, occupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamTermRepositoryCohortOccupied(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	mock.ExpectQuery("SELECT 1 FROM exam_terms t").
		WithArgs("2026-02-03", "Informatyka", models.StudyModeStationaryI, 2, models.TermStatusRejected).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	busy, err := repo.CohortOccupied(context.Background(), "2026-02-03", informatykaCohort(), "")
	require.NoError(t, err)
	assert.True(t, busy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamTermRepositoryCreateProposed(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("2026-02-03").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM exam_terms WHERE exam_date = $1 AND start_time = $2 AND room_name = $3 AND status <> $4 LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectQuery("SELECT 1 FROM exam_terms t").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectExec("INSERT INTO exam_terms").
		WithArgs(sqlmock.AnyArg(), "exam-1", "2026-02-03", "10:00", "A101", models.RoleStarosta, "Anna Nowak", models.TermStatusProposed, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	term := proposedTerm()
	err := repo.CreateProposed(context.Background(), term, informatykaCohort())
	require.NoError(t, err)
	assert.NotEmpty(t, term.ID)
	assert.Equal(t, models.TermStatusProposed, term.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamTermRepositoryCreateProposedRoomTaken(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("2026-02-03").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM exam_terms WHERE exam_date = $1 AND start_time = $2 AND room_name = $3 AND status <> $4 LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.CreateProposed(context.Background(), proposedTerm(), informatykaCohort())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoomOccupied))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamTermRepositoryCreateProposedUniqueViolation(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM exam_terms WHERE exam_date = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectQuery("SELECT 1 FROM exam_terms t").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectExec("INSERT INTO exam_terms").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "exam_terms_room_slot_idx"})
	mock.ExpectRollback()

	err := repo.CreateProposed(context.Background(), proposedTerm(), informatykaCohort())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoomOccupied))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamTermRepositoryUpdateDecision(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	mock.ExpectExec(`UPDATE exam_terms SET approved_by_role = \$2, approved_by_name = \$3, status = \$4 WHERE id = \$1 AND status = \$5`).
		WithArgs("term-1", models.RoleInstructor, "Dr Piotr Wiśniewski", models.TermStatusApproved, models.TermStatusProposed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdateDecision(context.Background(), "term-1", models.RoleInstructor, "Dr Piotr Wiśniewski", models.TermStatusApproved)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The UPDATE matches only rows still PROPOSED; when a concurrent decision got
// there first, zero rows match and the caller sees ErrTermFinalized instead
// of a silent overwrite.
func TestExamTermRepositoryUpdateDecisionLosesRaceToConcurrentDecision(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	mock.ExpectExec(`UPDATE exam_terms SET approved_by_role = \$2, approved_by_name = \$3, status = \$4 WHERE id = \$1 AND status = \$5`).
		WithArgs("term-1", models.RoleAdmin, "Admin Systemu", models.TermStatusRejected, models.TermStatusProposed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDecision(context.Background(), "term-1", models.RoleAdmin, "Admin Systemu", models.TermStatusRejected)
	require.ErrorIs(t, err, ErrTermFinalized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamTermRepositoryListOrdersBySchedule(t *testing.T) {
	db, mock, cleanup := newExamTermRepoMock(t)
	defer cleanup()
	repo := NewExamTermRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "exam_id", "exam_date", "start_time", "room_name",
		"proposed_by_role", "proposed_by_name", "approved_by_role", "approved_by_name",
		"status", "created_at",
		"instructor_name", "subject_name", "subject_field_of_study", "subject_study_mode", "subject_year",
	}).AddRow("term-1", "exam-1", "2026-02-03", "10:00", "A101",
		"STAROSTA", "Anna Nowak", nil, nil,
		"PROPOSED", now,
		"Dr Piotr Wiśniewski", "Bazy Danych", "Informatyka", "stationary_I", 2)

	mock.ExpectQuery("ORDER BY t.exam_date ASC, t.start_time ASC").
		WithArgs("Informatyka").
		WillReturnRows(rows)

	terms, err := repo.List(context.Background(), models.ExamTermFilter{FieldOfStudy: "Informatyka"})
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "Bazy Danych", terms[0].SubjectName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
