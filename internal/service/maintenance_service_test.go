package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniterm/uniterm-api/internal/models"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
)

type maintenanceRepoStub struct {
	result models.SweepResult
	err    error
	calls  int
}

func (s *maintenanceRepoStub) RemoveDuplicates(ctx context.Context) (models.SweepResult, error) {
	s.calls++
	if s.err != nil {
		return models.SweepResult{}, s.err
	}
	return s.result, nil
}

func TestRemoveDuplicatesReportsCounts(t *testing.T) {
	repo := &maintenanceRepoStub{result: models.SweepResult{Subjects: 2, ExamTerms: 3}}
	svc := NewMaintenanceService(repo, nil, nil, nil)

	result, err := svc.RemoveDuplicates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Subjects)
	assert.Equal(t, 3, result.ExamTerms)
	assert.Equal(t, 5, result.Total())
}

func TestRemoveDuplicatesSurfacesRollback(t *testing.T) {
	repo := &maintenanceRepoStub{err: errors.New("deadlock detected")}
	svc := NewMaintenanceService(repo, nil, nil, nil)

	_, err := svc.RemoveDuplicates(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "rolled back")
}

func TestRemoveDuplicatesIdempotentWhenClean(t *testing.T) {
	repo := &maintenanceRepoStub{}
	svc := NewMaintenanceService(repo, nil, nil, nil)

	first, err := svc.RemoveDuplicates(context.Background())
	require.NoError(t, err)
	second, err := svc.RemoveDuplicates(context.Background())
	require.NoError(t, err)
	assert.Zero(t, first.Total())
	assert.Zero(t, second.Total())
	assert.Equal(t, 2, repo.calls)
}
