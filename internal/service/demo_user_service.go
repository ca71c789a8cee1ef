package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/uniterm/uniterm-api/internal/models"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
)

type demoUserRepository interface {
	List(ctx context.Context) ([]models.DemoUser, error)
}

// DemoUserService serves the canned identities for the demo UI dropdown.
type DemoUserService struct {
	repo   demoUserRepository
	logger *zap.Logger
}

// NewDemoUserService creates a new demo user service instance.
func NewDemoUserService(repo demoUserRepository, logger *zap.Logger) *DemoUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemoUserService{repo: repo, logger: logger}
}

// List returns all demo users.
func (s *DemoUserService) List(ctx context.Context) ([]models.DemoUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list demo users")
	}
	return users, nil
}
