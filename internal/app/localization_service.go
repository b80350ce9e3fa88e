package app

import (
	"context"

	"github.com/example/flotilla/internal/ports/secondary"
)

// LocalizationServiceImpl answers whether a robot knows where it is.
type LocalizationServiceImpl struct {
	robotRepo secondary.RobotRepository
}

// NewLocalizationService creates a new LocalizationService.
func NewLocalizationService(robotRepo secondary.RobotRepository) *LocalizationServiceImpl {
	return &LocalizationServiceImpl{robotRepo: robotRepo}
}

// IsLocalized reports whether the robot has a current area. Lookup
// failures, including a missing robot, are returned as errors.
func (s *LocalizationServiceImpl) IsLocalized(ctx context.Context, robotID string) (bool, error) {
	robot, err := s.robotRepo.GetByID(ctx, robotID)
	if err != nil {
		return false, err
	}
	return robot.CurrentAreaID != "", nil
}

var _ secondary.LocalizationOracle = (*LocalizationServiceImpl)(nil)
