package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/khanhnv2901/secdash/internal/domain/report"
	sharedErrors "github.com/khanhnv2901/secdash/internal/shared/errors"
	"go.uber.org/zap"
)

// Service reads the latest report for display
type Service struct {
	repo   report.Repository
	logger *zap.Logger
}

// NewService creates a new report service
func NewService(repo report.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Latest returns the latest report. A missing or undecodable report yields ok=false.
func (s *Service) Latest(ctx context.Context) (rep report.Report, ok bool, err error) {
	rep, err = s.repo.LoadLatest(ctx)
	switch {
	case err == nil:
		return rep, true, nil
	case errors.Is(err, sharedErrors.ErrReportNotFound):
		return nil, false, nil
	case errors.Is(err, sharedErrors.ErrCorruptState):
		s.logger.Warn("latest report is corrupt, treating as absent", zap.Error(err))
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("failed to load latest report: %w", err)
}
