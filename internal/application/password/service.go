package password

import (
	"context"
	"fmt"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/report"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// Service evaluates submitted credentials, stores the acceptable ones and
// publishes the outcome as the latest report
type Service struct {
	credentials password.CredentialRepository
	reports     report.Repository
	history     password.StatsHistoryRepository
	clock       clock.PassiveClock
	logger      *zap.Logger
}

// Submission is the outcome of one credential submission
type Submission struct {
	Username   string
	Assessment password.Assessment
	Stored     bool
	Reused     bool
	Report     *report.PasswordReport
}

// NewService creates a new password service. A nil history disables statistics tracking.
func NewService(credentials password.CredentialRepository, reports report.Repository, history password.StatsHistoryRepository, clk clock.PassiveClock, logger *zap.Logger) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		credentials: credentials,
		reports:     reports,
		history:     history,
		clock:       clk,
		logger:      logger,
	}
}

// Evaluate scores a password without touching any state
func (s *Service) Evaluate(pwd string) password.Assessment {
	return password.Evaluate(pwd)
}

// Submit evaluates the password, appends the credential when it is not Weak
// and saves a password report as the latest report
func (s *Service) Submit(ctx context.Context, username, pwd string) (*Submission, error) {
	assessment := password.Evaluate(pwd)
	sub := &Submission{Username: username, Assessment: assessment}

	if assessment.Storable() {
		existing, err := s.credentials.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		sub.Reused = password.IsReused(existing, pwd)

		if err := s.credentials.Append(ctx, password.Credential{Username: username, Password: pwd}); err != nil {
			return nil, fmt.Errorf("failed to store credential: %w", err)
		}
		sub.Stored = true
	}

	now := s.clock.Now()
	sub.Report = report.NewPasswordReport(username, assessment, now)
	if err := s.reports.Save(ctx, sub.Report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	if err := s.recordStats(ctx, now); err != nil {
		return nil, err
	}

	s.logger.Info("password evaluated",
		zap.String("username", username),
		zap.String("strength", string(assessment.Tier)),
		zap.Int("violations", len(assessment.Violations)),
		zap.Bool("stored", sub.Stored),
		zap.Bool("reused", sub.Reused),
	)
	return sub, nil
}

// Credentials lists stored credentials in insertion order
func (s *Service) Credentials(ctx context.Context) ([]password.Credential, error) {
	creds, err := s.credentials.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	return creds, nil
}

// Stats summarizes stored credentials by strength
func (s *Service) Stats(ctx context.Context) (password.Stats, error) {
	creds, err := s.Credentials(ctx)
	if err != nil {
		return password.Stats{}, err
	}
	return password.Summarize(creds), nil
}

// Trend returns the recorded statistics, one entry per day, oldest first
func (s *Service) Trend(ctx context.Context) ([]password.Snapshot, error) {
	if s.history == nil {
		return []password.Snapshot{}, nil
	}
	snapshots, err := s.history.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics history: %w", err)
	}
	return password.Daily(snapshots), nil
}

// recordStats appends the current statistics to the history after every submission
func (s *Service) recordStats(ctx context.Context, at time.Time) error {
	if s.history == nil {
		return nil
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return err
	}
	if err := s.history.Append(ctx, password.Snapshot{Date: at, Stats: stats}); err != nil {
		return fmt.Errorf("failed to record statistics: %w", err)
	}
	return nil
}
