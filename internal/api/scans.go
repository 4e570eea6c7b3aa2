package api

import (
	"context"
	"errors"
	"sync"

	scanapp "github.com/khanhnv2901/secdash/internal/application/scan"
	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/khanhnv2901/secdash/internal/render"
	sharedErrors "github.com/khanhnv2901/secdash/internal/shared/errors"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// ScanRunner executes one simulated scan
type ScanRunner interface {
	Run(ctx context.Context, website string, observe scanapp.Observer) (*report.WebScanReport, error)
}

// ScanRequest is the body of POST /api/v1/scans
type ScanRequest struct {
	Website string `json:"website"`
}

// ScanJobs runs scans in the background and publishes every stage as a job update.
// Scans outlive the HTTP request that started them and stop when the base context is cancelled.
type ScanJobs struct {
	base    context.Context
	runner  ScanRunner
	manager *JobManager
	clock   clock.PassiveClock
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewScanJobs creates a job service whose scans are bound to base
func NewScanJobs(base context.Context, runner ScanRunner, manager *JobManager, clk clock.PassiveClock, logger *zap.Logger) *ScanJobs {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if manager == nil {
		manager = NewJobManager(clk)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanJobs{
		base:    base,
		runner:  runner,
		manager: manager,
		clock:   clk,
		logger:  logger,
	}
}

// StartJob registers a scan job and starts it in the background
func (s *ScanJobs) StartJob(_ context.Context, req ScanRequest) (*Job, error) {
	if err := s.base.Err(); err != nil {
		return nil, errors.New("server is shutting down")
	}

	job := s.manager.CreateJob("scan", req.Website)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(job.ID, req.Website)
	}()
	return job, nil
}

func (s *ScanJobs) run(id, website string) {
	started := s.clock.Now()
	s.manager.UpdateJob(id, func(j *Job) {
		j.Status = JobRunning
		j.StartedAt = &started
	})

	rep, err := s.runner.Run(s.base, website, func(f scan.Finding) {
		s.manager.UpdateJob(id, func(j *Job) {
			j.Findings = append(j.Findings, f)
		})
	})

	finished := s.clock.Now()
	s.manager.UpdateJob(id, func(j *Job) {
		j.FinishedAt = &finished
		if err != nil {
			j.Status = JobError
			j.Error = err.Error()
			return
		}
		j.Status = JobDone
		j.Report = render.NewView(rep)
	})

	if err != nil {
		s.logger.Warn("scan job failed", zap.String("job_id", id), zap.Error(err))
		return
	}
	s.logger.Info("scan job finished", zap.String("job_id", id), zap.String("risk", string(rep.Risk)))
}

func (s *ScanJobs) GetJob(_ context.Context, id string) (*Job, error) {
	job := s.manager.GetJob(id)
	if job == nil {
		return nil, sharedErrors.ErrJobNotFound
	}
	return job, nil
}

func (s *ScanJobs) ListJobs(_ context.Context, limit int) ([]Job, error) {
	return s.manager.ListJobs(limit), nil
}

func (s *ScanJobs) Subscribe() (chan Job, func()) {
	return s.manager.Subscribe()
}

// Wait blocks until every started scan has returned
func (s *ScanJobs) Wait() {
	s.wg.Wait()
}
