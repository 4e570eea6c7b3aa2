package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/secdash/internal/shared/errors"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// Observer receives each stage finding as soon as the stage becomes visible
type Observer func(scan.Finding)

// Simulator runs the staged, simulated website scan. No network traffic is generated:
// DNS data is a placeholder and the admin-path and sensitive-info outcomes come from
// the CheckProvider.
type Simulator struct {
	stages    []Stage
	reports   report.Repository
	scheduler Scheduler
	clock     clock.PassiveClock
	interval  time.Duration
	logger    *zap.Logger
}

// Option configures a Simulator
type Option func(*Simulator)

// WithScheduler replaces the wall-clock scheduler
func WithScheduler(s Scheduler) Option {
	return func(sim *Simulator) {
		sim.scheduler = s
	}
}

// WithClock sets the clock used for the scan start and the report timestamp
func WithClock(c clock.PassiveClock) Option {
	return func(sim *Simulator) {
		sim.clock = c
	}
}

// WithInterval sets the delay between consecutive stages
func WithInterval(d time.Duration) Option {
	return func(sim *Simulator) {
		if d >= 0 {
			sim.interval = d
		}
	}
}

// WithLogger sets a structured logger
func WithLogger(l *zap.Logger) Option {
	return func(sim *Simulator) {
		sim.logger = l
	}
}

// NewSimulator creates a simulator that decides random outcomes with checks
// and persists the final report through reports
func NewSimulator(checks scan.CheckProvider, reports report.Repository, opts ...Option) *Simulator {
	sim := &Simulator{
		stages:   DefaultStages(checks),
		reports:  reports,
		interval: consts.DefaultStageInterval,
	}
	for _, opt := range opts {
		opt(sim)
	}
	if sim.clock == nil {
		sim.clock = clock.RealClock{}
	}
	if sim.scheduler == nil {
		sim.scheduler = NewClockScheduler(clock.RealClock{})
	}
	if sim.logger == nil {
		sim.logger = zap.NewNop()
	}
	return sim
}

// StageCount returns the number of stages including finalization
func (s *Simulator) StageCount() int {
	return len(s.stages) + 1
}

// Interval returns the delay between stages
func (s *Simulator) Interval() time.Duration {
	return s.interval
}

// Run executes every stage in order, stage i becoming visible at start+i*interval,
// then assembles the report from the accumulated state and saves it as the latest report.
// A cancelled context stops the scan before the next stage; nothing is saved in that case.
func (s *Simulator) Run(ctx context.Context, website string, observe Observer) (*report.WebScanReport, error) {
	start := s.clock.Now()
	state := scan.NewState(website)

	s.logger.Info("scan started", zap.String("website", website), zap.Duration("interval", s.interval))

	for i, stage := range s.stages {
		if err := s.wait(ctx, start, i+1, stage.Name()); err != nil {
			return nil, err
		}
		finding := stage.Run(ctx, state)
		state.Record(finding)
		s.emit(observe, finding)
	}

	if err := s.wait(ctx, start, len(s.stages)+1, scan.StageFinalize); err != nil {
		return nil, err
	}

	rep := report.NewWebScanReport(state, s.clock.Now())
	if err := s.reports.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to save scan report: %w", err)
	}

	finding := scan.Finding{
		Stage:  scan.StageFinalize,
		Title:  "Scan Complete",
		Detail: scan.ScanCompleteMessage,
		Risk:   rep.Risk,
	}
	state.Record(finding)
	s.emit(observe, finding)

	s.logger.Info("scan complete",
		zap.String("website", website),
		zap.String("risk", string(rep.Risk)),
		zap.Duration("elapsed", s.clock.Since(start)),
	)
	return rep, nil
}

func (s *Simulator) wait(ctx context.Context, start time.Time, position int, name scan.StageName) error {
	if err := s.scheduler.WaitUntil(ctx, start, time.Duration(position)*s.interval); err != nil {
		s.logger.Warn("scan cancelled", zap.String("stage", string(name)), zap.Error(err))
		return fmt.Errorf("%w: %w", sharedErrors.ErrScanCancelled, err)
	}
	return nil
}

func (s *Simulator) emit(observe Observer, f scan.Finding) {
	s.logger.Debug("stage complete", zap.String("stage", string(f.Stage)), zap.String("risk", string(f.Risk)))
	if observe != nil {
		observe(f)
	}
}
