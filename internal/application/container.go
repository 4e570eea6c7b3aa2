package application

import (
	"fmt"
	"time"

	passwordapp "github.com/khanhnv2901/secdash/internal/application/password"
	reportapp "github.com/khanhnv2901/secdash/internal/application/report"
	scanapp "github.com/khanhnv2901/secdash/internal/application/scan"
	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/json"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/localstore"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/sqlite"
	sharedErrors "github.com/khanhnv2901/secdash/internal/shared/errors"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// Config selects the storage backend and scan behaviour for a Container
type Config struct {
	DataDir string
	Backend string

	// StageInterval is the delay between scan stages; zero runs stages back to back
	StageInterval time.Duration
	// Seed makes the simulated scan outcomes reproducible when set
	Seed *uint64

	Clock  clock.Clock
	Logger *zap.Logger

	// Checks overrides the random admin-path and sensitive-info outcomes
	Checks scan.CheckProvider
}

// Container holds all application services and repositories
// This is a simple dependency injection container
type Container struct {
	Store kv.Store

	// Repositories
	CredentialRepo password.CredentialRepository
	ReportRepo     report.Repository

	// Services
	PasswordService *passwordapp.Service
	ReportService   *reportapp.Service
	Simulator       *scanapp.Simulator
}

// NewContainer creates a new application service container
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}

	store, err := OpenStore(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	credentialRepo := localstore.NewCredentialRepository(store)
	reportRepo := localstore.NewReportRepository(store)
	statsHistory := localstore.NewStatsHistoryRepository(store)

	checks := cfg.Checks
	if checks == nil {
		checks = scan.RandomCheckProvider{Source: scanapp.NewRandomSource(cfg.Seed)}
	}

	var scheduler scanapp.Scheduler = scanapp.NewClockScheduler(cfg.Clock)
	if cfg.StageInterval <= 0 {
		scheduler = scanapp.ImmediateScheduler{}
	}

	simulator := scanapp.NewSimulator(checks, reportRepo,
		scanapp.WithScheduler(scheduler),
		scanapp.WithClock(cfg.Clock),
		scanapp.WithInterval(cfg.StageInterval),
		scanapp.WithLogger(cfg.Logger.Named("scan")),
	)

	return &Container{
		Store:           store,
		CredentialRepo:  credentialRepo,
		ReportRepo:      reportRepo,
		PasswordService: passwordapp.NewService(credentialRepo, reportRepo, statsHistory, cfg.Clock, cfg.Logger.Named("password")),
		ReportService:   reportapp.NewService(reportRepo, cfg.Logger.Named("report")),
		Simulator:       simulator,
	}, nil
}

// Close releases the underlying store
func (c *Container) Close() error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// OpenStore opens the named kv backend rooted at dataDir. An empty name selects the JSON backend.
func OpenStore(backend, dataDir string) (kv.Store, error) {
	switch backend {
	case "", kv.BackendJSON:
		store, err := json.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open json store: %w", err)
		}
		return store, nil
	case kv.BackendSQLite:
		store, err := sqlite.Open(dataDir, sqlite.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	case kv.BackendMemory:
		return kv.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("%w: unknown store backend %q", sharedErrors.ErrInvalidInput, backend)
}
