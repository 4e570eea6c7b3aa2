package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/khanhnv2901/secdash/internal/api"
	"github.com/khanhnv2901/secdash/internal/application"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the password checker and scan simulator as a REST API",
	Long: `Serve the JSON API under /api/v1:

  POST /api/v1/passwords        evaluate and store a credential
  GET  /api/v1/credentials      list stored usernames
  POST /api/v1/scans            start a simulated scan (202 Accepted)
  GET  /api/v1/scans[/{id}]     inspect scan jobs
  GET  /api/v1/scans-stream     server-sent events, one per stage
  GET  /api/v1/reports/latest   the latest report
  GET  /api/v1/health, /ready   liveness and readiness

Running scans are cancelled on shutdown and leave the latest report untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		if appCtx == nil {
			return fmt.Errorf("application context not initialized")
		}
		return runServe(commandContext(cmd), cmd, appCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&cliConfig.Serve.Addr, "addr", defaultServeAddr, "address for the API server")
	serveCmd.Flags().StringVar(&cliConfig.Serve.AuthToken, "auth-token", "", "optional shared secret expected in X-Auth-Token")
	serveCmd.Flags().DurationVar(&cliConfig.Serve.ShutdownTimeout, "shutdown-timeout", defaultShutdownTimeout, "maximum time to wait for graceful shutdown")
	serveCmd.Flags().StringSliceVar(&cliConfig.Serve.CORSOrigins, "cors-origins", []string{}, "allowed CORS origins (comma-separated, empty = allow all)")
	serveCmd.Flags().IntVar(&cliConfig.Serve.RateLimit, "rate-limit", defaultRateLimit, "requests per second per IP (0 = disabled)")
	serveCmd.Flags().IntVar(&cliConfig.Serve.RateBurst, "rate-burst", defaultRateBurst, "burst size for rate limiter")
	serveCmd.Flags().IntVar(&cliConfig.Serve.MaxJobs, "max-jobs", defaultMaxJobs, "scan jobs kept in memory before finished ones are pruned")
	serveCmd.Flags().DurationVar(&cliConfig.Scan.StageInterval, "interval", consts.DefaultStageInterval, "delay between scan stages")
	serveCmd.Flags().Uint64Var(&cliConfig.Scan.Seed, "seed", 0, "seed for reproducible scan outcomes")

	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cmd *cobra.Command, appCtx *AppContext) error {
	services, err := appCtx.Container()
	if err != nil {
		return err
	}
	cfg := appCtx.Config
	if cfg == nil {
		cfg = newCLIConfig()
	}

	logger := zap.NewNop()
	if appCtx.Logger != nil {
		logger = appCtx.Logger.Desugar()
	}

	ln, err := net.Listen("tcp", cfg.Serve.Addr)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s API server listening on %s (store: %s)\n", colorInfo("→"), ln.Addr(), cfg.Defaults.Backend)
	fmt.Fprintf(out, "%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))

	return serveListener(ctx, ln, out, services, cfg.Serve, logger)
}

// serveListener serves the API on ln until ctx is cancelled. Request contexts
// derive from ctx so open event streams end when shutdown begins.
func serveListener(ctx context.Context, ln net.Listener, out io.Writer, services *application.Container, cfg ServeRuntimeConfig, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	handler, jobs := newServeHandler(gctx, services, cfg, logger)

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// scans-stream holds connections open
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return gctx
		},
	}

	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintf(out, "\n%s Shutting down...\n", colorInfo("→"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		if err != nil {
			if closeErr := httpServer.Close(); closeErr != nil {
				err = fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
			} else {
				err = fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}
		}
		jobs.Wait()
		if err == nil {
			fmt.Fprintf(out, "%s Server shutdown complete\n", colorSuccess("✓"))
		}
		return err
	})

	return g.Wait()
}

// newServeHandler wires the API server to the application services; scans are bound to base
func newServeHandler(base context.Context, services *application.Container, cfg ServeRuntimeConfig, logger *zap.Logger) (http.Handler, *api.ScanJobs) {
	manager := api.NewJobManager(nil)
	manager.SetMaxJobs(cfg.MaxJobs)
	jobs := api.NewScanJobs(base, services.Simulator, manager, nil, logger.Named("jobs"))

	server := api.NewServer(api.Config{
		Passwords:   services.PasswordService,
		Reports:     services.ReportService,
		Health:      &healthAPIService{store: services.Store},
		Jobs:        jobs,
		AuthToken:   cfg.AuthToken,
		Logger:      logger.Named("api"),
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
	})
	return server, jobs
}

type healthAPIService struct {
	store kv.Store
}

func (s *healthAPIService) Check(ctx context.Context) error {
	return ctx.Err()
}

// Ready reports whether the store answers reads
func (s *healthAPIService) Ready(ctx context.Context) error {
	if s.store == nil {
		return errors.New("store not initialized")
	}
	if _, err := s.store.Get(ctx, consts.LatestReportKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("store not ready: %w", err)
	}
	return nil
}
