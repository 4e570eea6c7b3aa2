package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/khanhnv2901/secdash/internal/application"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// AppContext carries the state shared by every command invocation
type AppContext struct {
	Logger   *zap.SugaredLogger
	DataDir  string
	Config   *CLIConfig
	Services *application.Container
	Clock    clock.Clock

	// Checks overrides the simulated scan outcomes; nil keeps them random
	Checks scan.CheckProvider
}

type appContextKey struct{}

var globalAppContext *AppContext

var rootCmd = &cobra.Command{
	Use:   consts.AppName,
	Short: "Password strength checks and simulated website scans with a latest-report dashboard",
	Long: `secdash evaluates password strength against a fixed rule set and runs a
simulated, five-stage website scan. The most recent result of either is kept as
the latest report.

The scan is a scripted simulation: it never resolves DNS or sends traffic to the
website. Accepted credentials are stored in plaintext in the data directory;
this is a demonstration tool, do not use real passwords.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		if cmd == versionCmd {
			return nil
		}

		initConfig()
		applyConfigDefaults(cmd)

		logger, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		if err := validateBackend(cliConfig.Defaults.Backend); err != nil {
			return err
		}

		dataDir := cliConfig.Defaults.DataDir
		if cliConfig.Defaults.Backend != kv.BackendMemory || dataDir != "" {
			dataDir, err = ensureDataDir(dataDir)
			if err != nil {
				return err
			}
		}

		logger.Debugw("configuration loaded",
			"data_dir", dataDir,
			"store", cliConfig.Defaults.Backend,
			"config_file", viper.ConfigFileUsed(),
		)

		storeAppContext(cmd, &AppContext{
			Logger:  logger,
			DataDir: dataDir,
			Config:  cliConfig,
			Clock:   clock.RealClock{},
		})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		if appCtx == nil {
			return nil
		}
		if appCtx.Logger != nil {
			_ = appCtx.Logger.Sync()
		}
		return appCtx.Close()
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel the command context
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+defaultConfigFile()+" or $HOME/.secdash.yaml)")
	rootCmd.PersistentFlags().StringVar(&cliConfig.Defaults.DataDir, "data-dir", "", "data directory (default is "+defaultDataDir()+")")
	rootCmd.PersistentFlags().StringVar(&cliConfig.Defaults.Backend, "store", kv.BackendJSON, "storage backend: "+strings.Join(kv.Backends(), ", "))
	rootCmd.PersistentFlags().BoolVar(&cliConfig.Defaults.TelemetryEnabled, "telemetry", false, "append a JSONL telemetry record per command run")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "enable development logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(defaultConfigDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SECDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// AutomaticEnv only answers IsSet for bound keys
	_ = viper.BindEnv("data_dir", dataDirEnvVar)
	for _, key := range []string{"store.backend", "defaults.telemetry", "scan.stage_interval", "scan.seed", "serve.addr", "serve.auth_token"} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil && cfgFile == "" {
		// fall back to the legacy home-directory location
		if home, herr := os.UserHomeDir(); herr == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName("." + consts.AppName)
			_ = viper.ReadInConfig()
		}
	}
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return l.Sugar(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func validateBackend(name string) error {
	for _, b := range kv.Backends() {
		if name == b {
			return nil
		}
	}
	return &UnknownBackendError{Backend: name}
}

// Container opens the application services on first use
func (a *AppContext) Container() (*application.Container, error) {
	if a.Services != nil {
		return a.Services, nil
	}

	logger := zap.NewNop()
	if a.Logger != nil {
		logger = a.Logger.Desugar()
	}
	cfg := a.Config
	if cfg == nil {
		cfg = newCLIConfig()
	}

	services, err := application.NewContainer(application.Config{
		DataDir:       a.DataDir,
		Backend:       cfg.Defaults.Backend,
		StageInterval: cfg.Scan.StageInterval,
		Seed:          cfg.Scan.SeedPtr(),
		Clock:         a.Clock,
		Logger:        logger,
		Checks:        a.Checks,
	})
	if err != nil {
		return nil, err
	}
	a.Services = services
	return services, nil
}

// Close releases the services opened by Container
func (a *AppContext) Close() error {
	if a.Services == nil {
		return nil
	}
	err := a.Services.Close()
	a.Services = nil
	return err
}

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if ctx := cmd.Context(); ctx != nil {
		if appCtx, ok := ctx.Value(appContextKey{}).(*AppContext); ok {
			return appCtx
		}
	}
	return globalAppContext
}

// commandContext returns the command's context, or a background context outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
