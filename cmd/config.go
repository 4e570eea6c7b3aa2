package cmd

import (
	"strconv"
	"time"

	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultServeAddr       = "127.0.0.1:8080"
	defaultRateLimit       = 10
	defaultRateBurst       = 20
	defaultShutdownTimeout = 30 * time.Second
	defaultMaxJobs         = 1000
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Scan     ScanRuntimeConfig
	Serve    ServeRuntimeConfig
}

// DefaultValues represent operator-level defaults, typically derived from env/config.
type DefaultValues struct {
	DataDir          string
	Backend          string
	TelemetryEnabled bool
}

// ScanRuntimeConfig consolidates flag-driven settings for the scan command.
type ScanRuntimeConfig struct {
	StageInterval   time.Duration
	Seed            uint64
	SeedSet         bool
	ProgressEnabled bool
}

// ServeRuntimeConfig groups API server options.
type ServeRuntimeConfig struct {
	Addr            string
	AuthToken       string
	CORSOrigins     []string
	RateLimit       int
	RateBurst       int
	MaxJobs         int
	ShutdownTimeout time.Duration
}

// SeedPtr returns the configured seed, or nil for a nondeterministic scan
func (c ScanRuntimeConfig) SeedPtr() *uint64 {
	if !c.SeedSet {
		return nil
	}
	seed := c.Seed
	return &seed
}

type defaultOverrides struct {
	DataDir          string
	Backend          string
	TelemetryEnabled *bool
	StageInterval    *time.Duration
	Seed             *uint64
	ServeAddr        string
	AuthToken        string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Defaults: DefaultValues{
			Backend: kv.BackendJSON,
		},
		Scan: ScanRuntimeConfig{
			StageInterval: consts.DefaultStageInterval,
		},
		Serve: ServeRuntimeConfig{
			Addr:            defaultServeAddr,
			RateLimit:       defaultRateLimit,
			RateBurst:       defaultRateBurst,
			MaxJobs:         defaultMaxJobs,
			ShutdownTimeout: defaultShutdownTimeout,
		},
	}
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("data_dir") {
		overrides.DataDir = viper.GetString("data_dir")
	}

	if viper.IsSet("store.backend") {
		overrides.Backend = viper.GetString("store.backend")
	}

	if viper.IsSet("defaults.telemetry") {
		val := viper.GetBool("defaults.telemetry")
		overrides.TelemetryEnabled = &val
	}

	if viper.IsSet("scan.stage_interval") {
		val := viper.GetDuration("scan.stage_interval")
		overrides.StageInterval = &val
	}

	if viper.IsSet("scan.seed") {
		if val, err := strconv.ParseUint(viper.GetString("scan.seed"), 10, 64); err == nil {
			overrides.Seed = &val
		}
	}

	if viper.IsSet("serve.addr") {
		overrides.ServeAddr = viper.GetString("serve.addr")
	}

	if viper.IsSet("serve.auth_token") {
		overrides.AuthToken = viper.GetString("serve.auth_token")
	}

	return overrides
}

// applyConfigDefaults merges config file and environment defaults into the runtime config
// when the user did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()
	flags := cmd.Flags()

	if overrides.DataDir != "" {
		applyStringDefault(flags, "data-dir", overrides.DataDir, func(v string) {
			cliConfig.Defaults.DataDir = v
		})
	}

	if overrides.Backend != "" {
		applyStringDefault(flags, "store", overrides.Backend, func(v string) {
			cliConfig.Defaults.Backend = v
		})
	}

	if overrides.TelemetryEnabled != nil {
		applyBoolDefault(flags, "telemetry", *overrides.TelemetryEnabled, func(v bool) {
			cliConfig.Defaults.TelemetryEnabled = v
		})
	}

	if overrides.StageInterval != nil {
		applyDurationDefault(flags, "interval", *overrides.StageInterval, func(v time.Duration) {
			cliConfig.Scan.StageInterval = v
		})
	}

	if overrides.Seed != nil {
		flag := flags.Lookup("seed")
		if flag == nil || !flag.Changed {
			cliConfig.Scan.Seed = *overrides.Seed
			cliConfig.Scan.SeedSet = true
		}
	}
	if flag := flags.Lookup("seed"); flag != nil && flag.Changed {
		cliConfig.Scan.SeedSet = true
	}

	if overrides.ServeAddr != "" {
		applyStringDefault(flags, "addr", overrides.ServeAddr, func(v string) {
			cliConfig.Serve.Addr = v
		})
	}

	if overrides.AuthToken != "" {
		applyStringDefault(flags, "auth-token", overrides.AuthToken, func(v string) {
			cliConfig.Serve.AuthToken = v
		})
	}
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyDurationDefault(flags *pflag.FlagSet, name string, value time.Duration, setter func(time.Duration)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}
