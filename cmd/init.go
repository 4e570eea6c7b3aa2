package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForce bool

type fileConfig struct {
	DataDir  string         `yaml:"data_dir"`
	Store    storeSection   `yaml:"store"`
	Defaults defaultSection `yaml:"defaults"`
	Scan     scanSection    `yaml:"scan"`
	Serve    serveSection   `yaml:"serve"`
}

type storeSection struct {
	Backend string `yaml:"backend"`
}

type defaultSection struct {
	Telemetry bool `yaml:"telemetry"`
}

type scanSection struct {
	StageInterval string `yaml:"stage_interval"`
}

type serveSection struct {
	Addr      string `yaml:"addr"`
	AuthToken string `yaml:"auth_token,omitempty"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Long: `Write a YAML config file holding the effective data directory, store backend,
telemetry, scan interval and server address. The file is written to --config
when given, otherwise to ` + defaultConfigFile() + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		if appCtx == nil {
			return fmt.Errorf("application context not initialized")
		}
		path := cfgFile
		if path == "" {
			path = defaultConfigFile()
		}
		return runInit(cmd, appCtx, path, initForce)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, appCtx *AppContext, path string, force bool) error {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to inspect config file: %w", err)
	}

	data, err := marshalFileConfig(newFileConfig(appCtx))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), consts.DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// may carry serve.auth_token
	if err := os.WriteFile(path, data, consts.PrivateFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Config written: %s\n", colorSuccess("✓"), path)
	return nil
}

func newFileConfig(appCtx *AppContext) fileConfig {
	cfg := appCtx.Config
	if cfg == nil {
		cfg = newCLIConfig()
	}
	return fileConfig{
		DataDir:  appCtx.DataDir,
		Store:    storeSection{Backend: cfg.Defaults.Backend},
		Defaults: defaultSection{Telemetry: cfg.Defaults.TelemetryEnabled},
		Scan:     scanSection{StageInterval: cfg.Scan.StageInterval.String()},
		Serve:    serveSection{Addr: cfg.Serve.Addr, AuthToken: cfg.Serve.AuthToken},
	}
}

func marshalFileConfig(cfg fileConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
