package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	"github.com/khanhnv2901/secdash/internal/shared/security"
)

// dataDirEnvVar overrides the data directory; viper maps it to the data_dir key
const dataDirEnvVar = "SECDASH_DATA_DIR"

const configFileName = "config.yaml"

// defaultDataDir follows the XDG base directory layout:
// ~/.local/share/secdash on Linux, ~/Library/Application Support/secdash on macOS,
// %LOCALAPPDATA%\secdash on Windows
func defaultDataDir() string {
	return filepath.Join(xdg.DataHome, consts.AppName)
}

func defaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, consts.AppName)
}

func defaultConfigFile() string {
	return filepath.Join(defaultConfigDir(), configFileName)
}

// ensureDataDir validates dir and creates it when missing
func ensureDataDir(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir()
	}
	clean, err := security.CleanDataDir(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(clean, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return clean, nil
}
