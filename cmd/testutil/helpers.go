// Package testutil provides a throwaway data directory for command tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	"github.com/khanhnv2901/secdash/internal/shared/security"
)

// DataDirEnvVar mirrors the CLI's data directory override
const DataDirEnvVar = "SECDASH_DATA_DIR"

// TestEnv holds test environment configuration and cleanup functions.
type TestEnv struct {
	TmpDir       string
	DataDir      string
	cleanupFuncs []func()
	t            *testing.T
}

// NewTestEnv creates a temp directory with a data/ subdirectory.
// Usage:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	if err := os.MkdirAll(dataDir, consts.DefaultDirPerm); err != nil {
		t.Fatalf("Failed to create test data directory: %v", err)
	}

	return &TestEnv{
		TmpDir:       tmpDir,
		DataDir:      dataDir,
		t:            t,
		cleanupFuncs: []func(){},
	}
}

// WithDataDirEnv points SECDASH_DATA_DIR at the environment's data directory
// for the rest of the test.
func (e *TestEnv) WithDataDirEnv() *TestEnv {
	e.t.Helper()
	e.t.Setenv(DataDirEnvVar, e.DataDir)
	return e
}

// AddCleanup adds a cleanup function to be called when Cleanup() is called.
// Cleanup functions are called in reverse order (LIFO).
func (e *TestEnv) AddCleanup(fn func()) {
	e.cleanupFuncs = append([]func(){fn}, e.cleanupFuncs...)
}

// Cleanup runs all registered cleanup functions.
func (e *TestEnv) Cleanup() {
	for _, fn := range e.cleanupFuncs {
		fn()
	}
}

// DataPath joins elems onto the data directory.
func (e *TestEnv) DataPath(elems ...string) string {
	e.t.Helper()
	path, err := security.ResolveWithin(e.DataDir, elems...)
	if err != nil {
		e.t.Fatalf("invalid data path %v: %v", elems, err)
	}
	return path
}

// CreateFile writes content to a path relative to the temp directory.
func (e *TestEnv) CreateFile(relativePath string, content []byte) string {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, consts.DefaultFilePerm); err != nil {
		e.t.Fatalf("Failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// ReadFile reads a file relative to the temp directory.
func (e *TestEnv) ReadFile(relativePath string) []byte {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	content, err := os.ReadFile(fullPath) // #nosec G304 -- resolved within the test temp dir.
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}

	return content
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(relativePath string) bool {
	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	_, err := os.Stat(fullPath)
	return err == nil
}

// MustNotExist fails the test if the file exists.
func (e *TestEnv) MustNotExist(relativePath string) {
	e.t.Helper()
	if e.FileExists(relativePath) {
		e.t.Fatalf("File %s should not exist but does", relativePath)
	}
}

// MustExist fails the test if the file does not exist.
func (e *TestEnv) MustExist(relativePath string) {
	e.t.Helper()
	if !e.FileExists(relativePath) {
		e.t.Fatalf("File %s should exist but does not", relativePath)
	}
}

func resolveTmpPath(baseDir, relativePath string, t *testing.T) string {
	t.Helper()
	path, err := security.ResolveWithin(baseDir, relativePath)
	if err != nil {
		t.Fatalf("invalid test path %s: %v", relativePath, err)
	}
	return path
}
