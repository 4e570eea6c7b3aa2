package cmd

import (
	"bytes"
	"testing"

	"github.com/khanhnv2901/secdash/cmd/testutil"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zaptest"
)

// newTestAppContext installs an AppContext backed by the JSON store in a temp
// data dir, with stages running back to back and fixed scan outcomes.
func newTestAppContext(t *testing.T, checks scan.CheckProvider) *AppContext {
	t.Helper()

	env := testutil.NewTestEnv(t)
	cfg := newCLIConfig()
	cfg.Defaults.Backend = kv.BackendJSON
	cfg.Defaults.DataDir = env.DataDir
	cfg.Scan.StageInterval = 0

	appCtx := &AppContext{
		Logger:  zaptest.NewLogger(t).Sugar(),
		DataDir: env.DataDir,
		Config:  cfg,
		Checks:  checks,
	}

	original := globalAppContext
	globalAppContext = appCtx
	t.Cleanup(func() {
		globalAppContext = original
		if err := appCtx.Close(); err != nil {
			t.Errorf("close app context: %v", err)
		}
	})
	return appCtx
}

// newTestCommand returns a bare command writing to the returned buffer
func newTestCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &cobra.Command{Use: "test"}
	c.SetOut(&out)
	c.SetErr(&out)
	return c, &out
}
