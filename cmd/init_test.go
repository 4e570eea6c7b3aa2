package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/spf13/viper"
)

func TestRunInit_WritesReadableConfig(t *testing.T) {
	disableColor(t)
	appCtx := newTestAppContext(t, scan.FixedCheckProvider{})
	appCtx.Config.Defaults.Backend = "sqlite"
	appCtx.Config.Scan.StageInterval = 250 * time.Millisecond
	appCtx.Config.Serve.AuthToken = "s3cret"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c, out := newTestCommand(t)
	if err := runInit(c, appCtx, path, false); err != nil {
		t.Fatalf("runInit returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Config written: "+path) {
		t.Fatalf("unexpected output %q", out.String())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("viper could not read the generated config: %v", err)
	}
	if got := v.GetString("store.backend"); got != "sqlite" {
		t.Fatalf("expected store.backend sqlite, got %q", got)
	}
	if got := v.GetDuration("scan.stage_interval"); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms interval, got %v", got)
	}
	if got := v.GetString("data_dir"); got != appCtx.DataDir {
		t.Fatalf("expected data_dir %s, got %s", appCtx.DataDir, got)
	}
	if got := v.GetString("serve.auth_token"); got != "s3cret" {
		t.Fatalf("expected auth token, got %q", got)
	}
}

func TestRunInit_RefusesOverwriteWithoutForce(t *testing.T) {
	appCtx := newTestAppContext(t, scan.FixedCheckProvider{})
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  backend: memory\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, _ := newTestCommand(t)
	if err := runInit(c, appCtx, path, false); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if err := runInit(c, appCtx, path, true); err != nil {
		t.Fatalf("runInit with force returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "backend: json") {
		t.Fatalf("expected config to be replaced, got:\n%s", data)
	}
}

func TestMarshalFileConfig_OmitsEmptyToken(t *testing.T) {
	data, err := marshalFileConfig(newFileConfig(&AppContext{DataDir: "/data", Config: newCLIConfig()}))
	if err != nil {
		t.Fatalf("marshalFileConfig returned error: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "auth_token") {
		t.Fatalf("empty auth token must be omitted:\n%s", got)
	}
	for _, want := range []string{"data_dir: /data", "stage_interval: 1s", "addr: 127.0.0.1:8080", "telemetry: false"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
}
