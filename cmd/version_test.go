package cmd

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	c, out := newTestCommand(t)
	c.Flags().BoolP("verbose", "v", false, "")

	versionCmd.Run(c, nil)
	if got := out.String(); got != "secdash version "+Version+"\n" {
		t.Fatalf("unexpected short version %q", got)
	}

	out.Reset()
	if err := c.Flags().Set("verbose", "true"); err != nil {
		t.Fatalf("set verbose: %v", err)
	}
	versionCmd.Run(c, nil)
	if !strings.Contains(out.String(), "Go Version: "+runtime.Version()) {
		t.Fatalf("expected detailed version, got:\n%s", out.String())
	}
}
