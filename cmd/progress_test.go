package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/khanhnv2901/secdash/internal/domain/scan"
)

func TestProgressPrinterLifecycle(t *testing.T) {
	var buf bytes.Buffer
	printer := newProgressPrinter(&buf, 0, "scan")
	if printer.total != 1 {
		t.Fatalf("expected total to be clamped to 1, got %d", printer.total)
	}

	printer.Start()
	printer.Increment(scan.RiskLow)
	printer.Increment(scan.RiskHigh)
	printer.Stop()
	printer.Stop()

	output := buf.String()
	if !strings.Contains(output, "Progress: 2/2") {
		t.Fatalf("expected summary progress, got %q", output)
	}
	if !strings.Contains(output, "Low:1") || !strings.Contains(output, "High:1") || !strings.Contains(output, "Medium:0") {
		t.Fatalf("expected risk counts in output, got %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Fatalf("expected trailing newline after stop, got %q", output)
	}
}

func TestProgressPrinterPercent(t *testing.T) {
	var buf bytes.Buffer
	printer := newProgressPrinter(&buf, 5, "scan")
	printer.Increment(scan.RiskLow)
	printer.Increment(scan.RiskMedium)
	printer.print()

	if !strings.Contains(buf.String(), "Progress: 2/5 (40.0%)") {
		t.Fatalf("unexpected progress line %q", buf.String())
	}
}
