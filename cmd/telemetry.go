package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	"github.com/khanhnv2901/secdash/internal/shared/security"
)

const telemetryFileName = "telemetry.jsonl"

// telemetryRecord is one line of telemetry.jsonl
type telemetryRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	Command         string    `json:"command"`
	Subject         string    `json:"subject,omitempty"`
	Outcome         string    `json:"outcome"`
	Stored          bool      `json:"stored,omitempty"`
	FindingCount    int       `json:"finding_count,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
}

var errNoTelemetryDir = errors.New("telemetry requires a data directory")

// recordTelemetry appends rec to the data directory's telemetry log
func recordTelemetry(appCtx *AppContext, rec telemetryRecord) error {
	if appCtx == nil || appCtx.DataDir == "" {
		return errNoTelemetryDir
	}
	if rec.Timestamp.IsZero() {
		if appCtx.Clock != nil {
			rec.Timestamp = appCtx.Clock.Now().UTC()
		} else {
			rec.Timestamp = time.Now().UTC()
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	telemetryPath, err := security.ResolveWithin(appCtx.DataDir, telemetryFileName)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(telemetryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, consts.DefaultFilePerm) // #nosec G304 -- path resolved within the data directory.
	if err != nil {
		return fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}

	return nil
}

// maybeRecordTelemetry records rec when telemetry is enabled; failures are only logged
func maybeRecordTelemetry(appCtx *AppContext, rec telemetryRecord) {
	if appCtx == nil || appCtx.Config == nil || !appCtx.Config.Defaults.TelemetryEnabled {
		return
	}
	if err := recordTelemetry(appCtx, rec); err != nil && appCtx.Logger != nil {
		appCtx.Logger.Warnw("failed to record telemetry", "command", rec.Command, "error", err)
	}
}

// loadTelemetryHistory returns the newest records first, at most limit when limit > 0
func loadTelemetryHistory(dataDir string, limit int) ([]telemetryRecord, error) {
	if dataDir == "" {
		return nil, errNoTelemetryDir
	}
	telemetryPath, err := security.ResolveWithin(dataDir, telemetryFileName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(telemetryPath) // #nosec G304 -- path resolved within the data directory.
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	var records []telemetryRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec telemetryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			// partial trailing line from an interrupted write
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read telemetry: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
