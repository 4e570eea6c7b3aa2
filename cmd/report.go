package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/khanhnv2901/secdash/internal/render"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const (
	jsonPrefix = ""
	jsonIndent = "  "
)

var (
	reportFormat     string
	reportOutput     string
	telemetryFormat  string
	telemetryLimit   int
	telemetryTimeFmt = "2006-01-02 15:04"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the latest report and command telemetry",
}

var reportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the latest password or scan report",
	Long: `Render the most recently saved report. Only one report is kept: every
password check and every completed scan replaces it. When nothing has been saved
yet, or the stored report cannot be read, "No report available" is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportShow(cmd, reportFormat, reportOutput)
	},
}

var reportTelemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "List recorded command runs (enable with --telemetry)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportTelemetry(cmd, telemetryFormat, telemetryLimit)
	},
}

func init() {
	reportShowCmd.Flags().StringVarP(&reportFormat, "format", "f", string(render.FormatText), "output format: text, json, yaml, markdown")
	reportShowCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to this file instead of stdout")
	reportTelemetryCmd.Flags().StringVarP(&telemetryFormat, "format", "f", "table", "output format: table, json")
	reportTelemetryCmd.Flags().IntVar(&telemetryLimit, "limit", 10, "number of recent runs to display (0 for all)")

	reportCmd.AddCommand(reportShowCmd, reportTelemetryCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportShow(cmd *cobra.Command, formatName, output string) error {
	format, ok := render.ParseFormat(formatName)
	if !ok {
		return &UnsupportedFormatError{Format: formatName}
	}

	appCtx := getAppContext(cmd)
	if appCtx == nil {
		return fmt.Errorf("application context not initialized")
	}
	services, err := appCtx.Container()
	if err != nil {
		return err
	}

	rep, _, err := services.ReportService.Latest(commandContext(cmd))
	if err != nil {
		return err
	}

	if output == "" {
		return render.Render(cmd.OutOrStdout(), format, rep)
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, format, rep); err != nil {
		return err
	}
	path := filepath.Clean(output)
	if err := os.WriteFile(path, buf.Bytes(), consts.DefaultFilePerm); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", path)
	return nil
}

func runReportTelemetry(cmd *cobra.Command, format string, limit int) error {
	appCtx := getAppContext(cmd)
	if appCtx == nil {
		return fmt.Errorf("application context not initialized")
	}

	history, err := loadTelemetryHistory(appCtx.DataDir, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		if history == nil {
			history = []telemetryRecord{}
		}
		payload, err := json.MarshalIndent(history, jsonPrefix, jsonIndent)
		if err != nil {
			return fmt.Errorf("marshal telemetry: %w", err)
		}
		fmt.Fprintln(out, string(payload))
	case "table", "":
		if len(history) == 0 {
			fmt.Fprintf(out, "%s telemetry records found\n", colorWarn("No"))
			return nil
		}
		return writeTelemetryTable(out, history)
	default:
		return fmt.Errorf("unsupported format %q (use table or json)", format)
	}
	return nil
}

func writeTelemetryTable(out io.Writer, records []telemetryRecord) error {
	table := tablewriter.NewWriter(out)
	table.Header("Time", "Command", "Subject", "Outcome", "Duration")
	for _, rec := range records {
		if err := table.Append([]string{
			rec.Timestamp.Local().Format(telemetryTimeFmt),
			rec.Command,
			rec.Subject,
			rec.Outcome,
			strconv.FormatFloat(rec.DurationSeconds, 'f', 2, 64) + "s",
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
