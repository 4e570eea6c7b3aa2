package cmd

import (
	"fmt"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/khanhnv2901/secdash/internal/render"
	"github.com/spf13/cobra"
)

var (
	scanWebsite string
	scanFormat  string
)

var scanCmd = &cobra.Command{
	Use:   "scan [website]",
	Short: "Run a simulated five-stage scan of a website",
	Long: `Run a simulated scan and save the result as the latest report.

Stages become visible one interval apart: DNS lookup, HTTPS check, open admin
page check, exposed sensitive information check and finalization. Nothing is
sent over the network; the DNS result is a placeholder and the admin page and
sensitive information outcomes are random (reproducible with --seed).

Interrupting the scan (Ctrl+C) before finalization leaves the latest report
unchanged.`,
	Example: `  secdash scan https://example.com
  secdash scan --website http://example.com --interval 0 --seed 42 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		website := scanWebsite
		if len(args) == 1 {
			if cmd.Flags().Changed("website") {
				return fmt.Errorf("website given both as argument and --website")
			}
			website = args[0]
		}
		return runScan(cmd, website, scanFormat)
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanWebsite, "website", "w", "", "website to scan (free text, e.g. https://example.com)")
	scanCmd.Flags().DurationVar(&cliConfig.Scan.StageInterval, "interval", cliConfig.Scan.StageInterval, "delay between stages (0 runs them back to back)")
	scanCmd.Flags().Uint64Var(&cliConfig.Scan.Seed, "seed", 0, "seed for reproducible scan outcomes")
	scanCmd.Flags().BoolVar(&cliConfig.Scan.ProgressEnabled, "progress", false, "show a progress line on stderr")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", string(render.FormatText), "final report format: text, json, yaml, markdown")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, website, formatName string) error {
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
	simulator := services.Simulator

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (simulated, %d stages, %s apart)\n",
		colorInfo("Scanning"), website, simulator.StageCount(), simulator.Interval())

	var progress *progressPrinter
	if appCtx.Config != nil && appCtx.Config.Scan.ProgressEnabled {
		progress = newProgressPrinter(cmd.ErrOrStderr(), simulator.StageCount(), "scan")
		progress.Start()
	}

	findings := 0
	start := time.Now()
	rep, err := simulator.Run(commandContext(cmd), website, func(f scan.Finding) {
		findings++
		if progress != nil {
			progress.Increment(f.Risk)
		}
		fmt.Fprintln(out, formatFinding(f))
	})
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nRisk Level: %s\n\n", formatRiskWithColor(rep.Risk))
	if err := render.Render(out, format, rep); err != nil {
		return err
	}

	maybeRecordTelemetry(appCtx, telemetryRecord{
		Command:         "scan",
		Subject:         website,
		Outcome:         string(rep.Risk),
		FindingCount:    findings,
		DurationSeconds: time.Since(start).Seconds(),
	})
	return nil
}
