package render

import (
	"fmt"
	"io"

	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/nao1215/markdown"
)

// WriteMarkdown renders rep as a Markdown document with a property table
func WriteMarkdown(w io.Writer, rep report.Report) error {
	md := markdown.NewMarkdown(w)
	md.H1("Latest Security Report")
	md.PlainText("")

	switch r := rep.(type) {
	case *report.PasswordReport:
		writePasswordMarkdown(md, r)
	case *report.WebScanReport:
		writeScanMarkdown(md, r)
	default:
		md.PlainText(NoReportMessage)
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("failed to render markdown report: %w", err)
	}
	return nil
}

func writePasswordMarkdown(md *markdown.Markdown, r *report.PasswordReport) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Type", string(r.Kind())},
			{"Date", formatTime(r.Date)},
			{"Username", "`" + r.Username + "`"},
			{"Password Strength", string(r.Strength)},
		},
	})
	md.PlainText("")

	md.H2("Violations")
	md.PlainText("")
	if len(r.Violations) == 0 {
		md.Tip("The password satisfies every rule.")
		return
	}
	md.BulletList(r.Violations...)
}

func writeScanMarkdown(md *markdown.Markdown, r *report.WebScanReport) {
	rows := [][]string{
		{"Type", string(r.Kind())},
		{"Date", formatTime(r.Date)},
		{"Website", "`" + r.Website + "`"},
		{"DNS Info", r.DNSInfo},
		{"HTTPS Check", r.HTTPSCheck},
		{"Open Admin Pages", r.OpenAdminPages},
		{"Sensitive Information", r.SensitiveInfo},
	}
	if r.Risk != "" {
		rows = append(rows, []string{"Risk Level", string(r.Risk)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch r.Risk {
	case scan.RiskHigh:
		md.Warningf("%s", r.Risk.Description())
	case scan.RiskMedium:
		md.Importantf("%s", r.Risk.Description())
	case scan.RiskLow:
		md.Note(r.Risk.Description())
	}
	md.PlainText("")
	md.PlainText("*Simulated scan: no network traffic was sent to the website.*")
}
