package render

import (
	"embed"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/report"
)

const textTemplatePath = "templates/report.txt"

//go:embed templates/report.txt
var templateFS embed.FS

var textTemplate = template.Must(
	template.New("report.txt").Funcs(template.FuncMap{
		"formatTime": formatTime,
	}).ParseFS(templateFS, textTemplatePath),
)

type textData struct {
	Password    *report.PasswordReport
	Scan        *report.WebScanReport
	Placeholder string
}

// WriteText renders rep as labelled lines, one field per line
func WriteText(w io.Writer, rep report.Report) error {
	data := textData{Placeholder: NoReportMessage}
	switch r := rep.(type) {
	case *report.PasswordReport:
		data.Password = r
	case *report.WebScanReport:
		data.Scan = r
	}

	if err := textTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render text report: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateLayout)
}
