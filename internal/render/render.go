package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/report"
)

// Format names a report rendering
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// NoReportMessage is shown wherever the latest report is absent
const NoReportMessage = "No report available"

// DateLayout is the human readable timestamp used by text and Markdown output
const DateLayout = "2006-01-02 15:04:05 MST"

// Formats lists supported formats in display order
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown}
}

// ParseFormat resolves a case-insensitive format name; "md" and "yml" are accepted aliases
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "markdown", "md":
		return FormatMarkdown, true
	}
	return "", false
}

// Render writes rep to w in the given format. A nil rep renders the placeholder.
func Render(w io.Writer, format Format, rep report.Report) error {
	switch format {
	case FormatText:
		return WriteText(w, rep)
	case FormatJSON:
		return WriteJSON(w, rep)
	case FormatYAML:
		return WriteYAML(w, rep)
	case FormatMarkdown:
		return WriteMarkdown(w, rep)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// View is the flat, kind-conditioned projection of a report shared by the
// structured renderers and the HTTP API. Marshalling emits every key of the
// report kind, empty or not, and none of the other kind's keys.
type View struct {
	Type       report.Kind `json:"type" yaml:"type"`
	Username   string      `json:"username,omitempty" yaml:"username,omitempty"`
	Strength   string      `json:"strength,omitempty" yaml:"strength,omitempty"`
	Violations []string    `json:"violations,omitempty" yaml:"violations,omitempty"`

	Website        string `json:"website,omitempty" yaml:"website,omitempty"`
	DNSInfo        string `json:"dnsInfo,omitempty" yaml:"dnsInfo,omitempty"`
	HTTPSCheck     string `json:"httpsCheck,omitempty" yaml:"httpsCheck,omitempty"`
	OpenAdminPages string `json:"openAdminPages,omitempty" yaml:"openAdminPages,omitempty"`
	SensitiveInfo  string `json:"sensitiveInfo,omitempty" yaml:"sensitiveInfo,omitempty"`
	Risk           string `json:"risk,omitempty" yaml:"risk,omitempty"`

	Date time.Time `json:"date" yaml:"date"`
}

type passwordDocument struct {
	Type       report.Kind `json:"type" yaml:"type"`
	Username   string      `json:"username" yaml:"username"`
	Strength   string      `json:"strength" yaml:"strength"`
	Violations []string    `json:"violations" yaml:"violations"`
	Date       time.Time   `json:"date" yaml:"date"`
}

type scanDocument struct {
	Type           report.Kind `json:"type" yaml:"type"`
	Website        string      `json:"website" yaml:"website"`
	DNSInfo        string      `json:"dnsInfo" yaml:"dnsInfo"`
	HTTPSCheck     string      `json:"httpsCheck" yaml:"httpsCheck"`
	OpenAdminPages string      `json:"openAdminPages" yaml:"openAdminPages"`
	SensitiveInfo  string      `json:"sensitiveInfo" yaml:"sensitiveInfo"`
	Risk           string      `json:"risk,omitempty" yaml:"risk,omitempty"`
	Date           time.Time   `json:"date" yaml:"date"`
}

// viewFields has View's fields without its methods
type viewFields View

func (v View) document() any {
	switch v.Type {
	case report.KindPassword:
		violations := v.Violations
		if violations == nil {
			violations = []string{}
		}
		return passwordDocument{
			Type:       v.Type,
			Username:   v.Username,
			Strength:   v.Strength,
			Violations: violations,
			Date:       v.Date,
		}
	case report.KindWebScan:
		return scanDocument{
			Type:           v.Type,
			Website:        v.Website,
			DNSInfo:        v.DNSInfo,
			HTTPSCheck:     v.HTTPSCheck,
			OpenAdminPages: v.OpenAdminPages,
			SensitiveInfo:  v.SensitiveInfo,
			Risk:           v.Risk,
			Date:           v.Date,
		}
	}
	return viewFields(v)
}

// MarshalJSON encodes the document of the view's report kind
func (v View) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.document())
}

// MarshalYAML encodes the document of the view's report kind
func (v View) MarshalYAML() (any, error) {
	return v.document(), nil
}

// NewView projects rep; it returns nil for a nil or unknown report
func NewView(rep report.Report) *View {
	switch r := rep.(type) {
	case *report.PasswordReport:
		if r == nil {
			return nil
		}
		violations := make([]string, len(r.Violations))
		copy(violations, r.Violations)
		return &View{
			Type:       r.Kind(),
			Username:   r.Username,
			Strength:   string(r.Strength),
			Violations: violations,
			Date:       r.Date,
		}
	case *report.WebScanReport:
		if r == nil {
			return nil
		}
		return &View{
			Type:           r.Kind(),
			Website:        r.Website,
			DNSInfo:        r.DNSInfo,
			HTTPSCheck:     r.HTTPSCheck,
			OpenAdminPages: r.OpenAdminPages,
			SensitiveInfo:  r.SensitiveInfo,
			Risk:           string(r.Risk),
			Date:           r.Date,
		}
	}
	return nil
}

// placeholder is the structured form of an absent report
type placeholder struct {
	Error string `json:"error" yaml:"error"`
}

func absent() placeholder {
	return placeholder{Error: NoReportMessage}
}
