package report

import (
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
)

// Kind discriminates the report variants
type Kind string

const (
	KindPassword Kind = "Password Security"
	KindWebScan  Kind = "Web Scanner"
)

// Report is the latest result produced by either the password evaluator or the scan simulator
type Report interface {
	Kind() Kind
	Timestamp() time.Time
}

// PasswordReport is produced by a credential submission
type PasswordReport struct {
	Username   string
	Strength   password.Tier
	Violations []string
	Date       time.Time
}

// NewPasswordReport builds a report from an assessment
func NewPasswordReport(username string, assessment password.Assessment, at time.Time) *PasswordReport {
	violations := make([]string, len(assessment.Violations))
	copy(violations, assessment.Violations)
	return &PasswordReport{
		Username:   username,
		Strength:   assessment.Tier,
		Violations: violations,
		Date:       at,
	}
}

func (r *PasswordReport) Kind() Kind           { return KindPassword }
func (r *PasswordReport) Timestamp() time.Time { return r.Date }

// WebScanReport is produced by the final stage of a simulated scan
type WebScanReport struct {
	Website        string
	DNSInfo        string
	HTTPSCheck     string
	OpenAdminPages string
	SensitiveInfo  string
	Risk           scan.RiskLevel
	Date           time.Time
}

// NewWebScanReport assembles the report from the accumulated stage state
func NewWebScanReport(state *scan.State, at time.Time) *WebScanReport {
	return &WebScanReport{
		Website:        state.Website,
		DNSInfo:        state.DNSInfo,
		HTTPSCheck:     state.HTTPSCheck(),
		OpenAdminPages: state.OpenAdminPagesSummary(),
		SensitiveInfo:  state.SensitiveInfoSummary(),
		Risk:           state.Risk(),
		Date:           at,
	}
}

func (r *WebScanReport) Kind() Kind           { return KindWebScan }
func (r *WebScanReport) Timestamp() time.Time { return r.Date }
