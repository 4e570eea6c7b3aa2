package scan

import (
	"context"

	"github.com/khanhnv2901/secdash/internal/domain/scan"
)

// Stage is one simulated check. Stages never fail; each records its result in state.
type Stage interface {
	Name() scan.StageName
	Run(ctx context.Context, state *scan.State) scan.Finding
}

// DefaultStages returns the four checks that precede finalization, in order
func DefaultStages(checks scan.CheckProvider) []Stage {
	return []Stage{
		dnsStage{},
		httpsStage{},
		adminPathStage{checks: checks},
		sensitiveInfoStage{checks: checks},
	}
}

type dnsStage struct{}

func (dnsStage) Name() scan.StageName { return scan.StageDNS }

func (dnsStage) Run(_ context.Context, state *scan.State) scan.Finding {
	state.DNSInfo = scan.DNSInfo(state.Website)
	return scan.Finding{
		Stage:  scan.StageDNS,
		Title:  "DNS Lookup",
		Detail: state.DNSInfo,
		Risk:   scan.RiskLow,
	}
}

type httpsStage struct{}

func (httpsStage) Name() scan.StageName { return scan.StageHTTPS }

func (httpsStage) Run(_ context.Context, state *scan.State) scan.Finding {
	state.HTTPS = scan.UsesHTTPS(state.Website)
	state.HTTPSChecked = true

	risk := scan.RiskLow
	if !state.HTTPS {
		risk = scan.RiskHigh
	}
	return scan.Finding{
		Stage:  scan.StageHTTPS,
		Title:  "HTTPS Check",
		Detail: state.HTTPSCheck(),
		Risk:   risk,
	}
}

type adminPathStage struct {
	checks scan.CheckProvider
}

func (adminPathStage) Name() scan.StageName { return scan.StageAdminPaths }

func (s adminPathStage) Run(_ context.Context, state *scan.State) scan.Finding {
	open := make([]string, 0, len(scan.AdminPaths))
	for _, path := range scan.AdminPaths {
		if s.checks.AdminPathOpen(state.Website, path) {
			open = append(open, path)
		}
	}
	state.OpenAdminPages = open
	state.AdminPathsChecked = true

	risk := scan.RiskLow
	if len(open) > 0 {
		risk = scan.RiskHigh
	}
	return scan.Finding{
		Stage:  scan.StageAdminPaths,
		Title:  "Open Admin Page Check",
		Detail: state.OpenAdminPagesSummary(),
		Risk:   risk,
	}
}

type sensitiveInfoStage struct {
	checks scan.CheckProvider
}

func (sensitiveInfoStage) Name() scan.StageName { return scan.StageSensitiveInfo }

func (s sensitiveInfoStage) Run(_ context.Context, state *scan.State) scan.Finding {
	state.SensitiveInfoFound = s.checks.SensitiveInfoExposed(state.Website)
	state.SensitiveChecked = true

	risk := scan.RiskLow
	if state.SensitiveInfoFound {
		risk = scan.RiskHigh
	}
	return scan.Finding{
		Stage:  scan.StageSensitiveInfo,
		Title:  "Exposed Sensitive Information Check",
		Detail: state.SensitiveInfoSummary(),
		Risk:   risk,
	}
}
