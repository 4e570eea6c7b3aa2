package cmd

import (
	"github.com/fatih/color"
	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
)

func formatTierWithColor(tier password.Tier) string {
	switch tier {
	case password.TierStrong:
		return colorSuccess(string(tier))
	case password.TierModerate:
		return colorWarn(string(tier))
	case password.TierWeak:
		return colorError(string(tier))
	default:
		return string(tier)
	}
}

func formatRiskWithColor(risk scan.RiskLevel) string {
	switch risk {
	case scan.RiskLow:
		return colorSuccess(string(risk))
	case scan.RiskMedium:
		return colorWarn(string(risk))
	case scan.RiskHigh:
		return colorError(string(risk))
	default:
		return string(risk)
	}
}

// formatFinding renders one stage line as it becomes visible.
func formatFinding(f scan.Finding) string {
	detail := f.Detail
	switch f.Risk {
	case scan.RiskHigh:
		detail = colorError(detail)
	case scan.RiskMedium:
		detail = colorWarn(detail)
	}
	return colorInfo("["+string(f.Stage)+"]") + " " + colorBold(f.Title) + ": " + detail
}
