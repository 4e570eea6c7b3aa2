package scan

// RiskLevel grades how serious a finding is
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

func (r RiskLevel) rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	}
	return 0
}

// Max returns the more severe of the two levels
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.rank() > r.rank() {
		return other
	}
	return r
}

// Description returns the operator-facing explanation of the level
func (r RiskLevel) Description() string {
	switch r {
	case RiskLow:
		return "Low risk: Minor issue, unlikely to cause significant harm."
	case RiskMedium:
		return "Medium risk: Moderate issue, needs attention to prevent exploitation."
	case RiskHigh:
		return "High risk: Critical vulnerability, immediate action required."
	}
	return ""
}

// ParseRiskLevel converts a persisted value into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), true
	}
	return "", false
}
