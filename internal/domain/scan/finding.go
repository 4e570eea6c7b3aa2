package scan

import (
	"fmt"
	"strings"
)

// StageName identifies one step of the simulated scan
type StageName string

const (
	StageDNS           StageName = "dns"
	StageHTTPS         StageName = "https"
	StageAdminPaths    StageName = "admin-paths"
	StageSensitiveInfo StageName = "sensitive-info"
	StageFinalize      StageName = "finalize"
)

// StageOrder lists the stages in the order they become visible
var StageOrder = []StageName{StageDNS, StageHTTPS, StageAdminPaths, StageSensitiveInfo, StageFinalize}

// Placeholder values used by the simulated DNS stage
const PlaceholderIP = "192.168.1.1"

// AdminPaths are the candidate administrative paths checked by the simulation
var AdminPaths = []string{"/admin", "/dashboard", "/login", "/wp-admin"}

const (
	httpsGood         = "GOOD: The website is using HTTPS."
	httpsWarning      = "WARNING: The website is not using HTTPS. Data might not be encrypted."
	noAdminPages      = "No open admin pages found."
	sensitiveFound    = "WARNING: Exposed sensitive information found!"
	sensitiveNotFound = "No exposed sensitive information found."
)

// ScanCompleteMessage is reported by the finalization stage
const ScanCompleteMessage = "Scan complete."

// Finding is the partial result of one stage
type Finding struct {
	Stage  StageName `json:"stage"`
	Title  string    `json:"title"`
	Detail string    `json:"detail"`
	Risk   RiskLevel `json:"risk"`
}

// DNSInfo formats the simulated lookup for website
func DNSInfo(website string) string {
	return fmt.Sprintf("IP Address: %s, Hostname: %s", PlaceholderIP, website)
}

// UsesHTTPS is a purely textual check on the scheme prefix
func UsesHTTPS(website string) bool {
	return strings.HasPrefix(website, "https://")
}

// HTTPSCheck returns the HTTPS stage message
func HTTPSCheck(isHTTPS bool) string {
	if isHTTPS {
		return httpsGood
	}
	return httpsWarning
}

// OpenAdminPagesSummary returns the admin-path stage message
func OpenAdminPagesSummary(open []string) string {
	if len(open) == 0 {
		return noAdminPages
	}
	return "Found open admin pages: " + strings.Join(open, ", ")
}

// SensitiveInfoSummary returns the sensitive-info stage message
func SensitiveInfoSummary(found bool) string {
	if found {
		return sensitiveFound
	}
	return sensitiveNotFound
}
