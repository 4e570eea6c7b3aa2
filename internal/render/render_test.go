package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"gopkg.in/yaml.v3"
)

var renderedAt = time.Date(2024, 2, 29, 18, 45, 0, 0, time.UTC)

func passwordReport() *report.PasswordReport {
	return report.NewPasswordReport("alice", password.Evaluate("abcdefgh"), renderedAt)
}

func scanReport() *report.WebScanReport {
	state := scan.NewState("http://shop.test")
	state.DNSInfo = scan.DNSInfo(state.Website)
	state.HTTPSChecked = true
	state.OpenAdminPages = []string{"/admin"}
	state.AdminPathsChecked = true
	state.SensitiveChecked = true
	state.Record(scan.Finding{Stage: scan.StageHTTPS, Risk: scan.RiskHigh})
	return report.NewWebScanReport(state, renderedAt)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatText, true},
		{"TEXT", FormatText, true},
		{"json", FormatJSON, true},
		{"yml", FormatYAML, true},
		{"md", FormatMarkdown, true},
		{"markdown", FormatMarkdown, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRenderAbsentReport(t *testing.T) {
	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, format, nil); err != nil {
				t.Fatalf("Render returned error: %v", err)
			}
			if !strings.Contains(buf.String(), NoReportMessage) {
				t.Fatalf("expected placeholder, got %q", buf.String())
			}
		})
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	if err := Render(&bytes.Buffer{}, Format("pdf"), nil); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWriteText_Password(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, passwordReport()); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Type: Password Security",
		"Date: 2024-02-29 18:45:00 UTC",
		"Username: alice",
		"Password Strength: Weak",
		"  - Password must contain at least one uppercase letter.",
		"  - Password must contain at least one special character.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Website:") {
		t.Fatalf("password report must not render scan fields:\n%s", out)
	}
}

func TestWriteText_NoViolations(t *testing.T) {
	rep := report.NewPasswordReport("bob", password.Evaluate("Abcdef1!"), renderedAt)
	var buf bytes.Buffer
	if err := WriteText(&buf, rep); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "Violations: none") {
		t.Fatalf("expected empty violation marker, got:\n%s", buf.String())
	}
}

func TestWriteText_Scan(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, scanReport()); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Type: Web Scanner",
		"Website: http://shop.test",
		"DNS Info: IP Address: 192.168.1.1, Hostname: http://shop.test",
		"HTTPS Check: WARNING: The website is not using HTTPS. Data might not be encrypted.",
		"Open Admin Pages: Found open admin pages: /admin",
		"Sensitive Information: No exposed sensitive information found.",
		"Risk Level: HIGH",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Username:") {
		t.Fatalf("scan report must not render password fields:\n%s", out)
	}
}

func TestWriteJSON_UsesStoredKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, scanReport()); err != nil {
		t.Fatalf("WriteJSON returned error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"type", "website", "dnsInfo", "httpsCheck", "openAdminPages", "sensitiveInfo", "risk", "date"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("expected key %q in %v", key, decoded)
		}
	}
	if _, ok := decoded["username"]; ok {
		t.Fatalf("scan report must omit username: %v", decoded)
	}
}

func TestWriteYAML_Password(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, passwordReport()); err != nil {
		t.Fatalf("WriteYAML returned error: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if decoded["type"] != "Password Security" || decoded["strength"] != "Weak" {
		t.Fatalf("unexpected yaml document: %v", decoded)
	}
	if _, ok := decoded["website"]; ok {
		t.Fatalf("password report must omit website: %v", decoded)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, scanReport()); err != nil {
		t.Fatalf("WriteMarkdown returned error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Latest Security Report",
		"| Property",
		"Found open admin pages: /admin",
		"High risk: Critical vulnerability, immediate action required.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNewView(t *testing.T) {
	if NewView(nil) != nil {
		t.Fatal("expected nil view for nil report")
	}
	var typedNil *report.PasswordReport
	if NewView(typedNil) != nil {
		t.Fatal("expected nil view for typed nil report")
	}

	view := NewView(passwordReport())
	if view.Type != report.KindPassword || view.Username != "alice" || len(view.Violations) != 3 {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestStructuredOutput_KeepsEmptyKindKeys(t *testing.T) {
	strong := report.NewPasswordReport("", password.Evaluate("Sup3r$ecret"), renderedAt)
	blankScan := &report.WebScanReport{Date: renderedAt}

	decoders := map[string]func([]byte, any) error{
		"json": json.Unmarshal,
		"yaml": yaml.Unmarshal,
	}
	tests := []struct {
		name    string
		format  Format
		rep     report.Report
		want    map[string]any
		missing []string
	}{
		{
			name:    "strong password json",
			format:  FormatJSON,
			rep:     strong,
			want:    map[string]any{"username": "", "strength": "Strong"},
			missing: []string{"website", "risk"},
		},
		{
			name:    "strong password yaml",
			format:  FormatYAML,
			rep:     strong,
			want:    map[string]any{"username": "", "strength": "Strong"},
			missing: []string{"website", "risk"},
		},
		{
			name:    "blank scan json",
			format:  FormatJSON,
			rep:     blankScan,
			want:    map[string]any{"website": "", "dnsInfo": "", "httpsCheck": "", "openAdminPages": "", "sensitiveInfo": ""},
			missing: []string{"username", "violations", "risk"},
		},
		{
			name:    "blank scan yaml",
			format:  FormatYAML,
			rep:     blankScan,
			want:    map[string]any{"website": "", "dnsInfo": "", "httpsCheck": "", "openAdminPages": "", "sensitiveInfo": ""},
			missing: []string{"username", "violations", "risk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, tt.format, tt.rep); err != nil {
				t.Fatalf("Render returned error: %v", err)
			}
			var decoded map[string]any
			if err := decoders[string(tt.format)](buf.Bytes(), &decoded); err != nil {
				t.Fatalf("invalid %s output: %v\n%s", tt.format, err, buf.String())
			}
			for key, want := range tt.want {
				got, ok := decoded[key]
				if !ok || got != want {
					t.Fatalf("expected %s=%q, got %v (present=%v)\n%s", key, want, got, ok, buf.String())
				}
			}
			for _, key := range tt.missing {
				if _, ok := decoded[key]; ok {
					t.Fatalf("unexpected key %q in output:\n%s", key, buf.String())
				}
			}
			if tt.rep.Kind() == report.KindPassword {
				violations, ok := decoded["violations"].([]any)
				if !ok || len(violations) != 0 {
					t.Fatalf("expected empty violations list, got %#v\n%s", decoded["violations"], buf.String())
				}
			}
		})
	}
}

func TestWriteJSON_StrongPasswordHasEmptyViolationsList(t *testing.T) {
	var buf bytes.Buffer
	rep := report.NewPasswordReport("", password.Evaluate("Sup3r$ecret"), renderedAt)
	if err := WriteJSON(&buf, rep); err != nil {
		t.Fatalf("WriteJSON returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"violations": []`, `"username": ""`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output:\n%s", want, out)
		}
	}
}
