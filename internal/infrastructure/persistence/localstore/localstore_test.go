package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	sharedErrors "github.com/khanhnv2901/secdash/internal/shared/errors"
)

var testDate = time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC)

func TestCredentialRepositoryAppendAndFindAll(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewCredentialRepository(store)

	creds, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll on empty store returned error: %v", err)
	}
	if len(creds) != 0 {
		t.Fatalf("expected no credentials, got %d", len(creds))
	}

	for _, c := range []password.Credential{
		{Username: "alice", Password: "abcdefg1"},
		{Username: "alice", Password: "abcdefg1"},
		{Username: "bob", Password: "Sup3r$ecret"},
	} {
		if err := repo.Append(ctx, c); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	creds, err = repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(creds) != 3 {
		t.Fatalf("duplicates must be kept, got %d credentials", len(creds))
	}
	if creds[2].Username != "bob" {
		t.Fatalf("expected insertion order, got %+v", creds)
	}

	raw, _ := store.Get(ctx, "users")
	var layout []map[string]string
	if err := json.Unmarshal(raw, &layout); err != nil {
		t.Fatalf("users key must hold a JSON array: %v", err)
	}
	if layout[0]["username"] != "alice" || layout[0]["password"] != "abcdefg1" {
		t.Fatalf("unexpected persisted layout: %s", raw)
	}
}

func TestCredentialRepositoryCorruptState(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	_ = store.Set(ctx, "users", []byte("not-json"))
	repo := NewCredentialRepository(store)

	_, err := repo.FindAll(ctx)
	if !errors.Is(err, sharedErrors.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}

	if err := repo.Append(ctx, password.Credential{Username: "a", Password: "b"}); !errors.Is(err, sharedErrors.ErrCorruptState) {
		t.Fatalf("Append must not overwrite corrupt data, got %v", err)
	}
	raw, _ := store.Get(ctx, "users")
	if string(raw) != "not-json" {
		t.Fatalf("corrupt value must be left untouched, got %s", raw)
	}
}

func TestReportRepositoryLoadLatestEmpty(t *testing.T) {
	repo := NewReportRepository(kv.NewMemoryStore())
	if _, err := repo.LoadLatest(context.Background()); !errors.Is(err, sharedErrors.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestReportRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(kv.NewMemoryStore())

	tests := []struct {
		name string
		rep  report.Report
	}{
		{
			name: "password",
			rep: &report.PasswordReport{
				Username:   "alice",
				Strength:   password.TierModerate,
				Violations: []string{"Password must contain at least one digit."},
				Date:       testDate,
			},
		},
		{
			name: "strong password without violations",
			rep: &report.PasswordReport{
				Username:   "bob",
				Strength:   password.TierStrong,
				Violations: []string{},
				Date:       testDate,
			},
		},
		{
			name: "web scan",
			rep: &report.WebScanReport{
				Website:        "https://example.com",
				DNSInfo:        "IP Address: 192.168.1.1, Hostname: https://example.com",
				HTTPSCheck:     "GOOD: The website is using HTTPS.",
				OpenAdminPages: "No open admin pages found.",
				SensitiveInfo:  "No exposed sensitive information found.",
				Risk:           scan.RiskLow,
				Date:           testDate,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Save(ctx, tt.rep); err != nil {
				t.Fatalf("Save returned error: %v", err)
			}
			got, err := repo.LoadLatest(ctx)
			if err != nil {
				t.Fatalf("LoadLatest returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.rep) {
				t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, tt.rep)
			}
		})
	}
}

func TestReportRepositoryOverwriteDoesNotMerge(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewReportRepository(store)

	a := &report.WebScanReport{Website: "http://a.example", HTTPSCheck: "WARNING: x", Date: testDate}
	b := &report.PasswordReport{Username: "bob", Strength: password.TierWeak, Violations: []string{"v"}, Date: testDate}

	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save(a) returned error: %v", err)
	}
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("Save(b) returned error: %v", err)
	}

	raw, _ := store.Get(ctx, "latestScanReport")
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("invalid stored JSON: %v", err)
	}
	if _, ok := fields["website"]; ok {
		t.Fatalf("fields of the previous report leaked into the new one: %s", raw)
	}
	if fields["type"] != "Password Security" {
		t.Fatalf("unexpected discriminator %v", fields["type"])
	}

	got, err := repo.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest returned error: %v", err)
	}
	if !reflect.DeepEqual(got, b) {
		t.Fatalf("expected only B's fields, got %+v", got)
	}
}

func TestReportRepositoryCorruptValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "invalid json", raw: "{"},
		{name: "unknown type", raw: `{"type":"Port Scanner","date":""}`},
		{name: "bad strength", raw: `{"type":"Password Security","strength":"Meh","date":""}`},
		{name: "bad date", raw: `{"type":"Web Scanner","date":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kv.NewMemoryStore()
			_ = store.Set(ctx, "latestScanReport", []byte(tt.raw))

			_, err := NewReportRepository(store).LoadLatest(ctx)
			var corrupt *sharedErrors.CorruptStateError
			if !errors.As(err, &corrupt) {
				t.Fatalf("expected CorruptStateError, got %v", err)
			}
			if corrupt.Key != "latestScanReport" {
				t.Fatalf("unexpected key %s", corrupt.Key)
			}
		})
	}
}

func TestReportRepositoryRejectsNil(t *testing.T) {
	repo := NewReportRepository(kv.NewMemoryStore())
	if err := repo.Save(context.Background(), nil); !errors.Is(err, sharedErrors.ErrNilReport) {
		t.Fatalf("expected ErrNilReport, got %v", err)
	}
}

func TestReportRepositoryStoresEveryKindKey(t *testing.T) {
	tests := []struct {
		name    string
		rep     report.Report
		want    map[string]any
		raw     []string
		missing []string
	}{
		{
			name: "strong password with empty username",
			rep:  report.NewPasswordReport("", password.Evaluate("Sup3r$ecret"), testDate),
			want: map[string]any{
				"type":       "Password Security",
				"username":   "",
				"strength":   "Strong",
				"violations": []any{},
			},
			raw:     []string{`"violations":[]`, `"username":""`},
			missing: []string{"website", "risk"},
		},
		{
			name: "scan of an empty website",
			rep:  &report.WebScanReport{Date: testDate},
			want: map[string]any{
				"type":           "Web Scanner",
				"website":        "",
				"dnsInfo":        "",
				"httpsCheck":     "",
				"openAdminPages": "",
				"sensitiveInfo":  "",
			},
			raw:     []string{`"website":""`},
			missing: []string{"username", "violations", "risk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kv.NewMemoryStore()
			repo := NewReportRepository(store)

			if err := repo.Save(ctx, tt.rep); err != nil {
				t.Fatalf("Save returned error: %v", err)
			}
			raw, err := store.Get(ctx, "latestScanReport")
			if err != nil {
				t.Fatalf("Get returned error: %v", err)
			}
			for _, want := range tt.raw {
				if !strings.Contains(string(raw), want) {
					t.Fatalf("expected %s in stored report: %s", want, raw)
				}
			}

			var fields map[string]any
			if err := json.Unmarshal(raw, &fields); err != nil {
				t.Fatalf("invalid stored JSON: %v", err)
			}
			for key, want := range tt.want {
				got, ok := fields[key]
				if !ok {
					t.Fatalf("stored report lacks %q: %s", key, raw)
				}
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("%s = %#v, want %#v", key, got, want)
				}
			}
			for _, key := range tt.missing {
				if _, ok := fields[key]; ok {
					t.Fatalf("stored report must not carry %q: %s", key, raw)
				}
			}

			got, err := repo.LoadLatest(ctx)
			if err != nil {
				t.Fatalf("LoadLatest returned error: %v", err)
			}
			if got.Kind() != tt.rep.Kind() {
				t.Fatalf("expected kind %s, got %s", tt.rep.Kind(), got.Kind())
			}
		})
	}
}

func TestStatsHistoryRepositoryAppendAndFindAll(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewStatsHistoryRepository(store)

	history, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll on empty store returned error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d", len(history))
	}

	snapshots := []password.Snapshot{
		{Date: testDate, Stats: password.Stats{Total: 1, Strong: 1}},
		{Date: testDate.Add(time.Hour), Stats: password.Stats{Total: 2, Strong: 1, Moderate: 1, Violations: 2}},
	}
	for _, s := range snapshots {
		if err := repo.Append(ctx, s); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	history, err = repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(history) != len(snapshots) {
		t.Fatalf("expected %d snapshots, got %d", len(snapshots), len(history))
	}
	for i := range snapshots {
		if !history[i].Date.Equal(snapshots[i].Date) || history[i].Stats != snapshots[i].Stats {
			t.Fatalf("snapshot %d: expected %+v, got %+v", i, snapshots[i], history[i])
		}
	}

	if raw, err := store.Get(ctx, "users"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("history must not touch the users key, got %s (%v)", raw, err)
	}

	_ = store.Set(ctx, "passwordStats", []byte("{"))
	if _, err := repo.FindAll(ctx); !errors.Is(err, sharedErrors.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}
