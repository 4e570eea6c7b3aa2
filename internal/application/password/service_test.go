package password

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/localstore"
	"go.uber.org/zap/zaptest"
	testingclock "k8s.io/utils/clock/testing"
)

var submittedAt = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	creds   *localstore.CredentialRepository
	reports *localstore.ReportRepository
	clock   *testingclock.FakePassiveClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := kv.NewMemoryStore()
	creds := localstore.NewCredentialRepository(store)
	reports := localstore.NewReportRepository(store)
	history := localstore.NewStatsHistoryRepository(store)
	clk := testingclock.NewFakePassiveClock(submittedAt)
	svc := NewService(creds, reports, history, clk, zaptest.NewLogger(t))
	return fixture{svc: svc, creds: creds, reports: reports, clock: clk}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		tier       password.Tier
		violations int
		stored     bool
	}{
		{"strong", "Abcdef1!", password.TierStrong, 0, true},
		{"moderate", "abcdefgh1", password.TierModerate, 2, true},
		{"weak", "abc", password.TierWeak, 4, false},
		{"empty", "", password.TierWeak, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			sub, err := f.svc.Submit(ctx, "alice", tt.password)
			if err != nil {
				t.Fatalf("Submit returned error: %v", err)
			}
			if sub.Assessment.Tier != tt.tier {
				t.Fatalf("expected tier %s, got %s", tt.tier, sub.Assessment.Tier)
			}
			if len(sub.Assessment.Violations) != tt.violations {
				t.Fatalf("expected %d violations, got %v", tt.violations, sub.Assessment.Violations)
			}
			if sub.Stored != tt.stored {
				t.Fatalf("expected stored=%v, got %v", tt.stored, sub.Stored)
			}

			creds, err := f.creds.FindAll(ctx)
			if err != nil {
				t.Fatalf("FindAll returned error: %v", err)
			}
			wantCreds := 0
			if tt.stored {
				wantCreds = 1
			}
			if len(creds) != wantCreds {
				t.Fatalf("expected %d stored credentials, got %d", wantCreds, len(creds))
			}

			latest, err := f.reports.LoadLatest(ctx)
			if err != nil {
				t.Fatalf("LoadLatest returned error: %v", err)
			}
			pr, ok := latest.(*report.PasswordReport)
			if !ok {
				t.Fatalf("expected password report, got %T", latest)
			}
			if pr.Username != "alice" || pr.Strength != tt.tier {
				t.Fatalf("unexpected report %+v", pr)
			}
			if !pr.Date.Equal(submittedAt) {
				t.Fatalf("expected report date %v, got %v", submittedAt, pr.Date)
			}
		})
	}
}

func TestSubmit_WeakLeavesCredentialsUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, "bob", "Abcdef1!"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if _, err := f.svc.Submit(ctx, "mallory", "short"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	creds, err := f.svc.Credentials(ctx)
	if err != nil {
		t.Fatalf("Credentials returned error: %v", err)
	}
	if len(creds) != 1 || creds[0].Username != "bob" {
		t.Fatalf("expected only bob to be stored, got %+v", creds)
	}
}

func TestSubmit_ReuseIsFlaggedButStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, "alice", "Abcdef1!")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if first.Reused {
		t.Fatal("first submission should not be flagged as reused")
	}

	second, err := f.svc.Submit(ctx, "alice", "Abcdef1!")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !second.Reused {
		t.Fatal("expected repeated password to be flagged")
	}
	if !second.Stored {
		t.Fatal("reused password should still be stored")
	}

	creds, err := f.svc.Credentials(ctx)
	if err != nil {
		t.Fatalf("Credentials returned error: %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("expected duplicate usernames to be kept, got %d credentials", len(creds))
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, pwd := range []string{"Abcdef1!", "abcdefgh1", "weak", "Zyxwvut9#"} {
		if _, err := f.svc.Submit(ctx, "user", pwd); err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
	}

	stats, err := f.svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 3 || stats.Strong != 2 || stats.Moderate != 1 || stats.Weak != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

type failingCredentials struct{}

func (failingCredentials) Append(context.Context, password.Credential) error {
	return errors.New("disk full")
}

func (failingCredentials) FindAll(context.Context) ([]password.Credential, error) {
	return nil, nil
}

func TestSubmit_AppendFailureSkipsReport(t *testing.T) {
	reports := localstore.NewReportRepository(kv.NewMemoryStore())
	svc := NewService(failingCredentials{}, reports, nil, nil, nil)

	if _, err := svc.Submit(context.Background(), "alice", "Abcdef1!"); err == nil {
		t.Fatal("expected error from failing credential store")
	}
	if _, err := reports.LoadLatest(context.Background()); err == nil {
		t.Fatal("expected no report after failed submission")
	}
}

func TestEvaluateIsPure(t *testing.T) {
	f := newFixture(t)
	a := f.svc.Evaluate("Abcdef1!")
	if a.Tier != password.TierStrong {
		t.Fatalf("expected Strong, got %s", a.Tier)
	}
	if _, err := f.reports.LoadLatest(context.Background()); err == nil {
		t.Fatal("Evaluate must not save a report")
	}
}

func TestTrend_GroupsSubmissionsByDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trend, err := f.svc.Trend(ctx)
	if err != nil {
		t.Fatalf("Trend returned error: %v", err)
	}
	if len(trend) != 0 {
		t.Fatalf("expected empty trend, got %+v", trend)
	}

	submissions := []struct {
		at       time.Time
		password string
	}{
		{submittedAt, "Abcdef1!"},
		{submittedAt.Add(2 * time.Hour), "abc"},
		{submittedAt.Add(24 * time.Hour), "abcdefgh1"},
	}
	for _, s := range submissions {
		f.clock.SetTime(s.at)
		if _, err := f.svc.Submit(ctx, "alice", s.password); err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
	}

	trend, err = f.svc.Trend(ctx)
	if err != nil {
		t.Fatalf("Trend returned error: %v", err)
	}
	want := []password.Snapshot{
		{Date: submittedAt.Add(2 * time.Hour), Stats: password.Stats{Total: 1, Strong: 1}},
		{Date: submittedAt.Add(24 * time.Hour), Stats: password.Stats{Total: 2, Strong: 1, Moderate: 1, Violations: 2}},
	}
	if len(trend) != len(want) {
		t.Fatalf("expected %d days, got %+v", len(want), trend)
	}
	for i := range want {
		if !trend[i].Date.Equal(want[i].Date) || trend[i].Stats != want[i].Stats {
			t.Fatalf("day %d: expected %+v, got %+v", i, want[i], trend[i])
		}
	}
}

func TestTrend_WithoutHistory(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewService(localstore.NewCredentialRepository(store), localstore.NewReportRepository(store), nil, nil, nil)

	if _, err := svc.Submit(context.Background(), "alice", "Abcdef1!"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	trend, err := svc.Trend(context.Background())
	if err != nil || len(trend) != 0 {
		t.Fatalf("expected empty trend without history, got %+v (%v)", trend, err)
	}
}
