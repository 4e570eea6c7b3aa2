package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/domain/scan"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/secdash/internal/shared/errors"
)

// reportHeader reads only the discriminator of a stored report
type reportHeader struct {
	Type string `json:"type"`
}

// passwordReportDTO always carries every password report key, even when empty.
type passwordReportDTO struct {
	Type       string   `json:"type"`
	Username   string   `json:"username"`
	Strength   string   `json:"strength"`
	Violations []string `json:"violations"`
	Date       string   `json:"date"`
}

// webScanReportDTO always carries every scan report key; risk is optional on load.
type webScanReportDTO struct {
	Type           string `json:"type"`
	Website        string `json:"website"`
	DNSInfo        string `json:"dnsInfo"`
	HTTPSCheck     string `json:"httpsCheck"`
	OpenAdminPages string `json:"openAdminPages"`
	SensitiveInfo  string `json:"sensitiveInfo"`
	Risk           string `json:"risk,omitempty"`
	Date           string `json:"date"`
}

// ReportRepository implements report.Repository over the "latestScanReport" key
type ReportRepository struct {
	store kv.Store
}

// NewReportRepository creates a report repository backed by store
func NewReportRepository(store kv.Store) *ReportRepository {
	return &ReportRepository{store: store}
}

// Save replaces the latest report
func (r *ReportRepository) Save(ctx context.Context, rep report.Report) error {
	dto, err := toReportDTO(rep)
	if err != nil {
		return err
	}

	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("%w: %v", sharedErrors.ErrSerializationFailed, err)
	}
	if err := r.store.Set(ctx, consts.LatestReportKey, data); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LoadLatest returns the most recently saved report
func (r *ReportRepository) LoadLatest(ctx context.Context) (report.Report, error) {
	data, err := r.store.Get(ctx, consts.LatestReportKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, sharedErrors.ErrReportNotFound
	}
	if err != nil {
		var corrupt *sharedErrors.CorruptStateError
		if errors.As(err, &corrupt) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	rep, err := decodeReport(data)
	if err != nil {
		return nil, &sharedErrors.CorruptStateError{Key: consts.LatestReportKey, Err: err}
	}
	return rep, nil
}

func toReportDTO(rep report.Report) (any, error) {
	switch r := rep.(type) {
	case *report.PasswordReport:
		if r == nil {
			return nil, sharedErrors.ErrNilReport
		}
		violations := r.Violations
		if violations == nil {
			violations = []string{}
		}
		return passwordReportDTO{
			Type:       string(report.KindPassword),
			Username:   r.Username,
			Strength:   string(r.Strength),
			Violations: violations,
			Date:       formatDate(r.Date),
		}, nil
	case *report.WebScanReport:
		if r == nil {
			return nil, sharedErrors.ErrNilReport
		}
		return webScanReportDTO{
			Type:           string(report.KindWebScan),
			Website:        r.Website,
			DNSInfo:        r.DNSInfo,
			HTTPSCheck:     r.HTTPSCheck,
			OpenAdminPages: r.OpenAdminPages,
			SensitiveInfo:  r.SensitiveInfo,
			Risk:           string(r.Risk),
			Date:           formatDate(r.Date),
		}, nil
	case nil:
		return nil, sharedErrors.ErrNilReport
	}
	return nil, fmt.Errorf("%w: %T", sharedErrors.ErrUnknownReportKind, rep)
}

func decodeReport(data []byte) (report.Report, error) {
	var header reportHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, err
	}

	switch report.Kind(header.Type) {
	case report.KindPassword:
		var dto passwordReportDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		date, err := parseDate(dto.Date)
		if err != nil {
			return nil, err
		}
		tier, ok := password.ParseTier(dto.Strength)
		if !ok {
			return nil, fmt.Errorf("invalid strength %q", dto.Strength)
		}
		violations := dto.Violations
		if violations == nil {
			violations = []string{}
		}
		return &report.PasswordReport{
			Username:   dto.Username,
			Strength:   tier,
			Violations: violations,
			Date:       date,
		}, nil
	case report.KindWebScan:
		var dto webScanReportDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		date, err := parseDate(dto.Date)
		if err != nil {
			return nil, err
		}
		// risk is optional so reports written without it still load
		risk, _ := scan.ParseRiskLevel(dto.Risk)
		return &report.WebScanReport{
			Website:        dto.Website,
			DNSInfo:        dto.DNSInfo,
			HTTPSCheck:     dto.HTTPSCheck,
			OpenAdminPages: dto.OpenAdminPages,
			SensitiveInfo:  dto.SensitiveInfo,
			Risk:           risk,
			Date:           date,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", sharedErrors.ErrUnknownReportKind, header.Type)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
	}
	return t, nil
}
