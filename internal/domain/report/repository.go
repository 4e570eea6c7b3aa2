package report

import "context"

// Repository persists the single latest report
type Repository interface {
	// Save atomically replaces the latest report
	Save(ctx context.Context, r Report) error

	// LoadLatest returns the most recently saved report.
	// It returns ErrReportNotFound when nothing was saved and a
	// *CorruptStateError when the stored value cannot be decoded.
	LoadLatest(ctx context.Context) (Report, error)
}
