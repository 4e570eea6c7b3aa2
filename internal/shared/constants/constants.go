package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
	// PrivateFilePerm is used for files holding credentials.
	PrivateFilePerm fs.FileMode = 0o600
)

const (
	// UsersKey is the persisted key holding the append-only credential sequence.
	UsersKey = "users"
	// LatestReportKey is the persisted key holding the single latest report.
	LatestReportKey = "latestScanReport"
	// StatsHistoryKey is the persisted key holding dated credential statistics.
	StatsHistoryKey = "passwordStats"
)

const (
	// DefaultStageInterval separates the visibility of consecutive scan stages.
	DefaultStageInterval = 1 * time.Second
	// AppName names the data and config directories.
	AppName = "secdash"
)
