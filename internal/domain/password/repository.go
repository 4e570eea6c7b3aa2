package password

import "context"

// CredentialRepository defines persistence for the append-only credential sequence
type CredentialRepository interface {
	// Append adds one credential at the end of the sequence
	Append(ctx context.Context, credential Credential) error

	// FindAll returns every stored credential in insertion order
	FindAll(ctx context.Context) ([]Credential, error)
}

// StatsHistoryRepository persists the append-only history of credential statistics
type StatsHistoryRepository interface {
	Append(ctx context.Context, snapshot Snapshot) error
	FindAll(ctx context.Context) ([]Snapshot, error)
}
