package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/secdash/internal/shared/errors"
)

type snapshotDTO struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Weak       int    `json:"weak"`
	Moderate   int    `json:"moderate"`
	Strong     int    `json:"strong"`
	Violations int    `json:"violations"`
}

// StatsHistoryRepository implements password.StatsHistoryRepository over its own key,
// leaving the "users" layout untouched
type StatsHistoryRepository struct {
	store kv.Store
	mu    sync.Mutex
}

// NewStatsHistoryRepository creates a statistics history backed by store
func NewStatsHistoryRepository(store kv.Store) *StatsHistoryRepository {
	return &StatsHistoryRepository{store: store}
}

// Append records snapshot after every earlier one
func (r *StatsHistoryRepository) Append(ctx context.Context, snapshot password.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dtos, err := r.load(ctx)
	if err != nil {
		return err
	}
	dtos = append(dtos, snapshotDTO{
		Date:       formatDate(snapshot.Date),
		Total:      snapshot.Total,
		Weak:       snapshot.Weak,
		Moderate:   snapshot.Moderate,
		Strong:     snapshot.Strong,
		Violations: snapshot.Violations,
	})

	data, err := json.Marshal(dtos)
	if err != nil {
		return fmt.Errorf("%w: %v", sharedErrors.ErrSerializationFailed, err)
	}
	if err := r.store.Set(ctx, consts.StatsHistoryKey, data); err != nil {
		return fmt.Errorf("failed to save statistics history: %w", err)
	}
	return nil
}

// FindAll returns every recorded snapshot in recording order
func (r *StatsHistoryRepository) FindAll(ctx context.Context) ([]password.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dtos, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]password.Snapshot, 0, len(dtos))
	for _, dto := range dtos {
		date, err := parseDate(dto.Date)
		if err != nil {
			return nil, &sharedErrors.CorruptStateError{Key: consts.StatsHistoryKey, Err: err}
		}
		result = append(result, password.Snapshot{
			Date: date,
			Stats: password.Stats{
				Total:      dto.Total,
				Weak:       dto.Weak,
				Moderate:   dto.Moderate,
				Strong:     dto.Strong,
				Violations: dto.Violations,
			},
		})
	}
	return result, nil
}

func (r *StatsHistoryRepository) load(ctx context.Context) ([]snapshotDTO, error) {
	data, err := r.store.Get(ctx, consts.StatsHistoryKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []snapshotDTO{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics history: %w", err)
	}

	var dtos []snapshotDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, &sharedErrors.CorruptStateError{Key: consts.StatsHistoryKey, Err: err}
	}
	if dtos == nil {
		dtos = []snapshotDTO{}
	}
	return dtos, nil
}
