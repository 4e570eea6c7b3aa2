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

// credentialDTO is the data transfer object for JSON serialization
type credentialDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialRepository implements password.CredentialRepository over the "users" key
type CredentialRepository struct {
	store kv.Store
	mu    sync.Mutex
}

// NewCredentialRepository creates a credential repository backed by store
func NewCredentialRepository(store kv.Store) *CredentialRepository {
	return &CredentialRepository{store: store}
}

// Append adds credential at the end of the sequence
func (r *CredentialRepository) Append(ctx context.Context, credential password.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dtos, err := r.load(ctx)
	if err != nil {
		return err
	}

	dtos = append(dtos, credentialDTO{Username: credential.Username, Password: credential.Password})

	data, err := json.Marshal(dtos)
	if err != nil {
		return fmt.Errorf("%w: %v", sharedErrors.ErrSerializationFailed, err)
	}
	if err := r.store.Set(ctx, consts.UsersKey, data); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// FindAll returns every stored credential in insertion order
func (r *CredentialRepository) FindAll(ctx context.Context) ([]password.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dtos, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]password.Credential, 0, len(dtos))
	for _, dto := range dtos {
		result = append(result, password.Credential{Username: dto.Username, Password: dto.Password})
	}
	return result, nil
}

func (r *CredentialRepository) load(ctx context.Context) ([]credentialDTO, error) {
	data, err := r.store.Get(ctx, consts.UsersKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []credentialDTO{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	var dtos []credentialDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, &sharedErrors.CorruptStateError{Key: consts.UsersKey, Err: err}
	}
	if dtos == nil {
		dtos = []credentialDTO{}
	}
	return dtos, nil
}
