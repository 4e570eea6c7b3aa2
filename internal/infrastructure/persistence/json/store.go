package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	consts "github.com/khanhnv2901/secdash/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/secdash/internal/shared/errors"
	"github.com/khanhnv2901/secdash/internal/shared/security"
)

// FileName is the document holding every key inside the data directory
const FileName = "store.json"

// Store implements kv.Store on top of a single JSON document.
// Values are kept as strings, mirroring a browser's localStorage.
type Store struct {
	filePath string
	mu       sync.RWMutex
}

// NewStore creates a JSON-file backed store under dataDir
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	// Ensure the data directory exists
	if err := os.MkdirAll(dataDir, consts.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	filePath, err := security.ResolveWithin(dataDir, FileName)
	if err != nil {
		return nil, fmt.Errorf("invalid store path: %w", err)
	}

	s := &Store{filePath: filePath}

	// Initialize the file if it doesn't exist
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := s.saveToFile(map[string]string{}); err != nil {
			return nil, fmt.Errorf("failed to initialize store file: %w", err)
		}
	}

	return s, nil
}

// Path returns the location of the backing document
func (s *Store) Path() string {
	return s.filePath
}

// Get returns the value stored for key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, err := s.loadFromFile()
	if err != nil {
		return nil, err
	}

	v, ok := values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return []byte(v), nil
}

// Set replaces the value stored for key
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.loadFromFile()
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	values[key] = string(value)

	if err := s.saveToFile(values); err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// Helper methods

func (s *Store) loadFromFile() (map[string]string, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, &sharedErrors.CorruptStateError{Key: FileName, Err: err}
	}
	return values, nil
}

// saveToFile writes through a temp file and renames it so readers never see a partial document
func (s *Store) saveToFile(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".store-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(consts.PrivateFilePerm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.filePath)
}
