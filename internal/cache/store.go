package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"secretharness/internal/models"
)

// ErrNoCachedContract is returned when no cache name was requested at all.
// This is the expected path when a deployment opts out of caching, and is
// used as a control-flow signal rather than a failure.
var ErrNoCachedContract = errors.New("no cached contract requested")

// ErrContractNotCached is returned when a named contract has no readable
// cache entry, signalling the caller to fall through to a fresh deployment
var ErrContractNotCached = errors.New("contract not found in cache")

// DefaultDir is where deployment metadata lands unless configured otherwise
const DefaultDir = "cached_contracts"

// Store persists deployed-contract metadata as one JSON file per logical
// name. Single-process callers only; there is no file locking.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir}
}

// Dir returns the cache directory root
func (s *Store) Dir() string { return s.dir }

// Save writes the contract under name, creating the cache directory if
// needed and overwriting any previous entry. Deployment flows treat a
// failure here as best-effort and keep going.
func (s *Store) Save(name string, contract *models.NetContract) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", s.dir, err)
	}

	data, err := json.Marshal(contract)
	if err != nil {
		return fmt.Errorf("serializing contract %q: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", path, err)
	}

	slog.Debug("Cached contract deployment", "name", name, "path", path)
	return nil
}

// Load reads the contract cached under name. An empty name fails
// immediately with ErrNoCachedContract and touches no files; a missing or
// unparsable entry fails with ErrContractNotCached.
func (s *Store) Load(name string) (*models.NetContract, error) {
	if name == "" {
		return nil, ErrNoCachedContract
	}

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrContractNotCached, name)
	}

	var contract models.NetContract
	if err := json.Unmarshal(data, &contract); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrContractNotCached, name, err)
	}
	return &contract, nil
}
