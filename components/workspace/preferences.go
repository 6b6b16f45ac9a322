package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// PreferencesVersion is the current schema version of the preference document.
const PreferencesVersion = 1

// Preferences is the durable selection state carried across sessions. Zero
// ids mean "unset".
type Preferences struct {
	Version     int   `yaml:"version" json:"version"`
	DatasetID   int64 `yaml:"dataset_id" json:"dataset_id"`
	DashboardID int64 `yaml:"dashboard_id" json:"dashboard_id"`
}

// PreferenceStore persists selection preferences between sessions.
type PreferenceStore interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
}

// InMemoryPreferenceStore is the concurrency-safe default store.
type InMemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs Preferences
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{prefs: Preferences{Version: PreferencesVersion}}
}

// Load returns the stored preferences.
func (s *InMemoryPreferenceStore) Load(context.Context) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs, nil
}

// Save replaces the stored preferences.
func (s *InMemoryPreferenceStore) Save(_ context.Context, prefs Preferences) error {
	prefs.Version = PreferencesVersion
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
	return nil
}

// FilePreferenceStore persists preferences as a YAML document on disk,
// surviving restarts.
type FilePreferenceStore struct {
	path string
	mu   sync.Mutex
}

// NewFilePreferenceStore builds a store writing to the given path.
func NewFilePreferenceStore(path string) (*FilePreferenceStore, error) {
	if path == "" {
		return nil, errors.New("workspace: preference path is required")
	}
	return &FilePreferenceStore{path: path}, nil
}

// Load reads preferences from disk. A missing file yields empty preferences.
func (s *FilePreferenceStore) Load(context.Context) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Preferences{Version: PreferencesVersion}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("workspace: read preferences: %w", err)
	}
	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("workspace: parse preferences: %w", err)
	}
	if prefs.Version == 0 {
		prefs.Version = PreferencesVersion
	}
	return prefs, nil
}

// Save writes preferences to disk, creating parent directories as needed.
func (s *FilePreferenceStore) Save(_ context.Context, prefs Preferences) error {
	prefs.Version = PreferencesVersion
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("workspace: encode preferences: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("workspace: create preference dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("workspace: write preferences: %w", err)
	}
	return nil
}
