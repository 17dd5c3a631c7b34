package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// jsonDocument is the on-disk layout of a JSONStore.
type jsonDocument struct {
	Version int                        `json:"version"`
	Values  map[string]json.RawMessage `json:"values"`
}

// JSONStore keeps every key in a single JSON file. Values must themselves
// be valid JSON.
type JSONStore struct {
	path string

	mu  sync.Mutex
	doc *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &jsonDocument{Version: 1, Values: map[string]json.RawMessage{}}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Values == nil {
		doc.Values = map[string]json.RawMessage{}
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) GetConfigPath() string { return s.path }

func (s *JSONStore) Read(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, false, ErrNotInitialized
	}
	v, ok := s.doc.Values[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone([]byte(v)), true, nil
}

func (s *JSONStore) Write(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotInitialized
	}
	s.doc.Values[key] = slices.Clone(value)
	return s.save()
}

func (s *JSONStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotInitialized
	}
	if _, ok := s.doc.Values[key]; !ok {
		return nil
	}
	delete(s.doc.Values, key)
	return s.save()
}

func (s *JSONStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrNotInitialized
	}
	keys := make([]string, 0, len(s.doc.Values))
	for k := range s.doc.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// save writes to a temp file and renames it over the target.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}
