// Package dirstore is a storage.Gateway that keeps one file per key in a
// directory tree. Slash-separated keys become nested directories.
package dirstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/studystreak/internal/storage"
)

const cacheSizeMax = 1024 * 1024 // 1MB

type Store struct {
	basePath string
	d        *diskv.Diskv
}

func New(basePath string) *Store {
	return &Store{basePath: basePath}
}

func (s *Store) open() {
	s.d = diskv.New(diskv.Options{
		BasePath:          s.basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      cacheSizeMax,
		FilePerm:          0600,
		PathPerm:          0700,
	})
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.basePath, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.open()
	return nil
}

func (s *Store) Load() error {
	if s.d != nil {
		return nil
	}
	info, err := os.Stat(s.basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.ErrNotInitialized
		}
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.basePath)
	}
	s.open()
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string { return s.basePath }

func (s *Store) Read(key string) ([]byte, bool, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, false, err
	}
	if s.d == nil {
		return nil, false, storage.ErrNotInitialized
	}
	if !s.d.Has(key) {
		return nil, false, nil
	}
	v, err := s.d.Read(key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Write(key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if s.d == nil {
		return storage.ErrNotInitialized
	}
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	if s.d == nil {
		return storage.ErrNotInitialized
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("failed to erase %q: %w", key, err)
	}
	return nil
}

func (s *Store) Keys() ([]string, error) {
	if s.d == nil {
		return nil, storage.ErrNotInitialized
	}
	cancel := make(chan struct{})
	defer close(cancel)

	var keys []string
	for k := range s.d.Keys(cancel) {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	var parts []string
	for _, p := range pathKey.Path {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(append(parts, pathKey.FileName), "/")
}
