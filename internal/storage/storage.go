// Package storage defines the key-value gateway that persists studystreak
// state, together with the in-memory and JSON file backends. SQL and
// directory backends live in subpackages.
package storage

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

var (
	ErrNotInitialized      = errors.New("storage not initialized, run 'studystreak init' first")
	ErrAlreadyInitialized  = errors.New("storage already initialized")
	ErrEmbeddedCredentials = errors.New("connection string must not contain a password")
	ErrInvalidKey          = errors.New("storage key cannot be empty")
)

// Gateway is a string-keyed store of JSON documents.
type Gateway interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Read returns the value stored under key and whether it exists.
	Read(key string) ([]byte, bool, error)
	Write(key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	Keys() ([]string, error)

	GetConfigPath() string
}

// ValidateKey rejects keys that no backend can store.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}

// MemoryStore keeps values in process memory. It backs tests and the
// --memory flag.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Init() error  { return nil }
func (m *MemoryStore) Load() error  { return nil }
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) GetConfigPath() string { return ":memory:" }

func (m *MemoryStore) Read(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *MemoryStore) Write(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = slices.Clone(value)
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Namespaced prefixes every key with a fixed namespace, so several users
// can share one backend.
type Namespaced struct {
	Gateway
	prefix string
}

// WithNamespace wraps g. An empty namespace returns g unchanged.
func WithNamespace(g Gateway, namespace ...string) Gateway {
	var parts []string
	for _, p := range namespace {
		if p = strings.Trim(p, "/ "); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return g
	}
	return &Namespaced{Gateway: g, prefix: strings.Join(parts, "/") + "/"}
}

func (n *Namespaced) Read(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	return n.Gateway.Read(n.prefix + key)
}

func (n *Namespaced) Write(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return n.Gateway.Write(n.prefix+key, value)
}

func (n *Namespaced) Remove(key string) error {
	return n.Gateway.Remove(n.prefix + key)
}

// Keys lists the keys inside the namespace with the prefix stripped.
func (n *Namespaced) Keys() ([]string, error) {
	all, err := n.Gateway.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range all {
		if rest, ok := strings.CutPrefix(k, n.prefix); ok {
			out = append(out, rest)
		}
	}
	return out, nil
}

// Unwrap returns the underlying gateway.
func (n *Namespaced) Unwrap() Gateway { return n.Gateway }
