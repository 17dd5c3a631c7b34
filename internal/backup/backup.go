// Package backup keeps rotating copies of the storage backend. SQLite
// databases are copied with VACUUM INTO; every other backend is dumped
// into an xz-compressed JSON snapshot of its keys.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ulikunitz/xz"

	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/logger"
	"github.com/julianstephens/studystreak/internal/storage"
	"github.com/julianstephens/studystreak/internal/storage/sqlite"
	"github.com/julianstephens/studystreak/internal/storage/sqlkv"
)

const (
	// DatabaseSuffix marks SQLite file copies.
	DatabaseSuffix = ".db"
	// SnapshotSuffix marks compressed key dumps.
	SnapshotSuffix = ".json.xz"

	snapshotVersion = 1
)

var ErrUnknownFormat = errors.New("unrecognized backup file")

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

type snapshot struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"createdAt"`
	Source    string            `json:"source"`
	Values    map[string]string `json:"values"`
}

// Manager handles backup operations for one gateway.
type Manager struct {
	gw        storage.Gateway
	backupDir string
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewManager creates a manager writing into backupDir. Namespaced
// gateways are unwrapped so a backup always covers every user.
func NewManager(gw storage.Gateway, backupDir string) *Manager {
	return &Manager{gw: root(gw), backupDir: backupDir}
}

func root(gw storage.Gateway) storage.Gateway {
	for {
		w, ok := gw.(interface{ Unwrap() storage.Gateway })
		if !ok {
			return gw
		}
		gw = w.Unwrap()
	}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) suffix() string {
	if _, ok := m.gw.(*sqlite.Store); ok {
		return DatabaseSuffix
	}
	return SnapshotSuffix
}

// CreateBackup writes a new backup and prunes the oldest beyond
// constants.MaxBackups.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation keeps the safety copy taken during a restore from evicting
// the backup being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.uniquePath(m.suffix())
	if err != nil {
		return "", err
	}

	if store, ok := m.gw.(*sqlite.Store); ok {
		err = m.vacuumInto(store, path)
	} else {
		err = m.writeSnapshot(path)
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to back up %s: %w", m.gw.GetConfigPath(), err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("failed to rotate old backups", "err", err)
		}
	}
	logger.Info("backup created", "path", path)
	return path, nil
}

// uniquePath picks a minute-stamped name, falling back to seconds and then
// a counter when backups are taken in quick succession.
func (m *Manager) uniquePath(suffix string) (string, error) {
	now := m.now()
	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		p := filepath.Join(m.backupDir, constants.BackupFilePrefix+now.Format(layout)+suffix)
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p, nil
		}
	}
	stamp := now.Format("20060102-150405")
	for counter := 1; counter <= 100; counter++ {
		p := filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, suffix))
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func (m *Manager) vacuumInto(store *sqlite.Store, dest string) error {
	db := store.GetDB()
	if db == nil {
		return storage.ErrNotInitialized
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		// Older SQLite builds lack VACUUM INTO; a checkpointed copy is
		// consistent while we hold the only connection.
		if _, cerr := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); cerr != nil {
			return fmt.Errorf("vacuum into failed: %w", err)
		}
		return copyFile(store.GetConfigPath(), dest)
	}
	return nil
}

func (m *Manager) writeSnapshot(dest string) error {
	keys, err := m.gw.Keys()
	if err != nil {
		return err
	}
	snap := snapshot{
		Version:   snapshotVersion,
		CreatedAt: m.now().UTC(),
		Source:    m.gw.GetConfigPath(),
		Values:    make(map[string]string, len(keys)),
	}
	for _, k := range keys {
		v, ok, err := m.gw.Read(k)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", k, err)
		}
		if ok {
			snap.Values[k] = string(v)
		}
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := xz.NewWriter(f)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Sync()
}

// ListBackups returns all recognized backups, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	slices.SortStableFunc(backups, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return backups, nil
}

// parseName extracts the timestamp from names like
// studystreak-20261016-0930.db or studystreak-20261016-093012-2.json.xz.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) {
		return time.Time{}, false
	}
	stamp := strings.TrimPrefix(name, constants.BackupFilePrefix)
	switch {
	case strings.HasSuffix(stamp, DatabaseSuffix):
		stamp = strings.TrimSuffix(stamp, DatabaseSuffix)
	case strings.HasSuffix(stamp, SnapshotSuffix):
		stamp = strings.TrimSuffix(stamp, SnapshotSuffix)
	default:
		return time.Time{}, false
	}

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, false
		}
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.Parse(layout, stamp); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for _, b := range backups[min(len(backups), constants.MaxBackups):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces every key in the gateway with the contents of the
// backup at path. The current data is backed up first.
func (m *Manager) RestoreBackup(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}

	values, err := ReadBackup(path)
	if err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	safety, err := m.createBackup(true)
	if err != nil {
		return "", fmt.Errorf("failed to back up current data before restore: %w", err)
	}

	current, err := m.gw.Keys()
	if err != nil {
		return safety, err
	}
	for _, k := range current {
		if _, keep := values[k]; keep {
			continue
		}
		if err := m.gw.Remove(k); err != nil {
			return safety, fmt.Errorf("failed to remove %q: %w", k, err)
		}
	}
	for k, v := range values {
		if err := m.gw.Write(k, v); err != nil {
			return safety, fmt.Errorf("failed to restore %q: %w", k, err)
		}
	}
	logger.Info("backup restored", "path", path, "keys", len(values), "safety", safety)
	return safety, nil
}

// ReadBackup loads the key-value contents of a backup file of either format.
func ReadBackup(path string) (map[string][]byte, error) {
	switch {
	case strings.HasSuffix(path, DatabaseSuffix):
		return readDatabase(path)
	case strings.HasSuffix(path, SnapshotSuffix):
		return readSnapshot(path)
	default:
		return nil, ErrUnknownFormat
	}
}

func readDatabase(path string) (map[string][]byte, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM sqlite_master"); err != nil {
		return nil, err
	}

	table := sqlkv.Table{DB: db}
	keys, err := table.Keys()
	if err != nil {
		return nil, err
	}
	values := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, ok, err := table.Read(k)
		if err != nil {
			return nil, err
		}
		if ok {
			values[k] = v
		}
	}
	return values, nil
}

func readSnapshot(path string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported %d", snap.Version, snapshotVersion)
	}
	values := make(map[string][]byte, len(snap.Values))
	for k, v := range snap.Values {
		values[k] = []byte(v)
	}
	return values, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
