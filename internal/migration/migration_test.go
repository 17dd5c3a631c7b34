package migration

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/studystreak/migrations"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		want    []int
		wantErr string
	}{
		{
			name: "sorted by version",
			files: fstest.MapFS{
				"002_second.sql": {Data: []byte("SELECT 2;")},
				"001_first.sql":  {Data: []byte("SELECT 1;")},
				"README.md":      {Data: []byte("ignored")},
			},
			want: []int{1, 2},
		},
		{
			name:    "bad filename",
			files:   fstest.MapFS{"init.sql": {Data: []byte("")}},
			wantErr: "invalid",
		},
		{
			name:    "zero version",
			files:   fstest.MapFS{"000_zero.sql": {Data: []byte("")}},
			wantErr: "at least 1",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"001_a.sql":  {Data: []byte("")},
				"0001_b.sql": {Data: []byte("")},
			},
			wantErr: "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRunner(nil, tt.files).ReadMigrationFiles()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d migrations, want %d", len(got), len(tt.want))
			}
			for i, m := range got {
				if m.Version != tt.want[i] {
					t.Errorf("migration %d version = %d, want %d", i, m.Version, tt.want[i])
				}
			}
		})
	}
}

func TestApplyEmbeddedSQLiteMigrations(t *testing.T) {
	db := setupTestDB(t)
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(db, sub)

	var logs []string
	applied, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	latest, _ := runner.GetLatestVersion()
	if applied != latest {
		t.Errorf("applied %d migrations, want %d", applied, latest)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	if _, err := db.Exec("INSERT INTO kv_store (key, value, updated_at) VALUES ('k', '1', 'now')"); err != nil {
		t.Errorf("kv_store not created: %v", err)
	}

	again, err := runner.ApplyMigrations(nil)
	if err != nil || again != 0 {
		t.Errorf("second ApplyMigrations = %d, %v, want 0, nil", again, err)
	}
	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion() = %v", err)
	}
}

func TestValidateVersionRejectsNewerSchema(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{"001_init.sql": {Data: []byte("CREATE TABLE t (id INTEGER);")}})

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if v, _ := runner.GetCurrentVersion(); v != 5 {
		t.Errorf("GetCurrentVersion() = %d, want 5", v)
	}
	if err := runner.ValidateVersion(); !errors.Is(err, ErrNewerSchema) || !strings.Contains(err.Error(), "version 5") {
		t.Errorf("ValidateVersion() = %v, want ErrNewerSchema", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should refuse a newer schema")
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE nope (")},
	})

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if v, _ := runner.GetCurrentVersion(); v != 1 {
		t.Errorf("version after failure = %d, want 1", v)
	}
}
