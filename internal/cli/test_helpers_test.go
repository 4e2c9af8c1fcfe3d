package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/momentline/internal/config"
	"github.com/runnerr0/momentline/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testNow is Friday 2024-03-15 12:00 UTC.
var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// testEnv builds an env around a migrated in-memory store with UTC config
// and a fixed clock.
func testEnv(t *testing.T) (*env, *storage.SQLiteStore) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewMigrationRunner(db).Run())
	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.View.Timezone = "UTC"

	e := newEnv(cfg, store, ":memory:")
	e.now = func() time.Time { return testNow }
	return e, store
}

// testArgs writes a config rooted in a temp dir and returns global flags
// pointing at it, so full command runs never touch the home directory.
func testArgs(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := strings.Join([]string{
		"storage:",
		"  path: " + dir,
		"view:",
		"  timezone: UTC",
		"logging:",
		`  file: ""`,
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))
	return []string{"--config", cfgPath, "--db", filepath.Join(dir, "test.db")}
}

func addTestMoment(t *testing.T, store *storage.SQLiteStore, m storage.Moment) *storage.Moment {
	t.Helper()
	require.NoError(t, store.AddMoment(context.Background(), &m))
	return &m
}
