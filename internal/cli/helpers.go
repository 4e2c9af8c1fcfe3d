package cli

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/momentline/internal/config"
	"github.com/runnerr0/momentline/internal/coords"
	"github.com/runnerr0/momentline/internal/layout"
	"github.com/runnerr0/momentline/internal/logging"
	"github.com/runnerr0/momentline/internal/storage"
)

// env is everything a command runs against once global flags are resolved.
// Tests build one directly around an in-memory store.
type env struct {
	cfg    *config.Config
	store  storage.Store
	dbPath string
	now    func() time.Time
}

func newEnv(cfg *config.Config, store storage.Store, dbPath string) *env {
	return &env{cfg: cfg, store: store, dbPath: dbPath, now: time.Now}
}

type logSetup func(filename string, level logging.Level) (func(), error)

var loggingSetup logSetup = logging.SetupLogging

// openEnv loads config, sets up logging and opens the store. The returned
// func releases all of it.
func openEnv(g *GlobalFlags, setup logSetup) (*env, func(), error) {
	cfgPath, err := config.ResolvePath(g.Config)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadOrCreateAt(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	if g.Verbose {
		level = logging.LevelDebug
	}
	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, nil, err
	}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	closeLog, err := setup(logPath, level)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}

	dbPath := g.DB
	if dbPath == "" {
		if dbPath, err = cfg.DBPath(); err != nil {
			closeLog()
			return nil, nil, err
		}
	}
	store, db, err := openStore(dbPath, cfg.Storage.JournalMode)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	logging.Debugf("cli: opened %s (config %s)", dbPath, cfgPath)

	closeAll := func() {
		store.Close()
		db.Close()
		closeLog()
	}
	return newEnv(cfg, store, dbPath), closeAll, nil
}

// openStore opens the SQLite database at dbPath, runs migrations, and
// returns a ready-to-use store and the underlying *sql.DB.
func openStore(dbPath, journalMode string) (*storage.SQLiteStore, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if journalMode != "" {
		if err := runner.SetJournalMode(journalMode); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	return store, db, nil
}

// parseDuration parses a human-friendly duration string like "30d", "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, w, or m suffix)", s)
	}
}

// formatDurationHuman formats a duration into a human-readable string like "30 days".
func formatDurationHuman(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours > 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts "now" (or ""), RFC3339 and a few local wall-clock
// layouts interpreted in loc.
func parseTime(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}
	for _, l := range timeLayouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use now, RFC3339, 2006-01-02 15:04 or 2006-01-02)", s)
}

// zoomLevel resolves a unit name, falling back to the configured default.
func zoomLevel(name string, cfg *config.Config) (coords.ZoomLevel, error) {
	if name == "" {
		idx, err := cfg.DefaultZoomLevel()
		if err != nil {
			return coords.ZoomLevel{}, err
		}
		return coords.Levels[idx], nil
	}
	u, err := coords.ParseUnit(name)
	if err != nil {
		return coords.ZoomLevel{}, err
	}
	idx, err := coords.LevelForUnit(u)
	if err != nil {
		return coords.ZoomLevel{}, err
	}
	return coords.Levels[idx], nil
}

// neighbourhood loads every moment that can collide with m into a layout
// engine persisting through the store.
func neighbourhood(ctx context.Context, e *env, m *storage.Moment) (*layout.Engine, error) {
	moments, err := e.store.ListMoments(ctx, storage.MomentQuery{
		TimelineID: m.TimelineID,
		Since:      m.Timestamp.Add(-layout.OverlapWindow),
		Until:      m.Timestamp.Add(layout.OverlapWindow),
		Limit:      math.MaxInt32,
	})
	if err != nil {
		return nil, fmt.Errorf("load neighbours of %s: %w", m.ID, err)
	}
	engine := layout.NewEngine(layout.WithPersister(storage.LayoutPersister{Store: e.store}))
	engine.Load(storage.LayoutMoments(moments))
	return engine, nil
}

// warnOverlaps reports cards the single-pass push left overlapping.
func warnOverlaps(engine *layout.Engine) [][2]string {
	pairs := engine.Overlaps()
	for _, p := range pairs {
		logging.Warnf("layout: %s and %s still overlap", p[0], p[1])
		fmt.Fprintf(os.Stderr, "warning: %s and %s still overlap; move one of them again\n", p[0], p[1])
	}
	return pairs
}

// prompt prints msg and returns the next input line, trimmed.
func prompt(in io.Reader, msg string) (string, error) {
	if in == nil {
		in = os.Stdin
	}
	fmt.Print(msg)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return "", fmt.Errorf("aborted: no input received")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
