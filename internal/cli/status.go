package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/momentline/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string              `json:"version"`
	DatabasePath      string              `json:"database_path"`
	DatabaseSizeBytes int64               `json:"database_size_bytes"`
	TotalMoments      int64               `json:"total_moments"`
	TotalTimelines    int64               `json:"total_timelines"`
	TotalSnapshots    int64               `json:"total_snapshots"`
	OldestMoment      string              `json:"oldest_moment,omitempty"`
	NewestMoment      string              `json:"newest_moment,omitempty"`
	RetentionDays     int                 `json:"retention_days"`
	DefaultZoom       string              `json:"default_zoom"`
	Timezone          string              `json:"timezone"`
	TopTimelines      []timelineCountJSON `json:"top_timelines"`
}

type timelineCountJSON struct {
	Timeline string `json:"timeline"`
	Count    int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	e, closeEnv, err := openEnv(c.globals, loggingSetup)
	if err != nil {
		return err
	}
	defer closeEnv()

	return c.executeWith(e)
}

// executeWith runs status against a prepared env (for testing).
func (c *StatusCommand) executeWith(e *env) error {
	stats, err := e.store.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbSize := stats.DatabaseSizeBytes
	if info, err := os.Stat(e.dbPath); err == nil {
		dbSize = info.Size()
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(e, stats, dbSize)
	}
	return c.printStatusHuman(e, stats, dbSize)
}

func (c *StatusCommand) printStatusHuman(e *env, stats *storage.Stats, dbSize int64) error {
	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}

	fmt.Println("Momentline Status")
	fmt.Println("=================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", e.dbPath, formatBytes(dbSize))
	fmt.Printf("Moments:       %s\n", formatNumber(stats.TotalMoments))
	fmt.Printf("Timelines:     %s\n", formatNumber(stats.TotalTimelines))

	if stats.TotalMoments > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestMoment.In(loc).Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestMoment.In(loc).Format("2006-01-02"))
	}

	fmt.Printf("Retention:     %d days\n", e.cfg.Retention.Days)
	fmt.Printf("Default zoom:  %s\n", e.cfg.View.DefaultZoom)
	fmt.Printf("Timezone:      %s\n", loc)

	if len(stats.TopTimelines) > 0 {
		fmt.Println()
		fmt.Println("Top Timelines:")
		for _, t := range stats.TopTimelines {
			fmt.Printf("  %-20s %s\n", t.TimelineID, formatNumber(t.Count))
		}
	}

	fmt.Println()
	fmt.Printf("Saved views:   %s\n", formatNumber(stats.TotalSnapshots))
	return nil
}

func (c *StatusCommand) printStatusJSON(e *env, stats *storage.Stats, dbSize int64) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      e.dbPath,
		DatabaseSizeBytes: dbSize,
		TotalMoments:      stats.TotalMoments,
		TotalTimelines:    stats.TotalTimelines,
		TotalSnapshots:    stats.TotalSnapshots,
		RetentionDays:     e.cfg.Retention.Days,
		DefaultZoom:       e.cfg.View.DefaultZoom,
		Timezone:          e.cfg.View.Timezone,
		TopTimelines:      make([]timelineCountJSON, len(stats.TopTimelines)),
	}

	if stats.TotalMoments > 0 {
		out.OldestMoment = stats.OldestMoment.UTC().Format(time.RFC3339)
		out.NewestMoment = stats.NewestMoment.UTC().Format(time.RFC3339)
	}

	for i, t := range stats.TopTimelines {
		out.TopTimelines[i] = timelineCountJSON{Timeline: t.TimelineID, Count: t.Count}
	}

	return printJSON(out)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
