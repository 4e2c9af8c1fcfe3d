package storage

import "database/sql"

// migrateV001 creates the initial Momentline schema. Every statement uses
// IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS moments (
			id          TEXT PRIMARY KEY,
			timeline_id TEXT NOT NULL DEFAULT 'default',
			ts          TEXT NOT NULL,
			end_ts      TEXT,
			title       TEXT NOT NULL DEFAULT '',
			note        TEXT NOT NULL DEFAULT '',
			y           REAL NOT NULL DEFAULT 0,
			width       REAL NOT NULL DEFAULT 0,
			height      REAL NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS canvas_snapshots (
			timeline_id  TEXT PRIMARY KEY,
			center_ts    TEXT NOT NULL,
			ms_per_pixel REAL NOT NULL,
			saved_at     TEXT NOT NULL
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_moments_ts          ON moments(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_moments_timeline_ts ON moments(timeline_id, ts)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_saved_at  ON canvas_snapshots(saved_at)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
