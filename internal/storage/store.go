package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is wrapped by every lookup that misses.
var ErrNotFound = errors.New("not found")

// tsLayout is fixed-width so stored timestamps sort lexically.
const tsLayout = "2006-01-02T15:04:05.000Z"

// Store defines the interface for Momentline data operations.
type Store interface {
	AddMoment(ctx context.Context, m *Moment) error
	GetMoment(ctx context.Context, id string) (*Moment, error)
	ListMoments(ctx context.Context, q MomentQuery) ([]Moment, error)
	UpdateMoment(ctx context.Context, m *Moment) error
	SavePositions(ctx context.Context, positions []Position) error
	SaveSize(ctx context.Context, id string, width, height float64) error
	DeleteMoment(ctx context.Context, id string) error
	PruneBefore(ctx context.Context, before time.Time) (int64, error)
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	SaveCanvas(ctx context.Context, snap CanvasSnapshot) error
	LoadCanvas(ctx context.Context, timelineID string) (*CanvasSnapshot, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time

	// Prepared statements
	insertMoment *sql.Stmt
	getMoment    *sql.Stmt
	deleteMoment *sql.Stmt
	updateSize   *sql.Stmt
	upsertCanvas *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, now: time.Now}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

const momentColumns = `id, timeline_id, ts, end_ts, title, note, y, width, height, created_at, updated_at`

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertMoment, err = s.db.Prepare(`
		INSERT INTO moments (` + momentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getMoment, err = s.db.Prepare(`SELECT ` + momentColumns + ` FROM moments WHERE id = ?`)
	if err != nil {
		return err
	}

	s.deleteMoment, err = s.db.Prepare(`DELETE FROM moments WHERE id = ?`)
	if err != nil {
		return err
	}

	s.updateSize, err = s.db.Prepare(`
		UPDATE moments SET width = ?, height = ?, updated_at = ? WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.upsertCanvas, err = s.db.Prepare(`
		INSERT INTO canvas_snapshots (timeline_id, center_ts, ms_per_pixel, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(timeline_id) DO UPDATE SET
			center_ts = excluded.center_ts,
			ms_per_pixel = excluded.ms_per_pixel,
			saved_at = excluded.saved_at
	`)
	if err != nil {
		return err
	}

	return nil
}

// generateID creates a moment ID: MOM- + 8 random hex chars.
func generateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "MOM-" + hex.EncodeToString(b), nil
}

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		tsLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

func validate(m *Moment) error {
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("moment title is required")
	}
	if m.EndTime != nil && m.EndTime.Before(m.Timestamp) {
		return fmt.Errorf("end time %s is before start %s",
			m.EndTime.Format(time.RFC3339), m.Timestamp.Format(time.RFC3339))
	}
	return nil
}

func nullableTS(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTS(*t), Valid: true}
}

// AddMoment inserts a new moment. ID, CreatedAt and UpdatedAt are populated
// automatically; a zero Timestamp means now and an empty TimelineID means
// DefaultTimeline.
func (s *SQLiteStore) AddMoment(ctx context.Context, m *Moment) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = s.now()
	}
	if m.TimelineID == "" {
		m.TimelineID = DefaultTimeline
	}
	if err := validate(m); err != nil {
		return err
	}

	id, err := generateID()
	if err != nil {
		return fmt.Errorf("generate ID: %w", err)
	}
	m.ID = id
	now := s.now()
	m.CreatedAt, m.UpdatedAt = now, now

	_, err = s.insertMoment.ExecContext(ctx,
		m.ID, m.TimelineID, formatTS(m.Timestamp), nullableTS(m.EndTime),
		m.Title, m.Note, m.Y, m.Width, m.Height, formatTS(now), formatTS(now),
	)
	if err != nil {
		return fmt.Errorf("insert moment: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMoment(row rowScanner) (*Moment, error) {
	var m Moment
	var ts, created, updated string
	var end sql.NullString
	if err := row.Scan(
		&m.ID, &m.TimelineID, &ts, &end, &m.Title, &m.Note,
		&m.Y, &m.Width, &m.Height, &created, &updated,
	); err != nil {
		return nil, err
	}

	var err error
	if m.Timestamp, err = parseTimestamp(ts); err != nil {
		return nil, err
	}
	if end.Valid {
		t, err := parseTimestamp(end.String)
		if err != nil {
			return nil, err
		}
		m.EndTime = &t
	}
	m.CreatedAt, _ = parseTimestamp(created)
	m.UpdatedAt, _ = parseTimestamp(updated)
	return &m, nil
}

// GetMoment retrieves a single moment by ID.
func (s *SQLiteStore) GetMoment(ctx context.Context, id string) (*Moment, error) {
	m, err := scanMoment(s.getMoment.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("moment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get moment: %w", err)
	}
	return m, nil
}

// ListMoments returns moments matching q, oldest first.
func (s *SQLiteStore) ListMoments(ctx context.Context, q MomentQuery) ([]Moment, error) {
	if q.Limit <= 0 {
		q.Limit = 500
	}

	var clauses []string
	var args []interface{}

	if q.TimelineID != "" {
		clauses = append(clauses, "timeline_id = ?")
		args = append(args, q.TimelineID)
	}
	if q.Query != "" {
		clauses = append(clauses, "(title LIKE ? OR note LIKE ?)")
		like := "%" + q.Query + "%"
		args = append(args, like, like)
	}
	if !q.Since.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, formatTS(q.Since))
	}
	if !q.Until.IsZero() {
		clauses = append(clauses, "ts <= ?")
		args = append(args, formatTS(q.Until))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	query := "SELECT " + momentColumns + " FROM moments" + where + " ORDER BY ts ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query moments: %w", err)
	}
	defer rows.Close()

	moments := []Moment{}
	for rows.Next() {
		m, err := scanMoment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan moment: %w", err)
		}
		moments = append(moments, *m)
	}
	return moments, rows.Err()
}

// UpdateMoment overwrites every editable field of an existing moment.
func (s *SQLiteStore) UpdateMoment(ctx context.Context, m *Moment) error {
	if m.TimelineID == "" {
		m.TimelineID = DefaultTimeline
	}
	if err := validate(m); err != nil {
		return err
	}
	m.UpdatedAt = s.now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE moments SET timeline_id = ?, ts = ?, end_ts = ?, title = ?, note = ?,
			y = ?, width = ?, height = ?, updated_at = ?
		WHERE id = ?`,
		m.TimelineID, formatTS(m.Timestamp), nullableTS(m.EndTime), m.Title, m.Note,
		m.Y, m.Width, m.Height, formatTS(m.UpdatedAt), m.ID,
	)
	if err != nil {
		return fmt.Errorf("update moment: %w", err)
	}
	return checkAffected(res, m.ID)
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("moment %s: %w", id, ErrNotFound)
	}
	return nil
}

// SavePositions writes a batch of settled positions in one transaction. If
// any ID is unknown nothing is written.
func (s *SQLiteStore) SavePositions(ctx context.Context, positions []Position) error {
	if len(positions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `UPDATE moments SET y = ?, updated_at = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare position update: %w", err)
	}
	defer stmt.Close()

	now := formatTS(s.now())
	for _, p := range positions {
		res, err := stmt.ExecContext(ctx, p.Y, now, p.ID)
		if err != nil {
			return fmt.Errorf("update position of %s: %w", p.ID, err)
		}
		if err := checkAffected(res, p.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveSize stores a card's resized footprint.
func (s *SQLiteStore) SaveSize(ctx context.Context, id string, width, height float64) error {
	res, err := s.updateSize.ExecContext(ctx, width, height, formatTS(s.now()), id)
	if err != nil {
		return fmt.Errorf("update size: %w", err)
	}
	return checkAffected(res, id)
}

// DeleteMoment removes a moment by ID.
func (s *SQLiteStore) DeleteMoment(ctx context.Context, id string) error {
	res, err := s.deleteMoment.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete moment: %w", err)
	}
	return checkAffected(res, id)
}

// PruneBefore deletes moments whose timestamp is before the cutoff.
func (s *SQLiteStore) PruneBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM moments WHERE ts < ?", formatTS(before))
	if err != nil {
		return 0, fmt.Errorf("prune moments: %w", err)
	}
	return res.RowsAffected()
}

// PurgeAll deletes all moments and canvas snapshots.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM canvas_snapshots",
		"DELETE FROM moments",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT timeline_id) FROM moments",
	).Scan(&stats.TotalMoments, &stats.TotalTimelines)
	if err != nil {
		return nil, fmt.Errorf("count moments: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM canvas_snapshots").Scan(&stats.TotalSnapshots)
	if err != nil {
		return nil, fmt.Errorf("count snapshots: %w", err)
	}

	if stats.TotalMoments > 0 {
		var oldest, newest string
		err = s.db.QueryRowContext(ctx, "SELECT MIN(ts), MAX(ts) FROM moments").Scan(&oldest, &newest)
		if err != nil {
			return nil, fmt.Errorf("moment time range: %w", err)
		}
		stats.OldestMoment, _ = parseTimestamp(oldest)
		stats.NewestMoment, _ = parseTimestamp(newest)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats.DatabaseSizeBytes = pageCount * pageSize
		}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT timeline_id, COUNT(*) AS cnt FROM moments GROUP BY timeline_id ORDER BY cnt DESC, timeline_id LIMIT 10",
	)
	if err != nil {
		return nil, fmt.Errorf("top timelines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc TimelineCount
		if err := rows.Scan(&tc.TimelineID, &tc.Count); err != nil {
			return nil, err
		}
		stats.TopTimelines = append(stats.TopTimelines, tc)
	}

	return stats, rows.Err()
}

// SaveCanvas stores the view of one timeline, replacing any earlier snapshot.
func (s *SQLiteStore) SaveCanvas(ctx context.Context, snap CanvasSnapshot) error {
	if snap.TimelineID == "" {
		snap.TimelineID = DefaultTimeline
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = s.now()
	}
	_, err := s.upsertCanvas.ExecContext(ctx,
		snap.TimelineID, formatTS(snap.Center), snap.MsPerPixel, formatTS(snap.SavedAt),
	)
	if err != nil {
		return fmt.Errorf("save canvas: %w", err)
	}
	return nil
}

// LoadCanvas returns the snapshot for timelineID, or the most recently saved
// snapshot of any timeline when timelineID is empty.
func (s *SQLiteStore) LoadCanvas(ctx context.Context, timelineID string) (*CanvasSnapshot, error) {
	query := "SELECT timeline_id, center_ts, ms_per_pixel, saved_at FROM canvas_snapshots"
	var args []interface{}
	if timelineID != "" {
		query += " WHERE timeline_id = ?"
		args = append(args, timelineID)
	}
	query += " ORDER BY saved_at DESC LIMIT 1"

	var snap CanvasSnapshot
	var center, saved string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&snap.TimelineID, &center, &snap.MsPerPixel, &saved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("canvas snapshot %q: %w", timelineID, ErrNotFound)
		}
		return nil, fmt.Errorf("load canvas: %w", err)
	}
	if snap.Center, err = parseTimestamp(center); err != nil {
		return nil, err
	}
	snap.SavedAt, _ = parseTimestamp(saved)
	return &snap, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.insertMoment, s.getMoment, s.deleteMoment,
		s.updateSize, s.upsertCanvas,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
