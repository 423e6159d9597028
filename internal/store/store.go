// Package store provides the SQLite-backed persistence layer. It is the
// only writer of durable state: append-only session, snapshot, and focus
// tables plus upsert-by-key aggregate tables.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/lookout/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store wraps the SQLite database. Methods are safe for use from the
// tracker, sampler, and history tasks concurrently; each logical
// operation is one transaction or one statement.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	// database/sql would otherwise open concurrent connections that
	// contend for the sqlite write lock.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendSession inserts one closed session row.
func (s *Store) AppendSession(sess model.Session) error {
	_, err := s.db.Exec(`INSERT INTO sessions
		(app, title, start_time, end_time, duration_secs, category, memory_bytes, cpu_percent, pid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.App, sess.Title, fmtTime(sess.StartTime), fmtTime(sess.EndTime),
		sess.DurationSec, string(sess.Category), sess.MemoryBytes, sess.CPUPercent, sess.PID,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// AppendFocusSession inserts the terminal record of one focus run.
func (s *Store) AppendFocusSession(fs model.FocusSession) error {
	_, err := s.db.Exec(`INSERT INTO focus_sessions
		(start_time, end_time, target_minutes, focus_seconds, distraction_secs, interruptions, score, goal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fmtTime(fs.StartTime), fmtTime(fs.EndTime), fs.TargetMinutes,
		fs.FocusSeconds, fs.DistractionSecs, fs.Interruptions, fs.Score, fs.Goal,
	)
	if err != nil {
		return fmt.Errorf("inserting focus session: %w", err)
	}
	return nil
}

// AppendProcessSnapshots inserts one sampler tick's snapshots in a single
// transaction.
func (s *Store) AppendProcessSnapshots(snaps []model.ProcessSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO process_snapshots
		(timestamp, app, pid, memory_bytes, cpu_percent, threads)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sn := range snaps {
		if _, err := stmt.Exec(fmtTime(sn.Timestamp), sn.App, sn.PID,
			sn.MemoryBytes, sn.CPUPercent, sn.Threads); err != nil {
			return fmt.Errorf("inserting snapshot: %w", err)
		}
	}

	return tx.Commit()
}

// AppendBrowserVisits inserts history rows, ignoring duplicates, in one
// transaction.
func (s *Store) AppendBrowserVisits(visits []model.BrowserVisit) error {
	if len(visits) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning visits tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO browser_visits
		(url, title, visited_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing visit insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, v := range visits {
		if _, err := stmt.Exec(v.URL, v.Title, fmtTime(v.VisitedAt)); err != nil {
			return fmt.Errorf("inserting visit: %w", err)
		}
	}

	return tx.Commit()
}

// SessionsOn returns all sessions whose start time falls on the given
// local calendar day, ordered by start time.
func (s *Store) SessionsOn(date time.Time) ([]model.Session, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := s.db.Query(`SELECT
		id, app, title, start_time, end_time, duration_secs, category, memory_bytes, cpu_percent, pid
		FROM sessions WHERE start_time >= ? AND start_time < ? ORDER BY start_time`,
		fmtTime(dayStart), fmtTime(dayEnd))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// RecentSessions returns the most recent n sessions, newest first.
func (s *Store) RecentSessions(n int) ([]model.Session, error) {
	rows, err := s.db.Query(`SELECT
		id, app, title, start_time, end_time, duration_secs, category, memory_bytes, cpu_percent, pid
		FROM sessions ORDER BY start_time DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// RecentFocusSessions returns the most recent n focus runs, newest first.
func (s *Store) RecentFocusSessions(n int) ([]model.FocusSession, error) {
	rows, err := s.db.Query(`SELECT
		id, start_time, end_time, target_minutes, focus_seconds, distraction_secs, interruptions, score, goal
		FROM focus_sessions ORDER BY start_time DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.FocusSession
	for rows.Next() {
		var fs model.FocusSession
		var start, end string
		if err := rows.Scan(&fs.ID, &start, &end, &fs.TargetMinutes, &fs.FocusSeconds,
			&fs.DistractionSecs, &fs.Interruptions, &fs.Score, &fs.Goal); err != nil {
			return nil, err
		}
		fs.StartTime = parseTime(start)
		fs.EndTime = parseTime(end)
		out = append(out, fs)
	}
	return out, rows.Err()
}

func scanSessions(rows *sql.Rows) ([]model.Session, error) {
	var out []model.Session
	for rows.Next() {
		var sess model.Session
		var start, end, cat string
		if err := rows.Scan(&sess.ID, &sess.App, &sess.Title, &start, &end,
			&sess.DurationSec, &cat, &sess.MemoryBytes, &sess.CPUPercent, &sess.PID); err != nil {
			return nil, err
		}
		sess.StartTime = parseTime(start)
		sess.EndTime = parseTime(end)
		sess.Category = model.Category(cat)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// fmtTime serializes times as UTC RFC3339 so lexical order matches
// chronological order.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func dayKey(date time.Time) string {
	return date.Format("2006-01-02")
}
