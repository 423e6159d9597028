// Package history imports browser history into the lookout database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/schedule"
)

// chromeEpochOffsetMicros converts Chromium's microseconds-since-1601
// timestamps to the Unix epoch.
const chromeEpochOffsetMicros = 11644473600000000

// maxVisitsPerSync bounds one sync pass.
const maxVisitsPerSync = 500

// VisitSink receives imported visits. *store.Store satisfies it.
type VisitSink interface {
	AppendBrowserVisits([]model.BrowserVisit) error
}

// Config wires a Syncer.
type Config struct {
	// DBPath is the browser's History SQLite file (Chromium layout).
	DBPath   string
	Sink     VisitSink
	Interval time.Duration
}

// Syncer periodically copies the browser's history database (the live
// file is locked while the browser runs) and imports recent visits.
// Every tick is best effort.
type Syncer struct {
	cfg  Config
	task *schedule.Task

	lastSync time.Time
}

// New returns an unstarted syncer.
func New(cfg Config) *Syncer {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}

	s := &Syncer{cfg: cfg, lastSync: time.Now().Add(-24 * time.Hour)}
	s.task = schedule.New("history", cfg.Interval, s.tick)
	return s
}

// Start begins syncing.
func (s *Syncer) Start(ctx context.Context) {
	s.task.Start(ctx)
}

// Stop halts syncing.
func (s *Syncer) Stop() {
	s.task.Stop()
}

func (s *Syncer) tick(ctx context.Context) {
	visits, err := s.readSince(ctx, s.lastSync)
	if err != nil {
		log.Printf("history: sync failed: %v", err)
		return
	}
	if len(visits) == 0 {
		return
	}

	if err := s.cfg.Sink.AppendBrowserVisits(visits); err != nil {
		log.Printf("history: persisting visits: %v", err)
		return
	}
	s.lastSync = time.Now()
}

// readSince copies the history file and returns visits after the cutoff.
func (s *Syncer) readSince(ctx context.Context, since time.Time) ([]model.BrowserVisit, error) {
	if s.cfg.DBPath == "" {
		return nil, nil
	}

	tmpPath, err := copyToTemp(s.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(tmpPath) }()

	db, err := sql.Open("sqlite", tmpPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening history copy: %w", err)
	}
	defer func() { _ = db.Close() }()

	sinceChrome := since.UnixMicro() + chromeEpochOffsetMicros
	rows, err := db.QueryContext(ctx, `SELECT urls.url, urls.title, visits.visit_time
		FROM visits JOIN urls ON visits.url = urls.id
		WHERE visits.visit_time > ?
		ORDER BY visits.visit_time DESC LIMIT ?`, sinceChrome, maxVisitsPerSync)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var visits []model.BrowserVisit
	for rows.Next() {
		var v model.BrowserVisit
		var chromeTime int64
		if err := rows.Scan(&v.URL, &v.Title, &chromeTime); err != nil {
			return nil, err
		}
		v.VisitedAt = time.UnixMicro(chromeTime - chromeEpochOffsetMicros).UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// DefaultDBPath guesses the Chromium history location, empty if absent.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidates := []string{
		filepath.Join(home, ".config", "google-chrome", "Default", "History"),
		filepath.Join(home, ".config", "chromium", "Default", "History"),
		filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "History"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func copyToTemp(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening history db: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.CreateTemp("", "lookout-history-*.db")
	if err != nil {
		return "", fmt.Errorf("creating temp copy: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("copying history db: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}
