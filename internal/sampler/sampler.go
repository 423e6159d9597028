// Package sampler collects periodic process telemetry.
package sampler

import (
	"context"
	"log"
	"time"

	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/observe"
	"github.com/theirongolddev/lookout/internal/schedule"
)

// SnapshotSink receives one tick's snapshots in a single batch.
// *store.Store satisfies it.
type SnapshotSink interface {
	AppendProcessSnapshots([]model.ProcessSnapshot) error
}

// Config wires a Sampler.
type Config struct {
	Procs    observe.ProcessInfoProvider
	Sink     SnapshotSink
	Interval time.Duration
	TopN     int
}

// Sampler captures the top-N processes by memory at a fixed cadence and
// persists each capture as one batched transaction. Every tick is best
// effort; a failing tick is logged and skipped.
type Sampler struct {
	cfg  Config
	task *schedule.Task
	now  func() time.Time
}

// New returns an unstarted sampler.
func New(cfg Config) *Sampler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}

	s := &Sampler{cfg: cfg, now: time.Now}
	s.task = schedule.New("sampler", cfg.Interval, s.tick)
	return s
}

// Start begins sampling.
func (s *Sampler) Start(ctx context.Context) {
	s.task.Start(ctx)
}

// Stop halts sampling; an in-flight tick finishes first.
func (s *Sampler) Stop() {
	s.task.Stop()
}

func (s *Sampler) tick(ctx context.Context) {
	procs, _, err := s.cfg.Procs.SnapshotAll(ctx, s.cfg.TopN)
	if err != nil {
		log.Printf("sampler: process snapshot failed: %v", err)
		return
	}

	now := s.now()
	snaps := make([]model.ProcessSnapshot, 0, len(procs))
	for _, p := range procs {
		snaps = append(snaps, model.ProcessSnapshot{
			Timestamp:   now,
			App:         p.Name,
			PID:         p.PID,
			MemoryBytes: p.MemoryBytes,
			CPUPercent:  p.CPUPercent,
			Threads:     p.Threads,
		})
	}

	if err := s.cfg.Sink.AppendProcessSnapshots(snaps); err != nil {
		log.Printf("sampler: persisting snapshots: %v", err)
	}
}
