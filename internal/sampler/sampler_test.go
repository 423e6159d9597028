package sampler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/observe"
)

type fakeProcs struct {
	procs []observe.ProcResource
	err   error
}

func (f *fakeProcs) Resource(context.Context, int32) (observe.ProcResource, error) {
	return observe.ProcResource{}, observe.ErrUnavailable
}

func (f *fakeProcs) SnapshotAll(context.Context, int) ([]observe.ProcResource, observe.SystemStats, error) {
	return f.procs, observe.SystemStats{}, f.err
}

type batchSink struct {
	batches [][]model.ProcessSnapshot
	err     error
}

func (b *batchSink) AppendProcessSnapshots(snaps []model.ProcessSnapshot) error {
	if b.err != nil {
		return b.err
	}
	b.batches = append(b.batches, snaps)
	return nil
}

func TestTickBatchesOneCapture(t *testing.T) {
	procs := &fakeProcs{procs: []observe.ProcResource{
		{PID: 1, Name: "chrome", MemoryBytes: 2 << 30, Threads: 50},
		{PID: 2, Name: "code", MemoryBytes: 1 << 30, Threads: 40},
	}}
	sink := &batchSink{}
	s := New(Config{Procs: procs, Sink: sink})

	fixed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.tick(context.Background())

	if len(sink.batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(sink.batches))
	}
	batch := sink.batches[0]
	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2", len(batch))
	}
	if batch[0].App != "chrome" || batch[0].Timestamp != fixed {
		t.Fatalf("snapshot = %+v", batch[0])
	}
}

func TestTickProviderFailureSkipped(t *testing.T) {
	sink := &batchSink{}
	s := New(Config{Procs: &fakeProcs{err: errors.New("boom")}, Sink: sink})

	s.tick(context.Background())
	if len(sink.batches) != 0 {
		t.Fatalf("batches = %d, want 0 on provider failure", len(sink.batches))
	}
}

func TestTickSinkFailureDoesNotPanic(t *testing.T) {
	s := New(Config{
		Procs: &fakeProcs{procs: []observe.ProcResource{{PID: 1, Name: "x"}}},
		Sink:  &batchSink{err: errors.New("disk full")},
	})
	s.tick(context.Background())
}
