package observe

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// PSProvider implements ProcessInfoProvider on top of gopsutil.
type PSProvider struct{}

// NewPSProvider returns a gopsutil-backed provider.
func NewPSProvider() *PSProvider {
	return &PSProvider{}
}

// Resource returns a resource reading for the given pid.
func (p *PSProvider) Resource(ctx context.Context, pid int32) (ProcResource, error) {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return ProcResource{}, fmt.Errorf("observe: pid %d: %w", pid, ErrUnavailable)
	}
	return readProc(ctx, proc)
}

// SnapshotAll returns the topN processes by memory plus system stats.
func (p *PSProvider) SnapshotAll(ctx context.Context, topN int) ([]ProcResource, SystemStats, error) {
	var sys SystemStats

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		sys.MemoryUsedBytes = int64(vm.Used)
		sys.MemoryTotalBytes = int64(vm.Total)
	}
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		sys.CPUPercent = pcts[0]
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, sys, fmt.Errorf("observe: listing processes: %w", err)
	}

	resources := make([]ProcResource, 0, len(procs))
	for _, proc := range procs {
		r, err := readProc(ctx, proc)
		if err != nil {
			continue // process may have exited mid-scan
		}
		resources = append(resources, r)
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].MemoryBytes > resources[j].MemoryBytes
	})
	if topN > 0 && len(resources) > topN {
		resources = resources[:topN]
	}

	return resources, sys, nil
}

func readProc(ctx context.Context, proc *process.Process) (ProcResource, error) {
	r := ProcResource{PID: proc.Pid}

	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return r, fmt.Errorf("observe: process name: %w", err)
	}
	r.Name = name

	if mi, err := proc.MemoryInfoWithContext(ctx); err == nil && mi != nil {
		r.MemoryBytes = int64(mi.RSS)
	}
	if pct, err := proc.CPUPercentWithContext(ctx); err == nil {
		r.CPUPercent = pct
	}
	if n, err := proc.NumThreadsWithContext(ctx); err == nil {
		r.Threads = n
	}
	if st, err := proc.StatusWithContext(ctx); err == nil && len(st) > 0 {
		r.Status = st[0]
	}

	return r, nil
}
