package executor

import (
	"sort"
	"sync/atomic"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/shrek82/stationd/pool"
)

// taskStats accumulates counters for one statement name.
type taskStats struct {
	executions atomic.Int64
	failures   atomic.Int64
	totalNanos atomic.Int64
}

type statsRegistry struct {
	tasks cmap.ConcurrentMap[string, *taskStats]
}

func newStatsRegistry() *statsRegistry {
	return &statsRegistry{tasks: cmap.New[*taskStats]()}
}

func (r *statsRegistry) record(name string, d time.Duration, success bool) {
	s := r.tasks.Upsert(name, nil, func(exist bool, cur, _ *taskStats) *taskStats {
		if !exist {
			cur = &taskStats{}
		}
		return cur
	})
	s.executions.Add(1)
	s.totalNanos.Add(int64(d))
	if !success {
		s.failures.Add(1)
	}
}

// TaskSnapshot is the externally visible view of one task's counters.
type TaskSnapshot struct {
	Name        string `json:"name"`
	Executions  int64  `json:"executions"`
	Failures    int64  `json:"failures"`
	AvgDuration string `json:"avg_duration"`
}

// StatsSnapshot combines per-task counters with the pool's usage gauges.
type StatsSnapshot struct {
	Tasks []TaskSnapshot `json:"tasks"`
	Pool  pool.Stats     `json:"pool"`
}

func (r *statsRegistry) snapshot() []TaskSnapshot {
	items := r.tasks.Items()
	tasks := make([]TaskSnapshot, 0, len(items))
	for name, s := range items {
		n := s.executions.Load()
		avg := time.Duration(0)
		if n > 0 {
			avg = time.Duration(s.totalNanos.Load() / n)
		}
		tasks = append(tasks, TaskSnapshot{
			Name:        name,
			Executions:  n,
			Failures:    s.failures.Load(),
			AvgDuration: avg.String(),
		})
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks
}
