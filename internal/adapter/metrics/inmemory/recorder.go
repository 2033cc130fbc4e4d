package inmemory

import (
	"sync"
)

type SchedulerSnapshot struct {
	Ticks             uint64 `json:"ticks"`
	EntitiesProcessed uint64 `json:"entities_processed"`
	EntityFailures    uint64 `json:"entity_failures"`
}

type Snapshot struct {
	BySchedulerName map[string]SchedulerSnapshot `json:"by_scheduler"`
}

type Recorder struct {
	mu        sync.Mutex
	ticks     map[string]uint64
	processed map[string]uint64
	failures  map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		ticks:     map[string]uint64{},
		processed: map[string]uint64{},
		failures:  map[string]uint64{},
	}
}

func (r *Recorder) RecordTick(scheduler string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks[scheduler]++
}

func (r *Recorder) RecordEntityProcessed(scheduler string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed[scheduler]++
}

func (r *Recorder) RecordEntityFailure(scheduler string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[scheduler]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := map[string]struct{}{}
	for k := range r.ticks {
		names[k] = struct{}{}
	}
	for k := range r.processed {
		names[k] = struct{}{}
	}
	for k := range r.failures {
		names[k] = struct{}{}
	}

	out := Snapshot{BySchedulerName: make(map[string]SchedulerSnapshot, len(names))}
	for name := range names {
		out.BySchedulerName[name] = SchedulerSnapshot{
			Ticks:             r.ticks[name],
			EntitiesProcessed: r.processed[name],
			EntityFailures:    r.failures[name],
		}
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
