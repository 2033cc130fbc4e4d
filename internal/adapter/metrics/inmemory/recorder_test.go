package inmemory

import (
	"testing"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordTick("resource")
	r.RecordTick("resource")
	r.RecordEntityProcessed("resource")
	r.RecordEntityFailure("resource")
	r.RecordTick("incident")

	s := r.Snapshot()
	res := s.BySchedulerName["resource"]
	if res.Ticks != 2 {
		t.Fatalf("expected resource ticks 2, got %d", res.Ticks)
	}
	if res.EntitiesProcessed != 1 {
		t.Fatalf("expected resource processed 1, got %d", res.EntitiesProcessed)
	}
	if res.EntityFailures != 1 {
		t.Fatalf("expected resource failures 1, got %d", res.EntityFailures)
	}
	inc := s.BySchedulerName["incident"]
	if inc.Ticks != 1 {
		t.Fatalf("expected incident ticks 1, got %d", inc.Ticks)
	}
	if inc.EntitiesProcessed != 0 {
		t.Fatalf("expected incident processed 0, got %d", inc.EntitiesProcessed)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewRecorder()
	r.RecordTick("resource")

	s := r.Snapshot()
	s.BySchedulerName["resource"] = SchedulerSnapshot{Ticks: 99}

	if got := r.Snapshot().BySchedulerName["resource"].Ticks; got != 1 {
		t.Fatalf("expected ticks 1 after mutating snapshot, got %d", got)
	}
}
