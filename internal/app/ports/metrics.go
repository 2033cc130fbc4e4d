package ports

// SchedulerMetrics counts tick outcomes per scheduler for the ops surface.
type SchedulerMetrics interface {
	RecordTick(scheduler string)
	RecordEntityProcessed(scheduler string)
	RecordEntityFailure(scheduler string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordTick(string)            {}
func (NopMetrics) RecordEntityProcessed(string) {}
func (NopMetrics) RecordEntityFailure(string)   {}
