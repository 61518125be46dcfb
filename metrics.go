package apilevel

import (
	"sync/atomic"
	"time"
)

// Source tells where an opened DB got its data from.
type Source string

const (
	// SourceCache is an up-to-date knowledge base found on disk.
	SourceCache Source = "cache"
	// SourceRegenerated is a knowledge base rebuilt from the descriptor.
	SourceRegenerated Source = "regenerated"
	// SourceRemote is a knowledge base downloaded from a blob store.
	SourceRemote Source = "remote"
	// SourceModel means queries are answered from the in-memory model.
	SourceModel Source = "model"
)

// Reason tells why a knowledge base was regenerated or rejected.
type Reason string

const (
	ReasonMissing Reason = "missing"
	ReasonEmpty   Reason = "empty"
	ReasonStale   Reason = "stale"
	ReasonFormat  Reason = "format"
	ReasonCorrupt Reason = "corrupt"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prometheus for a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after each attempt to load a knowledge base.
	RecordLoad(source Source, duration time.Duration, err error)

	// RecordRegenerate is called after each rebuild from the descriptor.
	RecordRegenerate(reason Reason, duration time.Duration, err error)

	// RecordFallback is called when queries fall back to the in-memory model.
	RecordFallback(reason Reason)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(Source, time.Duration, error)       {}
func (NoopMetricsCollector) RecordRegenerate(Reason, time.Duration, error) {}
func (NoopMetricsCollector) RecordFallback(Reason)                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount            atomic.Int64
	LoadErrors           atomic.Int64
	LoadTotalNanos       atomic.Int64
	RegenerateCount      atomic.Int64
	RegenerateErrors     atomic.Int64
	RegenerateTotalNanos atomic.Int64
	FallbackCount        atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ Source, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordRegenerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRegenerate(_ Reason, duration time.Duration, err error) {
	b.RegenerateCount.Add(1)
	b.RegenerateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RegenerateErrors.Add(1)
	}
}

// RecordFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFallback(Reason) {
	b.FallbackCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:          b.LoadCount.Load(),
		LoadErrors:         b.LoadErrors.Load(),
		LoadAvgNanos:       avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		RegenerateCount:    b.RegenerateCount.Load(),
		RegenerateErrors:   b.RegenerateErrors.Load(),
		RegenerateAvgNanos: avg(b.RegenerateTotalNanos.Load(), b.RegenerateCount.Load()),
		FallbackCount:      b.FallbackCount.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount          int64
	LoadErrors         int64
	LoadAvgNanos       int64
	RegenerateCount    int64
	RegenerateErrors   int64
	RegenerateAvgNanos int64
	FallbackCount      int64
}
