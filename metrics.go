package kmedgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAssignment is called after each assignment step.
	RecordAssignment(duration time.Duration)

	// RecordUpdate is called after each centroid update step.
	RecordUpdate(duration time.Duration)

	// RecordIteration is called after each full Lloyd iteration.
	RecordIteration(inertia float64, duration time.Duration)

	// RecordFallback is called when an empty cluster is reseeded.
	RecordFallback(cluster int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAssignment(time.Duration)         {}
func (NoopMetricsCollector) RecordUpdate(time.Duration)             {}
func (NoopMetricsCollector) RecordIteration(float64, time.Duration) {}
func (NoopMetricsCollector) RecordFallback(int)                     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AssignCount      atomic.Int64
	AssignTotalNanos atomic.Int64
	UpdateCount      atomic.Int64
	UpdateTotalNanos atomic.Int64
	IterationCount   atomic.Int64
	FallbackCount    atomic.Int64
}

// RecordAssignment implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAssignment(duration time.Duration) {
	b.AssignCount.Add(1)
	b.AssignTotalNanos.Add(duration.Nanoseconds())
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration) {
	b.UpdateCount.Add(1)
	b.UpdateTotalNanos.Add(duration.Nanoseconds())
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(float64, time.Duration) {
	b.IterationCount.Add(1)
}

// RecordFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFallback(int) {
	b.FallbackCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AssignCount:    b.AssignCount.Load(),
		AssignAvgNanos: avg(b.AssignTotalNanos.Load(), b.AssignCount.Load()),
		UpdateCount:    b.UpdateCount.Load(),
		UpdateAvgNanos: avg(b.UpdateTotalNanos.Load(), b.UpdateCount.Load()),
		IterationCount: b.IterationCount.Load(),
		FallbackCount:  b.FallbackCount.Load(),
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
	AssignCount    int64
	AssignAvgNanos int64
	UpdateCount    int64
	UpdateAvgNanos int64
	IterationCount int64
	FallbackCount  int64
}
