package liveness

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordMark is called after each mark-killed operation.
	// requested is the number of distinct document IDs asked for, resolved
	// is how many of them the lookup table knew, duration is the total time
	// taken, err is nil if successful.
	RecordMark(requested, resolved int, duration time.Duration, err error)

	// RecordReport is called after each killed-documents report.
	// killed is the number of document IDs reported.
	RecordReport(killed int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMark(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordReport(int, time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MarkCount        atomic.Int64
	MarkErrors       atomic.Int64
	MarkRequested    atomic.Int64
	MarkResolved     atomic.Int64
	MarkTotalNanos   atomic.Int64
	ReportCount      atomic.Int64
	ReportErrors     atomic.Int64
	ReportKilled     atomic.Int64
	ReportTotalNanos atomic.Int64
}

// RecordMark implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMark(requested, resolved int, duration time.Duration, err error) {
	b.MarkCount.Add(1)
	b.MarkRequested.Add(int64(requested))
	b.MarkResolved.Add(int64(resolved))
	b.MarkTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MarkErrors.Add(1)
	}
}

// RecordReport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReport(killed int, duration time.Duration, err error) {
	b.ReportCount.Add(1)
	b.ReportKilled.Add(int64(killed))
	b.ReportTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReportErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		MarkCount:      b.MarkCount.Load(),
		MarkErrors:     b.MarkErrors.Load(),
		MarkRequested:  b.MarkRequested.Load(),
		MarkResolved:   b.MarkResolved.Load(),
		MarkAvgNanos:   b.getAvgMarkNanos(),
		ReportCount:    b.ReportCount.Load(),
		ReportErrors:   b.ReportErrors.Load(),
		ReportKilled:   b.ReportKilled.Load(),
		ReportAvgNanos: b.getAvgReportNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgMarkNanos() int64 {
	count := b.MarkCount.Load()
	if count == 0 {
		return 0
	}
	return b.MarkTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgReportNanos() int64 {
	count := b.ReportCount.Load()
	if count == 0 {
		return 0
	}
	return b.ReportTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	MarkCount      int64
	MarkErrors     int64
	MarkRequested  int64
	MarkResolved   int64
	MarkAvgNanos   int64
	ReportCount    int64
	ReportErrors   int64
	ReportKilled   int64
	ReportAvgNanos int64
}
