package quantumflow

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement this interface to integrate with monitoring
// systems like Prometheus.
type MetricsCollector interface {
	// RecordCompress is called after each compression.
	// originalSize and compressedSize are in bytes; err is nil on success.
	RecordCompress(originalSize, compressedSize int, duration time.Duration, err error)

	// RecordDecompress is called after each decompression.
	RecordDecompress(frameSize int, duration time.Duration, err error)

	// RecordCorrection is called after each error-correction session.
	RecordCorrection(attempts, detected, corrected int, success bool)

	// RecordDegradation is called after each graceful-degradation pass.
	RecordDegradation(strategy string, ratio float64, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCompress(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordDecompress(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordCorrection(int, int, int, bool)          {}
func (NoopMetricsCollector) RecordDegradation(string, float64, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external
// dependencies.
type BasicMetricsCollector struct {
	CompressCount        atomic.Int64
	CompressErrors       atomic.Int64
	CompressTotalNanos   atomic.Int64
	BytesIn              atomic.Int64
	BytesOut             atomic.Int64
	DecompressCount      atomic.Int64
	DecompressErrors     atomic.Int64
	DecompressTotalNanos atomic.Int64
	CorrectionCount      atomic.Int64
	CorrectionFailures   atomic.Int64
	ErrorsDetected       atomic.Int64
	ErrorsCorrected      atomic.Int64
	DegradationCount     atomic.Int64
}

// RecordCompress implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompress(originalSize, compressedSize int, duration time.Duration, err error) {
	b.CompressCount.Add(1)
	b.CompressTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CompressErrors.Add(1)
		return
	}
	b.BytesIn.Add(int64(originalSize))
	b.BytesOut.Add(int64(compressedSize))
}

// RecordDecompress implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecompress(frameSize int, duration time.Duration, err error) {
	b.DecompressCount.Add(1)
	b.DecompressTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DecompressErrors.Add(1)
	}
}

// RecordCorrection implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCorrection(attempts, detected, corrected int, success bool) {
	b.CorrectionCount.Add(1)
	b.ErrorsDetected.Add(int64(detected))
	b.ErrorsCorrected.Add(int64(corrected))
	if !success {
		b.CorrectionFailures.Add(1)
	}
}

// RecordDegradation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDegradation(string, float64, time.Duration) {
	b.DegradationCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CompressCount:      b.CompressCount.Load(),
		CompressErrors:     b.CompressErrors.Load(),
		CompressAvgNanos:   avg(b.CompressTotalNanos.Load(), b.CompressCount.Load()),
		BytesIn:            b.BytesIn.Load(),
		BytesOut:           b.BytesOut.Load(),
		DecompressCount:    b.DecompressCount.Load(),
		DecompressErrors:   b.DecompressErrors.Load(),
		DecompressAvgNanos: avg(b.DecompressTotalNanos.Load(), b.DecompressCount.Load()),
		CorrectionCount:    b.CorrectionCount.Load(),
		CorrectionFailures: b.CorrectionFailures.Load(),
		ErrorsDetected:     b.ErrorsDetected.Load(),
		ErrorsCorrected:    b.ErrorsCorrected.Load(),
		DegradationCount:   b.DegradationCount.Load(),
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
	CompressCount      int64
	CompressErrors     int64
	CompressAvgNanos   int64
	BytesIn            int64
	BytesOut           int64
	DecompressCount    int64
	DecompressErrors   int64
	DecompressAvgNanos int64
	CorrectionCount    int64
	CorrectionFailures int64
	ErrorsDetected     int64
	ErrorsCorrected    int64
	DegradationCount   int64
}
