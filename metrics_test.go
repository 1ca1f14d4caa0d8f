package quantumflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}

	m.RecordCompress(100, 40, 2*time.Millisecond, nil)
	m.RecordCompress(200, 80, 4*time.Millisecond, nil)
	m.RecordCompress(0, 0, time.Millisecond, errors.New("boom"))
	m.RecordDecompress(120, 3*time.Millisecond, nil)
	m.RecordCorrection(2, 3, 2, true)
	m.RecordCorrection(3, 5, 1, false)
	m.RecordDegradation("fast-classical", 1.0, time.Millisecond)

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats.CompressCount)
	assert.Equal(t, int64(1), stats.CompressErrors)
	assert.Equal(t, int64(300), stats.BytesIn)
	assert.Equal(t, int64(120), stats.BytesOut)
	assert.Equal(t, int64(1), stats.DecompressCount)
	assert.Equal(t, int64(2), stats.CorrectionCount)
	assert.Equal(t, int64(1), stats.CorrectionFailures)
	assert.Equal(t, int64(8), stats.ErrorsDetected)
	assert.Equal(t, int64(3), stats.ErrorsCorrected)
	assert.Equal(t, int64(1), stats.DegradationCount)
	assert.Equal(t, int64(7*time.Millisecond)/3, stats.CompressAvgNanos)
	assert.Equal(t, int64(3*time.Millisecond), stats.DecompressAvgNanos)
}

func TestNoopMetricsCollector(t *testing.T) {
	var m NoopMetricsCollector
	m.RecordCompress(1, 1, time.Millisecond, nil)
	m.RecordDecompress(1, time.Millisecond, nil)
	m.RecordCorrection(1, 0, 0, true)
	m.RecordDegradation("stored", 1, 0)
}
