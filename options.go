package quantumflow

import (
	"github.com/parthchhabraa/quantumflow/archive"
	"github.com/parthchhabraa/quantumflow/resource"
)

// Options holds the engine's runtime collaborators. Configure them via
// the With* functional options passed to New.
type Options struct {
	// Logger receives structured engine logs. Nil selects a noop logger.
	Logger *Logger

	// Metrics receives operational metrics. Nil selects the noop
	// collector.
	Metrics MetricsCollector

	// Workers bounds the parallel fan-out of superposition group
	// processing and correlation mining. <= 0 selects the CPU count.
	Workers int

	// Governor meters analysis concurrency and correlation-cell
	// throughput. Nil means unmetered.
	Governor *resource.Governor

	// Archive, when set, receives every produced frame keyed by its
	// checksum hash.
	Archive archive.Store
}

// WithLogger sets the engine logger.
func WithLogger(logger *Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(metrics MetricsCollector) func(*Options) {
	return func(o *Options) {
		o.Metrics = metrics
	}
}

// WithWorkers bounds the engine's parallel fan-out.
func WithWorkers(workers int) func(*Options) {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithGovernor attaches a resource governor to the analysis pipeline.
func WithGovernor(g *resource.Governor) func(*Options) {
	return func(o *Options) {
		o.Governor = g
	}
}

// WithArchive attaches a long-term frame store. Compress puts each
// produced frame into the store, named by its checksum hash.
func WithArchive(store archive.Store) func(*Options) {
	return func(o *Options) {
		o.Archive = store
	}
}
