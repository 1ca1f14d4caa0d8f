// Package quantumflow is a quantum-inspired data-compression engine.
//
// Classical byte buffers are mapped onto complex-amplitude vectors,
// combined into weighted superpositions for pattern analysis, mined for
// cross-buffer correlation, reshaped by threshold-gated interference,
// and protected by a redundancy/checksum/error-correction layer with
// classical-compression fallback.
//
// The encoding is approximate by nature: the amplitude transform is
// lossy and drives strategy selection, while payload bytes always
// travel through a reversible classical strategy, so
// Decompress(Compress(x)) == x holds at this package's facade.
//
// Basic usage:
//
//	engine, err := quantumflow.New(quantumflow.DefaultConfig())
//	if err != nil { ... }
//	defer engine.Close()
//
//	result, err := engine.Compress(ctx, data)
//	if err != nil { ... }
//	restored, err := engine.Decompress(ctx, result.Data)
package quantumflow
