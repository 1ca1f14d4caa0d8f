// Package checksum provides the engine's integrity primitives: CRC32
// for classical frame payloads and the amplitude-derived quantum
// checksum used by the error-correction layer.
package checksum

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// CRC32 (IEEE) detects accidental corruption of frame payloads. It is
// not cryptographically secure; do not use it for tamper detection.

// CRC32Table is the IEEE polynomial table.
var CRC32Table = crc32.MakeTable(crc32.IEEE)

// CRC32Sum calculates the CRC32 checksum of data.
func CRC32Sum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// CRCWriter wraps an io.Writer and keeps a running CRC32.
type CRCWriter struct {
	w    io.Writer
	hash hash.Hash32
}

// NewCRCWriter creates a checksumming writer.
func NewCRCWriter(w io.Writer) *CRCWriter {
	return &CRCWriter{w: w, hash: crc32.New(CRC32Table)}
}

// Write implements io.Writer.
func (cw *CRCWriter) Write(p []byte) (int, error) {
	if _, err := cw.hash.Write(p); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}

// Sum returns the current checksum value.
func (cw *CRCWriter) Sum() uint32 { return cw.hash.Sum32() }

// CRCReader wraps an io.Reader and keeps a running CRC32.
type CRCReader struct {
	r    io.Reader
	hash hash.Hash32
}

// NewCRCReader creates a checksumming reader.
func NewCRCReader(r io.Reader) *CRCReader {
	return &CRCReader{r: r, hash: crc32.New(CRC32Table)}
}

// Read implements io.Reader.
func (cr *CRCReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		if _, hashErr := cr.hash.Write(p[:n]); hashErr != nil {
			return n, hashErr
		}
	}
	return n, err
}

// Sum returns the current checksum value.
func (cr *CRCReader) Sum() uint32 { return cr.hash.Sum32() }

// Verify checks the running checksum against an expected value.
func (cr *CRCReader) Verify(expected uint32) error {
	if actual := cr.Sum(); actual != expected {
		return &CRCMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// CRCMismatchError is returned when CRC verification fails.
type CRCMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *CRCMismatchError) Error() string {
	return fmt.Sprintf("crc mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}
