package classical

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/pierrec/lz4/v4"

	"github.com/parthchhabraa/quantumflow/checksum"
	"github.com/parthchhabraa/quantumflow/codec"
	"github.com/parthchhabraa/quantumflow/qmath"
)

// Metadata is the JSON header of the classical-with-quantum-metadata
// strategy: the classical payload travels with the amplitude-level
// fingerprint of the original bytes.
type Metadata struct {
	Codec        string           `json:"codec"`
	OriginalSize int              `json:"originalSize"`
	Entropy      float64          `json:"entropy"`
	Checksum     checksum.Quantum `json:"checksum"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// metadataEncode prepends a JSON metadata header to an lz4-compressed
// payload. Layout: uvarint(headerLen) + header + uvarint(rawLen) +
// flag byte (1 = lz4, 0 = stored) + payload.
func metadataEncode(data []byte) ([]byte, error) {
	meta := Metadata{
		Codec:        codec.Default.Name(),
		OriginalSize: len(data),
		Entropy:      qmath.NormalizedEntropy(data),
		Checksum:     checksum.Generate(data),
		CreatedAt:    time.Now(),
	}
	header, err := codec.Default.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	out := binary.AppendUvarint(nil, uint64(len(header)))
	out = append(out, header...)
	out = binary.AppendUvarint(out, uint64(len(data)))

	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 || n >= len(data) {
		// Incompressible: store raw.
		out = append(out, 0)
		return append(out, data...), nil
	}
	out = append(out, 1)
	return append(out, buf[:n]...), nil
}

func metadataDecode(data []byte) ([]byte, error) {
	headerLen, n := binary.Uvarint(data)
	if n <= 0 || uint64(len(data[n:])) < headerLen {
		return nil, ErrTruncatedPayload
	}
	data = data[n:]

	var meta Metadata
	if err := codec.Default.Unmarshal(data[:headerLen], &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	data = data[headerLen:]

	rawLen, n := binary.Uvarint(data)
	if n <= 0 || len(data[n:]) < 1 {
		return nil, ErrTruncatedPayload
	}
	flag := data[n]
	data = data[n+1:]

	var out []byte
	switch flag {
	case 0:
		out = make([]byte, len(data))
		copy(out, data)
	case 1:
		out = make([]byte, rawLen)
		decoded, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 uncompress: %w", err)
		}
		out = out[:decoded]
	default:
		return nil, fmt.Errorf("unknown payload flag %d", flag)
	}

	if meta.OriginalSize != len(out) {
		return nil, fmt.Errorf("payload size %d, metadata says %d", len(out), meta.OriginalSize)
	}
	if v := checksum.Verify(out, meta.Checksum); !v.Valid {
		return nil, fmt.Errorf("metadata checksum failed: %s (score %.3f)", v.Corruption, v.IntegrityScore)
	}
	return out, nil
}
