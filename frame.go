package quantumflow

import (
	"encoding/binary"

	"github.com/parthchhabraa/quantumflow/checksum"
	"github.com/parthchhabraa/quantumflow/classical"
)

// Frame layout:
//
//	magic "QFLW" | version (1B) | strategy (1B) | flags (1B) |
//	uvarint original size | payload | crc32 (4B, IEEE, little-endian)
//
// The CRC covers everything before the trailer.
const (
	frameMagic   = "QFLW"
	frameVersion = 1

	frameTrailerSize = 4
	frameHeaderMin   = len(frameMagic) + 3 + 1 // magic, version, strategy, flags, 1-byte uvarint
)

// Frame flags.
const (
	// flagDegraded marks frames produced by the graceful-degradation
	// path rather than analysis-driven strategy selection.
	flagDegraded = 1 << 0

	// flagStored marks frames whose payload is the original bytes,
	// uncompressed. The strategy byte is ignored on decode.
	flagStored = 1 << 1
)

type frame struct {
	strategy     classical.Strategy
	flags        byte
	originalSize int
	payload      []byte
}

func encodeFrame(f frame) []byte {
	buf := make([]byte, 0, frameHeaderMin+binary.MaxVarintLen64+len(f.payload)+frameTrailerSize)
	buf = append(buf, frameMagic...)
	buf = append(buf, frameVersion, byte(f.strategy), f.flags)
	buf = binary.AppendUvarint(buf, uint64(f.originalSize))
	buf = append(buf, f.payload...)

	crc := checksum.CRC32Sum(buf)
	buf = binary.LittleEndian.AppendUint32(buf, crc)
	return buf
}

func decodeFrame(data []byte) (frame, error) {
	if len(data) < frameHeaderMin+frameTrailerSize {
		return frame{}, ErrInvalidFrame
	}
	if string(data[:len(frameMagic)]) != frameMagic {
		return frame{}, ErrInvalidFrame
	}

	body := data[:len(data)-frameTrailerSize]
	want := binary.LittleEndian.Uint32(data[len(data)-frameTrailerSize:])
	if got := checksum.CRC32Sum(body); got != want {
		return frame{}, &ErrFrameCorrupted{Expected: want, Actual: got}
	}

	version := data[len(frameMagic)]
	if version != frameVersion {
		return frame{}, &ErrUnsupportedFrameVersion{Version: version}
	}

	strategy := classical.Strategy(data[len(frameMagic)+1])
	if _, ok := classical.StrategyByName(strategy.String()); !ok {
		return frame{}, ErrInvalidFrame
	}
	flags := data[len(frameMagic)+2]

	rest := body[len(frameMagic)+3:]
	origSize, n := binary.Uvarint(rest)
	if n <= 0 {
		return frame{}, ErrInvalidFrame
	}

	return frame{
		strategy:     strategy,
		flags:        flags,
		originalSize: int(origSize),
		payload:      rest[n:],
	}, nil
}
