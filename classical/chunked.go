package classical

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// chunkSize is the chunked-strategy split size. 64KB keeps peak memory
// bounded under the memory-pressure failures this strategy serves.
const chunkSize = 64 << 10

// chunkedEncode splits data into fixed chunks and zstd-compresses each.
// Layout: uvarint chunkCount, then per chunk uvarint(compressedLen) +
// compressed bytes + uvarint(rawLen).
func chunkedEncode(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()

	chunkCount := (len(data) + chunkSize - 1) / chunkSize
	out := binary.AppendUvarint(nil, uint64(chunkCount))

	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		compressed := enc.EncodeAll(data[start:end], nil)
		out = binary.AppendUvarint(out, uint64(len(compressed)))
		out = append(out, compressed...)
		out = binary.AppendUvarint(out, uint64(end-start))
	}
	return out, nil
}

func chunkedDecode(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	chunkCount, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, ErrTruncatedPayload
	}
	data = data[n:]

	var out []byte
	for c := uint64(0); c < chunkCount; c++ {
		compressedLen, n := binary.Uvarint(data)
		if n <= 0 || uint64(len(data[n:])) < compressedLen {
			return nil, ErrTruncatedPayload
		}
		data = data[n:]
		compressed := data[:compressedLen]
		data = data[compressedLen:]

		rawLen, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, ErrTruncatedPayload
		}
		data = data[n:]

		chunk, err := dec.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", c, err)
		}
		if uint64(len(chunk)) != rawLen {
			return nil, fmt.Errorf("chunk %d: size %d, want %d", c, len(chunk), rawLen)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// hybridEncode run-length encodes a small analyzed head and
// zstd-compresses the remainder. Layout: uvarint(headRawLen) +
// uvarint(headEncodedLen) + encoded head + zstd remainder.
func hybridEncode(data []byte) ([]byte, error) {
	headLen := len(data) / 10
	if headLen > 1024 {
		headLen = 1024
	}
	if headLen == 0 {
		headLen = len(data)
	}

	head := runLengthEncode(data[:headLen])
	out := binary.AppendUvarint(nil, uint64(headLen))
	out = binary.AppendUvarint(out, uint64(len(head)))
	out = append(out, head...)

	if headLen < len(data) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		defer enc.Close()
		out = append(out, enc.EncodeAll(data[headLen:], nil)...)
	}
	return out, nil
}

func hybridDecode(data []byte) ([]byte, error) {
	headRawLen, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, ErrTruncatedPayload
	}
	data = data[n:]

	headEncodedLen, n := binary.Uvarint(data)
	if n <= 0 || uint64(len(data[n:])) < headEncodedLen {
		return nil, ErrTruncatedPayload
	}
	data = data[n:]

	head, err := runLengthDecode(data[:headEncodedLen])
	if err != nil {
		return nil, err
	}
	if uint64(len(head)) != headRawLen {
		return nil, fmt.Errorf("hybrid head: size %d, want %d", len(head), headRawLen)
	}
	data = data[headEncodedLen:]

	if len(data) == 0 {
		return head, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	rest, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}
	return append(head, rest...), nil
}
