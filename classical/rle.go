package classical

// Run-length coding used by the simple and fast strategies.
//
// Simple: the stream is (count, value) pairs, count in 1..255.
// Fast: literals pass through untouched; only runs of fastRunMin or
// more collapse into an escape sequence, keeping the pass single-scan.

const (
	maxRunLength = 255

	// fastEscape marks a run (or an escaped literal) in the fast format.
	fastEscape = 0xFE

	// fastRunMin is the shortest run worth collapsing: the escape
	// sequence itself costs three bytes.
	fastRunMin = 4
)

func runLengthEncode(data []byte) []byte {
	out := make([]byte, 0, len(data)/2+2)
	i := 0
	for i < len(data) {
		value := data[i]
		run := 1
		for i+run < len(data) && data[i+run] == value && run < maxRunLength {
			run++
		}
		out = append(out, byte(run), value)
		i += run
	}
	return out
}

func runLengthDecode(data []byte) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, ErrTruncatedPayload
	}
	out := make([]byte, 0, len(data)*4)
	for i := 0; i < len(data); i += 2 {
		run := int(data[i])
		if run == 0 {
			return nil, ErrTruncatedPayload
		}
		value := data[i+1]
		for j := 0; j < run; j++ {
			out = append(out, value)
		}
	}
	return out, nil
}

func fastEncode(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/64+1)
	i := 0
	for i < len(data) {
		value := data[i]
		run := 1
		for i+run < len(data) && data[i+run] == value && run < maxRunLength {
			run++
		}

		switch {
		case run >= fastRunMin:
			out = append(out, fastEscape, value, byte(run))
			i += run
		case value == fastEscape:
			// Escaped literal: run below the threshold but the byte
			// collides with the marker.
			out = append(out, fastEscape, value, byte(run))
			i += run
		default:
			for j := 0; j < run; j++ {
				out = append(out, value)
			}
			i += run
		}
	}
	return out
}

func fastDecode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)
	i := 0
	for i < len(data) {
		b := data[i]
		if b != fastEscape {
			out = append(out, b)
			i++
			continue
		}
		if i+2 >= len(data) {
			return nil, ErrTruncatedPayload
		}
		value := data[i+1]
		run := int(data[i+2])
		if run == 0 {
			return nil, ErrTruncatedPayload
		}
		for j := 0; j < run; j++ {
			out = append(out, value)
		}
		i += 3
	}
	return out, nil
}
