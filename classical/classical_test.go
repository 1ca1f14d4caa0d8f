package classical

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStrategies = []Strategy{
	SimpleClassical, ChunkedClassical, HybridCompression,
	ClassicalWithMetadata, FastClassical,
}

func testPayloads(t *testing.T) map[string][]byte {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 8<<10)
	rng.Read(random)

	runs := bytes.Repeat([]byte{0xAA}, 4<<10)
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)

	large := make([]byte, 200<<10)
	for i := range large {
		large[i] = byte(i / 997)
	}

	return map[string][]byte{
		"single byte": {0x42},
		"short":       []byte("abc"),
		"runs":        runs,
		"text":        text,
		"random":      random,
		"large":       large,
		"escape heavy": bytes.Repeat([]byte{0xFE, 0x01, 0xFE, 0xFE, 0xFE, 0xFE, 0x02}, 100),
	}
}

func TestCompress_RoundTrip(t *testing.T) {
	for name, payload := range testPayloads(t) {
		for _, strategy := range allStrategies {
			t.Run(name+"/"+strategy.String(), func(t *testing.T) {
				res, err := Compress(strategy, payload)
				require.NoError(t, err)
				assert.Equal(t, strategy, res.Strategy)
				assert.Equal(t, len(payload), res.OriginalSize)
				assert.Greater(t, res.Ratio, 0.0)

				restored, err := Decompress(strategy, res.Data)
				require.NoError(t, err)
				assert.Equal(t, payload, restored)
			})
		}
	}
}

func TestCompress_EmptyInput(t *testing.T) {
	for _, strategy := range allStrategies {
		_, err := Compress(strategy, nil)
		assert.ErrorIs(t, err, ErrEmptyInput, strategy.String())
	}
}

func TestCompress_RunsActuallyShrink(t *testing.T) {
	runs := bytes.Repeat([]byte{7}, 10_000)

	res, err := Compress(SimpleClassical, runs)
	require.NoError(t, err)
	assert.Less(t, len(res.Data), len(runs))
	assert.Greater(t, res.Ratio, 1.0)

	fast, err := Compress(FastClassical, runs)
	require.NoError(t, err)
	assert.Less(t, len(fast.Data), len(runs))
}

func TestDecompress_Truncated(t *testing.T) {
	_, err := Decompress(SimpleClassical, []byte{3})
	assert.ErrorIs(t, err, ErrTruncatedPayload)

	_, err = Decompress(SimpleClassical, []byte{0, 1})
	assert.ErrorIs(t, err, ErrTruncatedPayload)

	_, err = Decompress(FastClassical, []byte{0xFE, 0x01})
	assert.ErrorIs(t, err, ErrTruncatedPayload)

	_, err = Decompress(ChunkedClassical, []byte{0xFF})
	assert.Error(t, err)

	_, err = Decompress(ClassicalWithMetadata, []byte{0x01})
	assert.Error(t, err)
}

func TestStrategyByName(t *testing.T) {
	for _, strategy := range allStrategies {
		got, ok := StrategyByName(strategy.String())
		require.True(t, ok, strategy.String())
		assert.Equal(t, strategy, got)
	}

	_, ok := StrategyByName("no-such-strategy")
	assert.False(t, ok)
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		size    int
		entropy float64
		want    Strategy
	}{
		{name: "speed pressure", reason: "speed requirement missed", size: 100, entropy: 0.9, want: FastClassical},
		{name: "timeout", reason: "analysis timeout", size: 100, entropy: 0.9, want: FastClassical},
		{name: "memory pressure", reason: "memory limit", size: 100, entropy: 0.9, want: ChunkedClassical},
		{name: "large payload", reason: "", size: 3 << 20, entropy: 0.9, want: ChunkedClassical},
		{name: "integrity need", reason: "integrity verification required", size: 100, entropy: 0.9, want: ClassicalWithMetadata},
		{name: "low entropy bulk", reason: "", size: 8 << 10, entropy: 0.3, want: HybridCompression},
		{name: "default", reason: "", size: 100, entropy: 0.9, want: SimpleClassical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectStrategy(tt.reason, tt.size, tt.entropy))
		})
	}
}

func TestRunLengthEncode_LongRuns(t *testing.T) {
	// A run longer than the count byte splits into multiple pairs.
	data := bytes.Repeat([]byte{9}, 600)

	encoded := runLengthEncode(data)
	decoded, err := runLengthDecode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
	assert.Equal(t, 6, len(encoded)) // 255+255+90 -> three pairs
}

func TestFastEncode_PassesLiteralsThrough(t *testing.T) {
	data := []byte("no runs here!")
	assert.Equal(t, data, fastEncode(data))

	decoded, err := fastDecode(fastEncode(data))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
