package quantumflow

import (
	"errors"
	"fmt"

	"github.com/parthchhabraa/quantumflow/classical"
	"github.com/parthchhabraa/quantumflow/state"
)

var (
	// ErrEmptyInput is returned when compressing an empty buffer.
	ErrEmptyInput = errors.New("input buffer is empty")

	// ErrInvalidFrame is returned when a frame fails structural parsing.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrClosed is returned when using a closed engine.
	ErrClosed = errors.New("engine is closed")
)

// ErrInvalidConfig indicates an out-of-range configuration parameter.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidConfig struct {
	Field string
	Value any
	cause error
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s = %v", e.Field, e.Value)
}

func (e *ErrInvalidConfig) Unwrap() error { return e.cause }

// ErrUnsupportedFrameVersion indicates a frame written by an
// incompatible engine version.
type ErrUnsupportedFrameVersion struct {
	Version byte
}

func (e *ErrUnsupportedFrameVersion) Error() string {
	return fmt.Sprintf("unsupported frame version: %d", e.Version)
}

// ErrFrameCorrupted indicates a frame whose CRC trailer does not match
// its contents.
type ErrFrameCorrupted struct {
	Expected uint32
	Actual   uint32
}

func (e *ErrFrameCorrupted) Error() string {
	return fmt.Sprintf("frame corrupted: crc 0x%08x, want 0x%08x", e.Actual, e.Expected)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, state.ErrEmptyVector) {
		return fmt.Errorf("%w: %w", ErrEmptyInput, err)
	}
	if errors.Is(err, classical.ErrEmptyInput) {
		return fmt.Errorf("%w: %w", ErrEmptyInput, err)
	}
	if errors.Is(err, classical.ErrTruncatedPayload) {
		return fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}

	return err
}
