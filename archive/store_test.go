package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthchhabraa/quantumflow/checksum"
)

// storeSuite runs the Store contract against any implementation.
func storeSuite(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Put(ctx, "", []byte("x")), ErrEmptyName)
	})

	t.Run("put get delete", func(t *testing.T) {
		data := []byte("frame payload")
		require.NoError(t, store.Put(ctx, "frames/a", data))

		got, err := store.Get(ctx, "frames/a")
		require.NoError(t, err)
		assert.Equal(t, data, got)

		// Overwrites replace.
		require.NoError(t, store.Put(ctx, "frames/a", []byte("v2")))
		got, err = store.Get(ctx, "frames/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		require.NoError(t, store.Delete(ctx, "frames/a"))
		_, err = store.Get(ctx, "frames/a")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list by prefix", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "frames/x", []byte("1")))
		require.NoError(t, store.Put(ctx, "frames/y", []byte("2")))
		require.NoError(t, store.Put(ctx, "other/z", []byte("3")))

		names, err := store.List(ctx, "frames/")
		require.NoError(t, err)
		assert.Equal(t, []string{"frames/x", "frames/y"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestMemory(t *testing.T) {
	storeSuite(t, NewMemory())
}

func TestMemory_Len(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	assert.Equal(t, 0, m.Len())
	require.NoError(t, m.Put(ctx, "a", []byte("1")))
	require.NoError(t, m.Put(ctx, "b", []byte("2")))
	assert.Equal(t, 2, m.Len())
}

func TestMemory_DefensiveCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	data := []byte("original")
	require.NoError(t, m.Put(ctx, "a", data))
	data[0] = 'X'

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[1] = 'Y'
	again, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestLocal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	storeSuite(t, store)
}

func TestLocal_DetectsOnDiskCorruption(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "frames/a", []byte("frame payload")))

	path := filepath.Join(dir, "frames", "a")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// A stored file is the payload plus a CRC32 trailer.
	require.Len(t, raw, len("frame payload")+4)

	raw[3] ^= 0x40
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	var mismatch *checksum.CRCMismatchError
	_, err = store.Get(ctx, "frames/a")
	require.ErrorAs(t, err, &mismatch)
	assert.NotEqual(t, mismatch.Expected, mismatch.Actual)
}

func TestLocal_RejectsTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "short"), []byte{1, 2}, 0o644))

	_, err = store.Get(context.Background(), "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing crc trailer")
}

func TestLocal_DeleteMissingIsNil(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), "never-written"))
}
