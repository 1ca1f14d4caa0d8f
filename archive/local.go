package archive

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parthchhabraa/quantumflow/checksum"
)

// crcTrailerSize is the length of the CRC32 trailer appended to every
// stored frame file.
const crcTrailerSize = 4

// Local is a directory-backed Store. Every stored file carries a CRC32
// trailer that Get verifies, so silent on-disk corruption surfaces as a
// read error instead of a bad frame.
type Local struct {
	dir string
}

// NewLocal creates a store rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

func (l *Local) path(name string) string {
	return filepath.Join(l.dir, filepath.FromSlash(name))
}

// Put implements Store. The write goes through a temp file and rename
// so a crash never leaves a torn frame behind.
func (l *Local) Put(_ context.Context, name string, data []byte) error {
	if name == "" {
		return ErrEmptyName
	}

	target := l.path(name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".frame-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cw := checksum.NewCRCWriter(tmp)
	if _, err := cw.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	var trailer [crcTrailerSize]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	if _, err := tmp.Write(trailer[:]); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, target)
}

// Get implements Store. A stored checksum mismatch is reported as a
// *checksum.CRCMismatchError.
func (l *Local) Get(_ context.Context, name string) ([]byte, error) {
	f, err := os.Open(l.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < crcTrailerSize {
		return nil, fmt.Errorf("frame file %s: missing crc trailer", name)
	}

	cr := checksum.NewCRCReader(f)
	data := make([]byte, info.Size()-crcTrailerSize)
	if _, err := io.ReadFull(cr, data); err != nil {
		return nil, err
	}
	var trailer [crcTrailerSize]byte
	if _, err := io.ReadFull(f, trailer[:]); err != nil {
		return nil, err
	}
	if err := cr.Verify(binary.LittleEndian.Uint32(trailer[:])); err != nil {
		return nil, err
	}
	return data, nil
}

// Delete implements Store.
func (l *Local) Delete(_ context.Context, name string) error {
	err := os.Remove(l.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// List implements Store.
func (l *Local) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(l.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}
