package xtio

import (
	"fmt"
	"io"
)

// readerAtFromSeeker adapts a non-concurrent io.ReadSeeker into the
// io.ReaderAt NewFromReaderAt expects, by seeking before every read.
// Callers must not issue overlapping ReadAt calls.
type readerAtFromSeeker struct {
	rs io.ReadSeeker
}

// ReaderAtFromSeeker wraps rs (typically a pkg/reader.MultiReadSeeker
// stitching together the numbered segments of a split disk image) as an
// io.ReaderAt for NewFromReaderAt.
func ReaderAtFromSeeker(rs io.ReadSeeker) io.ReaderAt {
	return &readerAtFromSeeker{rs: rs}
}

func (r *readerAtFromSeeker) ReadAt(p []byte, off int64) (int, error) {
	if _, err := r.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(r.rs, p)
	if err != nil && err != io.ErrUnexpectedEOF {
		return n, err
	}
	if n < len(p) {
		return n, fmt.Errorf("xtio: short read at %d: got %d of %d bytes", off, n, len(p))
	}
	return n, nil
}
