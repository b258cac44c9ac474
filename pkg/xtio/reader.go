// Package xtio provides the external collaborators the core borrows: a
// positioned-read image reader and endian-aware unsigned integer decoding
// over borrowed byte slices. Neither does any format-specific parsing.
package xtio

import (
	"fmt"
	"io"
)

// ImageReader provides positioned byte reads over an image at a fixed
// sub-offset, the way digler's pkg/reader.BufferedReadSeeker sits in front
// of an io.ReadSeeker. The core only ever consumes this interface; it
// never opens files or devices itself.
type ImageReader interface {
	// ReadAt reads len(p) bytes starting at subOffset bytes into the
	// image, filling p completely or returning an error. Short reads are
	// reported as an error rather than returned silently, since every
	// caller in the core depends on getting exactly what it asked for.
	ReadAt(p []byte, subOffset uint64) error

	// Size reports the total addressable size of the image, in bytes.
	Size() uint64
}

// FromReaderAt adapts an io.ReaderAt plus a base offset into an
// ImageReader. Most callers hand in an *os.File or a bytes.Reader wrapped
// in an io.SectionReader.
type FromReaderAt struct {
	base uint64
	r    io.ReaderAt
	size uint64
}

// NewFromReaderAt builds an ImageReader over r, treating base as the
// image's byte offset within r and size as the image's total length.
func NewFromReaderAt(r io.ReaderAt, base, size uint64) *FromReaderAt {
	return &FromReaderAt{base: base, r: r, size: size}
}

func (f *FromReaderAt) ReadAt(p []byte, subOffset uint64) error {
	if subOffset+uint64(len(p)) > f.size {
		return fmt.Errorf("xtio: read [%d,%d) exceeds image size %d", subOffset, subOffset+uint64(len(p)), f.size)
	}
	n, err := f.r.ReadAt(p, int64(f.base+subOffset))
	if err != nil {
		return fmt.Errorf("xtio: read at %d: %w", subOffset, err)
	}
	if n != len(p) {
		return fmt.Errorf("xtio: short read at %d: got %d of %d bytes", subOffset, n, len(p))
	}
	return nil
}

func (f *FromReaderAt) Size() uint64 {
	return f.size
}
