package cli

import (
	"fmt"
	"os"

	"github.com/ostafen/xtregfs/internal/disk"
	"github.com/ostafen/xtregfs/internal/fat"
	"github.com/ostafen/xtregfs/internal/regf"
	"github.com/ostafen/xtregfs/pkg/xtio"
	"github.com/ostafen/xtregfs/xtrfs"
)

// offsetImage rebases an ImageReader so that byte 0 of the wrapped reader
// lands at subOffset base, letting --offset/--partition apply uniformly
// whether the underlying reader is a plain file or an mmap'd region.
type offsetImage struct {
	base uint64
	img  xtio.ImageReader
}

func (o offsetImage) ReadAt(p []byte, subOffset uint64) error {
	return o.img.ReadAt(p, o.base+subOffset)
}

func (o offsetImage) Size() uint64 {
	if o.img.Size() <= o.base {
		return 0
	}
	return o.img.Size() - o.base
}

// openBackend opens path, sniffing the filesystem type from --type or from
// the leading bytes when --type is unset, and returns a ready
// xtrfs.Backend. When --partition is set, the partition's start, read
// from the image's own MBR, is added to --offset, the way
// digler's scan command locates a volume before handing it to a format
// reader. When --mmap is set, the image is memory-mapped instead of read
// through positioned syscalls.
func openBackend(path string) (xtrfs.Backend, func() error, error) {
	path = disk.NormalizeVolumePath(path)

	var img xtio.ImageReader
	var closeImg func() error
	var err error
	switch {
	case len(flagSegments) > 0:
		img, closeImg, err = openSegmentedImage(append([]string{path}, flagSegments...))
	case flagMmap:
		img, closeImg, err = openMmapImage(path)
	default:
		img, closeImg, err = openFileImage(path)
	}
	if err != nil {
		return nil, nil, err
	}

	offset := flagOffset
	if flagPartition > 0 {
		partOffset, _, perr := partitionOffset(img)
		if perr != nil {
			closeImg()
			return nil, nil, perr
		}
		offset += partOffset
	}
	if offset > 0 {
		img = offsetImage{base: offset, img: img}
	}

	declared, err := resolveType(flagType, img)
	if err != nil {
		closeImg()
		return nil, nil, err
	}

	logger := loggerFromFlags()
	backend, err := xtrfs.Open(img, offset, declared, logger)
	if err != nil {
		closeImg()
		return nil, nil, fmt.Errorf("xtrfs: open backend: %w", err)
	}

	closer := func() error {
		if cerr := backend.Close(); cerr != nil {
			closeImg()
			return cerr
		}
		return closeImg()
	}
	return backend, closer, nil
}

// openFileImage opens path as a plain file or block device and wraps it in
// a positioned-read ImageReader.
func openFileImage(path string) (xtio.ImageReader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("xtrfs: open %s: %w", path, err)
	}
	size, err := deviceSize(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("xtrfs: size %s: %w", path, err)
	}
	return xtio.NewFromReaderAt(f, 0, size), f.Close, nil
}

// resolveType maps the --type flag to an xtrfs.Type, or sniffs the magic
// bytes at the front of the image when the flag was left empty.
func resolveType(declared string, img xtio.ImageReader) (xtrfs.Type, error) {
	switch declared {
	case "fat12":
		return xtrfs.TypeFAT12, nil
	case "fat16":
		return xtrfs.TypeFAT16, nil
	case "fat32":
		return xtrfs.TypeFAT32, nil
	case "reg":
		return xtrfs.TypeREG, nil
	case "":
		return sniffType(img)
	default:
		return 0, fmt.Errorf("xtrfs: unrecognised --type %q (want fat12, fat16, fat32, reg)", declared)
	}
}

// partitionOffset reads the MBR from the front of img and resolves the
// 1-indexed --partition's byte offset and size.
func partitionOffset(img xtio.ImageReader) (uint64, uint64, error) {
	buf := make([]byte, 512)
	if err := img.ReadAt(buf, 0); err != nil {
		return 0, 0, fmt.Errorf("xtrfs: read MBR: %w", err)
	}
	mbr, err := disk.ParseMBR(buf)
	if err != nil {
		return 0, 0, fmt.Errorf("xtrfs: parse MBR: %w", err)
	}
	return mbr.PartitionOffset(flagPartition)
}

func sniffType(img xtio.ImageReader) (xtrfs.Type, error) {
	head := make([]byte, 4)
	if err := img.ReadAt(head, 0); err != nil {
		return 0, fmt.Errorf("xtrfs: sniff: %w", err)
	}
	switch string(head) {
	case fat.Magic:
		return xtrfs.TypeFAT16, nil
	case regf.Magic:
		return xtrfs.TypeREG, nil
	default:
		return 0, fmt.Errorf("xtrfs: cannot auto-detect filesystem type; pass --type explicitly")
	}
}
