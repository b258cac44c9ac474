package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ostafen/xtregfs/pkg/reader"
	"github.com/ostafen/xtregfs/pkg/xtio"
)

// openSegmentedImage stitches the numbered parts of a split disk image
// (e.g. ewf-style image.001, image.002, ...) into one logical ImageReader,
// built over digler's pkg/reader.MultiReadSeeker.
func openSegmentedImage(paths []string) (xtio.ImageReader, func() error, error) {
	readers := make([]io.ReadSeeker, len(paths))
	sizes := make([]int64, len(paths))
	files := make([]*os.File, len(paths))

	for i, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll(files[:i])
			return nil, nil, fmt.Errorf("xtrfs: open segment %s: %w", p, err)
		}
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			closeAll(files[:i])
			return nil, nil, fmt.Errorf("xtrfs: stat segment %s: %w", p, err)
		}
		files[i] = f
		readers[i] = f
		sizes[i] = fi.Size()
	}

	var total uint64
	for _, s := range sizes {
		total += uint64(s)
	}

	mrs := reader.NewMultiReadSeeker(readers, sizes)
	img := xtio.NewFromReaderAt(xtio.ReaderAtFromSeeker(mrs), 0, total)

	closer := func() error {
		closeAll(files)
		return nil
	}
	return img, closer, nil
}

func closeAll(files []*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}
