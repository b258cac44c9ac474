//go:build !linux

package cli

import (
	"io"
	"os"
)

// deviceSize falls back to the regular-file size on platforms without the
// Linux block-ioctl path; xtrfs images are ordinarily handled as plain
// files off Linux.
func deviceSize(f *os.File) (uint64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Size() > 0 {
		return uint64(fi.Size()), nil
	}
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	return uint64(end), nil
}
