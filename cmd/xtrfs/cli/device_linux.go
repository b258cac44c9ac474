//go:build linux

package cli

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// deviceSize reports the addressable size of f: the BLKGETSIZE64 ioctl
// result for a block device, or the regular file's size otherwise. Grounded
// on digler's internal/disk/stat.go GetDiskSizeLinux, rebuilt over
// golang.org/x/sys/unix instead of a hand-rolled syscall.Syscall/unsafe
// ioctl call.
func deviceSize(f *os.File) (uint64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Mode()&os.ModeDevice == 0 {
		return uint64(fi.Size()), nil
	}

	size, err := unix.IoctlGetUint64(int(f.Fd()), unix.BLKGETSIZE64)
	if err != nil {
		// Fall back to seeking to the end, as digler's Stat does for
		// non-Linux devices.
		end, serr := f.Seek(0, io.SeekEnd)
		if serr != nil {
			return 0, err
		}
		return uint64(end), nil
	}
	return size, nil
}
