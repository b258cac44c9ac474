package xtrfs

import (
	"log/slog"

	"github.com/ostafen/xtregfs/internal/fat"
	"github.com/ostafen/xtregfs/internal/regf"
	"github.com/ostafen/xtregfs/pkg/xtio"
)

// ImageReader is the positioned-read collaborator every back-end opens
// over. It is an alias of xtio.ImageReader, re-exported here so callers of
// Open can name it through this package; xtio.FromReaderAt and
// mmap.MmapFile implement it.
type ImageReader = xtio.ImageReader

// Open parses the image at the declared type and returns the matching
// back-end behind the uniform Backend interface. There is no downcasting
// and no unsafe: callers that need format-specific behaviour beyond the
// interface should not need it, per §9's dispatch design note.
func Open(img ImageReader, offset uint64, declared Type, logger *slog.Logger) (Backend, error) {
	logger = loggerOrDefault(logger)

	switch declared {
	case TypeFAT12, TypeFAT16, TypeFAT32:
		return fat.Open(img, offset, logger)
	case TypeREG:
		return regf.Open(img, offset, logger)
	default:
		return nil, FsErrorf(ErrArgumentInvalid, "open", "unrecognised declared filesystem type")
	}
}
