package regf

import (
	"io"
	"log/slog"
	"strings"

	"github.com/ostafen/xtregfs/pkg/xtio"
	"github.com/ostafen/xtregfs/xtrfs"
)

// Backend implements xtrfs.Backend for a Windows Registry hive.
type Backend struct {
	handle xtrfs.Handle
	img    xtio.ImageReader
	layout *Layout
	log    *slog.Logger
	valid  bool
}

// Open parses the REGF header at offset 0 and returns a ready Backend.
func Open(img xtio.ImageReader, imageOffset uint64, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}

	data := make([]byte, HeaderReadSize)
	if err := img.ReadAt(data, 0); err != nil {
		return nil, xtrfs.WrapError(xtrfs.ErrReadError, "open", "REGF header read failed", err)
	}

	layout, err := ParseHeader(data)
	if err != nil {
		return nil, xtrfs.WrapError(xtrfs.ErrArgumentInvalid, "open", "REGF header invalid", err)
	}

	b := &Backend{
		img:    img,
		layout: layout,
		log:    log,
		valid:  true,
	}

	b.handle = xtrfs.Handle{
		Type:            xtrfs.TypeREG,
		BigEndian:       false,
		ImageOffset:     imageOffset,
		BlockSize:       HBINSize,
		FirstBlock:      0,
		LastBlock:       layout.LastHbinOffset,
		LastBlockActual: img.Size() / HBINSize,
		FirstInode:      FirstHbinOffset,
		LastInode:       layout.LastHbinOffset + HBINSize,
		RootInode:       FirstHbinOffset + layout.FirstKeyOffset,
		Logger:          log,
	}
	return b, nil
}

func (b *Backend) Handle() *xtrfs.Handle {
	return &b.handle
}

func (b *Backend) Close() error {
	b.valid = false
	return nil
}

func (b *Backend) checkValid(op string) error {
	if !b.valid {
		return xtrfs.FsErrorf(xtrfs.ErrArgumentInvalid, op, "backend closed")
	}
	return nil
}

func (b *Backend) NameCompare(a, c string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(c))
}

func (b *Backend) JOpen() error {
	return xtrfs.FsErrorf(xtrfs.ErrUnsupported, "jopen", "Registry back-end does not support journals")
}

func (b *Backend) JBlkWalk(_ io.Writer, _, _ uint64, _ xtrfs.WalkFlags, _ xtrfs.Visitor) error {
	return xtrfs.FsErrorf(xtrfs.ErrUnsupported, "jblk_walk", "Registry back-end does not support journals")
}

func (b *Backend) JEntryWalk(_ io.Writer, _ xtrfs.WalkFlags, _ xtrfs.Visitor) error {
	return xtrfs.FsErrorf(xtrfs.ErrUnsupported, "jentry_walk", "Registry back-end does not support journals")
}
