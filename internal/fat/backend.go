package fat

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ostafen/xtregfs/pkg/xtio"
	"github.com/ostafen/xtregfs/xtrfs"
)

const (
	// inodeUnused and inodeReserved fill out the small reserved range
	// ahead of the root inode; root itself is historically numbered 2.
	inodeUnused    = 0
	inodeReserved  = 1
	inodeRoot      = 2
	firstDentryNum = 3
)

// Backend implements xtrfs.Backend for the XTAF FAT12/16/32 dialect.
type Backend struct {
	handle xtrfs.Handle
	img    xtio.ImageReader

	layout *Layout
	cache  *Cache
	chain  *Chain

	log *slog.Logger

	firstContentSector uint64
	lastContentSector  uint64
	totalDentrySlots   uint64

	valid   bool
	lastErr *xtrfs.FsError
}

// Open parses the XTAF boot sector (primary, falling back to the sector-6
// backup when the primary's 4 magic bytes are all zero) and returns a
// ready Backend.
func Open(img xtio.ImageReader, imageOffset uint64, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}

	data := make([]byte, BootSectorSize)
	if err := img.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("fat: read primary boot sector: %w", err)
	}

	if isAllZero(data[:4]) {
		log.Debug("fat: primary boot sector magic is zero, trying backup at sector 6")
		backup := make([]byte, BootSectorSize)
		if err := img.ReadAt(backup, 6*SectorSize); err != nil {
			return nil, fmt.Errorf("fat: read backup boot sector: %w", err)
		}
		data = backup
	}

	layout, err := ParseBootSector(data, img.Size(), imageOffset)
	if err != nil {
		return nil, err
	}

	cache := NewCache(img, layout.SectorSize)
	chain := NewChain(layout, cache)

	lastClusterSector := layout.ClusterToSector(layout.LastCluster) + uint64(layout.ClusterSizeSectors) - 1

	firstContent := layout.FirstDataSector
	if layout.RootSector < firstContent {
		firstContent = layout.RootSector
	}

	totalSlots := (lastClusterSector - firstContent + 1) * layout.DentriesPerSector()

	b := &Backend{
		img:                img,
		layout:             layout,
		cache:              cache,
		chain:              chain,
		log:                log,
		firstContentSector: firstContent,
		lastContentSector:  lastClusterSector,
		totalDentrySlots:   totalSlots,
		valid:              true,
	}

	b.handle = xtrfs.Handle{
		Type:            layout.Variant.Type(),
		BigEndian:       false,
		ImageOffset:     imageOffset,
		BlockSize:       layout.SectorSize,
		FirstBlock:      0,
		LastBlock:       lastClusterSector,
		LastBlockActual: lastLBAByImageSize(img.Size(), layout.SectorSize, lastClusterSector),
		FirstInode:      inodeUnused,
		LastInode:       inodeRoot + totalSlots,
		RootInode:       inodeRoot,
		Logger:          log,
	}
	return b, nil
}

// lastLBAByImageSize reports the last sector actually present in the
// image, which may be less than declaredLast when the image is
// truncated, per the FsHandle.LastBlockActual contract in spec §3.
func lastLBAByImageSize(imageSize uint64, sectorSize uint32, declaredLast uint64) uint64 {
	available := imageSize / uint64(sectorSize)
	if available == 0 {
		return 0
	}
	actualLast := available - 1
	if actualLast < declaredLast {
		return actualLast
	}
	return declaredLast
}

func isAllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
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
	return xtrfs.FsErrorf(xtrfs.ErrUnsupported, "jopen", "FAT back-end does not support journals")
}

func (b *Backend) JBlkWalk(_ io.Writer, _, _ uint64, _ xtrfs.WalkFlags, _ xtrfs.Visitor) error {
	return xtrfs.FsErrorf(xtrfs.ErrUnsupported, "jblk_walk", "FAT back-end does not support journals")
}

func (b *Backend) JEntryWalk(_ io.Writer, _ xtrfs.WalkFlags, _ xtrfs.Visitor) error {
	return xtrfs.FsErrorf(xtrfs.ErrUnsupported, "jentry_walk", "FAT back-end does not support journals")
}
