package fat

import (
	"github.com/ostafen/xtregfs/xtrfs"
)

// preDataChunkSectors bounds how many sectors Phase A aggregates into a
// single read, per spec §4.4 ("read in aggregate chunks of up to 8
// sectors").
const preDataChunkSectors = 8

func (b *Backend) BlockGetFlags(addr uint64) (xtrfs.BlockFlags, error) {
	if err := b.checkValid("block_getflags"); err != nil {
		return 0, err
	}
	if addr > b.handle.LastBlock {
		return 0, xtrfs.FsErrorf(xtrfs.ErrBlockNumber, "block_getflags", "address out of range")
	}

	l := b.layout
	switch {
	case addr < l.FirstDataSector:
		return xtrfs.BlockMeta | xtrfs.BlockAlloc, nil
	case addr < l.FirstClusterSector:
		return xtrfs.BlockContent | xtrfs.BlockAlloc, nil
	default:
		allocated, err := b.chain.IsSectorAllocated(addr)
		if err != nil {
			return 0, xtrfs.WrapError(xtrfs.ErrReadError, "block_getflags", "FAT lookup failed", err)
		}
		flags := xtrfs.BlockContent
		if allocated {
			flags |= xtrfs.BlockAlloc
		} else {
			flags |= xtrfs.BlockUnalloc
		}
		return flags, nil
	}
}

func (b *Backend) BlockWalk(start, end uint64, flags xtrfs.WalkFlags, visit xtrfs.Visitor) error {
	if err := b.checkValid("block_walk"); err != nil {
		return err
	}
	if start > end || end > b.handle.LastBlock {
		return xtrfs.FsErrorf(xtrfs.ErrWalkRange, "block_walk", "start/end outside [first_block, last_block]")
	}
	flags = flags.Normalize()

	l := b.layout
	addr := start

	// Phase A: pre-cluster area (reserved, FAT and fixed-root sectors),
	// aggregated reads.
	for addr < l.FirstClusterSector && addr <= end {
		chunkEnd := addr + preDataChunkSectors - 1
		if chunkEnd > end {
			chunkEnd = end
		}
		if chunkEnd >= l.FirstClusterSector {
			chunkEnd = l.FirstClusterSector - 1
		}

		n := chunkEnd - addr + 1
		buf := make([]byte, n*uint64(l.SectorSize))
		if err := b.img.ReadAt(buf, addr*uint64(l.SectorSize)); err != nil {
			return xtrfs.WrapError(xtrfs.ErrReadError, "block_walk", "pre-data read failed", err)
		}

		for s := addr; s <= chunkEnd; s++ {
			meta := s < l.FirstDataSector
			if !flags.WantsKind(meta) || !flags.WantsAlloc(true) {
				continue
			}
			sectorBuf := buf[(s-addr)*uint64(l.SectorSize) : (s-addr+1)*uint64(l.SectorSize)]
			blockFlags := xtrfs.BlockAlloc
			if meta {
				blockFlags |= xtrfs.BlockMeta
			} else {
				blockFlags |= xtrfs.BlockContent
			}
			action, err := visit(xtrfs.Block{Addr: s, Flags: blockFlags, Data: sectorBuf})
			if err != nil {
				return err
			}
			switch action {
			case xtrfs.WalkStop:
				return nil
			case xtrfs.WalkError:
				return xtrfs.FsErrorf(xtrfs.ErrReadError, "block_walk", "visitor reported error")
			}
		}
		addr = chunkEnd + 1
	}

	if addr > end {
		return nil
	}

	// Phase B: data area, iterated in cluster-sized chunks.
	clusterSectors := uint64(l.ClusterSizeSectors)
	clusterBase := addr - (addr-l.FirstClusterSector)%clusterSectors

	for clusterBase <= end {
		clusterEnd := clusterBase + clusterSectors - 1
		cluster := l.SectorToCluster(clusterBase)
		allocated, err := b.chain.IsClusterAllocated(cluster)
		if err != nil {
			return xtrfs.WrapError(xtrfs.ErrReadError, "block_walk", "FAT lookup failed", err)
		}
		if !flags.WantsAlloc(allocated) {
			clusterBase = clusterEnd + 1
			continue
		}

		chunkStart := clusterBase
		if chunkStart < start {
			chunkStart = start
		}
		chunkEnd := clusterEnd
		if chunkEnd > end {
			chunkEnd = end
		}

		if !flags.WantsKind(false) {
			clusterBase = clusterEnd + 1
			continue
		}

		n := chunkEnd - chunkStart + 1
		buf := make([]byte, n*uint64(l.SectorSize))
		if err := b.img.ReadAt(buf, chunkStart*uint64(l.SectorSize)); err != nil {
			return xtrfs.WrapError(xtrfs.ErrReadError, "block_walk", "data-area read failed", err)
		}

		blockFlags := xtrfs.BlockContent
		if allocated {
			blockFlags |= xtrfs.BlockAlloc
		} else {
			blockFlags |= xtrfs.BlockUnalloc
		}

		for s := chunkStart; s <= chunkEnd; s++ {
			sectorBuf := buf[(s-chunkStart)*uint64(l.SectorSize) : (s-chunkStart+1)*uint64(l.SectorSize)]
			action, err := visit(xtrfs.Block{Addr: s, Flags: blockFlags, Data: sectorBuf})
			if err != nil {
				return err
			}
			switch action {
			case xtrfs.WalkStop:
				return nil
			case xtrfs.WalkError:
				return xtrfs.FsErrorf(xtrfs.ErrReadError, "block_walk", "visitor reported error")
			}
		}
		clusterBase = clusterEnd + 1
	}

	return nil
}
