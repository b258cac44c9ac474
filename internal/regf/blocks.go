package regf

import (
	"github.com/ostafen/xtregfs/xtrfs"
)

// BlockGetFlags always reports ALLOC|META|CONTENT: hbins are always
// allocated and may hold both structural cells and embedded value data.
func (b *Backend) BlockGetFlags(addr uint64) (xtrfs.BlockFlags, error) {
	if err := b.checkValid("block_getflags"); err != nil {
		return 0, err
	}
	if addr > b.handle.LastBlock {
		return 0, xtrfs.FsErrorf(xtrfs.ErrBlockNumber, "block_getflags", "address out of range")
	}
	return xtrfs.BlockAlloc | xtrfs.BlockMeta | xtrfs.BlockContent, nil
}

// BlockWalk iterates hbin-aligned blocks of HBINSize bytes in [start,end],
// reading each whole and handing it to the visitor with the fixed
// ALLOC|META|CONTENT flag set, per spec §4.6.
func (b *Backend) BlockWalk(start, end uint64, flags xtrfs.WalkFlags, visit xtrfs.Visitor) error {
	if err := b.checkValid("block_walk"); err != nil {
		return err
	}
	if start > end || end > b.handle.LastBlock {
		return xtrfs.FsErrorf(xtrfs.ErrWalkRange, "block_walk", "start/end outside [first_block, last_block]")
	}
	flags = flags.Normalize()
	if !flags.WantsAlloc(true) {
		return nil
	}

	base := HbinBase(start)
	for addr := base; addr <= end; addr += HBINSize {
		buf := make([]byte, HBINSize)
		if err := b.img.ReadAt(buf, addr); err != nil {
			return xtrfs.WrapError(xtrfs.ErrReadError, "block_walk", "hbin read failed", err)
		}

		action, err := visit(xtrfs.Block{Addr: addr, Flags: xtrfs.BlockAlloc | xtrfs.BlockMeta | xtrfs.BlockContent, Data: buf})
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
	return nil
}
