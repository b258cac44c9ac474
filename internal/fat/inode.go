package fat

import (
	"github.com/ostafen/xtregfs/xtrfs"
)

// slotAddr returns the sector and in-sector dentry index backing inum.
func (b *Backend) slotAddr(inum uint64) (sector uint64, index uint64) {
	slot := inum - firstDentryNum
	perSector := b.layout.DentriesPerSector()
	return b.firstContentSector + slot/perSector, slot % perSector
}

func (b *Backend) readDentry(inum uint64) (Dentry, uint64, error) {
	sector, index := b.slotAddr(inum)
	buf := make([]byte, 32)
	off := sector*uint64(b.layout.SectorSize) + index*32
	if err := b.img.ReadAt(buf, off); err != nil {
		return Dentry{}, sector, xtrfs.WrapError(xtrfs.ErrReadError, "inode_open", "dentry read failed", err)
	}
	return DecodeDentry(buf), sector, nil
}

func (b *Backend) InodeOpen(inum uint64) (*xtrfs.Inode, error) {
	if err := b.checkValid("inode_open"); err != nil {
		return nil, err
	}
	if inum < b.handle.FirstInode || inum > b.handle.LastInode {
		return nil, xtrfs.FsErrorf(xtrfs.ErrInodeNumber, "inode_open", "inode outside [first_inode, last_inode]")
	}

	if inum == inodeRoot {
		return &xtrfs.Inode{Num: inum, Type: xtrfs.FileTypeDirectory, Mode: 0755}, nil
	}
	if inum < firstDentryNum {
		return &xtrfs.Inode{Num: inum, Type: xtrfs.FileTypeVirtual}, nil
	}

	d, _, err := b.readDentry(inum)
	if err != nil {
		return nil, err
	}

	ft := xtrfs.FileTypeRegular
	switch {
	case d.IsFree():
		ft = xtrfs.FileTypeVirtual
	case d.IsLongName(), d.IsVolumeLabel():
		ft = xtrfs.FileTypeVirtual
	case d.IsDirectory():
		ft = xtrfs.FileTypeDirectory
	}

	return &xtrfs.Inode{
		Num:     inum,
		Type:    ft,
		Mode:    dentryMode(d),
		Size:    uint64(d.FileSize),
		NLink:   1,
		MTime:   fatTimeToTime(d.WriteDate, d.WriteTime),
		ATime:   fatTimeToTime(d.AccessDate, 0),
		CTime:   fatTimeToTime(d.CreateDate, d.CreateTime),
		Content: nil,
	}, nil
}

func dentryMode(d Dentry) uint32 {
	mode := uint32(0644)
	if d.IsDirectory() {
		mode = 0755
	}
	if d.Attr&AttrReadOnly != 0 {
		mode &^= 0222
	}
	return mode
}

// InodeWalk streams one inode per dentry slot in [start,end]; META/CONTENT
// here distinguishes directory-structural slots (free, long-name, volume
// label) from slots that describe real file/directory content, letting
// callers skip non-file slots the way spec §4.4 describes.
func (b *Backend) InodeWalk(start, end uint64, flags xtrfs.WalkFlags, visit xtrfs.InodeVisitor) error {
	if err := b.checkValid("inode_walk"); err != nil {
		return err
	}
	if start > end || end > b.handle.LastInode || start < b.handle.FirstInode {
		return xtrfs.FsErrorf(xtrfs.ErrWalkRange, "inode_walk", "start/end outside [first_inode, last_inode]")
	}
	flags = flags.Normalize()

	for inum := start; inum <= end; inum++ {
		if inum < firstDentryNum {
			continue
		}
		d, _, err := b.readDentry(inum)
		if err != nil {
			return err
		}

		allocated := !d.IsFree()
		meta := d.IsLongName() || d.IsVolumeLabel() || d.IsFree()
		if !flags.WantsAlloc(allocated) || !flags.WantsKind(meta) {
			continue
		}

		inode, err := b.InodeOpen(inum)
		if err != nil {
			return err
		}
		action, err := visit(*inode)
		if err != nil {
			return err
		}
		switch action {
		case xtrfs.WalkStop:
			return nil
		case xtrfs.WalkError:
			return xtrfs.FsErrorf(xtrfs.ErrReadError, "inode_walk", "visitor reported error")
		}
	}
	return nil
}
