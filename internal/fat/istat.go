package fat

import (
	"fmt"
	"io"
	"time"

	"github.com/ostafen/xtregfs/xtrfs"
)

func (b *Backend) IStat(w io.Writer, inum uint64, forcedBlockCount uint64, timeSkewSeconds int64) error {
	if err := b.checkValid("istat"); err != nil {
		return err
	}
	if inum < b.handle.FirstInode || inum > b.handle.LastInode {
		return xtrfs.FsErrorf(xtrfs.ErrInodeNumber, "istat", "inode outside [first_inode, last_inode]")
	}

	fmt.Fprintf(w, "Inode: %d\n", inum)

	if inum < firstDentryNum {
		fmt.Fprintf(w, "Type: virtual/reserved\n")
		return nil
	}

	d, sector, err := b.readDentry(inum)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Name: %s\n", d.ShortName())
	fmt.Fprintf(w, "Allocated: %v\n", !d.IsFree())
	fmt.Fprintf(w, "Attributes: %s\n", attrString(d))
	fmt.Fprintf(w, "Size: %d\n", d.FileSize)

	mtime := fatTimeToTime(d.WriteDate, d.WriteTime)
	if timeSkewSeconds != 0 && !mtime.IsZero() {
		adjusted := mtime.Add(time.Duration(timeSkewSeconds) * time.Second)
		fmt.Fprintf(w, "Modified: %s (adjusted from %s, skew %ds)\n",
			adjusted.Format(time.RFC3339), mtime.Format(time.RFC3339), timeSkewSeconds)
	} else {
		fmt.Fprintf(w, "Modified: %s\n", mtime.Format(time.RFC3339))
	}

	blockCount := forcedBlockCount
	if blockCount == 0 {
		blockCount = blocksForSize(uint64(d.FileSize), b.layout)
	}

	if blockCount > 0 {
		fmt.Fprintf(w, "\nDirect Blocks:\n")
		if err := b.printFileBlocks(w, d, sector, blockCount); err != nil {
			return err
		}
	}
	return nil
}

func attrString(d Dentry) string {
	s := ""
	add := func(set bool, c string) {
		if set {
			s += c
		}
	}
	add(d.IsDirectory(), "dir,")
	add(d.IsVolumeLabel(), "volume,")
	add(d.Attr&AttrReadOnly != 0, "read-only,")
	add(d.Attr&AttrHidden != 0, "hidden,")
	add(d.Attr&AttrSystem != 0, "system,")
	add(d.Attr&AttrArchive != 0, "archive,")
	add(d.IsLongName(), "long-name,")
	if s == "" {
		return "none"
	}
	return s[:len(s)-1]
}

func blocksForSize(size uint64, l *Layout) uint64 {
	clusterBytes := uint64(l.ClusterSizeSectors) * uint64(l.SectorSize)
	if clusterBytes == 0 {
		return 0
	}
	clusters := (size + clusterBytes - 1) / clusterBytes
	return clusters * uint64(l.ClusterSizeSectors)
}

// printFileBlocks walks the file's cluster chain (via the first-cluster
// field in its dentry) and prints its sector addresses, eight per line,
// stopping once blockCount sectors have been listed.
func (b *Backend) printFileBlocks(w io.Writer, d Dentry, dentrySector uint64, blockCount uint64) error {
	cluster := d.FirstCluster()
	if cluster < 2 {
		return nil
	}

	visited := make(map[uint64]bool)
	printed := uint64(0)
	col := 0

	for cluster >= 2 && printed < blockCount {
		if visited[cluster] {
			break
		}
		visited[cluster] = true

		base := b.layout.ClusterToSector(cluster)
		for s := uint64(0); s < uint64(b.layout.ClusterSizeSectors) && printed < blockCount; s++ {
			fmt.Fprintf(w, "%d ", base+s)
			col++
			printed++
			if col == 8 {
				fmt.Fprintf(w, "\n")
				col = 0
			}
		}

		class, next, err := b.chain.GetFat(cluster)
		if err != nil {
			return err
		}
		if class != EntryAllocated {
			break
		}
		cluster = next
	}
	if col != 0 {
		fmt.Fprintf(w, "\n")
	}
	return nil
}
