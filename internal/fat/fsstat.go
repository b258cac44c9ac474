package fat

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/ostafen/xtregfs/xtrfs"
)

func (b *Backend) FsStat(w io.Writer) error {
	if err := b.checkValid("fsstat"); err != nil {
		return err
	}
	l := b.layout

	fmt.Fprintf(w, "FILE SYSTEM INFORMATION\n")
	fmt.Fprintf(w, "--------------------------------------------\n")
	fmt.Fprintf(w, "File System Type: %s\n", l.Variant.Type())
	fmt.Fprintf(w, "Volume Serial Number: %x\n", l.SerialNumber)

	label, labelErr := b.volumeLabel()
	if labelErr == nil && label != "" {
		fmt.Fprintf(w, "Volume Label: %s\n", label)
	}

	fmt.Fprintf(w, "Sector Size: %d\n", l.SectorSize)
	fmt.Fprintf(w, "Cluster Size: %d sectors\n", l.ClusterSizeSectors)
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "METADATA INFORMATION\n")
	fmt.Fprintf(w, "--------------------------------------------\n")
	fmt.Fprintf(w, "Reserved Sectors: 0 - %d\n", l.FirstFATSector-1)
	fmt.Fprintf(w, "Root Directory Range: %d - %d\n", l.RootSector, l.FirstClusterSector-1)
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "CONTENT INFORMATION\n")
	fmt.Fprintf(w, "--------------------------------------------\n")
	fmt.Fprintf(w, "Data Area: %d - %d\n", l.FirstDataSector, b.lastContentSector)

	sector := l.FirstFATSector
	for i := uint32(0); i < l.NumFATs; i++ {
		end := sector + l.SectorsPerFAT - 1
		fmt.Fprintf(w, "* FAT %d: %d - %d\n", i, sector, end)
		sector = end + 1
	}
	fmt.Fprintf(w, "\n")

	var merr *multierror.Error

	if l.Variant == Variant32 {
		if err := b.fsstatFat32RootChain(w); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	if err := b.fsstatBadSectors(w); err != nil {
		merr = multierror.Append(merr, err)
	}

	if err := b.fsstatRunLengths(w); err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		b.log.Warn("fsstat: non-fatal rendering errors", "err", merr)
	}
	return nil
}

// volumeLabel is the first VOLUME-attribute entry within the root
// directory's first sector, per spec §4.4.
func (b *Backend) volumeLabel() (string, error) {
	l := b.layout
	buf := make([]byte, l.SectorSize)
	if err := b.img.ReadAt(buf, l.RootSector*uint64(l.SectorSize)); err != nil {
		return "", xtrfs.WrapError(xtrfs.ErrReadError, "fsstat", "root sector read failed", err)
	}
	for off := 0; off+32 <= len(buf); off += 32 {
		d := DecodeDentry(buf[off : off+32])
		if d.IsFree() {
			continue
		}
		if d.IsVolumeLabel() {
			return d.ShortName(), nil
		}
	}
	return "", nil
}

// fsstatFat32RootChain chases the root cluster chain with cycle detection
// via a visited-set, per spec §4.4.
func (b *Backend) fsstatFat32RootChain(w io.Writer) error {
	fmt.Fprintf(w, "FAT32 Root Directory Cluster Chain:\n")

	visited := make(map[uint64]bool)
	cluster := b.layout.SectorToCluster(b.layout.RootSector)
	if cluster == 0 {
		cluster = 2
	}

	for {
		if visited[cluster] {
			fmt.Fprintf(w, "  [cycle detected at cluster %d, stopping]\n", cluster)
			break
		}
		visited[cluster] = true
		fmt.Fprintf(w, "  %d\n", cluster)

		class, next, err := b.chain.GetFat(cluster)
		if err != nil {
			return err
		}
		if class != EntryAllocated {
			break
		}
		cluster = next
	}
	return nil
}

func (b *Backend) fsstatBadSectors(w io.Writer) error {
	var bad []uint64
	for c := uint64(2); c <= b.layout.LastCluster; c++ {
		class, _, err := b.chain.GetFat(c)
		if err != nil {
			return err
		}
		if class == EntryBad {
			bad = append(bad, c)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	fmt.Fprintf(w, "Bad Sectors:\n")
	for _, c := range bad {
		fmt.Fprintf(w, "  cluster %d (sector %d)\n", c, b.layout.ClusterToSector(c))
	}
	return nil
}

// fsstatRunLengths summarises the FAT's contiguous next-pointer chains:
// a run is a maximal sequence of clusters c, c+1, c+2, ... where each
// entry points to its successor.
func (b *Backend) fsstatRunLengths(w io.Writer) error {
	fmt.Fprintf(w, "FAT Allocation Run Summary:\n")

	c := uint64(2)
	for c <= b.layout.LastCluster {
		class, next, err := b.chain.GetFat(c)
		if err != nil {
			return err
		}
		if class != EntryAllocated || next != c+1 {
			c++
			continue
		}
		runStart := c
		for class == EntryAllocated && next == c+1 && c+1 <= b.layout.LastCluster {
			c++
			class, next, err = b.chain.GetFat(c)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "  %d - %d (%d clusters)\n", runStart, c, c-runStart+1)
		c++
	}
	return nil
}
