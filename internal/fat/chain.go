package fat

import (
	"fmt"
)

// EntryClass is the classification of a decoded FAT entry.
type EntryClass int

const (
	EntryFree EntryClass = iota
	EntryAllocated
	EntryEOF
	EntryBad
)

// Chain resolves cluster numbers to FAT entries through a Cache, applying
// the FAT12/16/32 addressing math and classification rules of spec §4.3.
type Chain struct {
	layout *Layout
	cache  *Cache
}

func NewChain(layout *Layout, cache *Cache) *Chain {
	return &Chain{layout: layout, cache: cache}
}

// entryAddr returns the sector containing cluster c's entry and that
// entry's byte offset within the sector, per the per-variant formulas in
// spec §4.3.
func (ch *Chain) entryAddr(c uint64) (sector uint64, offsetInSector uint64) {
	l := ch.layout
	switch l.Variant {
	case Variant12:
		byteOff := c + c/2
		sector = l.FirstFATSector + (byteOff >> l.SectorShift)
		offsetInSector = byteOff % uint64(l.SectorSize)
	case Variant16:
		byteOff := c << 1
		sector = l.FirstFATSector + (byteOff >> l.SectorShift)
		offsetInSector = (c * 2) % uint64(l.SectorSize)
	default: // Variant32
		byteOff := c << 2
		sector = l.FirstFATSector + (byteOff >> l.SectorShift)
		offsetInSector = (c * 4) % uint64(l.SectorSize)
	}
	return sector, offsetInSector
}

// GetFat decodes the FAT entry for cluster c and classifies it.
func (ch *Chain) GetFat(c uint64) (class EntryClass, next uint64, err error) {
	l := ch.layout

	if c > l.LastCluster+1 {
		return 0, 0, fmt.Errorf("fat: cluster %d out of range (last=%d)", c, l.LastCluster)
	}
	if c == l.LastCluster+1 {
		// Request into the non-clustered trailing sectors: silently free.
		return EntryFree, 0, nil
	}
	if c < 2 {
		return 0, 0, fmt.Errorf("fat: cluster %d below minimum 2", c)
	}

	sector, offInSector := ch.entryAddr(c)

	window, winOff, err := ch.cache.Window(sector)
	if err != nil {
		return 0, 0, err
	}
	entryOff := winOff + int(offInSector)

	if l.Variant == Variant12 && entryOff == len(window)-1 {
		// The 12-bit entry straddles the window's final byte: re-read a
		// window based exactly at sect so both straddling bytes land
		// inside it, per spec §4.3.
		window, err = ch.cache.WindowAt(sector)
		if err != nil {
			return 0, 0, err
		}
		entryOff = int(offInSector)
	}

	value := ch.decode(window, entryOff, c)
	return ch.classify(value)
}

func (ch *Chain) decode(window []byte, off int, c uint64) uint32 {
	l := ch.layout
	mask := l.Variant.Mask()

	switch l.Variant {
	case Variant12:
		word := uint16(window[off]) | uint16(window[off+1])<<8
		if c%2 == 1 {
			word >>= 4
		}
		return uint32(word) & mask
	case Variant16:
		word := uint16(window[off]) | uint16(window[off+1])<<8
		return uint32(word) & mask
	default:
		word := uint32(window[off]) | uint32(window[off+1])<<8 |
			uint32(window[off+2])<<16 | uint32(window[off+3])<<24
		return word & mask
	}
}

func (ch *Chain) classify(value uint32) (EntryClass, uint64, error) {
	l := ch.layout
	mask := l.Variant.Mask()
	badMarker := mask & 0xFFFFFFF7
	eofThreshold := mask & 0xFFFFFFF8

	switch {
	case value == 0:
		return EntryFree, 0, nil
	case value == badMarker:
		return EntryBad, 0, nil
	case value >= eofThreshold:
		return EntryEOF, 0, nil
	case value >= 2 && value <= l.LastCluster:
		return EntryAllocated, uint64(value), nil
	default:
		// value > last_cluster but below the bad marker: corrupt entry,
		// coerced to free and non-fatal, per spec §4.3.
		return EntryFree, 0, nil
	}
}

// IsClusterAllocated reports whether cluster c is currently allocated.
func (ch *Chain) IsClusterAllocated(c uint64) (bool, error) {
	class, _, err := ch.GetFat(c)
	if err != nil {
		return false, err
	}
	return class != EntryFree, nil
}

// IsSectorAllocated reports allocation for any sector in the filesystem,
// including the reserved/FAT/fixed-root area that always reads allocated
// and the non-clustered trailing tail that always reads unallocated.
func (ch *Chain) IsSectorAllocated(sector uint64) (bool, error) {
	l := ch.layout
	if sector < l.FirstClusterSector {
		return true, nil
	}
	lastClusterSector := l.ClusterToSector(l.LastCluster) + uint64(l.ClusterSizeSectors) - 1
	if sector > lastClusterSector {
		return false, nil
	}
	return ch.IsClusterAllocated(l.SectorToCluster(sector))
}
