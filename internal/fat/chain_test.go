package fat_test

import (
	"math/bits"
	"testing"

	"github.com/ostafen/xtregfs/internal/fat"
	"github.com/stretchr/testify/require"
)

func newLayout(variant fat.Variant, firstFATSector, lastCluster uint64) *fat.Layout {
	return &fat.Layout{
		Variant:            variant,
		SectorSize:         fat.SectorSize,
		SectorShift:        uint(bits.TrailingZeros32(fat.SectorSize)),
		ClusterSizeSectors: 32,
		NumFATs:            1,
		FirstFATSector:     firstFATSector,
		SectorsPerFAT:      64,
		FirstDataSector:    firstFATSector + 64,
		FirstClusterSector: firstFATSector + 64 + 32,
		RootSector:         firstFATSector + 64,
		ClusterCount:       lastCluster - 1,
		LastCluster:        lastCluster,
	}
}

// TestGetFat_FAT16 exercises spec scenario S2: an allocated entry chaining
// into an end-of-file marker.
func TestGetFat_FAT16(t *testing.T) {
	layout := newLayout(fat.Variant16, 8, 16381)
	img := newFakeImage(1<<30, 200*512)
	img.writeFat16Entry(8, fat.SectorSize, 2, 3)
	img.writeFat16Entry(8, fat.SectorSize, 3, 0xFFFF)

	cache := fat.NewCache(img, fat.SectorSize)
	chain := fat.NewChain(layout, cache)

	class, next, err := chain.GetFat(2)
	require.NoError(t, err)
	require.Equal(t, fat.EntryAllocated, class)
	require.EqualValues(t, 3, next)

	class, _, err = chain.GetFat(3)
	require.NoError(t, err)
	require.Equal(t, fat.EntryEOF, class)
}

// TestGetFat_FAT12_Straddle exercises spec scenario S3: a 12-bit entry
// whose two bytes straddle the cache window's final byte, forcing a
// re-read based exactly at the entry's own sector.
func TestGetFat_FAT12_Straddle(t *testing.T) {
	layout := newLayout(fat.Variant12, 8, 4084)
	img := newFakeImage(1<<20, 200*512)

	// c1=682 is chosen so its FAT12 byte offset (1023) lands on the very
	// last byte of a 2-sector cache window primed by an earlier lookup.
	img.writeFat12Entry(8, fat.SectorSize, 682, 0x123)

	cache := fat.NewCache(img, fat.SectorSize)
	chain := fat.NewChain(layout, cache)

	// Prime the cache with a window covering sectors [8,9].
	_, _, err := chain.GetFat(2)
	require.NoError(t, err)

	class, next, err := chain.GetFat(682)
	require.NoError(t, err)
	require.Equal(t, fat.EntryAllocated, class)
	require.EqualValues(t, 0x123, next)
}

func TestGetFat_OutOfRange(t *testing.T) {
	layout := newLayout(fat.Variant16, 8, 100)
	img := newFakeImage(1<<20, 200*512)
	cache := fat.NewCache(img, fat.SectorSize)
	chain := fat.NewChain(layout, cache)

	_, _, err := chain.GetFat(1)
	require.Error(t, err)

	_, _, err = chain.GetFat(200)
	require.Error(t, err)

	class, _, err := chain.GetFat(101)
	require.NoError(t, err)
	require.Equal(t, fat.EntryFree, class)
}
