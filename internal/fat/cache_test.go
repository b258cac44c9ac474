package fat_test

import (
	"testing"

	"github.com/ostafen/xtregfs/internal/fat"
	"github.com/stretchr/testify/require"
)

// TestCache_StatsAgreeWithCalls exercises property P6: every Window call is
// either a hit or a miss, and repeated requests for an already-cached
// sector are hits rather than new misses.
func TestCache_StatsAgreeWithCalls(t *testing.T) {
	img := newFakeImage(1<<20, 200*512)
	cache := fat.NewCache(img, fat.SectorSize)

	calls := 0
	for i := 0; i < 3; i++ {
		_, _, err := cache.Window(8)
		require.NoError(t, err)
		calls++
	}
	_, _, err := cache.Window(100)
	require.NoError(t, err)
	calls++

	hits, misses := cache.Stats()
	require.EqualValues(t, calls, hits+misses)
	require.EqualValues(t, 2, misses) // sector 8 then sector 100, each a distinct window
	require.EqualValues(t, 2, hits)   // the two repeat lookups of sector 8
}

// TestCache_EvictsLeastRecentlyUsed fills every slot, then confirms a fresh
// sector evicts the coldest one rather than the most recently touched.
func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	img := newFakeImage(1<<20, 4096*512)
	cache := fat.NewCache(img, fat.SectorSize)

	// Fill all CacheSlots with distinct, non-overlapping windows.
	for i := 0; i < fat.CacheSlots; i++ {
		_, _, err := cache.Window(uint64(i * fat.WindowSectors))
		require.NoError(t, err)
	}
	_, missesBefore := cache.Stats()
	require.EqualValues(t, fat.CacheSlots, missesBefore)

	// Re-touch sector 0's window so it is the most-recently-used slot.
	_, _, err := cache.Window(0)
	require.NoError(t, err)

	// One more distinct window forces an eviction; it must not be slot 0's.
	_, _, err = cache.Window(uint64(fat.CacheSlots * fat.WindowSectors))
	require.NoError(t, err)

	_, _, err = cache.Window(0)
	require.NoError(t, err)
	_, missesAfter := cache.Stats()
	require.EqualValues(t, missesBefore+1, missesAfter, "sector 0's window should still be cached, not re-missed")
}
