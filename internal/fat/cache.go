package fat

import (
	"fmt"

	"github.com/ostafen/xtregfs/pkg/xtio"
)

// CacheSlots is the fixed capacity of the FAT sector-window cache. A small
// constant, not a tunable, keeps eviction a simple linear scan over an
// array instead of a heap.
const CacheSlots = 6

// WindowSectors is how many sectors each cache window covers.
// FAT_CACHE_BYTES must be at least 2*sector_size so the FAT12 odd-entry
// straddle case (a 12-bit entry split across the window boundary) can
// always rewind by one sector and still have the full entry in view.
const WindowSectors = 2

type cacheSlot struct {
	baseSector uint64
	buf        []byte
	ttl        int // 0 = empty, 1 = most recent, N = least recent
	valid      bool
}

// Cache is a fixed-capacity LRU of FAT sector windows, read through an
// xtio.ImageReader. It implements the constant-time promote/evict scheme
// in spec §4.2: on a hit, the hit slot becomes ttl=1 and every other
// nonzero slot's ttl is incremented; on a miss, the eviction victim is the
// first empty slot, or the slot with the highest ttl.
type Cache struct {
	img        xtio.ImageReader
	sectorSize uint32
	slots      [CacheSlots]cacheSlot

	hits, misses uint64
}

// NewCache builds a Cache reading sector windows from img. All addressing
// is partition-relative: img is assumed already positioned at this
// filesystem's byte offset within the larger disk image, per the
// ImageReader contract ("positioned byte reads ... at a fixed
// sub-offset").
func NewCache(img xtio.ImageReader, sectorSize uint32) *Cache {
	windowBytes := int(sectorSize) * WindowSectors
	c := &Cache{img: img, sectorSize: sectorSize}
	for i := range c.slots {
		c.slots[i].buf = make([]byte, windowBytes)
	}
	return c
}

func (c *Cache) windowBytes() int {
	return int(c.sectorSize) * WindowSectors
}

// Window returns the byte window covering sector, plus the byte offset of
// sector within that window, reading through the cache.
func (c *Cache) Window(sector uint64) ([]byte, int, error) {
	idx, err := c.index(sector)
	if err != nil {
		return nil, 0, err
	}
	slot := &c.slots[idx]
	off := int(sector-slot.baseSector) * int(c.sectorSize)
	return slot.buf, off, nil
}

// index returns the slot index covering sector, promoting it on a hit or
// loading it on a miss.
func (c *Cache) index(sector uint64) (int, error) {
	for i := range c.slots {
		s := &c.slots[i]
		if s.valid && sector >= s.baseSector && sector < s.baseSector+WindowSectors {
			c.promote(i)
			c.hits++
			return i, nil
		}
	}
	return c.load(sector)
}

// promote makes slot i the most-recently-used: its ttl becomes 1 and
// every other nonzero ttl is incremented.
func (c *Cache) promote(i int) {
	for j := range c.slots {
		if j != i && c.slots[j].ttl > 0 {
			c.slots[j].ttl++
		}
	}
	c.slots[i].ttl = 1
}

// load picks a victim slot, reads the window covering sector into it, and
// promotes it. On a read failure the cache state is left untouched.
func (c *Cache) load(sector uint64) (int, error) {
	c.misses++

	victim := -1
	worstTTL := -1
	for i := range c.slots {
		if !c.slots[i].valid {
			victim = i
			break
		}
		if c.slots[i].ttl >= CacheSlots && c.slots[i].ttl > worstTTL {
			victim = i
			worstTTL = c.slots[i].ttl
		}
	}
	if victim == -1 {
		// Every slot is valid but none reached the eviction threshold yet;
		// fall back to the single slot with the highest ttl.
		for i := range c.slots {
			if c.slots[i].ttl > worstTTL {
				victim = i
				worstTTL = c.slots[i].ttl
			}
		}
	}

	buf := make([]byte, c.windowBytes())
	if err := c.img.ReadAt(buf, sector*uint64(c.sectorSize)); err != nil {
		return 0, fmt.Errorf("fat: cache read at sector %d: %w", sector, err)
	}

	c.slots[victim].baseSector = sector
	c.slots[victim].buf = buf
	c.slots[victim].valid = true

	for j := range c.slots {
		if j != victim && c.slots[j].ttl > 0 {
			c.slots[j].ttl++
		}
	}
	c.slots[victim].ttl = 1

	return victim, nil
}

// Stats returns the cumulative hit/miss count, useful for verifying P6.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

// WindowAt forces a window based exactly at sector, bypassing the normal
// hit scan. Used only for the FAT12 odd-entry-straddles-the-window-end
// correction in spec §4.3, where the entry must be read starting exactly
// at the sector that contains its first byte.
func (c *Cache) WindowAt(sector uint64) ([]byte, error) {
	idx, err := c.load(sector)
	if err != nil {
		return nil, err
	}
	return c.slots[idx].buf, nil
}
