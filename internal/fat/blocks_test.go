package fat_test

import (
	"testing"

	"github.com/ostafen/xtregfs/internal/fat"
	"github.com/ostafen/xtregfs/xtrfs"
	"github.com/stretchr/testify/require"
)

func openS1(t *testing.T) *fat.Backend {
	t.Helper()
	img := newFakeImage(268435456, 200*512)
	img.writeBootSector(32, 1, [4]byte{0x01, 0x02, 0x03, 0x04})
	b, err := fat.Open(img, 0x120eb0000, nil)
	require.NoError(t, err)
	return b
}

// TestBlockWalk_VisitsEveryAddressInRange exercises property P5: with no
// alloc/kind filtering, block_walk visits exactly one block per address in
// [start,end], in ascending order.
func TestBlockWalk_VisitsEveryAddressInRange(t *testing.T) {
	b := openS1(t)
	defer b.Close()

	var seen []uint64
	err := b.BlockWalk(0, 113, 0, func(blk xtrfs.Block) (xtrfs.WalkAction, error) {
		seen = append(seen, blk.Addr)
		return xtrfs.WalkContinue, nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 114)
	for i, addr := range seen {
		require.EqualValues(t, i, addr)
	}
}

func TestBlockWalk_Stop(t *testing.T) {
	b := openS1(t)
	defer b.Close()

	count := 0
	err := b.BlockWalk(0, 113, 0, func(blk xtrfs.Block) (xtrfs.WalkAction, error) {
		count++
		if count == 5 {
			return xtrfs.WalkStop, nil
		}
		return xtrfs.WalkContinue, nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, count)
}

// TestBlockGetFlags_AgreesWithWalk exercises property P4: block_getflags
// reports the same allocation state that block_walk assigns to a block.
func TestBlockGetFlags_AgreesWithWalk(t *testing.T) {
	b := openS1(t)
	defer b.Close()

	walked := make(map[uint64]xtrfs.BlockFlags)
	err := b.BlockWalk(0, 143, 0, func(blk xtrfs.Block) (xtrfs.WalkAction, error) {
		walked[blk.Addr] = blk.Flags
		return xtrfs.WalkContinue, nil
	})
	require.NoError(t, err)

	for addr, flags := range walked {
		got, err := b.BlockGetFlags(addr)
		require.NoError(t, err)
		require.Equal(t, flags&(xtrfs.BlockAlloc|xtrfs.BlockUnalloc), got&(xtrfs.BlockAlloc|xtrfs.BlockUnalloc))
	}
}

func TestBlockWalk_RangeError(t *testing.T) {
	b := openS1(t)
	defer b.Close()

	err := b.BlockWalk(5, 2, 0, func(xtrfs.Block) (xtrfs.WalkAction, error) {
		return xtrfs.WalkContinue, nil
	})
	require.Error(t, err)

	err = b.BlockWalk(0, b.Handle().LastBlock+1, 0, func(xtrfs.Block) (xtrfs.WalkAction, error) {
		return xtrfs.WalkContinue, nil
	})
	require.Error(t, err)
}
