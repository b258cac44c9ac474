package fat_test

import (
	"bytes"
	"testing"

	"github.com/ostafen/xtregfs/internal/fat"
	"github.com/stretchr/testify/require"
)

// TestOpen_S1 exercises spec scenario S1: a known XTAF partition geometry
// resolved purely from (declared image size, byte offset).
func TestOpen_S1(t *testing.T) {
	img := newFakeImage(268435456, 200*512)
	img.writeBootSector(32, 1, [4]byte{0xDE, 0xAD, 0xBE, 0xEF})

	b, err := fat.Open(img, 0x120eb0000, nil)
	require.NoError(t, err)
	defer b.Close()

	h := b.Handle()
	require.EqualValues(t, 512, h.BlockSize)

	// P1: first_block <= last_block_actual <= last_block;
	// first_inode <= root_inode <= last_inode.
	require.LessOrEqual(t, h.FirstBlock, h.LastBlockActual)
	require.LessOrEqual(t, h.LastBlockActual, h.LastBlock)
	require.LessOrEqual(t, h.FirstInode, h.RootInode)
	require.LessOrEqual(t, h.RootInode, h.LastInode)

	var buf bytes.Buffer
	require.NoError(t, b.FsStat(&buf))
	require.Contains(t, buf.String(), "* FAT 0: 8 - 71")
}

func TestOpen_UnknownGeometry(t *testing.T) {
	img := newFakeImage(123, 4096)
	img.writeBootSector(4, 1, [4]byte{})

	_, err := fat.Open(img, 0, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown partition geometry")
}

func TestOpen_BadMagic(t *testing.T) {
	img := newFakeImage(268435456, 4096)
	img.writeAt(0, []byte("NOPE"))

	_, err := fat.Open(img, 0x120eb0000, nil)
	require.Error(t, err)
}

func TestOpen_PrimaryZero_FallsBackToSector6(t *testing.T) {
	img := newFakeImage(268435456, 200*512)
	// Primary boot sector (sector 0) is all-zero.
	bs := make([]byte, 512)
	copy(bs[0:4], "XTAF")
	putBE32(bs[4:8], 32)
	putBE32(bs[8:12], 1)
	img.writeAt(6*512, bs)

	b, err := fat.Open(img, 0x120eb0000, nil)
	require.NoError(t, err)
	require.NotNil(t, b.Handle())
}
