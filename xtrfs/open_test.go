package xtrfs_test

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/ostafen/xtregfs/xtrfs"
	"github.com/stretchr/testify/require"
)

type fakeImage struct {
	declaredSize uint64
	data         []byte
}

func newFakeImage(declaredSize uint64, backingBytes int) *fakeImage {
	return &fakeImage{declaredSize: declaredSize, data: make([]byte, backingBytes)}
}

func (f *fakeImage) ReadAt(p []byte, subOffset uint64) error {
	if subOffset+uint64(len(p)) > uint64(len(f.data)) {
		return fmt.Errorf("fakeImage: read [%d,%d) exceeds backing store %d", subOffset, subOffset+uint64(len(p)), len(f.data))
	}
	copy(p, f.data[subOffset:subOffset+uint64(len(p))])
	return nil
}

func (f *fakeImage) Size() uint64 { return f.declaredSize }

func TestOpen_UnrecognisedType(t *testing.T) {
	img := newFakeImage(4096, 4096)
	_, err := xtrfs.Open(img, 0, xtrfs.Type(99), nil)
	require.Error(t, err)
}

func TestOpen_DispatchesFAT(t *testing.T) {
	img := newFakeImage(268435456, 200*512)
	bs := make([]byte, 512)
	copy(bs[0:4], "XTAF")
	binary.BigEndian.PutUint32(bs[4:8], 32)
	binary.BigEndian.PutUint32(bs[8:12], 1)
	copy(img.data, bs)

	b, err := xtrfs.Open(img, 0x120eb0000, xtrfs.TypeFAT16, nil)
	require.NoError(t, err)
	require.Equal(t, xtrfs.TypeFAT16, b.Handle().Type)
}

func TestOpen_DispatchesREG(t *testing.T) {
	img := newFakeImage(1<<20, 8192)
	h := make([]byte, 512)
	copy(h[0:4], "regf")
	binary.LittleEndian.PutUint32(h[24:28], 4096) // last_hbin_offset
	copy(img.data, h)

	b, err := xtrfs.Open(img, 0, xtrfs.TypeREG, nil)
	require.NoError(t, err)
	require.Equal(t, xtrfs.TypeREG, b.Handle().Type)
}
