package regf_test

import (
	"encoding/binary"
	"fmt"
)

// fakeImage is the same sparse in-memory ImageReader double used by the
// internal/fat tests, duplicated here since Go test doubles don't cross
// internal package boundaries.
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

func (f *fakeImage) Size() uint64 {
	return f.declaredSize
}

func (f *fakeImage) writeAt(off uint64, b []byte) {
	copy(f.data[off:], b)
}

func putLE32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

func putLE16(b []byte, v uint16) {
	binary.LittleEndian.PutUint16(b, v)
}

// writeHeader writes a minimal valid REGF header at offset 0.
func (f *fakeImage) writeHeader(seq1, seq2, major, minor, firstKeyOffset, lastHbinOffset uint32, hiveNameUTF16LE []byte) {
	h := make([]byte, 512)
	copy(h[0:4], "regf")
	putLE32(h[4:8], seq1)
	putLE32(h[8:12], seq2)
	putLE32(h[12:16], major)
	putLE32(h[16:20], minor)
	putLE32(h[20:24], firstKeyOffset)
	putLE32(h[24:28], lastHbinOffset)
	copy(h[28:28+60], hiveNameUTF16LE)
	f.writeAt(0, h)
}

// asciiToUTF16LE encodes an ASCII string as UTF-16LE, zero-padded to n
// bytes.
func asciiToUTF16LE(s string, n int) []byte {
	out := make([]byte, n)
	for i, r := range s {
		if 2*i+1 >= n {
			break
		}
		putLE16(out[2*i:2*i+2], uint16(r))
	}
	return out
}

// writeCellHeader writes a sign-magnitude length word plus a 2-byte record
// signature at offset.
func (f *fakeImage) writeCellHeader(offset uint64, allocated bool, length uint32, sig uint16) {
	b := make([]byte, 6)
	word := length
	if allocated {
		word |= 0x80000000
	}
	putLE32(b[0:4], word)
	putLE16(b[4:6], sig)
	f.writeAt(offset, b)
}
