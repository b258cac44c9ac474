package xtio

import "encoding/binary"

// Decoder reads little- or big-endian unsigned integers out of a borrowed
// byte slice. It never copies or allocates; the caller owns the slice's
// lifetime. Grounded on the manual binary.LittleEndian accessors digler's
// internal/disk/fat.go and mbr.go hand-write per field.
type Decoder struct {
	BigEndian bool
}

func (d Decoder) order() binary.ByteOrder {
	if d.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (d Decoder) Uint16(b []byte) uint16 {
	return d.order().Uint16(b)
}

func (d Decoder) Uint32(b []byte) uint32 {
	return d.order().Uint32(b)
}

func (d Decoder) Uint64(b []byte) uint64 {
	return d.order().Uint64(b)
}
