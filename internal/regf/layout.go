// Package regf implements the Windows Registry hive back-end: REGF header
// parsing, hbin-aligned block geometry, and cell enumeration, behind the
// same xtrfs.Backend contract the FAT back-end implements.
package regf

import (
	"fmt"

	"github.com/ostafen/xtregfs/pkg/xtio"
)

// Magic is the 4-byte REGF header signature.
const Magic = "regf"

// HBINSize is the fixed hbin page size.
const HBINSize = 4096

// FirstHbinOffset is where the first hbin page begins: one HBINSize page
// into the hive, past the page that holds the (88-byte-used) REGF header.
const FirstHbinOffset = HBINSize

// HeaderReadSize is how many header bytes this implementation reads and
// validates; the remainder of the reserved 512-byte header (checksum,
// boot-type, etc.) is not modelled.
const HeaderReadSize = 96

// hiveNameBytes is the fixed-length UTF-16LE hive-name field width.
const hiveNameBytes = 60

// Layout is the immutable geometry captured from a REGF header at open
// time.
type Layout struct {
	Seq1, Seq2     uint32
	Major, Minor   uint32
	FirstKeyOffset uint64
	LastHbinOffset uint64
	HiveName       string
}

// ParseHeader decodes a REGF header. data must be at least HeaderReadSize
// bytes.
func ParseHeader(data []byte) (*Layout, error) {
	if len(data) < HeaderReadSize {
		return nil, fmt.Errorf("regf: header too short: %d bytes", len(data))
	}
	if string(data[0:4]) != Magic {
		return nil, fmt.Errorf("regf: bad magic %q", data[0:4])
	}

	dec := xtio.Decoder{BigEndian: false}
	seq1 := dec.Uint32(data[4:8])
	seq2 := dec.Uint32(data[8:12])
	major := dec.Uint32(data[12:16])
	minor := dec.Uint32(data[16:20])
	firstKeyOffset := dec.Uint32(data[20:24])
	lastHbinOffset := dec.Uint32(data[24:28])

	if lastHbinOffset%HBINSize != 0 {
		return nil, fmt.Errorf("regf: last_hbin_offset %d is not a multiple of %d", lastHbinOffset, HBINSize)
	}

	nameField := data[28 : 28+hiveNameBytes]
	name, err := xtio.UTF16ToUTF8(nameField)
	if err != nil {
		return nil, fmt.Errorf("regf: hive name transcoding: %w", err)
	}

	return &Layout{
		Seq1:           seq1,
		Seq2:           seq2,
		Major:          major,
		Minor:          minor,
		FirstKeyOffset: uint64(firstKeyOffset),
		LastHbinOffset: uint64(lastHbinOffset),
		HiveName:       name,
	}, nil
}

// Synchronized reports whether the hive's two sequence numbers agree,
// which Windows uses to detect an unclean shutdown mid-write.
func (l *Layout) Synchronized() bool {
	return l.Seq1 == l.Seq2
}
