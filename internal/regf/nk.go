package regf

import (
	"time"

	"github.com/ostafen/xtregfs/pkg/xtio"
)

// NK field offsets, measured from the cell's own start (the 4-byte length
// word at offset 0). This implementation's own fixed layout; not
// byte-exact to a real hive's NK structure, the way the XTAF boot sector
// in internal/fat is a simplified dialect rather than a byte-exact
// reproduction of Microsoft's FAT.
const (
	nkSignatureOff   = 4
	nkFlagsOff       = 6
	nkTimestampOff   = 8
	nkParentOff      = 16
	nkClassOff       = 20
	nkClassLenOff    = 24
	nkKeyNameLenOff  = 26
	nkKeyNameDataOff = 28
)

// nkRootFlag is the Flags value that marks the hive's root key.
const nkRootFlag = 0x2c

// maxNameLength bounds both class-name and key-name reads, replacing the
// original's unbounded copy per the resolved istat key-name bound.
const maxNameLength = 512

// NK is the decoded view of a Name-Key cell's fixed fields.
type NK struct {
	Flags            uint16
	LastWritten      time.Time
	ParentOffset     uint64
	ClassNameOffset  uint64 // hbin-relative; sentinel 0xFFFFFFFF means none
	ClassNameLength  uint16
	KeyNameLength    uint16
	KeyName          string
	KeyNameTruncated bool
}

const classNameNone = 0xFFFFFFFF

// IsRoot reports whether this NK record is the hive's root key.
func (nk NK) IsRoot() bool {
	return nk.Flags == nkRootFlag
}

// HasClassName reports whether the class-name offset is populated.
func (nk NK) HasClassName() bool {
	return nk.ClassNameOffset != classNameNone
}

// decodeNK parses the fixed NK fields out of a cell's raw bytes, clamping
// the key-name read to maxNameLength and to whatever remains of the cell's
// own hbin page, per the resolved istat key-name bound.
func decodeNK(c Cell, raw []byte) NK {
	dec := xtio.Decoder{}

	nk := NK{
		Flags:           dec.Uint16(raw[nkFlagsOff : nkFlagsOff+2]),
		ParentOffset:    uint64(dec.Uint32(raw[nkParentOff : nkParentOff+4])),
		ClassNameOffset: uint64(dec.Uint32(raw[nkClassOff : nkClassOff+4])),
		ClassNameLength: dec.Uint16(raw[nkClassLenOff : nkClassLenOff+2]),
		KeyNameLength:   dec.Uint16(raw[nkKeyNameLenOff : nkKeyNameLenOff+2]),
	}
	nk.LastWritten = filetimeToTime(dec.Uint64(raw[nkTimestampOff : nkTimestampOff+8]))

	if uint64(len(raw)) <= nkKeyNameDataOff {
		nk.KeyNameTruncated = nk.KeyNameLength > 0
		return nk
	}

	want := uint64(nk.KeyNameLength)
	avail := HbinRemaining(c.Inode + nkKeyNameDataOff)
	inCell := uint64(len(raw)) - nkKeyNameDataOff

	clamped := want
	if clamped > maxNameLength {
		clamped = maxNameLength
	}
	if clamped > avail {
		clamped = avail
	}
	if clamped > inCell {
		clamped = inCell
	}
	nk.KeyName = string(raw[nkKeyNameDataOff : nkKeyNameDataOff+clamped])
	nk.KeyNameTruncated = clamped < want

	return nk
}

// windowsEpochOffset100ns is the number of 100-ns intervals between the
// Windows FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const windowsEpochOffset100ns = 116444736000000000

func filetimeToTime(ft uint64) time.Time {
	if ft == 0 {
		return time.Time{}
	}
	unix100ns := int64(ft) - windowsEpochOffset100ns
	seconds := unix100ns / 10_000_000
	nanos := (unix100ns % 10_000_000) * 100
	return time.Unix(seconds, nanos).UTC()
}
