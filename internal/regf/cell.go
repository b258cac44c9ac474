package regf

import (
	"fmt"

	"github.com/ostafen/xtregfs/pkg/xtio"
)

// CellType tags a cell's 2-byte record signature.
type CellType uint16

const (
	CellUnknown CellType = 0
	CellVK      CellType = 0x6b76
	CellNK      CellType = 0x6b6e
	CellLF      CellType = 0x666c
	CellLH      CellType = 0x686c
	CellLI      CellType = 0x696c
	CellRI      CellType = 0x6972
	CellSK      CellType = 0x6b73
	CellDB      CellType = 0x6264
)

func (t CellType) String() string {
	switch t {
	case CellVK:
		return "vk"
	case CellNK:
		return "nk"
	case CellLF:
		return "lf"
	case CellLH:
		return "lh"
	case CellLI:
		return "li"
	case CellRI:
		return "ri"
	case CellSK:
		return "sk"
	case CellDB:
		return "db"
	default:
		return "unknown"
	}
}

// cellHeaderSize is the 4-byte length word plus the 2-byte record
// signature that every cell starts with.
const cellHeaderSize = 6

// hbinHeaderSize is the fixed-size header at the start of every hbin page,
// before the first cell.
const hbinHeaderSize = 32

// Cell is one Registry cell header, decoded in place.
type Cell struct {
	Inode     uint64
	Length    uint32
	Allocated bool
	Type      CellType
}

// LoadCell reads and classifies the cell header at byte offset inum,
// implementing reg_load_cell: the 4-byte length word is sign-magnitude
// (high bit marks allocation, remaining 31 bits are the magnitude), not
// two's complement, per this dialect's own definition. A cell must not
// cross an hbin page boundary; one that declares a length reaching past
// the end of its own hbin is reported rather than read through into the
// next page.
func LoadCell(img xtio.ImageReader, inum uint64) (Cell, error) {
	buf := make([]byte, cellHeaderSize)
	if err := img.ReadAt(buf, inum); err != nil {
		return Cell{}, fmt.Errorf("regf: read cell header at %d: %w", inum, err)
	}

	dec := xtio.Decoder{}
	raw := dec.Uint32(buf[0:4])
	allocated := raw&0x80000000 != 0
	length := raw &^ 0x80000000

	if length >= HBINSize {
		return Cell{}, fmt.Errorf("regf: cell at %d declares length %d >= hbin size %d", inum, length, HBINSize)
	}
	if uint64(length) > HbinRemaining(inum) {
		return Cell{}, fmt.Errorf("regf: cell at %d declares length %d, crossing hbin boundary (%d bytes remain)", inum, length, HbinRemaining(inum))
	}

	sig := dec.Uint16(buf[4:6])

	return Cell{
		Inode:     inum,
		Length:    length,
		Allocated: allocated,
		Type:      CellType(sig),
	}, nil
}

// Read returns the cell's full on-disk bytes, Length bytes starting at
// Inode (the length word and signature are included).
func (c Cell) Read(img xtio.ImageReader) ([]byte, error) {
	buf := make([]byte, c.Length)
	if err := img.ReadAt(buf, c.Inode); err != nil {
		return nil, fmt.Errorf("regf: read cell body at %d: %w", c.Inode, err)
	}
	return buf, nil
}

// HbinBase returns the start offset of the hbin page containing inum.
func HbinBase(inum uint64) uint64 {
	return (inum / HBINSize) * HBINSize
}

// HbinRemaining returns how many bytes separate inum from the end of the
// hbin page that contains it.
func HbinRemaining(inum uint64) uint64 {
	return HbinBase(inum) + HBINSize - inum
}
