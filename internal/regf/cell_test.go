package regf_test

import (
	"testing"

	"github.com/ostafen/xtregfs/internal/regf"
	"github.com/stretchr/testify/require"
)

// TestLoadCell_S5 pins spec scenario S5: a cell at 0x1000 with raw length
// word 0x80000030 reports allocated=true, length=0x30.
func TestLoadCell_S5(t *testing.T) {
	img := newFakeImage(1<<20, 8192)
	img.writeCellHeader(0x1000, true, 0x30, uint16(regf.CellNK))

	c, err := regf.LoadCell(img, 0x1000)
	require.NoError(t, err)
	require.True(t, c.Allocated)
	require.EqualValues(t, 0x30, c.Length)
	require.Equal(t, regf.CellNK, c.Type)
}

// TestLoadCell_RoundTrip exercises property P7: re-loading a cell at the
// same offset reproduces the same length and allocation state.
func TestLoadCell_RoundTrip(t *testing.T) {
	img := newFakeImage(1<<20, 8192)
	img.writeCellHeader(0x1020, true, 0x48, uint16(regf.CellVK))

	c1, err := regf.LoadCell(img, 0x1020)
	require.NoError(t, err)
	c2, err := regf.LoadCell(img, 0x1020)
	require.NoError(t, err)
	require.Equal(t, c1, c2)
	require.True(t, c1.Allocated)
	require.EqualValues(t, 0x48, c1.Length)
}

func TestLoadCell_Unallocated(t *testing.T) {
	img := newFakeImage(1<<20, 8192)
	img.writeCellHeader(0x2000, false, 0x18, uint16(regf.CellDB))

	c, err := regf.LoadCell(img, 0x2000)
	require.NoError(t, err)
	require.False(t, c.Allocated)
	require.EqualValues(t, 0x18, c.Length)
	require.Equal(t, regf.CellDB, c.Type)
}

func TestLoadCell_TooLarge(t *testing.T) {
	img := newFakeImage(1<<20, 8192)
	img.writeCellHeader(0x1000, true, regf.HBINSize, uint16(regf.CellNK))

	_, err := regf.LoadCell(img, 0x1000)
	require.Error(t, err)
}

// TestLoadCell_CrossesHbinBoundary covers a cell whose declared length is
// comfortably under HBINSize but still reaches past the end of its own
// hbin page, the "cell crosses hbin boundary" inode-corrupt condition.
func TestLoadCell_CrossesHbinBoundary(t *testing.T) {
	img := newFakeImage(1<<20, 3*regf.HBINSize)

	// Hbin 2 spans [0x2000, 0x3000). Place the cell 16 bytes before the
	// page boundary and declare a length that would run 16 bytes into the
	// next hbin.
	offset := uint64(3*regf.HBINSize - 16)
	img.writeCellHeader(offset, true, 32, uint16(regf.CellVK))

	_, err := regf.LoadCell(img, offset)
	require.Error(t, err)
}

func TestCellType_String(t *testing.T) {
	require.Equal(t, "nk", regf.CellNK.String())
	require.Equal(t, "vk", regf.CellVK.String())
	require.Equal(t, "unknown", regf.CellType(0xABCD).String())
}
