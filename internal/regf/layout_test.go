package regf_test

import (
	"testing"

	"github.com/ostafen/xtregfs/internal/regf"
	"github.com/stretchr/testify/require"
)

func TestParseHeader_ASCIIHiveName(t *testing.T) {
	img := newFakeImage(1<<20, 512)
	name := asciiToUTF16LE("SYSTEM", 60)
	img.writeHeader(5, 5, 1, 5, 0x20, 0x1000, name)

	data := make([]byte, regf.HeaderReadSize)
	require.NoError(t, img.ReadAt(data, 0))

	l, err := regf.ParseHeader(data)
	require.NoError(t, err)

	// P8: pure-ASCII UTF-16LE, NUL padded, transcodes to the exact ASCII
	// prefix with no embedded NULs.
	require.Equal(t, "SYSTEM", l.HiveName)
	require.EqualValues(t, 0x20, l.FirstKeyOffset)
	require.EqualValues(t, 0x1000, l.LastHbinOffset)
	require.True(t, l.Synchronized())
}

// TestParseHeader_Synchronized exercises spec scenario S4.
func TestParseHeader_Synchronized(t *testing.T) {
	img := newFakeImage(1<<20, 512)
	img.writeHeader(5, 5, 1, 5, 0x20, 0x1000, asciiToUTF16LE("", 60))

	data := make([]byte, regf.HeaderReadSize)
	require.NoError(t, img.ReadAt(data, 0))
	l, err := regf.ParseHeader(data)
	require.NoError(t, err)
	require.True(t, l.Synchronized())

	img.writeHeader(5, 6, 1, 5, 0x20, 0x1000, asciiToUTF16LE("", 60))
	require.NoError(t, img.ReadAt(data, 0))
	l, err = regf.ParseHeader(data)
	require.NoError(t, err)
	require.False(t, l.Synchronized())
}

func TestParseHeader_BadMagic(t *testing.T) {
	img := newFakeImage(1<<20, 512)
	img.writeAt(0, []byte("XXXX"))
	data := make([]byte, regf.HeaderReadSize)
	require.NoError(t, img.ReadAt(data, 0))

	_, err := regf.ParseHeader(data)
	require.Error(t, err)
}

func TestParseHeader_LastHbinNotAligned(t *testing.T) {
	img := newFakeImage(1<<20, 512)
	img.writeHeader(1, 1, 1, 5, 0x20, 0x1001, asciiToUTF16LE("", 60))
	data := make([]byte, regf.HeaderReadSize)
	require.NoError(t, img.ReadAt(data, 0))

	_, err := regf.ParseHeader(data)
	require.Error(t, err)
}
