package xtio_test

import (
	"bytes"
	"testing"

	"github.com/ostafen/xtregfs/pkg/xtio"
	"github.com/stretchr/testify/require"
)

func TestFromReaderAt_ReadAt(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 16)
	data = append(data, []byte{1, 2, 3, 4}...)

	r := xtio.NewFromReaderAt(bytes.NewReader(data), 16, 4)

	buf := make([]byte, 4)
	require.NoError(t, r.ReadAt(buf, 0))
	require.Equal(t, []byte{1, 2, 3, 4}, buf)
	require.Equal(t, uint64(4), r.Size())
}

func TestFromReaderAt_ReadAt_PastEnd(t *testing.T) {
	data := make([]byte, 8)
	r := xtio.NewFromReaderAt(bytes.NewReader(data), 0, 8)

	buf := make([]byte, 4)
	require.Error(t, r.ReadAt(buf, 6))
}

func TestDecoder_Endian(t *testing.T) {
	le := xtio.Decoder{BigEndian: false}
	be := xtio.Decoder{BigEndian: true}

	b := []byte{0x01, 0x02, 0x03, 0x04}
	require.Equal(t, uint32(0x04030201), le.Uint32(b))
	require.Equal(t, uint32(0x01020304), be.Uint32(b))
	require.Equal(t, uint16(0x0201), le.Uint16(b[:2]))
	require.Equal(t, uint16(0x0102), be.Uint16(b[:2]))
}
