package fat_test

import (
	"encoding/binary"
	"testing"

	"github.com/ostafen/xtregfs/internal/fat"
	"github.com/stretchr/testify/require"
)

func bootSectorBytes(clusterSize, numFATs uint32) []byte {
	b := make([]byte, fat.BootSectorSize)
	copy(b[0:4], fat.Magic)
	binary.BigEndian.PutUint32(b[4:8], clusterSize)
	binary.BigEndian.PutUint32(b[8:12], numFATs)
	return b
}

// TestParseBootSector_S1 pins spec scenario S1's exact geometry, resolved
// purely from (image size, offset) since real XTAF images don't always
// follow a tidy closed-form geometry formula.
func TestParseBootSector_S1(t *testing.T) {
	l, err := fat.ParseBootSector(bootSectorBytes(32, 1), 268435456, 0x120eb0000)
	require.NoError(t, err)

	require.Equal(t, fat.Variant16, l.Variant)
	require.EqualValues(t, 512, l.SectorSize)
	require.EqualValues(t, 8, l.FirstFATSector)
	require.EqualValues(t, 64, l.SectorsPerFAT)
	require.EqualValues(t, 80, l.RootSector)
	require.EqualValues(t, 112, l.FirstClusterSector)
	require.EqualValues(t, 16384, l.ClusterCount)
	require.EqualValues(t, 16381, l.LastCluster)

	// P2: first_data_sector >= first_fat_sector + sectors_per_fat*num_fats;
	// first_cluster_sector >= first_data_sector.
	require.GreaterOrEqual(t, l.FirstDataSector, l.FirstFATSector+l.SectorsPerFAT*uint64(l.NumFATs))
	require.GreaterOrEqual(t, l.FirstClusterSector, l.FirstDataSector)
}

func TestParseBootSector_UnknownGeometry(t *testing.T) {
	_, err := fat.ParseBootSector(bootSectorBytes(32, 1), 1234, 0)
	require.Error(t, err)
}

func TestParseBootSector_BadMagic(t *testing.T) {
	b := bootSectorBytes(32, 1)
	copy(b[0:4], "XXXX")
	_, err := fat.ParseBootSector(b, 268435456, 0x120eb0000)
	require.Error(t, err)
}

func TestParseBootSector_InvalidClusterSize(t *testing.T) {
	_, err := fat.ParseBootSector(bootSectorBytes(3, 1), 268435456, 0x120eb0000)
	require.Error(t, err)
}

func TestParseBootSector_InvalidNumFATs(t *testing.T) {
	_, err := fat.ParseBootSector(bootSectorBytes(32, 0), 268435456, 0x120eb0000)
	require.Error(t, err)

	_, err = fat.ParseBootSector(bootSectorBytes(32, 9), 268435456, 0x120eb0000)
	require.Error(t, err)
}

func TestLayout_SectorClusterRoundTrip(t *testing.T) {
	l, err := fat.ParseBootSector(bootSectorBytes(32, 1), 268435456, 0x120eb0000)
	require.NoError(t, err)

	for c := uint64(2); c < 10; c++ {
		sector := l.ClusterToSector(c)
		require.Equal(t, c, l.SectorToCluster(sector))
	}
}
