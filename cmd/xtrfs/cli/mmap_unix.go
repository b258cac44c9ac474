//go:build !windows

package cli

import (
	"github.com/ostafen/xtregfs/internal/mmap"
	"github.com/ostafen/xtregfs/pkg/xtio"
)

func openMmapImage(path string) (xtio.ImageReader, func() error, error) {
	mf, err := mmap.NewMmapFile(path)
	if err != nil {
		return nil, nil, err
	}
	return mf, mf.Close, nil
}
