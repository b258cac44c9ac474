//go:build windows

package cli

import (
	"fmt"

	"github.com/ostafen/xtregfs/pkg/xtio"
)

func openMmapImage(path string) (xtio.ImageReader, func() error, error) {
	return nil, nil, fmt.Errorf("xtrfs: --mmap is not supported on windows")
}
