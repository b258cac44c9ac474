package regf

import (
	"fmt"
	"io"

	"github.com/ostafen/xtregfs/xtrfs"
)

// FsStat prints major/minor version, hive synchronization state, hive
// name, and first-key/last-hbin offsets, per spec §4.6.
func (b *Backend) FsStat(w io.Writer) error {
	if err := b.checkValid("fsstat"); err != nil {
		return err
	}
	l := b.layout

	fmt.Fprintf(w, "FILE SYSTEM INFORMATION\n")
	fmt.Fprintf(w, "--------------------------------------------\n")
	fmt.Fprintf(w, "File System Type: %s\n", xtrfs.TypeREG)
	fmt.Fprintf(w, "Version: %d.%d\n", l.Major, l.Minor)

	sync := "No"
	if l.Synchronized() {
		sync = "Yes"
	}
	fmt.Fprintf(w, "Synchronized: %s\n", sync)

	if l.HiveName != "" {
		fmt.Fprintf(w, "Hive Name: %s\n", l.HiveName)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "METADATA INFORMATION\n")
	fmt.Fprintf(w, "--------------------------------------------\n")
	fmt.Fprintf(w, "First Key Offset: 0x%x\n", l.FirstKeyOffset)
	fmt.Fprintf(w, "Last Hbin Offset: 0x%x\n", l.LastHbinOffset)

	return nil
}
