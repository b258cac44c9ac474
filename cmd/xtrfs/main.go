// Command xtrfs is a demo CLI over the xtrfs core: it opens an XTAF image
// or a Registry hive and renders fsstat/istat/ls reports. It is explicitly
// not part of the core (see xtrfs.Open) — it only exercises it.
package main

import (
	"fmt"
	"os"

	"github.com/ostafen/xtregfs/cmd/xtrfs/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
