package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newIStatCmd() *cobra.Command {
	var forcedBlockCount uint64

	cmd := &cobra.Command{
		Use:          "istat <image> <inum>",
		Short:        "print metadata for a single inode",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inum, err := strconv.ParseUint(args[1], 0, 64)
			if err != nil {
				return fmt.Errorf("xtrfs: invalid inode number %q: %w", args[1], err)
			}

			backend, closer, err := openBackend(args[0])
			if err != nil {
				return err
			}
			defer closer()

			if err := backend.IStat(os.Stdout, inum, forcedBlockCount, flagSkew); err != nil {
				return fmt.Errorf("xtrfs: istat: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&forcedBlockCount, "block-count", 0, "report this many blocks instead of the computed size (0: computed)")
	return cmd
}
