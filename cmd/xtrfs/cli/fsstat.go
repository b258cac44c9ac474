package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newFsStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "fsstat <image>",
		Short:        "print filesystem-level geometry and status",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, closer, err := openBackend(args[0])
			if err != nil {
				return err
			}
			defer closer()

			if err := backend.FsStat(os.Stdout); err != nil {
				return fmt.Errorf("xtrfs: fsstat: %w", err)
			}
			return nil
		},
	}
}
