package cli

import (
	"fmt"

	"github.com/ostafen/xtregfs/pkg/util/format"
	"github.com/ostafen/xtregfs/xtrfs"
	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	var allocOnly bool

	cmd := &cobra.Command{
		Use:          "ls <image>",
		Short:        "list every inode in the image's inode range",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, closer, err := openBackend(args[0])
			if err != nil {
				return err
			}
			defer closer()

			h := backend.Handle()
			flags := xtrfs.WalkMeta | xtrfs.WalkContent
			if allocOnly {
				flags |= xtrfs.WalkAlloc
			}

			return backend.InodeWalk(h.FirstInode, h.LastInode, flags, func(i xtrfs.Inode) (xtrfs.WalkAction, error) {
				marker := " "
				if i.Num == h.RootInode {
					marker = "*"
				}
				fmt.Printf("%s%d\t%s\tsize=%s\n", marker, i.Num, fileTypeLabel(i.Type), format.FormatBytes(int64(i.Size)))
				return xtrfs.WalkContinue, nil
			})
		},
	}

	cmd.Flags().BoolVar(&allocOnly, "alloc", false, "show only allocated inodes")
	return cmd
}

func fileTypeLabel(t xtrfs.FileType) string {
	switch t {
	case xtrfs.FileTypeDirectory:
		return "dir"
	case xtrfs.FileTypeRegular:
		return "reg"
	case xtrfs.FileTypeVirtual:
		return "virt"
	default:
		return "other"
	}
}
