package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const AppName = "xtrfs"

var (
	flagOffset    uint64
	flagType      string
	flagSkew      int64
	flagDebug     bool
	flagPartition int
	flagMmap      bool
	flagSegments  []string
)

// Execute builds the xtrfs command tree and runs it.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - reads XTAF images and Registry hives",
	}

	rootCmd.PersistentFlags().Uint64Var(&flagOffset, "offset", 0, "byte offset of the filesystem within the image")
	rootCmd.PersistentFlags().StringVar(&flagType, "type", "", "declared filesystem type: fat12, fat16, fat32, reg (auto-detected from the boot sector / REGF magic when omitted)")
	rootCmd.PersistentFlags().Int64Var(&flagSkew, "skew", 0, "clock skew correction in seconds applied to istat timestamps")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&flagPartition, "partition", 0, "1-indexed MBR partition to read from a whole-disk image (0: treat --offset as the filesystem's own start)")
	rootCmd.PersistentFlags().BoolVar(&flagMmap, "mmap", false, "memory-map the image instead of reading it through positioned syscalls (unavailable on windows)")
	rootCmd.PersistentFlags().StringSliceVar(&flagSegments, "segment", nil, "additional split-image segment paths that follow <image> in sequence (image.001, image.002, ...)")

	rootCmd.AddCommand(newFsStatCmd())
	rootCmd.AddCommand(newIStatCmd())
	rootCmd.AddCommand(newLsCmd())

	return rootCmd.Execute()
}

func loggerFromFlags() *slog.Logger {
	level := slog.LevelWarn
	if flagDebug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
