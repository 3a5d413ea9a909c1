package commands

import (
	"github.com/sevvalkasan/multi-threaded-file-copy/cmd/treecopy/app"
	"github.com/spf13/cobra"
)

func newCopyCommand(opts app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "copy [flags] <source> <destination>",
		Short: "Copy a directory tree (default command)",
		Long: `Copy every regular file under source to the same relative path under
destination, creating directories as needed. Existing files are
overwritten. Symbolic links and other special files are skipped.`,
		Args: copyArgs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, args, opts)
		},
	}
}
