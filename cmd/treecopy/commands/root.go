/*
Package commands implements the treecopy command line: a copy command,
which is also what runs when no command is named, and a version command.
*/
package commands

import (
	"fmt"

	"github.com/sevvalkasan/multi-threaded-file-copy/cmd/treecopy/app"
	"github.com/sevvalkasan/multi-threaded-file-copy/internal/config"
	"github.com/sevvalkasan/multi-threaded-file-copy/internal/version"
	"github.com/spf13/cobra"
)

const examples = `  # Copy a tree with one worker per CPU
  treecopy /data/photos /backup/photos

  # Eight workers, 1 MiB buffers, skip VCS and temp files
  treecopy copy -w 8 -b 1048576 -i .git/ -i "**/*.tmp" src dst

  # Only the top two levels, JSON summary written to a file
  treecopy -d 2 -o json --output-file summary.json src dst

  # Configure through the environment
  TREECOPY_WORKERS=4 TREECOPY_IGNORE="node_modules,*.log" treecopy src dst`

const environment = `
Environment Variables:
  TREECOPY_WORKERS, TREECOPY_BUFFER_SIZE, TREECOPY_RATE_LIMIT,
  TREECOPY_MAX_DEPTH, TREECOPY_IGNORE (comma-separated), TREECOPY_OUTPUT,
  TREECOPY_OUTPUT_FILE, TREECOPY_NO_PROGRESS, TREECOPY_PROGRESS_STYLE,
  TREECOPY_NO_COLOR, TREECOPY_VERBOSE, TREECOPY_CONFIG

Flags override environment variables, which override the config file.
`

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	return newRootCommand(app.Options{HandleSignals: true})
}

func newRootCommand(opts app.Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treecopy [copy] [flags] <source> <destination>",
		Short: "Concurrent recursive directory copy",
		Long: `treecopy ` + version.Version + `

Copies a directory tree with a fixed pool of workers. Every file and every
subdirectory becomes a task; the copy finishes once no task is queued or
running. Failures of individual files are reported and do not stop the copy.
` + environment,
		Example:       examples,
		Args:          copyArgs(true),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runCopy(cmd, args, opts)
		},
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newCopyCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// copyArgs accepts exactly a source and a destination, or nothing at all
// when allowEmpty is set so the bare command can print help.
func copyArgs(allowEmpty bool) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if allowEmpty && len(args) == 0 {
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("requires a source and a destination, received %d argument(s)", len(args))
		}
		return nil
	}
}

// runCopy loads the configuration, runs one copy, and reports the outcome.
// Only a failure at the root or of the configuration is returned as an error.
func runCopy(cmd *cobra.Command, args []string, opts app.Options) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.Stdout == nil {
		opts.Stdout = cmd.OutOrStdout()
	}
	if opts.Stderr == nil {
		opts.Stderr = cmd.ErrOrStderr()
	}

	application, err := app.New(cfg, opts)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	_, err = application.Run(cmd.Context(), args[0], args[1])
	return err
}
