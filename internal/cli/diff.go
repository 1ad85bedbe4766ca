package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jp/internal/diff"
	"github.com/roach88/jp/internal/fileio"
	"github.com/roach88/jp/internal/patch"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Output string // output file path
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Compute an RFC 6902 patch between two documents",
		Long: `Compute the patch that transforms the first document into the
second. Unchanged subtrees produce no operations, and identical
inputs always produce byte-identical patches.

Example:
  jp diff base.json edited.json
  jp diff config.yaml config-new.yaml -o changes.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the patch to a file instead of stdout")

	return cmd
}

func runDiff(opts *DiffOptions, fromPath, toPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	from, err := LoadDocument(fromPath)
	if err != nil {
		return reportCommandError(formatter, err)
	}
	to, err := LoadDocument(toPath)
	if err != nil {
		return reportCommandError(formatter, err)
	}

	p := diff.Diff(from, to)
	formatter.VerboseLog("computed %d operation(s)", len(p))
	serialized := patch.Encode(p)

	if opts.Output != "" {
		if err := fileio.WriteAtomic(opts.Output, append(serialized, '\n'), 0o644); err != nil {
			return reportCommandError(formatter, err)
		}
		formatter.VerboseLog("wrote patch to %s", opts.Output)
		return nil
	}
	return formatter.Raw(serialized)
}

// reportCommandError prints err through the formatter and wraps it
// with the command-error exit code.
func reportCommandError(formatter *OutputFormatter, err error) error {
	code := ErrorCode(err)
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, err.Error()), nil)
}
