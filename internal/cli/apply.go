package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jp/internal/doc"
	"github.com/roach88/jp/internal/fileio"
	"github.com/roach88/jp/internal/patch"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Patch  string // patch file path
	Output string // output file path
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <input>",
		Short: "Apply an RFC 6902 patch to a document",
		Long: `Apply a patch to a document and print the result. Operations run
strictly in order; the first failing operation aborts the whole apply
and the input is reported unchanged.

Example:
  jp apply base.json -p changes.json
  jp apply config.yaml -p changes.json -o config-patched.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Patch, "patch", "p", "", "patch file (required)")
	_ = cmd.MarkFlagRequired("patch")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result to a file instead of stdout")

	return cmd
}

func runApply(opts *ApplyOptions, inputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	input, err := LoadDocument(inputPath)
	if err != nil {
		return reportCommandError(formatter, err)
	}
	p, err := LoadPatch(opts.Patch)
	if err != nil {
		return reportCommandError(formatter, err)
	}
	formatter.VerboseLog("applying %d operation(s) from %s", len(p), opts.Patch)

	result, err := patch.Apply(input, p)
	if err != nil {
		// A patch that does not fit the document is a failure (exit
		// 1), distinct from unusable inputs (exit 2).
		code := ErrorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: %s", code, err.Error()), nil)
	}

	serialized := doc.EncodeJSON(result)
	if opts.Output != "" {
		if err := fileio.WriteAtomic(opts.Output, append(serialized, '\n'), 0o644); err != nil {
			return reportCommandError(formatter, err)
		}
		formatter.VerboseLog("wrote result to %s", opts.Output)
		return nil
	}
	return formatter.Raw(serialized)
}
