package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/jp/internal/edit"
	"github.com/roach88/jp/internal/patch"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Patch        string
	Editor       string
	Watch        bool
	OnApplyError string
	Debounce     time.Duration
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <input>",
		Short: "Edit a patch by editing a patched copy of the input",
		Long: `Apply the patch to the input document, open the result in a text
editor, and recompute the patch from what you saved. A missing patch
file starts an empty patch.

With --watch the editor stays open and the patch file is rewritten on
every save, until you interrupt (Ctrl-C) or the editor exits.

Example:
  jp edit config.json -p changes.json
  jp edit config.json -p changes.json -e "code --wait" --watch`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Patch, "patch", "p", "", "patch file (required)")
	_ = cmd.MarkFlagRequired("patch")
	cmd.Flags().StringVarP(&opts.Editor, "editor", "e", "", "editor command (default: $VISUAL, $EDITOR, then vim)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "rewrite the patch on every save instead of once on editor exit")
	cmd.Flags().StringVar(&opts.OnApplyError, "on-apply-error", "edit", "when the patch fails to apply: \"edit\" the unpatched input, or \"fail\"")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", edit.DefaultDebounce, "watch-mode save coalescing window")

	return cmd
}

func runEdit(opts *EditOptions, inputPath string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	policy, err := edit.ParsePolicy(opts.OnApplyError)
	if err != nil {
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	session, err := edit.NewSession(edit.Options{
		InputPath:    inputPath,
		PatchPath:    opts.Patch,
		Editor:       edit.ResolveEditor(opts.Editor),
		Watch:        opts.Watch,
		Policy:       policy,
		Debounce:     opts.Debounce,
		LoadDocument: LoadDocument,
		Logger:       logger,
		Stdout:       cmd.OutOrStdout(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	// Interrupts end the loop at the next safe point, never mid-write.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Run(ctx); err != nil {
		code := ErrorCode(err)
		formatter := &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		}
		_ = formatter.Error(code, err.Error(), nil)
		// Apply/test failures (possible under --on-apply-error=fail)
		// exit 1; everything else is a command error.
		exitCode := ExitCommandError
		var applyErr *patch.ApplyError
		if errors.As(err, &applyErr) {
			exitCode = ExitFailure
		}
		return WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, err.Error()), nil)
	}
	return nil
}
