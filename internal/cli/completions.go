package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCompletionsCommand creates the completions command.
func NewCompletionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "completions <shell>",
		Short:        "Generate a shell completion script",
		Long:         "Write a completion script for the given shell to stdout.",
		Args:         cobra.ExactArgs(1),
		ValidArgs:    []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return NewExitError(ExitCommandError, fmt.Sprintf("unsupported shell %q", args[0]))
		},
	}
}
