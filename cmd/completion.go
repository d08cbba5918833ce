package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion bash|zsh|fish",
	Short: "Set up shell tab completion",
	Long: `Generate a tab completion script.

  zsh:   mm completion zsh > "${fpath[1]}/_mm"
  bash:  mm completion bash > /usr/local/etc/bash_completion.d/mm
  fish:  mm completion fish > ~/.config/fish/completions/mm.fish`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return fmt.Errorf("unsupported shell %q (want bash, zsh or fish)", args[0])
		}
	},
}
