package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwire/pkg/store"
)

var completionShells = map[string]func(*cobra.Command, io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for the given shell. Chart ids are completed
from the configured store.

  source <(chartwire completion bash)
  chartwire completion zsh > "${fpath[1]}/_chartwire"
  chartwire completion fish > ~/.config/fish/completions/chartwire.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeChartIDs offers stored chart ids, described by chart type.
func (c *CLI) completeChartIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	_ = c.withStore(cmd.Context(), func(s store.Store) error {
		entries, err := s.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range entries {
			ids = append(ids, e.ID+"\t"+e.Type)
		}
		return nil
	})
	return ids, cobra.ShellCompDirectiveNoFileComp
}
