package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vitae/pkg/render/skin"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for vitae.

Bash:
  $ source <(vitae completion bash)

Zsh:
  $ vitae completion zsh > "${fpath[1]}/_vitae"

Fish:
  $ vitae completion fish > ~/.config/fish/completions/vitae.fish

PowerShell:
  PS> vitae completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell: %s", args[0])
		},
	}
}

// completeTemplates offers the built-in template IDs for --template.
func completeTemplates(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, s := range skin.Default().List() {
		out = append(out, s.ID+"\t"+s.Name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats offers the output formats for --format.
func completeFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"docx", "pdf", "html", "json"}, cobra.ShellCompDirectiveNoFileComp
}
