package cli

import (
	"fmt"
	"strings"

	"github.com/aryankumar/fanout/internal/output"
	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command for generating shell completions
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for the fanout CLI.

Besides subcommands and flag names, the scripts complete flag values:
  -o, --output     text, table, json, yaml
  -c, --config     *.json, *.yaml and *.yml files
  --history, --db  *.db and *.sqlite files

The completion script must be sourced to provide completions. After generating the
completion script, follow the instructions for your shell:

Bash:
  $ source <(fanout completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ fanout completion bash > /etc/bash_completion.d/fanout
  # macOS:
  $ fanout completion bash > $(brew --prefix)/etc/bash_completion.d/fanout

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ fanout completion zsh > "${fpath[1]}/_fanout"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ fanout completion fish | source

  # To load completions for each session, execute once:
  $ fanout completion fish > ~/.config/fish/completions/fanout.fish

PowerShell:
  PS> fanout completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> fanout completion powershell > fanout.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Skip logging setup from the root command
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, args[0])
		},
	}

	return cmd
}

// runCompletion generates the completion script for the specified shell
func runCompletion(cmd *cobra.Command, shell string) error {
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
	case "zsh":
		return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
	case "fish":
		return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported shell type %q", shell)
	}
}

// registerFlagCompletions completes flag values the completion scripts would
// otherwise leave to plain file completion
func registerFlagCompletions(rootCmd *cobra.Command) {
	_ = rootCmd.RegisterFlagCompletionFunc("output", completeFormats)
	_ = rootCmd.MarkFlagFilename("config", "json", "yaml", "yml")
	_ = rootCmd.MarkFlagFilename("history", "db", "sqlite")
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, f := range output.Formats {
		if strings.HasPrefix(string(f), strings.ToLower(toComplete)) {
			matches = append(matches, string(f))
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
