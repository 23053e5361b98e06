package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// detectShell auto-detects the current shell from environment
func detectShell() string {
	shell := os.Getenv("SHELL")
	shellLower := strings.ToLower(shell)

	// Check for specific shells
	if strings.Contains(shellLower, "fish") {
		return "fish"
	}
	if strings.Contains(shellLower, "zsh") {
		return "zsh"
	}
	if strings.Contains(shellLower, "pwsh") || strings.Contains(shellLower, "powershell") {
		return "powershell"
	}

	// Default to bash
	return "bash"
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: func() string {
		detected := detectShell()
		return `Generate shell completion script for launch.

If no shell is specified, ` + detected + ` will be used (auto-detected from $SHELL).

To load completions:

Bash:
  $ source <(launch completion bash)

  # To load completions for each session, execute once:
  $ launch completion bash > /etc/bash_completion.d/launch

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ launch completion zsh > "${fpath[1]}/_launch"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ launch completion fish | source

  # To load completions for each session, execute once:
  $ launch completion fish > ~/.config/fish/completions/launch.fish

PowerShell:
  PS> launch completion powershell | Out-String | Invoke-Expression
`
	}(),
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		shell := detectShell()
		if len(args) > 0 {
			shell = args[0]
		}

		// Generate with only long options visible so completion does not
		// suggest single-letter forms.
		withLongOnlyFlags(cmd.Root(), func() {
			switch shell {
			case "bash":
				if err := cmd.Root().GenBashCompletionV2(os.Stdout, true); err != nil {
					_ = cmd.Root().GenBashCompletion(os.Stdout)
				}
			case "zsh":
				cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// withLongOnlyFlags clears every flag shorthand on the command tree while fn
// runs, then restores them. Keyed by flag pointer since flag names repeat
// across subcommands.
func withLongOnlyFlags(root *cobra.Command, fn func()) {
	saved := make(map[*pflag.Flag]string)

	strip := func(f *pflag.Flag) {
		if f.Shorthand != "" {
			saved[f] = f.Shorthand
			f.Shorthand = ""
		}
	}

	var visit func(c *cobra.Command)
	visit = func(c *cobra.Command) {
		c.LocalFlags().VisitAll(strip)
		c.PersistentFlags().VisitAll(strip)
		c.InheritedFlags().VisitAll(strip)
		for _, child := range c.Commands() {
			visit(child)
		}
	}
	visit(root)

	defer func() {
		for f, shorthand := range saved {
			f.Shorthand = shorthand
		}
	}()

	fn()
}
