package cmd

import (
	"fmt"

	"github.com/poldracklab/tacc-software/internal/host"
	"github.com/poldracklab/tacc-software/internal/launch"
	"github.com/poldracklab/tacc-software/internal/utils"
	"github.com/spf13/cobra"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Display the known host table",
	Long: `Display the TACC systems this tool knows how to submit to.

For each host: the hostname substring used for resolution, cores per
node, and the maximum node allocation. The host resolved from this
machine's hostname is marked as detected.`,
	Example: `  launch hosts`,
	Run:     runHosts,
}

func init() {
	rootCmd.AddCommand(hostsCmd)
}

func runHosts(cmd *cobra.Command, args []string) {
	env := launch.System()
	fqdn, err := env.Hostname()
	if err != nil {
		fqdn = ""
	}

	var detected string
	if p, resolveErr := launch.ResolveHost(env); resolveErr == nil {
		detected = p.Name
	}

	// Structured output, no [LNC] prefix. Pad before styling so ANSI
	// escapes do not break the columns.
	fmt.Println("Known hosts:")
	for _, p := range host.Profiles() {
		line := fmt.Sprintf("%-12s match=%-12s %4d cores/node, up to %5d nodes",
			p.Name, p.Match, p.CoresPerNode, p.MaxNodes)
		if p.Name == detected {
			fmt.Printf("%s %s\n", utils.StyleSuccess("*"), utils.StyleName(line))
		} else {
			fmt.Printf("  %s\n", line)
		}
	}
	fmt.Println()

	if detected != "" {
		fmt.Printf("This machine (%s) resolves to %s.\n",
			utils.StylePath(fqdn), utils.StyleName(detected))
	} else if fqdn != "" {
		fmt.Printf("This machine (%s) does not resolve to a known host.\n", utils.StylePath(fqdn))
		utils.PrintHint("Add an entry under %s in the config file to support it.", utils.StyleName("hosts"))
	}
}
