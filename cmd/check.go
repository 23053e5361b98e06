package cmd

import (
	"fmt"
	"os/exec"

	"github.com/poldracklab/tacc-software/internal/config"
	"github.com/poldracklab/tacc-software/internal/launch"
	"github.com/poldracklab/tacc-software/internal/utils"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that this machine is ready to submit",
	Long: `Check the submission environment: the sbatch binary, the launcher
environment module, host resolution, and the config file in use.

Exits non-zero when an essential piece is missing.`,
	Example:      `  launch check`,
	SilenceUsage: true, // Runtime errors should not show usage
	RunE:         runEnvCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runEnvCheck(cmd *cobra.Command, args []string) error {
	env := launch.System()
	failures := 0

	// sbatch binary
	sbatchBin := config.Global.SbatchBin
	if config.ValidateBinary(sbatchBin) {
		resolved := sbatchBin
		if path, err := exec.LookPath(sbatchBin); err == nil {
			resolved = path
		}
		fmt.Printf("  sbatch:    %s\n", utils.StylePath(resolved))
	} else {
		fmt.Printf("  sbatch:    %s\n", utils.StyleError("not found"))
		utils.PrintHint("Try: %s", utils.StyleAction("module load slurm"))
		failures++
	}

	// Launcher module
	if dir, ok := env.LookupEnv(launch.LauncherDirVar); ok && dir != "" {
		fmt.Printf("  launcher:  %s\n", utils.StylePath(dir))
	} else {
		fmt.Printf("  launcher:  %s is not set\n", utils.StyleError(launch.LauncherDirVar))
		utils.PrintHint("Try: %s", utils.StyleAction("module load launcher"))
		failures++
	}

	// Host resolution
	if profile, err := launch.ResolveHost(env); err == nil {
		fmt.Printf("  host:      %s (%d cores/node, max %d nodes)\n",
			utils.StyleName(profile.Name), profile.CoresPerNode, profile.MaxNodes)
	} else {
		fqdn, _ := env.Hostname()
		fmt.Printf("  host:      %s (%s)\n", utils.StyleError("unrecognized"), fqdn)
		failures++
	}

	// Config file
	if configPath, err := config.GetUserConfigPath(); err == nil {
		if utils.FileExists(configPath) {
			fmt.Printf("  config:    %s\n", utils.StylePath(configPath))
		} else {
			fmt.Printf("  config:    %s (defaults in use)\n", utils.StyleWarning("none"))
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	utils.PrintSuccess("Ready to submit.")
	return nil
}
