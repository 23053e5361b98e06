package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/poldracklab/tacc-software/internal/config"
	"github.com/poldracklab/tacc-software/internal/host"
	"github.com/poldracklab/tacc-software/internal/launch"
	"github.com/poldracklab/tacc-software/internal/slurm"
	"github.com/poldracklab/tacc-software/internal/utils"
	"github.com/spf13/cobra"
)

var (
	verboseMode bool
	quietMode   bool
	yesMode     bool
)

var rootCmd = &cobra.Command{
	Use:           "launch",
	Short:         "launch: submit parametric (many-task) jobs to SLURM on TACC systems.",
	Version:       config.VERSION,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Step 1: Load defaults
		config.LoadDefaults()

		// Step 2: Initialize Viper (read config file, env vars)
		if err := config.InitViper(); err != nil {
			utils.PrintDebug("Error reading config file: %v", err)
		}

		// Step 3: Auto-detect sbatch if needed and save to config
		updated, err := config.AutoDetectAndSave()
		if err != nil {
			utils.PrintDebug("Failed to save config: %v", err)
		} else if updated {
			if configPath, err := config.GetUserConfigPath(); err == nil {
				utils.PrintDebug("Auto-detected sbatch saved to: %s", configPath)
			}
		}

		// Step 4: Load values from Viper into the Global config and
		// merge host overrides into the resolution table
		config.LoadFromViper()

		// Step 5: Apply command-line flags (highest priority)
		if verboseMode {
			utils.VerboseMode = true
			config.Global.Verbose = true
			utils.PrintDebug("Verbose mode enabled")
			utils.PrintDebug("launch version: %s", utils.StyleInfo(config.VERSION))
			utils.PrintDebug("sbatch binary: %s", config.Global.SbatchBin)
		}
		if quietMode {
			utils.QuietMode = true
		}
		if yesMode {
			utils.YesMode = true
		}

		// Step 6: Resolve the host profile for this machine. Commands
		// that need it fail later with a full explanation; here it is
		// only recorded when resolution succeeds.
		if profile, err := launch.ResolveHost(launch.System()); err == nil {
			host.SetActive(&profile)
			utils.PrintDebug("Resolved host: %s (%d cores/node, max %d nodes)",
				profile.Name, profile.CoresPerNode, profile.MaxNodes)
		} else {
			utils.PrintDebug("Host not resolved: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra's automatic error printing is silenced. For submission
		// errors print only the captured scheduler output (trimmed) and
		// exit non-zero. For other errors, print the error string.
		var se *slurm.SubmissionError
		if errors.As(err, &se) {
			utils.PrintError("Job submission failed")
			out := strings.TrimSpace(se.Output)
			if out != "" {
				fmt.Fprintln(os.Stderr, out)
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands are attached to rootCmd in their respective init() functions
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Enable verbose diagnostic output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Suppress progress messages")
	rootCmd.PersistentFlags().BoolVarP(&yesMode, "yes", "y", false, "Assume yes for confirmation prompts")
}
