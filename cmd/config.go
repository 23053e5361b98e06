package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/poldracklab/tacc-software/internal/config"
	"github.com/poldracklab/tacc-software/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showPath bool

// configKeys is the list of known configuration keys for shell completion
var configKeys = []string{
	"sbatch_bin",
	"queue",
	"runtime",
	"project",
	"workdir",
	"keep_scripts",
	"hosts",
}

// configKeysCompletion returns config keys for shell completion
func configKeysCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		// First arg: complete config keys
		return configKeys, cobra.ShellCompDirectiveNoFileComp
	}
	if len(args) == 1 {
		// Second arg: complete values based on the key
		return configValueCompletion(args[0]), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// configValueCompletion returns suggested values for a config key
func configValueCompletion(key string) []string {
	switch key {
	case "queue":
		return []string{"normal", "development", "large", "debug"}
	case "runtime":
		return []string{"00:30:00", "01:00:00", "04:00:00", "12:00:00", "24:00:00"}
	case "keep_scripts":
		return []string{"true", "false"}
	default:
		return nil
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage launch configuration",
	Long: `Manage launch configuration settings.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (LAUNCH_*)
  3. User config file (~/.config/launch/config.yaml or ~/.launch/config.yaml)
  4. System config file (/etc/launch/config.yaml)
  5. Defaults

The hosts key holds per-system overrides for core counts and node
limits and is a YAML map, so it can only be changed with 'config edit'.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display current configuration values, the config file in use, and environment variable overrides.",
	Run: func(cmd *cobra.Command, args []string) {
		if showPath {
			configPath, err := config.GetUserConfigPath()
			if err != nil {
				utils.PrintError("Failed to get config path: %v", err)
				os.Exit(1)
			}
			fmt.Println(configPath)
			return
		}

		// Show which config file is loaded
		fmt.Println(utils.StyleTitle("Config File:"))
		if inUse := viper.ConfigFileUsed(); inUse != "" {
			fmt.Printf("  %s\n", inUse)
		} else {
			fmt.Printf("  %s (use 'launch config init' to create)\n", utils.StyleWarning("No config file found"))
		}
		fmt.Println()

		// Show all settings
		fmt.Println(utils.StyleTitle("Settings:"))
		sbatchBin := viper.GetString("sbatch_bin")
		if sbatchBin == "" {
			sbatchBin = utils.StyleWarning("not found")
		}
		fmt.Printf("  sbatch_bin:    %s\n", sbatchBin)
		fmt.Printf("  queue:         %s\n", viper.GetString("queue"))
		fmt.Printf("  runtime:       %s\n", viper.GetString("runtime"))
		project := viper.GetString("project")
		if project == "" {
			project = utils.StyleInfo("none")
		}
		fmt.Printf("  project:       %s\n", project)
		fmt.Printf("  workdir:       %s\n", viper.GetString("workdir"))
		fmt.Printf("  keep_scripts:  %v\n", viper.GetBool("keep_scripts"))
		fmt.Println()

		// Show host overrides from the config file
		fmt.Println(utils.StyleTitle("Host Overrides:"))
		if viper.IsSet("hosts") {
			for name := range viper.GetStringMap("hosts") {
				fmt.Printf("  - %s\n", name)
			}
		} else {
			fmt.Printf("  %s\n", utils.StyleInfo("none"))
		}
		fmt.Println()

		// Show environment variable overrides
		fmt.Println(utils.StyleTitle("Environment Variable Overrides:"))
		envVars := []string{
			"LAUNCH_SBATCH_BIN",
			"LAUNCH_QUEUE",
			"LAUNCH_RUNTIME",
			"LAUNCH_PROJECT",
			"LAUNCH_WORKDIR",
			"LAUNCH_KEEP_SCRIPTS",
		}
		hasEnvOverrides := false
		for _, envVar := range envVars {
			if val := os.Getenv(envVar); val != "" {
				fmt.Printf("  %s=%s\n", envVar, val)
				hasEnvOverrides = true
			}
		}
		if !hasEnvOverrides {
			fmt.Printf("  %s\n", utils.StyleInfo("none"))
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value.

Examples:
  launch config get sbatch_bin
  launch config get queue
  launch config get runtime`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: configKeysCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := viper.Get(key)
		if value == nil {
			utils.PrintError("Unknown config key: %s", key)
			os.Exit(1)
		}
		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save to the config file.

Examples:
  launch config set queue development
  launch config set runtime 04:00:00
  launch config set project TG-ABC123
  launch config set keep_scripts true

Time duration format (for runtime):
  Go style:  2h, 30m, 1h30m, 90s
  HPC style: 02:00:00, 2:30, 1-12:00:00 (HH:MM:SS, HH:MM, or D-HH:MM:SS)`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: configKeysCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		// Validate known keys
		knownKeys := map[string]bool{
			"sbatch_bin":   true,
			"queue":        true,
			"runtime":      true,
			"project":      true,
			"workdir":      true,
			"keep_scripts": true,
			"hosts":        true,
		}

		// The hosts map can only be edited as YAML
		if key == "hosts" {
			utils.PrintError("'%s' is a map setting. Use 'launch config edit' instead.", key)
			utils.PrintHint("Config file (YAML map):\n  hosts:\n    frontera:\n      cores_per_node: 56\n      max_nodes: 512")
			os.Exit(1)
		}

		if !knownKeys[key] {
			utils.PrintWarning("Warning: '%s' is not a standard config key", key)
		}

		// Validate value based on key type
		if key == "runtime" {
			if _, err := utils.ParseDuration(value); err != nil {
				utils.PrintError("Invalid duration format: %s", value)
				utils.PrintHint("Use format like: 2h, 30m, 02:00:00, or 1-12:00:00")
				os.Exit(1)
			}
		}
		if key == "keep_scripts" {
			if _, err := strconv.ParseBool(value); err != nil {
				utils.PrintError("Invalid boolean value: %s", value)
				utils.PrintHint("Use true or false")
				os.Exit(1)
			}
		}

		// Set the value
		viper.Set(key, value)

		// Save to config file
		if err := config.SaveConfig(); err != nil {
			utils.PrintError("Failed to save config: %v", err)
			os.Exit(1)
		}

		configPath, _ := config.GetUserConfigPath()
		utils.PrintSuccess("Set %s = %s", utils.StyleInfo(key), utils.StyleInfo(value))
		utils.PrintNote("Config saved to: %s", configPath)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with defaults",
	Long: `Create a configuration file with default values and the sbatch path
detected from the current environment.

The file is written to the user config directory
(~/.config/launch/config.yaml on most systems).`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := config.GetUserConfigPath()
		if err != nil {
			utils.PrintError("Failed to get config path: %v", err)
			os.Exit(1)
		}

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			utils.PrintWarning("Config file already exists: %s", configPath)
			if !utils.ShouldAnswerYes() {
				utils.PrintNote("Cancelled")
				return
			}
		}

		// Re-detect sbatch from the current environment and save
		updated, err := config.ForceDetectAndSave()
		if err != nil {
			utils.PrintError("Failed to save config: %v", err)
			os.Exit(1)
		}

		if updated {
			utils.PrintSuccess("Config file created with auto-detected settings")
		} else {
			utils.PrintSuccess("Config file created")
		}
		fmt.Printf("  Location: %s\n", utils.StylePath(configPath))

		// Show what was detected
		fmt.Println()
		fmt.Println(utils.StyleTitle("Detected settings:"))
		if sbatchBin := viper.GetString("sbatch_bin"); sbatchBin != "" {
			fmt.Printf("  sbatch: %s\n", sbatchBin)
		} else {
			fmt.Printf("  sbatch: %s\n", utils.StyleWarning("not found"))
		}
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit config file in default editor",
	Long:  "Open the configuration file in your default text editor ($EDITOR)",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := config.GetUserConfigPath()
		if err != nil {
			utils.PrintError("Failed to get config path: %v", err)
			os.Exit(1)
		}

		// Create config if it doesn't exist
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			utils.PrintNote("Config file doesn't exist, creating it first...")
			if err := config.SaveConfig(); err != nil {
				utils.PrintError("Failed to create config: %v", err)
				os.Exit(1)
			}
		}

		// Get editor from environment
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi" // fallback to vi
		}

		// Open editor
		editorCmd := exec.Command(editor, configPath)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr

		if err := editorCmd.Run(); err != nil {
			utils.PrintError("Failed to open editor: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	// Add flags
	configShowCmd.Flags().BoolVar(&showPath, "path", false, "Show only the config file path")

	// Add subcommands
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)

	// Add to root command
	rootCmd.AddCommand(configCmd)
}
