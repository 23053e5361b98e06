package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/poldracklab/tacc-software/internal/host"
	"github.com/poldracklab/tacc-software/internal/utils"
	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (LAUNCH_*)
// 3. User config file (~/.config/launch/config.yaml)
// 4. System config file (/etc/launch/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	// Set config search paths (order matters)
	// User config (highest priority)
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "launch"))
	}

	// Home directory fallback
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".launch"))
	}

	// System-wide config (lower priority)
	viper.AddConfigPath("/etc/launch")

	// Current directory (for development)
	viper.AddConfigPath(".")

	// Environment variables
	viper.SetEnvPrefix("LAUNCH")
	viper.AutomaticEnv()

	// Set defaults (lowest priority)
	setDefaults()

	// Read config file (non-fatal if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; will use defaults and auto-detect
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("sbatch_bin", "")
	viper.SetDefault("queue", "normal")
	viper.SetDefault("runtime", "01:00:00")
	viper.SetDefault("project", "")
	viper.SetDefault("workdir", ".")
	viper.SetDefault("keep_scripts", false)
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".launch", ConfigFilename+"."+ConfigType), nil
	}

	return filepath.Join(userConfigDir, "launch", ConfigFilename+"."+ConfigType), nil
}

// SaveConfig saves current Viper config to user config file
func SaveConfig() error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Create directory if it doesn't exist
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config file
	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ValidateBinary checks if a binary exists and is executable
func ValidateBinary(binPath string) bool {
	if binPath == "" {
		return false
	}

	// If it's a full path, check directly
	if filepath.IsAbs(binPath) {
		info, err := os.Stat(binPath)
		if err != nil {
			return false
		}
		// Check if it's executable (unix-style check)
		return info.Mode()&0111 != 0
	}

	// Otherwise, try to find it in PATH
	_, err := exec.LookPath(binPath)
	return err == nil
}

// DetectSbatchBin attempts to find the sbatch binary.
// Returns the full absolute path if found, empty string otherwise.
func DetectSbatchBin() string {
	if path, err := exec.LookPath("sbatch"); err == nil {
		// exec.LookPath already returns the full path
		return path
	}
	return ""
}

// AutoDetectAndSave auto-detects sbatch and saves to config if needed
// Returns true if config was updated
func AutoDetectAndSave() (bool, error) {
	updated := false

	sbatchBin := viper.GetString("sbatch_bin")
	if !ValidateBinary(sbatchBin) {
		detected := DetectSbatchBin()
		if detected != "" {
			viper.Set("sbatch_bin", detected)
			updated = true
		}
	}

	// Save if anything was updated
	if updated {
		if err := SaveConfig(); err != nil {
			return false, err
		}
	}

	return updated, nil
}

// ForceDetectAndSave always re-detects sbatch from the current
// environment and saves. Used by config init to capture the exact
// path from the current PATH.
// Returns true if config was updated
func ForceDetectAndSave() (bool, error) {
	updated := false

	detected := DetectSbatchBin()
	if detected != "" {
		currentBin := viper.GetString("sbatch_bin")
		if currentBin != detected {
			viper.Set("sbatch_bin", detected)
			updated = true
		}
	}

	// Always save (even if nothing changed, to create the file)
	if err := SaveConfig(); err != nil {
		return false, err
	}

	return updated, nil
}

// LoadFromViper loads config from Viper into the Global struct and
// merges any host overrides into the host table.
func LoadFromViper() {
	if bin := viper.GetString("sbatch_bin"); bin != "" {
		Global.SbatchBin = bin
	}

	if queue := viper.GetString("queue"); queue != "" {
		Global.Queue = queue
	}

	if runtime := viper.GetString("runtime"); runtime != "" {
		if _, err := utils.ParseDuration(runtime); err == nil {
			Global.Runtime = runtime
		} else {
			utils.PrintWarning("Ignoring invalid runtime %q in config: %v", runtime, err)
		}
	}

	Global.Project = viper.GetString("project")

	if workdir := viper.GetString("workdir"); workdir != "" {
		Global.WorkDir = workdir
	}

	Global.KeepScripts = viper.GetBool("keep_scripts")

	loadHostOverrides()
}

// loadHostOverrides merges the config file's hosts map into the host
// resolution table.
func loadHostOverrides() {
	if !viper.IsSet("hosts") {
		return
	}

	overrides := make(map[string]host.Override)
	if err := viper.UnmarshalKey("hosts", &overrides); err != nil {
		utils.PrintWarning("Ignoring malformed hosts config: %v", err)
		return
	}
	host.ApplyOverrides(overrides)
}
