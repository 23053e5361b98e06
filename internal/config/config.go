package config

const VERSION = "1.2.0"

// GITHUB_REPO is the release source for self-update.
const GITHUB_REPO = "poldracklab/tacc-software"

// Config holds global application settings
type Config struct {
	Verbose bool
	Version string

	// SbatchBin is the resolved path of the SLURM submission client.
	SbatchBin string

	// Submission defaults, overridable per run from the command line.
	Queue       string
	Runtime     string
	Project     string
	WorkDir     string
	KeepScripts bool
}

// Global holds the singleton configuration instance
var Global Config

// LoadDefaults resets Global to the built-in defaults. Viper values
// and command-line flags are layered on top afterwards.
func LoadDefaults() {
	Global = Config{
		Verbose: false,
		Version: VERSION,

		SbatchBin: "sbatch",

		Queue:       "normal",
		Runtime:     "01:00:00",
		Project:     "",
		WorkDir:     ".",
		KeepScripts: false,
	}
}
