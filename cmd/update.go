package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/poldracklab/tacc-software/internal/config"
	"github.com/poldracklab/tacc-software/internal/utils"
	"github.com/spf13/cobra"
)

var (
	updateForce bool
	updateDev   bool
)

var updateCmd = &cobra.Command{
	Use:     "self-update",
	Aliases: []string{"update"},
	Short:   "Update launch to the latest version from GitHub",
	Long: `Download and replace the current launch binary with the latest version from GitHub.

This command downloads the latest binary from the GitHub repository
and replaces the current executable. A backup of the current version is not created.`,
	Example: `  launch self-update        # Update to latest stable version
  launch self-update --yes  # Update without confirmation
  launch self-update -f     # Force update even if already on latest version
  launch self-update --dev  # Include pre-release versions`,
	SilenceUsage: true, // Runtime errors should not show usage
	RunE:         runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVarP(&updateForce, "force", "f", false, "Force update even if already on latest version")
	updateCmd.Flags().BoolVar(&updateDev, "dev", false, "Include pre-release versions")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	// Get current executable path
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks
	exePath, err = filepath.EvalSymlinks(exePath)
	if err != nil {
		return fmt.Errorf("failed to resolve symlink: %w", err)
	}

	// Detect OS and architecture
	osName := runtime.GOOS
	arch := runtime.GOARCH

	// Map Go arch names to common names
	archMap := map[string]string{
		"amd64": "x86_64",
		"arm64": "aarch64",
		"386":   "i386",
	}
	if mappedArch, ok := archMap[arch]; ok {
		arch = mappedArch
	}

	if updateDev {
		utils.PrintNote("Dev mode enabled, including pre-release versions")
	}

	utils.PrintMessage("Fetching latest release information...")

	// Get release from GitHub API
	var releaseURL string
	if updateDev {
		// Fetch all releases to find the latest (including pre-releases)
		releaseURL = fmt.Sprintf("https://api.github.com/repos/%s/releases", config.GITHUB_REPO)
	} else {
		// Fetch only the latest stable release
		releaseURL = fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", config.GITHUB_REPO)
	}

	resp, err := http.Get(releaseURL)
	if err != nil {
		return fmt.Errorf("failed to fetch release information: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch release: HTTP %d", resp.StatusCode)
	}

	type releaseAsset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	}

	type releaseInfo struct {
		TagName    string         `json:"tag_name"`
		Prerelease bool           `json:"prerelease"`
		Assets     []releaseAsset `json:"assets"`
	}

	var release releaseInfo

	if updateDev {
		// Parse array of releases and find the latest
		var releases []releaseInfo
		if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
			return fmt.Errorf("failed to parse release information: %w", err)
		}

		if len(releases) == 0 {
			return fmt.Errorf("no releases found")
		}

		// The releases are already sorted by creation date (newest first)
		// Take the first one (latest release, stable or pre-release)
		release = releases[0]
	} else {
		// Parse single latest stable release
		if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
			return fmt.Errorf("failed to parse release information: %w", err)
		}
	}

	// Check if already on latest version
	currentVersion := "v" + config.VERSION
	latestVersion := strings.TrimSpace(release.TagName)

	// Compare versions semantically; if parsing fails we assume the
	// latest version is newer (so we update).
	cmp := compareVersions(currentVersion, latestVersion)

	if cmp >= 0 && !updateForce {
		// Current version >= latest version (equal or newer)
		if cmp == 0 {
			utils.PrintSuccess("Already on the latest version %s!", utils.StyleNumber(latestVersion))
		} else {
			utils.PrintSuccess("Already on a newer version %s (latest: %s)",
				utils.StyleNumber(currentVersion), utils.StyleNumber(latestVersion))
		}
		return nil
	}

	utils.PrintMessage("Current version: %s", utils.StyleNumber(currentVersion))
	if release.Prerelease {
		utils.PrintMessage("Latest pre-release: %s", utils.StyleNumber(latestVersion))
	} else {
		utils.PrintMessage("Latest version: %s", utils.StyleNumber(latestVersion))
	}

	// Ask for confirmation unless --force is given (the global --yes flag
	// short-circuits the prompt)
	if !updateForce {
		utils.PrintMessage("The current binary at %s will be replaced.", utils.StylePath(exePath))
		if !utils.ShouldAnswerYes() {
			utils.PrintNote("Update cancelled by user.")
			return nil
		}
	}

	// Find matching binary for current OS/arch
	// Expected format: launch_{os}_{arch} (e.g., launch_linux_x86_64)
	binaryName := fmt.Sprintf("launch_%s_%s", osName, arch)
	var downloadURL string

	for _, asset := range release.Assets {
		if asset.Name == binaryName {
			downloadURL = asset.BrowserDownloadURL
			break
		}
	}

	if downloadURL == "" {
		return fmt.Errorf("no binary found for %s/%s in release %s", osName, arch, release.TagName)
	}

	if !utils.URLExists(downloadURL) {
		return fmt.Errorf("release asset %s is not downloadable", binaryName)
	}

	utils.PrintMessage("Downloading launch %s for %s/%s...", utils.StyleNumber(release.TagName), osName, arch)

	// Download next to the current executable, then swap
	tempPath := exePath + ".tmp"
	if err := utils.DownloadExecutable(downloadURL, tempPath); err != nil {
		return fmt.Errorf("failed to download latest version: %w", err)
	}

	// Replace current executable
	// On Unix systems, we can replace the file while it's running
	if err := os.Rename(tempPath, exePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace executable: %w", err)
	}

	utils.PrintSuccess("launch updated to %s!", utils.StyleNumber(release.TagName))
	return nil
}

// compareVersions compares two semantic versions. It returns:
//
//	-1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2.
//
// Pre-release data is taken into account according to semver rules
// (e.g. "1.2.3-alpha" < "1.2.3"). Build metadata is used only as a
// secondary lexicographic tie-breaker.
func compareVersions(v1, v2 string) int {
	// semver package requires a leading 'v'; add it if missing so that
	// canonicalization succeeds for numeric-only tags.
	if !strings.HasPrefix(v1, "v") {
		v1 = "v" + v1
	}
	if !strings.HasPrefix(v2, "v") {
		v2 = "v" + v2
	}
	c1 := semver.Canonical(v1)
	c2 := semver.Canonical(v2)
	if c1 == "" || c2 == "" {
		// If we can't parse a version, assume the first is older so an update
		// will be attempted.
		return -1
	}
	res := semver.Compare(c1, c2)
	if res != 0 {
		return res
	}
	b1 := semver.Build(v1)
	b2 := semver.Build(v2)
	if b1 != b2 {
		if b1 < b2 {
			return -1
		}
		return 1
	}
	return 0
}
