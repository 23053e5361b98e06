package launch

import (
	"fmt"
	"os"

	"github.com/poldracklab/tacc-software/internal/host"
	"github.com/poldracklab/tacc-software/internal/utils"
)

// LauncherDirVar is exported by the launcher environment module and
// points at the directory holding paramrun and its plugins.
const LauncherDirVar = "LAUNCHER_DIR"

// Environment provides the pieces of the process environment this tool
// reads. Tests substitute a fixture; production code uses System().
type Environment interface {
	Hostname() (string, error)
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
}

type systemEnvironment struct{}

func (systemEnvironment) Hostname() (string, error) { return os.Hostname() }

func (systemEnvironment) Getenv(key string) string { return os.Getenv(key) }

func (systemEnvironment) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// System returns the real process environment.
func System() Environment {
	return systemEnvironment{}
}

// CheckLauncherModule verifies the launcher environment module is
// loaded. The generated control file expands $LAUNCHER_DIR, so
// submitting without it would queue a job that dies on startup.
func CheckLauncherModule(env Environment) error {
	if val, ok := env.LookupEnv(LauncherDirVar); !ok || val == "" {
		utils.PrintHint("Try: %s", utils.StyleAction("module load launcher"))
		return fmt.Errorf("%w: %s is not set", ErrLauncherEnvMissing, LauncherDirVar)
	}
	return nil
}

// ResolveHost resolves the host profile from the machine's FQDN.
func ResolveHost(env Environment) (host.Profile, error) {
	fqdn, err := env.Hostname()
	if err != nil {
		return host.Profile{}, fmt.Errorf("could not determine hostname: %w", err)
	}
	return host.Resolve(fqdn)
}
