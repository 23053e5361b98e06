package host

import "sync"

var (
	activeProfile *Profile
	activeMu      sync.RWMutex
)

// SetActive records the profile resolved for this run so commands can
// share it. Passing nil clears any previously resolved profile.
func SetActive(p *Profile) {
	activeMu.Lock()
	defer activeMu.Unlock()
	activeProfile = p
}

// Active returns the profile resolved for this run (may be nil).
func Active() *Profile {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return activeProfile
}

// ClearActive resets the active profile reference.
func ClearActive() {
	SetActive(nil)
}
