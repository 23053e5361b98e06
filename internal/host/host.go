// Package host maps machine hostnames to the hardware topology of the
// TACC systems this tool can submit to. Each system is described by a
// Profile; the profile resolved from the FQDN drives node-count
// inference and submission limits.
package host

import (
	"strings"
	"sync"
)

// Fallback topology for profiles added through the config file with
// fields omitted. Builtin profiles never use these.
const (
	DefaultCoresPerNode = 24
	DefaultMaxNodes     = 1200
)

// Profile describes one known system.
type Profile struct {
	Name         string // short identifier, e.g. "ls6"
	Match        string // substring searched for in the FQDN
	CoresPerNode int
	MaxNodes     int
}

// TasksPerNode returns how many launcher tasks fit on one node.
// Hyperthreading runs two tasks per core.
func (p Profile) TasksPerNode(hyperthreading bool) int {
	if hyperthreading {
		return p.CoresPerNode * 2
	}
	return p.CoresPerNode
}

// builtin is the ordered resolution table. Resolution scans it top to
// bottom and the first Match substring found in the FQDN wins, so more
// specific entries must come first.
var builtin = []Profile{
	{Name: "ls5", Match: "ls5", CoresPerNode: 24, MaxNodes: 171},
	{Name: "ls6", Match: "ls6", CoresPerNode: 128, MaxNodes: 288},
	{Name: "stampede2", Match: "stampede2", CoresPerNode: 68, MaxNodes: 256},
	{Name: "frontera", Match: "frontera", CoresPerNode: 56, MaxNodes: 512},
	{Name: "wrangler", Match: "wrangler", CoresPerNode: 24, MaxNodes: 128},
}

var (
	profiles   []Profile
	profilesMu sync.RWMutex
)

func init() {
	profiles = make([]Profile, len(builtin))
	copy(profiles, builtin)
}

// Override adjusts or adds a profile from the config file. Zero-valued
// fields are left alone for existing profiles and filled with the
// defaults for new ones.
type Override struct {
	Match        string `mapstructure:"match"`
	CoresPerNode int    `mapstructure:"cores_per_node"`
	MaxNodes     int    `mapstructure:"max_nodes"`
}

// ApplyOverrides merges config-file host entries into the resolution
// table. Called once during startup, before any resolution happens.
func ApplyOverrides(overrides map[string]Override) {
	if len(overrides) == 0 {
		return
	}

	profilesMu.Lock()
	defer profilesMu.Unlock()

	for name, ov := range overrides {
		idx := -1
		for i := range profiles {
			if profiles[i].Name == name {
				idx = i
				break
			}
		}

		if idx >= 0 {
			if ov.Match != "" {
				profiles[idx].Match = ov.Match
			}
			if ov.CoresPerNode > 0 {
				profiles[idx].CoresPerNode = ov.CoresPerNode
			}
			if ov.MaxNodes > 0 {
				profiles[idx].MaxNodes = ov.MaxNodes
			}
			continue
		}

		p := Profile{
			Name:         name,
			Match:        ov.Match,
			CoresPerNode: ov.CoresPerNode,
			MaxNodes:     ov.MaxNodes,
		}
		if p.Match == "" {
			p.Match = name
		}
		if p.CoresPerNode <= 0 {
			p.CoresPerNode = DefaultCoresPerNode
		}
		if p.MaxNodes <= 0 {
			p.MaxNodes = DefaultMaxNodes
		}
		profiles = append(profiles, p)
	}
}

// Reset restores the builtin table. Used by tests.
func Reset() {
	profilesMu.Lock()
	defer profilesMu.Unlock()
	profiles = make([]Profile, len(builtin))
	copy(profiles, builtin)
}

// Profiles returns a copy of the current resolution table in order.
func Profiles() []Profile {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// Lookup finds a profile by its short name.
func Lookup(name string) (Profile, bool) {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Resolve maps an FQDN to the first profile whose Match substring
// occurs in it. An unrecognized host is an error, never a default.
func Resolve(fqdn string) (Profile, error) {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	for _, p := range profiles {
		if strings.Contains(fqdn, p.Match) {
			return p, nil
		}
	}
	return Profile{}, NewUnknownHostError(fqdn, knownNamesLocked())
}

// knownNamesLocked lists profile names for error messages.
// Callers must hold profilesMu.
func knownNamesLocked() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return names
}
