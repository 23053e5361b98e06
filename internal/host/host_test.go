package host

import (
	"errors"
	"testing"
)

func TestResolveKnownHosts(t *testing.T) {
	tests := []struct {
		name         string
		fqdn         string
		wantName     string
		wantCores    int
		wantMaxNodes int
	}{
		{"lonestar5 login", "login1.ls5.tacc.utexas.edu", "ls5", 24, 171},
		{"lonestar6 login", "login2.ls6.tacc.utexas.edu", "ls6", 128, 288},
		{"stampede2 login", "login3.stampede2.tacc.utexas.edu", "stampede2", 68, 256},
		{"frontera login", "login1.frontera.tacc.utexas.edu", "frontera", 56, 512},
		{"wrangler login", "wrangler.tacc.utexas.edu", "wrangler", 24, 128},
		{"compute node", "c123-456.frontera.tacc.utexas.edu", "frontera", 56, 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(tt.fqdn)
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.fqdn, err)
			}
			if p.Name != tt.wantName {
				t.Errorf("Resolve(%q).Name = %q, want %q", tt.fqdn, p.Name, tt.wantName)
			}
			if p.CoresPerNode != tt.wantCores {
				t.Errorf("Resolve(%q).CoresPerNode = %d, want %d", tt.fqdn, p.CoresPerNode, tt.wantCores)
			}
			if p.MaxNodes != tt.wantMaxNodes {
				t.Errorf("Resolve(%q).MaxNodes = %d, want %d", tt.fqdn, p.MaxNodes, tt.wantMaxNodes)
			}
		})
	}
}

func TestResolveUnknownHost(t *testing.T) {
	_, err := Resolve("login1.bridges2.psc.edu")
	if err == nil {
		t.Fatal("Resolve of unknown host should fail")
	}
	if !IsUnknownHostError(err) {
		t.Errorf("expected UnknownHostError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrUnknownHost) {
		t.Errorf("error should wrap ErrUnknownHost, got: %v", err)
	}
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("frontera")
	if !ok {
		t.Fatal("Lookup(frontera) should succeed")
	}
	if p.CoresPerNode != 56 {
		t.Errorf("frontera CoresPerNode = %d, want 56", p.CoresPerNode)
	}

	if _, ok := Lookup("summit"); ok {
		t.Error("Lookup(summit) should fail")
	}
}

func TestTasksPerNode(t *testing.T) {
	p := Profile{Name: "ls5", CoresPerNode: 24}
	if got := p.TasksPerNode(false); got != 24 {
		t.Errorf("TasksPerNode(false) = %d, want 24", got)
	}
	if got := p.TasksPerNode(true); got != 48 {
		t.Errorf("TasksPerNode(true) = %d, want 48", got)
	}
}

func TestApplyOverridesExisting(t *testing.T) {
	t.Cleanup(Reset)

	ApplyOverrides(map[string]Override{
		"ls5": {MaxNodes: 300},
	})

	p, ok := Lookup("ls5")
	if !ok {
		t.Fatal("ls5 missing after override")
	}
	if p.MaxNodes != 300 {
		t.Errorf("MaxNodes = %d, want 300", p.MaxNodes)
	}
	if p.CoresPerNode != 24 {
		t.Errorf("CoresPerNode = %d, want 24 (field not overridden)", p.CoresPerNode)
	}
	if p.Match != "ls5" {
		t.Errorf("Match = %q, want ls5 (field not overridden)", p.Match)
	}
}

func TestApplyOverridesNewHost(t *testing.T) {
	t.Cleanup(Reset)

	ApplyOverrides(map[string]Override{
		"vista": {Match: "vista", CoresPerNode: 144},
	})

	p, err := Resolve("login1.vista.tacc.utexas.edu")
	if err != nil {
		t.Fatalf("Resolve of added host failed: %v", err)
	}
	if p.CoresPerNode != 144 {
		t.Errorf("CoresPerNode = %d, want 144", p.CoresPerNode)
	}
	if p.MaxNodes != DefaultMaxNodes {
		t.Errorf("MaxNodes = %d, want default %d", p.MaxNodes, DefaultMaxNodes)
	}
}

func TestApplyOverridesDefaultsMatchToName(t *testing.T) {
	t.Cleanup(Reset)

	ApplyOverrides(map[string]Override{
		"ranch": {},
	})

	p, err := Resolve("ranch.tacc.utexas.edu")
	if err != nil {
		t.Fatalf("Resolve of added host failed: %v", err)
	}
	if p.CoresPerNode != DefaultCoresPerNode || p.MaxNodes != DefaultMaxNodes {
		t.Errorf("empty override should fall back to defaults, got %d/%d",
			p.CoresPerNode, p.MaxNodes)
	}
}

func TestActiveProfileRegistry(t *testing.T) {
	t.Cleanup(ClearActive)

	if Active() != nil {
		t.Fatal("no profile should be active initially")
	}

	p, _ := Lookup("ls6")
	SetActive(&p)
	got := Active()
	if got == nil || got.Name != "ls6" {
		t.Errorf("Active() = %v, want ls6", got)
	}

	ClearActive()
	if Active() != nil {
		t.Error("Active() should be nil after ClearActive")
	}
}
