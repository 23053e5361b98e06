package launch

import (
	"errors"
	"testing"

	"github.com/poldracklab/tacc-software/internal/host"
)

// fakeEnv is an Environment fixture.
type fakeEnv struct {
	hostname string
	vars     map[string]string
}

func (f *fakeEnv) Hostname() (string, error) { return f.hostname, nil }

func (f *fakeEnv) Getenv(key string) string { return f.vars[key] }

func (f *fakeEnv) LookupEnv(key string) (string, bool) {
	v, ok := f.vars[key]
	return v, ok
}

func TestCheckLauncherModule(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr bool
	}{
		{"module loaded", map[string]string{"LAUNCHER_DIR": "/opt/apps/launcher"}, false},
		{"variable missing", map[string]string{}, true},
		{"variable empty", map[string]string{"LAUNCHER_DIR": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLauncherModule(&fakeEnv{vars: tt.vars})
			if tt.wantErr {
				if !errors.Is(err, ErrLauncherEnvMissing) {
					t.Errorf("expected ErrLauncherEnvMissing, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolveHost(t *testing.T) {
	p, err := ResolveHost(&fakeEnv{hostname: "login1.frontera.tacc.utexas.edu"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "frontera" {
		t.Errorf("resolved %q, want frontera", p.Name)
	}

	_, err = ResolveHost(&fakeEnv{hostname: "workstation.local"})
	if !host.IsUnknownHostError(err) {
		t.Errorf("expected UnknownHostError, got %v", err)
	}
}
