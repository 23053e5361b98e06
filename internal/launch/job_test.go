package launch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poldracklab/tacc-software/internal/host"
)

// writeScript drops a command list into dir and returns its path.
func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "commands.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write command script: %v", err)
	}
	return path
}

func testProfile() host.Profile {
	return host.Profile{Name: "ls5", Match: "ls5", CoresPerNode: 24, MaxNodes: 171}
}

func TestInferNodes(t *testing.T) {
	tests := []struct {
		name         string
		commandCount int
		tasksPerNode int
		maxNodes     int
		want         int
	}{
		{"exact fill", 48, 24, 1200, 2},
		{"partial last node", 100, 24, 1200, 5},
		{"single command", 1, 24, 1200, 1},
		{"one full node", 24, 24, 1200, 1},
		{"one over", 25, 24, 1200, 2},
		{"capped at host limit", 5000, 24, 128, 128},
		{"hyperthreaded packing", 100, 48, 1200, 3},
		{"cap boundary", 3072, 24, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferNodes(tt.commandCount, tt.tasksPerNode, tt.maxNodes)
			if got != tt.want {
				t.Errorf("InferNodes(%d, %d, %d) = %d, want %d",
					tt.commandCount, tt.tasksPerNode, tt.maxNodes, got, tt.want)
			}
		})
	}
}

func TestReadCommandList(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid list", func(t *testing.T) {
		path := writeScript(t, dir, "echo one\necho two\necho three\n")
		commands, err := ReadCommandList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(commands) != 3 {
			t.Fatalf("got %d commands, want 3", len(commands))
		}
		if commands[1] != "echo two" {
			t.Errorf("commands[1] = %q, want %q", commands[1], "echo two")
		}
	})

	t.Run("blank line rejected", func(t *testing.T) {
		path := writeScript(t, dir, "echo one\n\necho three\n")
		_, err := ReadCommandList(path)
		if err == nil {
			t.Fatal("blank line should be rejected")
		}
		if !IsScriptFormatError(err) {
			t.Fatalf("expected ScriptFormatError, got %T: %v", err, err)
		}
		var sfe *ScriptFormatError
		errors.As(err, &sfe)
		if sfe.Line != 2 {
			t.Errorf("error line = %d, want 2", sfe.Line)
		}
	})

	t.Run("whitespace-only line rejected", func(t *testing.T) {
		path := writeScript(t, dir, "echo one\n   \t\n")
		_, err := ReadCommandList(path)
		if !IsScriptFormatError(err) {
			t.Errorf("expected ScriptFormatError, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeScript(t, dir, "")
		_, err := ReadCommandList(path)
		if !errors.Is(err, ErrNoCommands) {
			t.Errorf("expected ErrNoCommands, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCommandList(filepath.Join(dir, "no-such-file"))
		if !errors.Is(err, ErrScriptNotFound) {
			t.Errorf("expected ErrScriptNotFound, got %v", err)
		}
	})
}

func TestNewJobRejectsSerialCommand(t *testing.T) {
	_, err := NewJob(Config{Command: "hostname"}, testProfile())
	if !errors.Is(err, ErrSerialUnsupported) {
		t.Errorf("expected ErrSerialUnsupported, got %v", err)
	}
}

func TestNewJobRequiresScript(t *testing.T) {
	_, err := NewJob(Config{}, testProfile())
	if !errors.Is(err, ErrNoScript) {
		t.Errorf("expected ErrNoScript, got %v", err)
	}
}

func TestNewJobRejectsBadRuntime(t *testing.T) {
	path := writeScript(t, t.TempDir(), "echo one\n")
	for _, runtime := range []string{"soon", "-2h", "00:00:00"} {
		_, err := NewJob(Config{ScriptPath: path, Runtime: runtime}, testProfile())
		if !errors.Is(err, ErrInvalidRuntime) {
			t.Errorf("runtime %q: expected ErrInvalidRuntime, got %v", runtime, err)
		}
	}
}

func TestNewJobDefaults(t *testing.T) {
	path := writeScript(t, t.TempDir(), "echo one\necho two\n")
	job, err := NewJob(Config{ScriptPath: path, Runtime: "2h"}, testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.JobName != "launcher" {
		t.Errorf("JobName = %q, want launcher", job.JobName)
	}
	if job.Queue != "normal" {
		t.Errorf("Queue = %q, want normal", job.Queue)
	}
	if job.RuntimeSpec != "02:00:00" {
		t.Errorf("RuntimeSpec = %q, want 02:00:00", job.RuntimeSpec)
	}
	if job.NodeCount != 1 {
		t.Errorf("NodeCount = %d, want 1", job.NodeCount)
	}
}

func TestNewJobExplicitNodesWin(t *testing.T) {
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, "echo run")
	}
	path := writeScript(t, t.TempDir(), strings.Join(lines, "\n")+"\n")

	job, err := NewJob(Config{ScriptPath: path, Runtime: "1h", Nodes: 7}, testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.NodeCount != 7 {
		t.Errorf("NodeCount = %d, want the explicit 7", job.NodeCount)
	}
}

func TestNewJobInfersFromProfile(t *testing.T) {
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, "echo run")
	}
	path := writeScript(t, t.TempDir(), strings.Join(lines, "\n")+"\n")

	job, err := NewJob(Config{ScriptPath: path, Runtime: "1h"}, testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5 (100 commands on 24-core nodes)", job.NodeCount)
	}

	ht, err := NewJob(Config{ScriptPath: path, Runtime: "1h", Hyperthreading: true}, testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ht.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3 with hyperthreading", ht.NodeCount)
	}
}
