// Package launch turns a command list and a host profile into a
// SLURM batch-control file for the TACC parametric launcher, submits
// it, and cleans up after itself.
package launch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/poldracklab/tacc-software/internal/host"
	"github.com/poldracklab/tacc-software/internal/utils"
)

// Config carries everything the CLI collects for one submission.
type Config struct {
	JobName string
	Queue   string
	Runtime string // any format utils.ParseDuration accepts
	Project string
	Email   string
	WorkDir string // where the control file is created; "." if empty

	ScriptPath string // newline-delimited command list
	Command    string // single-command fallback, always rejected

	Nodes          int // 0 = infer from the command count
	HoldJobID      int // 0 = no dependency
	Hyperthreading bool
	KeepScript     bool
	DryRun         bool
}

// Job is a validated Config bound to a host profile, ready to render.
type Job struct {
	Config
	Profile     host.Profile
	Commands    []string
	NodeCount   int
	RuntimeSpec string // normalized SLURM time spec
}

// NewJob validates cfg against the resolved host profile. All fatal
// conditions surface here, before any file is written or any scheduler
// interaction happens.
func NewJob(cfg Config, profile host.Profile) (*Job, error) {
	if cfg.Command != "" {
		return nil, fmt.Errorf("%w: run %q through a command script instead",
			ErrSerialUnsupported, cfg.Command)
	}
	if cfg.ScriptPath == "" {
		return nil, ErrNoScript
	}

	commands, err := ReadCommandList(cfg.ScriptPath)
	if err != nil {
		return nil, err
	}

	if cfg.JobName == "" {
		cfg.JobName = "launcher"
	}
	if cfg.Queue == "" {
		cfg.Queue = "normal"
	}

	dur, err := utils.ParseDuration(cfg.Runtime)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidRuntime, cfg.Runtime, err)
	}

	nodes := cfg.Nodes
	if nodes <= 0 {
		nodes = InferNodes(len(commands), profile.TasksPerNode(cfg.Hyperthreading), profile.MaxNodes)
	}

	return &Job{
		Config:      cfg,
		Profile:     profile,
		Commands:    commands,
		NodeCount:   nodes,
		RuntimeSpec: utils.FormatRuntime(dur),
	}, nil
}

// InferNodes computes the node count that packs one task per core:
// ceil(commandCount / tasksPerNode), capped at maxNodes. The cap is
// silent; with more commands than cores*maxNodes the launcher cycles
// tasks through the allocation instead of running them all at once.
func InferNodes(commandCount, tasksPerNode, maxNodes int) int {
	if tasksPerNode <= 0 {
		tasksPerNode = 1
	}
	nodes := (commandCount + tasksPerNode - 1) / tasksPerNode
	if nodes < 1 {
		nodes = 1
	}
	if maxNodes > 0 && nodes > maxNodes {
		utils.PrintDebug("Node count %d capped at host limit %d", nodes, maxNodes)
		nodes = maxNodes
	}
	return nodes
}

// ReadCommandList loads the user's command script, one command per
// line. A blank line is rejected rather than skipped: the launcher
// assigns one task per line, so a blank line would silently burn a
// task slot.
func ReadCommandList(path string) ([]string, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, path)
	}
	defer file.Close()

	var commands []string
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			return nil, NewScriptFormatError(path, lineNo, "blank line")
		}
		commands = append(commands, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	if len(commands) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCommands, path)
	}
	return commands, nil
}
