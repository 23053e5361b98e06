// Package slurm drives the sbatch binary: it submits a batch-control
// file as a child process, echoes the scheduler's stdout as it streams,
// and pulls the job ID out of the acceptance line.
package slurm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/poldracklab/tacc-software/internal/utils"
)

// acceptancePrefix starts the line sbatch prints when it accepts a job:
// "Submitted batch job <id>".
const acceptancePrefix = "Submitted batch job"

// ExecCommandFunc builds the child process command. Tests substitute
// this to fake sbatch.
type ExecCommandFunc func(name string, args ...string) *exec.Cmd

// EchoFunc receives each stdout line from sbatch as it arrives.
type EchoFunc func(line string)

// Client submits batch-control files through sbatch.
type Client struct {
	sbatchBin   string
	execCommand ExecCommandFunc
	echo        EchoFunc
}

// Submission reports what the scheduler said about one submit.
type Submission struct {
	JobID      int
	JobIDKnown bool   // true only when the acceptance line was parsed
	Output     string // captured stdout and stderr
}

// NewClient resolves the sbatch binary and returns a ready client.
// An empty bin falls back to looking up "sbatch" in PATH.
func NewClient(bin string) (*Client, error) {
	if bin == "" {
		bin = "sbatch"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		utils.PrintHint("sbatch not found. Try: %s", utils.StyleAction("module load slurm"))
		return nil, fmt.Errorf("%w: %s", ErrSbatchNotFound, bin)
	}
	return &Client{
		sbatchBin:   path,
		execCommand: exec.Command,
		echo:        func(line string) { fmt.Println(line) },
	}, nil
}

// NewClientWithExec returns a client with an injected command builder.
// Used by tests; no PATH lookup happens.
func NewClientWithExec(bin string, execCommand ExecCommandFunc) *Client {
	return &Client{
		sbatchBin:   bin,
		execCommand: execCommand,
		echo:        func(string) {},
	}
}

// SetEcho replaces the per-line stdout callback.
func (c *Client) SetEcho(fn EchoFunc) {
	if fn == nil {
		fn = func(string) {}
	}
	c.echo = fn
}

// Bin returns the resolved sbatch path.
func (c *Client) Bin() string {
	return c.sbatchBin
}

// Submit runs `sbatch <controlPath>` and consumes its stdout line by
// line, echoing each line as it arrives. The job ID is taken from the
// acceptance line when present; its absence is reported through
// JobIDKnown, not as an error, since the job may still have been
// accepted. Child start failure and non-zero exit return a
// SubmissionError with the captured output.
func (c *Client) Submit(controlPath string) (*Submission, error) {
	utils.PrintDebug("Executing: %s %s", c.sbatchBin, controlPath)

	cmd := c.execCommand(c.sbatchBin, controlPath)

	// Stderr gets its own buffer: exec copies it on an internal
	// goroutine, so it must not share a buffer with the scanner loop.
	// The two captures are merged only after Wait returns.
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, NewSubmissionError(controlPath, "", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, NewSubmissionError(controlPath, "", err)
	}

	sub := &Submission{}
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		stdoutBuf.WriteString(line)
		stdoutBuf.WriteByte('\n')
		c.echo(line)
		if id, ok := ParseJobID(line); ok {
			sub.JobID = id
			sub.JobIDKnown = true
		}
	}
	scanErr := scanner.Err()

	waitErr := cmd.Wait()
	output := stdoutBuf.String() + stderrBuf.String()

	if waitErr != nil {
		return nil, NewSubmissionError(controlPath, output, waitErr)
	}
	if scanErr != nil {
		return nil, NewSubmissionError(controlPath, output, scanErr)
	}

	sub.Output = output
	return sub, nil
}

// ParseJobID extracts the job ID from one line of sbatch output. The
// line must start with the literal acceptance prefix; the ID is its
// 4th whitespace-separated token.
func ParseJobID(line string) (int, bool) {
	if !strings.HasPrefix(line, acceptancePrefix) {
		return 0, false
	}
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return 0, false
	}
	id, err := strconv.Atoi(fields[3])
	if err != nil {
		return 0, false
	}
	return id, true
}
