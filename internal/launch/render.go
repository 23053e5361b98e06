package launch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/poldracklab/tacc-software/internal/utils"
)

// ControlFile is the scoped handle for a rendered batch-control file.
// Callers defer Release immediately after a successful Render so the
// file is removed on every exit path.
type ControlFile struct {
	Path string
	Keep bool
}

// Release deletes the control file unless it is marked kept. Removal
// failures are reported at debug level only.
func (cf *ControlFile) Release() {
	if cf == nil {
		return
	}
	if cf.Keep {
		utils.PrintDebug("Keeping control file: %s", utils.StylePath(cf.Path))
		return
	}
	if err := os.Remove(cf.Path); err != nil && !os.IsNotExist(err) {
		utils.PrintDebug("Could not remove control file %s: %v", cf.Path, err)
	}
}

// Render writes the batch-control file for job into dir under a unique
// name derived from the job name and returns its handle. A write
// failure removes the partial file and fails: a half-written control
// file must never reach the scheduler.
func Render(job *Job, dir string) (*ControlFile, error) {
	if dir == "" {
		dir = "."
	}
	pattern := fmt.Sprintf(".launcher-%s-*.slurm", safeName(job.JobName))

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, NewRenderError(filepath.Join(dir, pattern), err)
	}

	w := bufio.NewWriter(f)
	writeControl(w, job)
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, NewRenderError(f.Name(), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, NewRenderError(f.Name(), err)
	}

	utils.PrintDebug("Rendered control file: %s", utils.StylePath(f.Name()))
	return &ControlFile{Path: f.Name(), Keep: job.KeepScript}, nil
}

// writeControl emits the batch-control script. Optional directives are
// omitted entirely when their input is empty, never emitted blank.
func writeControl(w io.Writer, job *Job) {
	fmt.Fprintln(w, "#!/bin/bash")
	fmt.Fprintln(w, "#")
	fmt.Fprintln(w, "# SLURM batch-control file generated by launch. Do not edit.")
	fmt.Fprintf(w, "#SBATCH -N %d\n", job.NodeCount)
	fmt.Fprintf(w, "#SBATCH -J %s\n", job.JobName)
	fmt.Fprintf(w, "#SBATCH -o %s.o%%j\n", job.JobName)
	fmt.Fprintf(w, "#SBATCH -p %s\n", job.Queue)
	fmt.Fprintf(w, "#SBATCH -t %s\n", job.RuntimeSpec)
	fmt.Fprintf(w, "#SBATCH -n %d\n", len(job.Commands))
	if job.HoldJobID > 0 {
		fmt.Fprintf(w, "#SBATCH -d afterok:%d\n", job.HoldJobID)
	}
	if job.Project != "" {
		fmt.Fprintf(w, "#SBATCH -A %s\n", job.Project)
	}
	if job.Email != "" {
		fmt.Fprintf(w, "#SBATCH --mail-user=%s\n", job.Email)
		fmt.Fprintln(w, "#SBATCH --mail-type=end")
	}
	fmt.Fprintln(w, "export LAUNCHER_PLUGIN_DIR=$LAUNCHER_DIR/plugins")
	fmt.Fprintln(w, "export LAUNCHER_RMI=SLURM")
	fmt.Fprintf(w, "export LAUNCHER_JOB_FILE=%s\n", job.ScriptPath)
	fmt.Fprintln(w, "$LAUNCHER_DIR/paramrun")
	fmt.Fprintln(w, `echo "Parametric job complete."`)
}

// safeName keeps job names usable as part of a file name.
func safeName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == '.', r == '_', r == '-':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "job"
	}
	return string(out)
}
