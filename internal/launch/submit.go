package launch

import (
	"github.com/poldracklab/tacc-software/internal/host"
	"github.com/poldracklab/tacc-software/internal/slurm"
	"github.com/poldracklab/tacc-software/internal/utils"
)

// Submitter is the piece of the scheduler client this package needs.
// *slurm.Client satisfies it; tests substitute a stub.
type Submitter interface {
	Submit(controlPath string) (*slurm.Submission, error)
}

// Result reports one submission attempt.
type Result struct {
	JobID      int
	JobIDKnown bool   // false on dry runs and when no acceptance line appeared
	Output     string // captured scheduler output

	ControlPath string
	DryRun      bool
	Kept        bool
	NodeCount   int
	TaskCount   int
}

// Run performs a full submission: validate, render, submit (or skip on
// dry run), clean up. The control-file handle is released on every
// path out of this function, so the generated file never outlives the
// run unless the config asks to keep it.
func Run(cfg Config, profile host.Profile, client Submitter) (*Result, error) {
	job, err := NewJob(cfg, profile)
	if err != nil {
		return nil, err
	}

	utils.PrintDebug("Job %s on %s: %d commands, %d nodes, %s runtime",
		job.JobName, profile.Name, len(job.Commands), job.NodeCount, job.RuntimeSpec)

	cf, err := Render(job, cfg.WorkDir)
	if err != nil {
		return nil, err
	}
	defer cf.Release()

	res := &Result{
		ControlPath: cf.Path,
		DryRun:      cfg.DryRun,
		Kept:        cf.Keep,
		NodeCount:   job.NodeCount,
		TaskCount:   len(job.Commands),
	}

	if cfg.DryRun {
		utils.PrintDebug("Dry run, skipping sbatch")
		return res, nil
	}

	sub, err := client.Submit(cf.Path)
	if err != nil {
		return nil, err
	}

	res.JobID = sub.JobID
	res.JobIDKnown = sub.JobIDKnown
	res.Output = sub.Output
	return res, nil
}
