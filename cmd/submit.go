package cmd

import (
	"fmt"

	"github.com/poldracklab/tacc-software/internal/config"
	"github.com/poldracklab/tacc-software/internal/host"
	"github.com/poldracklab/tacc-software/internal/launch"
	"github.com/poldracklab/tacc-software/internal/slurm"
	"github.com/poldracklab/tacc-software/internal/utils"
	"github.com/spf13/cobra"
)

var (
	submitScript  string
	submitJobName string
	submitRuntime string
	submitQueue   string
	submitProject string
	submitEmail   string
	submitWorkDir string
	submitNodes   int
	submitHoldJob int
	submitHT      bool
	submitKeep    bool
	submitDryRun  bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a parametric job from a command script",
	Long: `Submit a parametric (many-task) job to SLURM via the TACC launcher.

The command script lists one shell command per line; each line becomes
one launcher task. The node count is inferred from the command count
and the resolved host's cores per node unless -N is given.

Serial (single-command) jobs are not supported: put the command in a
one-line script instead.`,
	Example: `  launch submit -s commands.txt -J sweep -t 2h
  launch submit -s commands.txt -p development -A TG-ABC123
  launch submit -s commands.txt -d 123456 --dry-run`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true, // Runtime errors should not show usage
	RunE:         runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVarP(&submitScript, "script", "s", "", "Command script, one command per line (required)")
	submitCmd.Flags().StringVarP(&submitJobName, "job-name", "J", "", "Job name (default \"launcher\")")
	submitCmd.Flags().StringVarP(&submitRuntime, "time", "t", "", "Wall-clock runtime, e.g. 2h or 02:00:00")
	submitCmd.Flags().StringVarP(&submitQueue, "partition", "p", "", "Queue/partition to submit to")
	submitCmd.Flags().StringVarP(&submitProject, "project", "A", "", "Project/allocation to charge")
	submitCmd.Flags().StringVar(&submitEmail, "mail-user", "", "Email address notified when the job completes")
	submitCmd.Flags().StringVarP(&submitWorkDir, "workdir", "w", "", "Directory for the generated control file")
	submitCmd.Flags().IntVarP(&submitNodes, "nodes", "N", 0, "Node count (default inferred from the command count)")
	submitCmd.Flags().IntVarP(&submitHoldJob, "depend", "d", 0, "Hold until this job ID completes successfully")
	submitCmd.Flags().BoolVar(&submitHT, "ht", false, "Pack two tasks per core (hyperthreading)")
	submitCmd.Flags().BoolVarP(&submitKeep, "keep", "k", false, "Keep the generated control file")
	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "Render the control file but do not submit")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	var serialCommand string
	if len(args) > 0 {
		serialCommand = args[0]
	}

	env := launch.System()
	if err := launch.CheckLauncherModule(env); err != nil {
		return err
	}

	profile := host.Active()
	if profile == nil {
		p, err := launch.ResolveHost(env)
		if err != nil {
			return err
		}
		profile = &p
	}

	cfg := launch.Config{
		JobName:        submitJobName,
		Queue:          submitQueue,
		Runtime:        submitRuntime,
		Project:        submitProject,
		Email:          submitEmail,
		WorkDir:        submitWorkDir,
		ScriptPath:     submitScript,
		Command:        serialCommand,
		Nodes:          submitNodes,
		HoldJobID:      submitHoldJob,
		Hyperthreading: submitHT,
		KeepScript:     submitKeep || config.Global.KeepScripts,
		DryRun:         submitDryRun,
	}

	// Config-file defaults fill anything the flags left empty.
	if cfg.Queue == "" {
		cfg.Queue = config.Global.Queue
	}
	if cfg.Runtime == "" {
		cfg.Runtime = config.Global.Runtime
	}
	if cfg.Project == "" {
		cfg.Project = config.Global.Project
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = config.Global.WorkDir
	}

	// The client is only built for real submissions, so a dry run
	// works on machines without sbatch.
	var client launch.Submitter
	if !cfg.DryRun {
		c, err := slurm.NewClient(config.Global.SbatchBin)
		if err != nil {
			return err
		}
		client = c
	}

	res, err := launch.Run(cfg, *profile, client)
	if err != nil {
		return err
	}

	utils.PrintMessage("Host %s: %s tasks on %s nodes",
		utils.StyleName(profile.Name),
		utils.StyleNumber(res.TaskCount),
		utils.StyleNumber(res.NodeCount))

	switch {
	case res.DryRun:
		utils.PrintMessage("Dry run complete, nothing submitted.")
	case res.JobIDKnown:
		utils.PrintSuccess("Submitted job %s", utils.StyleNumber(res.JobID))
		utils.PrintHint("Check status with: %s", utils.StyleAction(jobStatusHint(res.JobID)))
	default:
		utils.PrintWarning("No job ID detected in scheduler output; submission status unknown.")
	}

	if res.Kept {
		utils.PrintMessage("Control file kept: %s", utils.StylePath(res.ControlPath))
	}
	return nil
}

// jobStatusHint prints where to look after submission.
func jobStatusHint(jobID int) string {
	return fmt.Sprintf("squeue -j %d", jobID)
}
