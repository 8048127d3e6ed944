// Package tfrunner drives the external terraform binary through the
// plan/confirm/apply cycle. The sequencing invariants live here: module
// resolution precedes planning, planning precedes confirmation, and
// confirmation precedes any mutating verb.
package tfrunner

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/internal/cmdexec"
	"github.com/streamwatchhq/streamwatch/internal/prompt"
)

// Exec abstracts process execution so orchestration is testable without
// spawning terraform.
type Exec interface {
	Run(ctx context.Context, dir, name string, args ...string) error
	RunQuiet(ctx context.Context, dir, name string, args ...string) error
}

type osExec struct{}

func (osExec) Run(ctx context.Context, dir, name string, args ...string) error {
	return cmdexec.Run(ctx, dir, name, args...)
}

func (osExec) RunQuiet(ctx context.Context, dir, name string, args ...string) error {
	return cmdexec.RunQuiet(ctx, dir, name, args...)
}

// Options configures a Runner for one workspace.
type Options struct {
	// Bin is the terraform binary name or path.
	Bin string
	// Dir is the absolute terraform working directory.
	Dir string
	// VarFile is the variable file name, resolved relative to the
	// directory above Dir.
	VarFile string

	// Remote state backend settings.
	StateBucket string
	StateKey    string
	Region      string
	KMSKeyID    string
}

type Runner struct {
	opts   Options
	exec   Exec
	prompt prompt.Prompter
	log    *zap.SugaredLogger
}

func New(opts Options, prompter prompt.Prompter, log *zap.SugaredLogger) *Runner {
	return &Runner{opts: opts, exec: osExec{}, prompt: prompter, log: log}
}

// NewWithExec is New with an injected executor, for tests.
func NewWithExec(opts Options, execer Exec, prompter prompt.Prompter, log *zap.SugaredLogger) *Runner {
	return &Runner{opts: opts, exec: execer, prompt: prompter, log: log}
}

// PlanApplyOptions selects the targets and mode for one orchestration
// cycle. The zero value plans the full graph, refreshes remote state
// first, and applies on confirmation.
type PlanApplyOptions struct {
	// Targets restricts the run; empty means the full graph.
	Targets []string
	// Destroy plans in destructive mode and runs destroy instead of
	// apply on confirmation.
	Destroy bool
	// SkipRefresh leaves the remote state configuration untouched; set
	// for pure-create bootstrap and destroy flows where shared state is
	// not yet, or no longer, relevant.
	SkipRefresh bool
}

// PlanApply runs the orchestration cycle: configure remote state, resolve
// modules, plan against the targets, gate on confirmation, then apply or
// destroy against the exact target list that was planned. The applied
// result is true only if a mutating verb ran to completion; operator
// rejection returns (false, nil). Callers must treat false as "no
// infrastructure change occurred".
func (r *Runner) PlanApply(ctx context.Context, opts PlanApplyOptions) (applied bool, err error) {
	if !opts.SkipRefresh {
		if err := r.ConfigureRemoteState(ctx); err != nil {
			return false, err
		}
	}

	r.log.Info("Resolving Terraform modules")
	if err := r.exec.RunQuiet(ctx, r.opts.Dir, r.opts.Bin, "get"); err != nil {
		return false, errors.Wrap(err, "resolving terraform modules")
	}

	planArgs := make([]string, 0, 3+len(opts.Targets))
	planArgs = append(planArgs, "plan", "-var-file=../"+r.opts.VarFile)
	for _, target := range opts.Targets {
		planArgs = append(planArgs, "-target="+target)
	}
	if opts.Destroy {
		planArgs = append(planArgs, "-destroy")
	}

	r.log.Info("Planning infrastructure")
	if err := r.exec.Run(ctx, r.opts.Dir, r.opts.Bin, planArgs...); err != nil {
		// A failed plan short-circuits; the operator is never prompted.
		return false, errors.Wrap(err, "planning infrastructure")
	}

	confirmed, err := r.prompt.Confirm()
	if err != nil {
		return false, err
	}
	if !confirmed {
		r.log.Info("Infrastructure change rejected")
		return false, nil
	}

	verb := "apply"
	if opts.Destroy {
		verb = "destroy"
		r.log.Info("Destroying infrastructure")
	} else {
		r.log.Info("Creating infrastructure")
	}

	// Reuse the planned target list verbatim so plan and mutate can
	// never drift apart.
	mutateArgs := make([]string, 0, 2+len(opts.Targets))
	mutateArgs = append(mutateArgs, verb, "-var-file=../"+r.opts.VarFile)
	for _, target := range opts.Targets {
		mutateArgs = append(mutateArgs, "-target="+target)
	}

	if err := r.exec.Run(ctx, r.opts.Dir, r.opts.Bin, mutateArgs...); err != nil {
		return false, errors.Wrapf(err, "running terraform %s", verb)
	}
	return true, nil
}

// ConfigureRemoteState points terraform at the shared s3 state location.
// Safe to call on every orchestration cycle; encryption is always on.
func (r *Runner) ConfigureRemoteState(ctx context.Context) error {
	r.log.Info("Refreshing remote state config")

	args := []string{
		"remote", "config",
		"-backend=s3",
		"-backend-config=bucket=" + r.opts.StateBucket,
		"-backend-config=key=" + r.opts.StateKey,
		"-backend-config=region=" + r.opts.Region,
		"-backend-config=kms_key_id=" + r.opts.KMSKeyID,
		"-backend-config=encrypt=true",
	}
	if err := r.exec.RunQuiet(ctx, r.opts.Dir, r.opts.Bin, args...); err != nil {
		return errors.Wrap(err, "configuring remote state")
	}
	return nil
}

// DisableRemoteState detaches the workspace from the shared state store;
// run before destroying the infrastructure that hosts the state itself.
func (r *Runner) DisableRemoteState(ctx context.Context) error {
	if err := r.exec.Run(ctx, r.opts.Dir, r.opts.Bin, "remote", "config", "-disable"); err != nil {
		return errors.Wrap(err, "disabling remote state")
	}
	return nil
}

// Outputs streams `terraform output` to the operator's terminal.
func (r *Runner) Outputs(ctx context.Context) error {
	if err := r.exec.Run(ctx, r.opts.Dir, r.opts.Bin, "output"); err != nil {
		return errors.Wrap(err, "reading terraform outputs")
	}
	return nil
}
