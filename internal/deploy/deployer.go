// Package deploy runs the update pipeline for a pulley project: make
// sure the virtualenv exists, force the working tree to the tip of the
// configured remote branch, and install the declared requirements.
//
// The pipeline is deliberately dumb. Steps run in a fixed order, the
// first failure aborts the run, and nothing is retried or rolled back.
// Whatever state the failed step left behind is whatever the next run
// starts from.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/git"
	"github.com/rin/pulley/internal/history"
	"github.com/rin/pulley/internal/lockfile"
	"github.com/rin/pulley/internal/logger"
	"github.com/rin/pulley/internal/pip"
	"github.com/rin/pulley/internal/python"
	"github.com/rin/pulley/internal/runner"
)

// Result summarizes a finished deploy.
type Result struct {
	Release     *history.Release // nil for dry runs
	FromCommit  string           // working tree commit before the reset
	ToCommit    string           // remote tip the tree now matches
	VenvCreated bool
	Notice      string // reload reminder shown to the operator
}

// Deployer runs deploys for a single project.
type Deployer struct {
	cfg        *config.Config
	root       string
	lockPath   string
	ledgerPath string

	gitOps *git.Operations
	runner runner.Runner
	log    logger.Logger
	output io.Writer

	dryRun      bool
	lockTimeout time.Duration
}

// New creates a Deployer for the project handled by configManager.
func New(configManager *config.Manager) (*Deployer, error) {
	cfg, err := configManager.Load()
	if err != nil {
		return nil, err
	}

	root := configManager.GetProjectRoot()
	return &Deployer{
		cfg:         cfg,
		root:        root,
		lockPath:    configManager.GetLockPath(),
		ledgerPath:  configManager.GetLedgerPath(),
		gitOps:      git.NewOperations(root),
		runner:      runner.New(),
		log:         logger.Nop(),
		output:      os.Stdout,
		lockTimeout: lockfile.DefaultTimeout,
	}, nil
}

// WithRunner sets the command runner
func (d *Deployer) WithRunner(r runner.Runner) *Deployer {
	d.runner = r
	return d
}

// WithLogger sets the logger
func (d *Deployer) WithLogger(log logger.Logger) *Deployer {
	d.log = log
	return d
}

// WithOutput sets the writer for progress lines and subprocess output
func (d *Deployer) WithOutput(w io.Writer) *Deployer {
	d.output = w
	return d
}

// WithDryRun makes Run print the plan instead of executing it
func (d *Deployer) WithDryRun(dryRun bool) *Deployer {
	d.dryRun = dryRun
	return d
}

// WithLockTimeout bounds the wait for a concurrent deploy to finish
func (d *Deployer) WithLockTimeout(timeout time.Duration) *Deployer {
	d.lockTimeout = timeout
	return d
}

// Run executes the pipeline. On failure it returns a StepError naming
// the step that aborted the deploy; later steps have not run.
func (d *Deployer) Run(ctx context.Context) (*Result, error) {
	if err := d.checkWorkingDir(); err != nil {
		return nil, err
	}

	if d.dryRun {
		return d.plan()
	}

	// One deploy per project at a time. The lock also covers the
	// ledger write at the end.
	lock, err := lockfile.Acquire(ctx, d.lockPath, d.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	store, err := history.Open(d.ledgerPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	release := &history.Release{
		Remote:     d.cfg.Source.Remote,
		Branch:     d.cfg.Source.Branch,
		FromCommit: d.currentHead(),
	}
	if err := store.Create(release); err != nil {
		return nil, err
	}

	d.log.Info("deploy started",
		"release", release.ShortID(),
		"remote", release.Remote,
		"branch", release.Branch,
	)

	result := &Result{Release: release, FromCommit: release.FromCommit}
	runErr := d.execute(ctx, result)

	release.VenvCreated = result.VenvCreated
	release.ToCommit = result.ToCommit
	if runErr != nil {
		release.Status = history.StatusFailed
		release.Error = runErr.Error()
		var stepErr StepError
		if errors.As(runErr, &stepErr) {
			release.FailedStep = string(stepErr.Step)
		}
	} else {
		release.Status = history.StatusSucceeded
	}

	// A deploy that ran is worth more than its bookkeeping: a failed
	// ledger write downgrades to a warning.
	if err := store.Finish(release); err != nil {
		d.log.Warn("failed to record deploy outcome", "error", err)
	}

	if runErr != nil {
		d.log.Error("deploy failed", "release", release.ShortID(), "error", runErr)
		return nil, runErr
	}

	d.log.Info("deploy succeeded",
		"release", release.ShortID(),
		"commit", shortCommit(result.ToCommit),
		"duration", release.Duration(),
	)
	return result, nil
}

func (d *Deployer) execute(ctx context.Context, result *Result) error {
	venv, created, err := d.ensureVenv(ctx)
	if err != nil {
		return err
	}
	result.VenvCreated = created

	if err := d.activate(venv, created); err != nil {
		return err
	}

	if err := d.fetch(ctx); err != nil {
		return err
	}

	tip, err := d.reset()
	if err != nil {
		return err
	}
	result.ToCommit = tip

	if err := d.install(ctx, venv); err != nil {
		return err
	}

	result.Notice = d.notice()
	fmt.Fprintln(d.output, result.Notice)
	return nil
}

// checkWorkingDir verifies the directory the deploy operates in. All
// later steps resolve paths against it instead of chdir'ing into it.
func (d *Deployer) checkWorkingDir() error {
	info, err := os.Stat(d.root)
	if err != nil {
		return StepError{Step: StepWorkingDir, Kind: KindEnvironment, Err: fmt.Errorf("working directory %s: %w", d.root, err)}
	}
	if !info.IsDir() {
		return StepError{Step: StepWorkingDir, Kind: KindEnvironment, Err: fmt.Errorf("working directory %s is not a directory", d.root)}
	}
	if !d.gitOps.IsRepository() {
		return StepError{Step: StepWorkingDir, Kind: KindEnvironment, Err: fmt.Errorf("working directory %s is not a git repository", d.root)}
	}
	return nil
}

// ensureVenv returns the project virtualenv, creating it when absent.
// A directory at the venv path that is not a virtualenv is reported,
// never deleted or rebuilt.
func (d *Deployer) ensureVenv(ctx context.Context) (*python.Venv, bool, error) {
	venv := python.NewVenv(d.venvPath())

	if venv.Exists() {
		d.stepf("Using virtualenv %s", d.cfg.Python.Venv)
		return venv, false, nil
	}

	if _, err := os.Stat(venv.Root); err == nil {
		return nil, false, StepError{Step: StepVirtualenv, Kind: KindEnvironment, Err: python.ErrNotVirtualenv{Path: venv.Root}}
	}

	interpreter, err := python.FindInterpreter(d.runner, d.cfg.Python.Interpreter)
	if err != nil {
		return nil, false, StepError{Step: StepVirtualenv, Kind: KindEnvironment, Err: err}
	}

	d.stepf("Creating virtualenv %s (%s)", d.cfg.Python.Venv, d.cfg.Python.Interpreter)
	if err := python.Create(ctx, d.runner, interpreter, venv.Root); err != nil {
		return nil, false, StepError{Step: StepVirtualenv, Kind: KindTooling, Err: err}
	}
	return venv, true, nil
}

// activate binds later steps to the virtualenv: they run its own pip
// with VIRTUAL_ENV set and the venv bin directory first in PATH. A venv
// created moments ago is trusted; a pre-existing one is checked for
// the executables the deploy needs.
func (d *Deployer) activate(venv *python.Venv, created bool) error {
	if !created {
		if err := venv.Validate(); err != nil {
			return StepError{Step: StepActivate, Kind: KindEnvironment, Err: err}
		}
	}
	d.log.Debug("virtualenv activated", "path", venv.Root)
	return nil
}

func (d *Deployer) fetch(ctx context.Context) error {
	d.stepf("Fetching %s/%s", d.cfg.Source.Remote, d.cfg.Source.Branch)
	if err := d.gitOps.Fetch(ctx, d.cfg.Source.Remote, d.cfg.Source.Branch, d.output); err != nil {
		return StepError{Step: StepFetch, Kind: KindNetwork, Err: err}
	}
	return nil
}

// reset forces the working tree to the fetched tip. Local changes to
// tracked files are discarded; untracked files such as databases and
// uploads are left alone.
func (d *Deployer) reset() (string, error) {
	tip, err := d.gitOps.RemoteTip(d.cfg.Source.Remote, d.cfg.Source.Branch)
	if err != nil {
		return "", StepError{Step: StepReset, Kind: KindEnvironment, Err: err}
	}

	d.stepf("Resetting working tree to %s", shortCommit(tip))
	if err := d.gitOps.HardReset(tip); err != nil {
		return "", StepError{Step: StepReset, Kind: KindEnvironment, Err: err}
	}
	return tip, nil
}

func (d *Deployer) install(ctx context.Context, venv *python.Venv) error {
	manifest := d.cfg.Python.Requirements

	if reqs, err := pip.ParseFile(filepath.Join(d.root, manifest)); err == nil {
		if len(reqs) == 1 {
			d.stepf("Installing 1 requirement from %s", manifest)
		} else {
			d.stepf("Installing %d requirements from %s", len(reqs), manifest)
		}
	} else {
		// pip is authoritative about the manifest; it reports its own
		// errors.
		d.stepf("Installing requirements from %s", manifest)
	}

	if err := pip.Install(ctx, d.runner, venv, d.root, manifest); err != nil {
		return StepError{Step: StepInstall, Kind: KindTooling, Err: err}
	}
	return nil
}

// plan prints what a deploy would do without taking the lock, writing
// the ledger, or touching the tree.
func (d *Deployer) plan() (*Result, error) {
	venv := python.NewVenv(d.venvPath())

	fmt.Fprintf(d.output, "Dry run. A deploy of %s would:\n", d.appLabel())
	fmt.Fprintf(d.output, "  1. Use working directory %s\n", d.root)
	if venv.Exists() {
		fmt.Fprintf(d.output, "  2. Use the existing virtualenv %s\n", d.cfg.Python.Venv)
	} else {
		fmt.Fprintf(d.output, "  2. Create virtualenv %s with %s\n", d.cfg.Python.Venv, d.cfg.Python.Interpreter)
	}
	fmt.Fprintf(d.output, "  3. Activate %s\n", d.cfg.Python.Venv)
	fmt.Fprintf(d.output, "  4. Fetch %s/%s\n", d.cfg.Source.Remote, d.cfg.Source.Branch)
	fmt.Fprintf(d.output, "  5. Hard-reset the working tree to the fetched tip, discarding local changes to tracked files\n")
	fmt.Fprintf(d.output, "  6. Install requirements from %s\n", d.cfg.Python.Requirements)
	fmt.Fprintf(d.output, "  7. Print the reload notice\n")
	fmt.Fprintf(d.output, "No changes were made.\n")

	return &Result{}, nil
}

func (d *Deployer) notice() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deploy finished. Reload %s from the hosting control panel to serve the new code.", d.appLabel())
	if d.cfg.Host.Panel != "" {
		fmt.Fprintf(&b, "\nControl panel: %s", d.cfg.Host.Panel)
	}
	return b.String()
}

func (d *Deployer) appLabel() string {
	if d.cfg.Host.Domain != "" {
		return d.cfg.Host.Domain
	}
	if d.cfg.App.Name != "" {
		return d.cfg.App.Name
	}
	return "the app"
}

func (d *Deployer) venvPath() string {
	return venvPathFor(d.root, d.cfg.Python.Venv)
}

// venvPathFor resolves the configured virtualenv location against the
// project root.
func venvPathFor(root, venv string) string {
	if filepath.IsAbs(venv) {
		return venv
	}
	return filepath.Join(root, venv)
}

// currentHead returns the working tree commit, or empty when the clone
// has no commits yet.
func (d *Deployer) currentHead() string {
	head, err := d.gitOps.Head()
	if err != nil {
		return ""
	}
	return head
}

func (d *Deployer) stepf(format string, args ...any) {
	fmt.Fprintf(d.output, "==> "+format+"\n", args...)
}

func shortCommit(hash string) string {
	if len(hash) < 8 {
		return hash
	}
	return hash[:8]
}
