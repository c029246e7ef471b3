package deploy

import (
	"os"

	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/git"
	"github.com/rin/pulley/internal/history"
	"github.com/rin/pulley/internal/python"
)

// Status describes the deploy state of a project. It is assembled from
// local state only; the remote tip is whatever the last fetch recorded.
type Status struct {
	App           string           `json:"app"`
	Root          string           `json:"root"`
	Remote        string           `json:"remote"`
	Branch        string           `json:"branch"`
	RemoteURL     string           `json:"remote_url,omitempty"`
	Head          string           `json:"head,omitempty"`
	CurrentBranch string           `json:"current_branch,omitempty"`
	Clean         bool             `json:"clean"`
	RemoteTip     string           `json:"remote_tip,omitempty"`
	Venv          string           `json:"venv"`
	VenvExists    bool             `json:"venv_exists"`
	PythonVersion string           `json:"python_version,omitempty"`
	Requirements  string           `json:"requirements"`
	LastRelease   *history.Release `json:"last_release,omitempty"`
}

// ProjectStatus reads the deploy state of the project handled by
// configManager. Git and virtualenv details are best-effort: a broken
// checkout still produces a report.
func ProjectStatus(configManager *config.Manager) (*Status, error) {
	cfg, err := configManager.Load()
	if err != nil {
		return nil, err
	}

	root := configManager.GetProjectRoot()
	status := &Status{
		App:          cfg.App.Name,
		Root:         root,
		Remote:       cfg.Source.Remote,
		Branch:       cfg.Source.Branch,
		Venv:         cfg.Python.Venv,
		Requirements: cfg.Python.Requirements,
	}

	gitOps := git.NewOperations(root)
	if info, err := gitOps.Info(cfg.Source.Remote); err == nil {
		status.Head = info.Commit
		status.CurrentBranch = info.CurrentBranch
		status.Clean = info.IsClean
		status.RemoteURL = info.RemoteURL
	}
	if tip, err := gitOps.RemoteTip(cfg.Source.Remote, cfg.Source.Branch); err == nil {
		status.RemoteTip = tip
	}

	venv := python.NewVenv(venvPathFor(root, cfg.Python.Venv))
	if venv.Exists() {
		status.VenvExists = true
		if version, err := venv.Version(); err == nil {
			status.PythonVersion = version
		}
	}

	// The ledger only exists once a deploy has run.
	if _, err := os.Stat(configManager.GetLedgerPath()); err == nil {
		store, err := history.Open(configManager.GetLedgerPath())
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()

		last, err := store.Last()
		if err != nil {
			return nil, err
		}
		status.LastRelease = last
	}

	return status, nil
}
