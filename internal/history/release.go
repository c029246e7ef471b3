// Package history records deploy attempts in a SQLite ledger under the
// project's .pulley directory.
package history

import "time"

// Status of a recorded release.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Release is one recorded deploy attempt.
type Release struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Status      Status    `json:"status"`
	Remote      string    `json:"remote"`
	Branch      string    `json:"branch"`
	FromCommit  string    `json:"from_commit,omitempty"` // working tree commit before the reset, empty on a fresh clone
	ToCommit    string    `json:"to_commit,omitempty"`   // remote tip the tree was reset to
	VenvCreated bool      `json:"venv_created"`          // whether this deploy created the virtualenv
	FailedStep  string    `json:"failed_step,omitempty"` // set when Status is StatusFailed
	Error       string    `json:"error,omitempty"`       // diagnostic text when Status is StatusFailed
}

// ShortID returns the display form of the release ID, the first 8 hex
// characters of the UUID.
func (r *Release) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

// Duration returns how long the deploy ran. Zero while still running.
func (r *Release) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
