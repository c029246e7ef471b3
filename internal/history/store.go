package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// Store is the SQLite-backed deploy ledger.
type Store struct {
	db *sql.DB
}

// Open opens the ledger at path, creating the schema on first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open deploy ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS releases (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		status TEXT NOT NULL,
		remote TEXT NOT NULL,
		branch TEXT NOT NULL,
		from_commit TEXT,
		to_commit TEXT,
		venv_created BOOLEAN DEFAULT FALSE,
		failed_step TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_releases_started ON releases(started_at);

	CREATE TABLE IF NOT EXISTS pulley_schema_version (
		version INTEGER PRIMARY KEY
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}

	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM pulley_schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to read ledger schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("deploy ledger was created by a newer pulley (schema v%d, this build supports v%d)", version, currentSchemaVersion)
	}

	if _, err := s.db.Exec("INSERT OR REPLACE INTO pulley_schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return fmt.Errorf("failed to set ledger schema version: %w", err)
	}
	return nil
}

// Create records the start of a deploy. A missing ID or start time is
// filled in.
func (s *Store) Create(release *Release) error {
	if release.ID == "" {
		release.ID = uuid.NewString()
	}
	if release.StartedAt.IsZero() {
		release.StartedAt = time.Now()
	}
	if release.Status == "" {
		release.Status = StatusRunning
	}

	_, err := s.db.Exec(`
		INSERT INTO releases (id, started_at, status, remote, branch, from_commit, venv_created)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		release.ID, release.StartedAt, string(release.Status), release.Remote, release.Branch,
		sql.NullString{String: release.FromCommit, Valid: release.FromCommit != ""},
		release.VenvCreated,
	)
	if err != nil {
		return fmt.Errorf("failed to record release: %w", err)
	}
	return nil
}

// Finish records the outcome of a deploy started with Create.
func (s *Store) Finish(release *Release) error {
	if release.FinishedAt.IsZero() {
		release.FinishedAt = time.Now()
	}

	result, err := s.db.Exec(`
		UPDATE releases
		SET finished_at = ?, status = ?, to_commit = ?, venv_created = ?, failed_step = ?, error = ?
		WHERE id = ?`,
		release.FinishedAt, string(release.Status),
		sql.NullString{String: release.ToCommit, Valid: release.ToCommit != ""},
		release.VenvCreated,
		sql.NullString{String: release.FailedStep, Valid: release.FailedStep != ""},
		sql.NullString{String: release.Error, Valid: release.Error != ""},
		release.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to record release outcome: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("release %s not found in ledger", release.ShortID())
	}
	return nil
}

// Get retrieves a release by full ID or short prefix.
func (s *Store) Get(id string) (*Release, error) {
	release, err := s.scanRelease(s.db.QueryRow(
		selectColumns+" FROM releases WHERE id LIKE ? ORDER BY started_at DESC", id+"%",
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("release %s not found in ledger", id)
	}
	return release, err
}

// Last returns the most recent release, or nil when the ledger is
// empty.
func (s *Store) Last() (*Release, error) {
	release, err := s.scanRelease(s.db.QueryRow(
		selectColumns + " FROM releases ORDER BY started_at DESC LIMIT 1",
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return release, err
}

// List returns releases in reverse chronological order. A non-positive
// limit returns all of them.
func (s *Store) List(limit int) ([]*Release, error) {
	query := selectColumns + " FROM releases ORDER BY started_at DESC"

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var releases []*Release
	for rows.Next() {
		release, err := s.scanRelease(rows)
		if err != nil {
			return nil, err
		}
		releases = append(releases, release)
	}
	return releases, rows.Err()
}

const selectColumns = `
	SELECT id, started_at, finished_at, status, remote, branch,
	       from_commit, to_commit, venv_created, failed_step, error`

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanRelease(row scanner) (*Release, error) {
	var release Release
	var startedAt string
	var finishedAt, fromCommit, toCommit, failedStep, errText sql.NullString
	var status string

	err := row.Scan(
		&release.ID, &startedAt, &finishedAt, &status, &release.Remote, &release.Branch,
		&fromCommit, &toCommit, &release.VenvCreated, &failedStep, &errText,
	)
	if err != nil {
		return nil, err
	}

	release.StartedAt = parseTimestamp(startedAt)
	release.Status = Status(status)
	if finishedAt.Valid {
		release.FinishedAt = parseTimestamp(finishedAt.String)
	}
	if fromCommit.Valid {
		release.FromCommit = fromCommit.String
	}
	if toCommit.Valid {
		release.ToCommit = toCommit.String
	}
	if failedStep.Valid {
		release.FailedStep = failedStep.String
	}
	if errText.Valid {
		release.Error = errText.String
	}

	return &release, nil
}

// parseTimestamp parses a timestamp string from SQLite in various formats
func parseTimestamp(s string) time.Time {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999+07:00",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05+07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
