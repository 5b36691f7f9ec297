// Package history persists fleet run outcomes to a local sqlite database
// for later inspection. It records finished runs only; it does not track
// device state between runs.
package history

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	cellhasher "github.com/lukewrightmain/cellhahser-scripts"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artifact TEXT NOT NULL,
	recorded_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	devices INTEGER NOT NULL,
	succeeded INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS outcomes (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	device_serial TEXT NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL
);`

// Store appends one row per fleet run and one row per device outcome. It
// implements cellhasher.RunRecorder.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open run history database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ensure run history schema")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores the run and its per-device outcomes in one transaction.
func (s *Store) RecordRun(ctx context.Context, artifact string, outcomes []cellhasher.Outcome) error {
	succeeded := 0
	for _, o := range outcomes {
		if o.Status == cellhasher.StatusSuccess {
			succeeded++
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin run history transaction")
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (artifact, devices, succeeded) VALUES (?, ?, ?)`,
		artifact, len(outcomes), succeeded)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "insert run row")
	}
	runID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "resolve run id")
	}
	for _, o := range outcomes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, device_serial, status, message) VALUES (?, ?, ?, ?)`,
			runID, o.DeviceSerial, string(o.Status), o.Message); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert outcome row")
		}
	}
	return errors.Wrap(tx.Commit(), "commit run history")
}
