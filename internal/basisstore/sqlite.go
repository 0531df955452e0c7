// Package basisstore persists built equation bases in SQLite so that a
// numeric solver can load the row layout of a system without rebuilding it.
package basisstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/ggce/internal/hierarchy"
)

// ErrRunNotFound is returned when a run ID has no stored basis.
var ErrRunNotFound = errors.New("run not found")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id      TEXT PRIMARY KEY,
    model       TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    equations   INTEGER NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS equations (
    run_id          TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    eq_id           TEXT NOT NULL,
    phonons         INTEGER NOT NULL,
    global_idx      INTEGER NOT NULL,
    local_idx       INTEGER NOT NULL,
    frequency_shift REAL NOT NULL,
    PRIMARY KEY (run_id, eq_id),
    UNIQUE (run_id, global_idx)
);

CREATE TABLE IF NOT EXISTS terms (
    run_id      TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    eq_id       TEXT NOT NULL,
    position    INTEGER NOT NULL,
    ref_id      TEXT NOT NULL,
    coefficient REAL NOT NULL,
    phase       REAL NOT NULL,
    propagator  TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, eq_id, position)
);
`

// Run summarizes one stored basis.
type Run struct {
	ID          string
	Model       string
	Fingerprint string
	Equations   int
	CreatedAt   time.Time
}

// Store is a SQLite-backed basis store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, enables WAL mode, foreign
// keys and a busy timeout, and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("basisstore: open database: %w", err)
	}
	// SQLite has a single writer; one connection keeps the PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("basisstore: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("basisstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores exp under exp.RunID, replacing any basis stored under the
// same ID.
func (s *Store) Save(ctx context.Context, exp hierarchy.Export) error {
	if exp.RunID == "" {
		return fmt.Errorf("basisstore: save: empty run id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("basisstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", exp.RunID); err != nil {
		return fmt.Errorf("basisstore: clear run %q: %w", exp.RunID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, model, fingerprint, equations) VALUES (?, ?, ?, ?)",
		exp.RunID, exp.Model, exp.Fingerprint, len(exp.Rows)); err != nil {
		return fmt.Errorf("basisstore: insert run %q: %w", exp.RunID, err)
	}

	eqStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO equations (run_id, eq_id, phonons, global_idx, local_idx, frequency_shift)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("basisstore: prepare equation insert: %w", err)
	}
	defer eqStmt.Close()
	termStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO terms (run_id, eq_id, position, ref_id, coefficient, phase, propagator)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("basisstore: prepare term insert: %w", err)
	}
	defer termStmt.Close()

	for _, row := range exp.Rows {
		if _, err := eqStmt.ExecContext(ctx, exp.RunID, row.ID, row.Phonons, row.Global, row.Local, row.FrequencyShift); err != nil {
			return fmt.Errorf("basisstore: insert equation %s: %w", row.ID, err)
		}
		for i, t := range row.Terms {
			if _, err := termStmt.ExecContext(ctx, exp.RunID, row.ID, i, t.ID, t.Coefficient, t.Phase, formatFloats(t.Propagator)); err != nil {
				return fmt.Errorf("basisstore: insert term %d of %s: %w", i, row.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("basisstore: commit run %q: %w", exp.RunID, err)
	}
	return nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, model, fingerprint, equations, created_at FROM runs ORDER BY created_at DESC, run_id")
	if err != nil {
		return nil, fmt.Errorf("basisstore: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &r.Model, &r.Fingerprint, &r.Equations, &ts); err != nil {
			return nil, fmt.Errorf("basisstore: scan run: %w", err)
		}
		if r.CreatedAt, err = parseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("basisstore: run %q: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("basisstore: iterate runs: %w", err)
	}
	return runs, nil
}

// GlobalBasis returns the identity-to-row mapping of a run.
func (s *Store) GlobalBasis(ctx context.Context, runID string) (map[string]int, error) {
	if err := s.exists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT eq_id, global_idx FROM equations WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("basisstore: load basis %q: %w", runID, err)
	}
	defer rows.Close()

	basis := make(map[string]int)
	for rows.Next() {
		var id string
		var idx int
		if err := rows.Scan(&id, &idx); err != nil {
			return nil, fmt.Errorf("basisstore: scan basis: %w", err)
		}
		basis[id] = idx
	}
	return basis, rows.Err()
}

// Load reconstructs the export of a run, rows in global order.
func (s *Store) Load(ctx context.Context, runID string) (hierarchy.Export, error) {
	exp := hierarchy.Export{RunID: runID}
	err := s.db.QueryRowContext(ctx, "SELECT model, fingerprint FROM runs WHERE run_id = ?", runID).
		Scan(&exp.Model, &exp.Fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return hierarchy.Export{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return hierarchy.Export{}, fmt.Errorf("basisstore: load run %q: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT eq_id, phonons, global_idx, local_idx, frequency_shift
		FROM equations WHERE run_id = ? ORDER BY global_idx`, runID)
	if err != nil {
		return hierarchy.Export{}, fmt.Errorf("basisstore: load equations %q: %w", runID, err)
	}
	index := make(map[string]int)
	for rows.Next() {
		var r hierarchy.Row
		if err := rows.Scan(&r.ID, &r.Phonons, &r.Global, &r.Local, &r.FrequencyShift); err != nil {
			rows.Close()
			return hierarchy.Export{}, fmt.Errorf("basisstore: scan equation: %w", err)
		}
		index[r.ID] = len(exp.Rows)
		exp.Rows = append(exp.Rows, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return hierarchy.Export{}, err
	}

	terms, err := s.db.QueryContext(ctx, `
		SELECT eq_id, ref_id, coefficient, phase, propagator
		FROM terms WHERE run_id = ? ORDER BY eq_id, position`, runID)
	if err != nil {
		return hierarchy.Export{}, fmt.Errorf("basisstore: load terms %q: %w", runID, err)
	}
	defer terms.Close()
	for terms.Next() {
		var eqID, prop string
		var ref hierarchy.Ref
		if err := terms.Scan(&eqID, &ref.ID, &ref.Coefficient, &ref.Phase, &prop); err != nil {
			return hierarchy.Export{}, fmt.Errorf("basisstore: scan term: %w", err)
		}
		if ref.Propagator, err = parseFloats(prop); err != nil {
			return hierarchy.Export{}, fmt.Errorf("basisstore: term of %s: %w", eqID, err)
		}
		i, ok := index[eqID]
		if !ok {
			return hierarchy.Export{}, fmt.Errorf("basisstore: term references unknown equation %s", eqID)
		}
		exp.Rows[i].Terms = append(exp.Rows[i].Terms, ref)
	}
	return exp, terms.Err()
}

// Delete removes a run and its rows.
func (s *Store) Delete(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("basisstore: delete run %q: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, runID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE run_id = ?", runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return fmt.Errorf("basisstore: look up run %q: %w", runID, err)
	}
	return nil
}

// timestampFormats lists the layouts modernc.org/sqlite and canonical
// SQLite produce for CURRENT_TIMESTAMP.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

func formatFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parse propagator %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
