// Package store persists a manifest of sampling runs so that review batches
// can be audited and later compared against reviewer-edited layers.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

// Run is one recorded sampler invocation.
type Run struct {
	ID         string
	Seed       int64
	BatchSize  int
	NumBatches int
	ExtentMode string
	Records    int
	CreatedAt  time.Time
}

// Record is one sampled feature within a run.
type Record struct {
	ValidID   int
	FeatureID int
	RegionID  string
	Batch     int
}

// Manifest is the SQLite-backed run manifest.
type Manifest struct {
	db *sql.DB
}

// Open opens (or creates) the manifest database and configures WAL mode.
func Open(dsn string) (*Manifest, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Manifest{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	seed        INTEGER NOT NULL,
	batch_size  INTEGER NOT NULL,
	num_batches INTEGER NOT NULL,
	extent_mode TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS records (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	valid_id   INTEGER NOT NULL,
	feature_id INTEGER NOT NULL,
	region     TEXT NOT NULL,
	batch      INTEGER NOT NULL,
	PRIMARY KEY (run_id, valid_id)
);

CREATE TABLE IF NOT EXISTS exclusions (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	feature_id INTEGER NOT NULL,
	region     TEXT,
	reason     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id);
CREATE INDEX IF NOT EXISTS idx_exclusions_run_id ON exclusions(run_id);
`

// Migrate creates the manifest schema.
func (m *Manifest) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the database.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// RecordRun stores a run header together with every emitted record and
// exclusion, in one transaction. It returns the minted run ID.
func (m *Manifest) RecordRun(ctx context.Context, seed int64, batchSize, numBatches int, extentMode string, result *model.RunResult) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "store: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, seed, batch_size, num_batches, extent_mode, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, seed, batchSize, numBatches, extentMode, now,
	)
	if err != nil {
		return "", eris.Wrap(err, "store: insert run")
	}

	for batch, records := range result.Batches {
		for _, rec := range records {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO records (run_id, valid_id, feature_id, region, batch) VALUES (?, ?, ?, ?, ?)`,
				id, rec.ValidID, rec.FeatureID, rec.RegionID, batch,
			)
			if err != nil {
				return "", eris.Wrapf(err, "store: insert record %d", rec.ValidID)
			}
		}
	}

	for _, ex := range result.Exclusions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO exclusions (run_id, feature_id, region, reason) VALUES (?, ?, ?, ?)`,
			id, ex.FeatureID, ex.RegionID, string(ex.Reason),
		)
		if err != nil {
			return "", eris.Wrapf(err, "store: insert exclusion %d", ex.FeatureID)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "store: commit")
	}
	return id, nil
}

// ListRuns returns recorded runs, newest first.
func (m *Manifest) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := m.db.QueryContext(ctx,
		`SELECT r.id, r.seed, r.batch_size, r.num_batches, r.extent_mode, r.created_at,
		        (SELECT COUNT(*) FROM records WHERE run_id = r.id)
		 FROM runs r ORDER BY r.created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seed, &r.BatchSize, &r.NumBatches, &r.ExtentMode, &r.CreatedAt, &r.Records); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "store: list runs iterate")
}

// GetRecords returns every record of a run ordered by batch then ValidID.
func (m *Manifest) GetRecords(ctx context.Context, runID string) ([]Record, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT valid_id, feature_id, region, batch FROM records
		 WHERE run_id = ? ORDER BY batch, valid_id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "store: get records %s", runID)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ValidID, &rec.FeatureID, &rec.RegionID, &rec.Batch); err != nil {
			return nil, eris.Wrap(err, "store: scan record")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "store: get records iterate")
}
