// Package catalog persists batch runs and histogram statistics to a local
// sqlite database, so results across many acquisitions stay queryable after
// the CSV artifacts have been archived.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/flimlab/flimtools/internal/hist"
)

type DB struct {
	*sql.DB
}

// Open opens (or creates) the catalog database and applies any pending
// migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db := &DB{sqlDB}
	if err := db.migrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// BeginRun records a new batch invocation and returns its run ID.
func (db *DB) BeginRun(tool string, args []string) (string, error) {
	runID := uuid.NewString()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	_, err = db.Exec(
		`INSERT INTO runs (run_id, tool, args) VALUES (?, ?, ?)`,
		runID, tool, string(argsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return runID, nil
}

// HistogramRecord describes one computed histogram artifact.
type HistogramRecord struct {
	Source   string
	ROI      string
	Spec     hist.Spec
	Encoding hist.Encoding
	Total    int64
	Artifact string
}

// RecordHistogram stores a histogram row under a run and returns its ID.
func (db *DB) RecordHistogram(runID string, rec HistogramRecord) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO histograms (run_id, source, roi, bins, range_min, range_max, encoding, total, artifact)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.Source, rec.ROI, rec.Spec.Bins, rec.Spec.Min, rec.Spec.Max,
		rec.Encoding.String(), rec.Total, rec.Artifact,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record histogram: %w", err)
	}
	return res.LastInsertId()
}

// RecordStats stores summary statistics for a recorded histogram.
func (db *DB) RecordStats(histogramID int64, s *hist.Stats) error {
	_, err := db.Exec(
		`INSERT INTO histogram_stats (histogram_id, mean, stddev, p01, p05, p95, p99, kl_gaussian)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		histogramID, s.Mean, s.StdDev, s.P01, s.P05, s.P95, s.P99, s.KLGaussian,
	)
	if err != nil {
		return fmt.Errorf("failed to record stats: %w", err)
	}
	return nil
}

// StatsRow joins a histogram with its statistics for reporting.
type StatsRow struct {
	Source string
	ROI    string
	Total  int64
	Mean   float64
	StdDev float64
	P05    float64
	P95    float64
}

// StatsForRun returns the recorded statistics of a run, ordered by source.
func (db *DB) StatsForRun(runID string) ([]StatsRow, error) {
	rows, err := db.Query(
		`SELECT h.source, h.roi, h.total, s.mean, s.stddev, s.p05, s.p95
		 FROM histograms h
		 JOIN histogram_stats s ON s.histogram_id = h.histogram_id
		 WHERE h.run_id = ?
		 ORDER BY h.source, h.roi`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatsRow
	for rows.Next() {
		var r StatsRow
		if err := rows.Scan(&r.Source, &r.ROI, &r.Total, &r.Mean, &r.StdDev, &r.P05, &r.P95); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
