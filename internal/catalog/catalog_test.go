package catalog

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flimlab/flimtools/internal/hist"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"runs", "histograms", "histogram_stats"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an already-migrated database must not fail.
	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestRecordRunHistogramStats(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.BeginRun("flimhist", []string{"-bins", "10000", "data/"})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	histID, err := db.RecordHistogram(runID, HistogramRecord{
		Source:   "data/pos_0001_photons.asc",
		ROI:      "nucleus",
		Spec:     hist.Spec{Bins: 10000, Min: 0, Max: 20000},
		Encoding: hist.EncodingRaw,
		Total:    65536,
		Artifact: "out/pos_0001_photons-nucleus-hist.csv",
	})
	require.NoError(t, err)
	require.NotZero(t, histID)

	err = db.RecordStats(histID, &hist.Stats{
		Total: 65536, Mean: 2281.4, StdDev: 310.2,
		P01: 1700, P05: 1810, P95: 2800, P99: 2950,
		KLGaussian: 0.012,
	})
	require.NoError(t, err)

	rows, err := db.StatsForRun(runID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "nucleus", rows[0].ROI)
	assert.Equal(t, int64(65536), rows[0].Total)
	assert.InDelta(t, 2281.4, rows[0].Mean, 1e-9)
}

func TestRecordStatsNaNKL(t *testing.T) {
	// Degenerate distributions carry NaN divergence; sqlite must accept it.
	db := openTestDB(t)

	runID, err := db.BeginRun("flimstats", nil)
	require.NoError(t, err)
	histID, err := db.RecordHistogram(runID, HistogramRecord{
		Source: "a.asc",
		Spec:   hist.Spec{Bins: 10, Min: 0, Max: 1},
		Total:  1,
	})
	require.NoError(t, err)

	err = db.RecordStats(histID, &hist.Stats{Mean: 1, KLGaussian: math.NaN()})
	assert.NoError(t, err)
}

func TestStatsForUnknownRunEmpty(t *testing.T) {
	db := openTestDB(t)
	rows, err := db.StatsForRun("no-such-run")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
