package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/flimlab/flimtools/internal/monitoring"
	"github.com/flimlab/flimtools/internal/timeutil"
)

func writeAged(t *testing.T, root, rel string, age time.Duration, now time.Time) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	mod := now.Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestSelectFilesWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(now)
	root := t.TempDir()

	writeAged(t, root, "pos_0001_photons.asc", 30*time.Minute, now)
	writeAged(t, root, "sub/pos_0002_photons.asc", time.Hour, now)
	writeAged(t, root, "old/pos_0000_photons.asc", 48*time.Hour, now)

	s := &Syncer{Clock: clock}
	files, err := s.SelectFiles(root, 2*time.Hour)
	if err != nil {
		t.Fatalf("SelectFiles failed: %v", err)
	}
	want := []string{
		"pos_0001_photons.asc",
		filepath.Join("sub", "pos_0002_photons.asc"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectFilesZeroWindowSelectsAll(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	root := t.TempDir()
	writeAged(t, root, "a.asc", 1000*time.Hour, now)
	writeAged(t, root, "b.asc", time.Minute, now)

	s := &Syncer{Clock: timeutil.NewMockClock(now)}
	files, err := s.SelectFiles(root, 0)
	if err != nil {
		t.Fatalf("SelectFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected all files selected, got %v", files)
	}
}

func TestSyncDryRun(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	var logged []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logged = append(logged, format)
	})

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Syncer{Clock: timeutil.NewMockClock(now), DryRun: true}
	target, err := s.Sync(context.Background(), "/data/run1", []string{"a.asc"}, "/backup")
	if err != nil {
		t.Fatalf("dry-run Sync failed: %v", err)
	}
	if !strings.HasSuffix(target, "flim-backup-20240601-120000") {
		t.Errorf("unexpected target %q", target)
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "DRY-RUN") {
		t.Errorf("dry run did not log the command: %v", logged)
	}
}

func TestSyncRejectsEmptySelection(t *testing.T) {
	s := &Syncer{DryRun: true}
	if _, err := s.Sync(context.Background(), "/data", nil, "/backup"); err == nil {
		t.Error("expected error for empty selection")
	}
}
