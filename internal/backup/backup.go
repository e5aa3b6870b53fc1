// Package backup copies recently acquired files to a backup destination.
// Selection is done here; the copying itself is delegated to rsync, which
// already handles resume, attributes and remote targets.
package backup

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/flimlab/flimtools/internal/monitoring"
	"github.com/flimlab/flimtools/internal/timeutil"
)

// Syncer backs up the files of an acquisition directory modified within a
// time window.
type Syncer struct {
	Clock     timeutil.Clock
	RsyncPath string // defaults to "rsync" on PATH
	DryRun    bool
}

// SelectFiles returns the files under root modified within the last window,
// as paths relative to root, sorted. A zero window selects everything.
func (s *Syncer) SelectFiles(root string, window time.Duration) ([]string, error) {
	clock := s.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	cutoff := time.Time{}
	if window > 0 {
		cutoff = clock.Now().Add(-window)
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Sync copies the selected files into a timestamped directory under dest,
// preserving their layout relative to root. Dest may be any rsync target,
// including remote host:path form.
func (s *Syncer) Sync(ctx context.Context, root string, files []string, dest string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no files to back up")
	}
	clock := s.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	timestamp := clock.Now().Format("20060102-150405")
	target := dest + string(os.PathSeparator) + fmt.Sprintf("flim-backup-%s", timestamp)
	if strings.Contains(dest, ":") {
		// Remote rsync target; keep forward slashes.
		target = fmt.Sprintf("%s/flim-backup-%s", dest, timestamp)
	}

	rsync := s.RsyncPath
	if rsync == "" {
		rsync = "rsync"
	}
	args := []string{"-a", "--relative", "--files-from=-", root, target}
	if s.DryRun {
		monitoring.Logf("[DRY-RUN] would run: %s %s (%d files)", rsync, strings.Join(args, " "), len(files))
		return target, nil
	}

	cmd := exec.CommandContext(ctx, rsync, args...)
	cmd.Stdin = strings.NewReader(strings.Join(files, "\n") + "\n")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("rsync failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	monitoring.Logf("backed up %d files to %s", len(files), target)
	return target, nil
}
