// flimbackup copies the files of an acquisition directory modified within a
// recent time window to a backup destination via rsync. Typical use is an
// end-of-session "back up everything from today" run; -window 0 copies the
// whole directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flimlab/flimtools/internal/backup"
	"github.com/flimlab/flimtools/internal/monitoring"
	"github.com/flimlab/flimtools/internal/timeutil"
	"github.com/flimlab/flimtools/internal/version"
)

func main() {
	var (
		window      time.Duration
		rsync       string
		dryRun      bool
		verbose     bool
		showVersion bool
	)
	flag.DurationVar(&window, "window", 24*time.Hour, "back up files modified within this window (0 = all)")
	flag.StringVar(&rsync, "rsync", "", "rsync executable (default: rsync on PATH)")
	flag.BoolVar(&dryRun, "dry-run", false, "print the rsync invocation without running it")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if showVersion {
		fmt.Println("flimbackup " + version.String())
		return
	}
	if flag.NArg() != 2 {
		log.Fatalf("usage: flimbackup [options] <source-dir> <dest>")
	}
	src, dest := flag.Arg(0), flag.Arg(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &backup.Syncer{Clock: timeutil.RealClock{}, RsyncPath: rsync, DryRun: dryRun}
	files, err := s.SelectFiles(src, window)
	if err != nil {
		log.Fatalf("select files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no files modified within %s under %s", window, src)
	}
	monitoring.Verbosef("selected %d files", len(files))

	target, err := s.Sync(ctx, src, files, dest)
	if err != nil {
		log.Fatalf("backup failed: %v", err)
	}
	monitoring.Logf("backup complete: %s", target)
}
