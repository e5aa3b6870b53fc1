// Package monitoring holds the package-level diagnostic loggers shared by
// the batch tools.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or production code can redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// verbose gates Verbosef. Off by default; batch tools enable it from their
// -verbose flag.
var verbose bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose toggles per-file progress logging.
func SetVerbose(v bool) {
	verbose = v
}

// Verbosef logs only when verbose mode is enabled. Used for per-file
// progress chatter that would swamp a large batch run.
func Verbosef(format string, v ...interface{}) {
	if verbose {
		Logf(format, v...)
	}
}
