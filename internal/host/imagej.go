package host

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/flimlab/flimtools/internal/monitoring"
)

// Runner invokes the stitching host in headless mode. The host's plugin API
// takes its arguments as a single space-delimited option string; Runner
// treats that as an opaque serialization detail and never parses results
// back out of it.
type Runner struct {
	// Executable is the host binary, e.g. "ImageJ-linux64".
	Executable string
	// DryRun logs the command instead of executing it.
	DryRun bool
}

// StitchOptions parameterize the host's Grid/Collection stitching plugin for
// a positions-from-file run.
type StitchOptions struct {
	Directory           string
	LayoutFile          string
	FusionMethod        string
	RegressionThreshold float64
	MaxAvgDisplacement  float64
	AbsDisplacement     float64
	ComputeOverlap      bool
	OutputDirectory     string
}

// DefaultStitchOptions mirror the plugin's defaults for a tile-configuration
// run.
func DefaultStitchOptions(dir, layoutFile, outputDir string) StitchOptions {
	return StitchOptions{
		Directory:           dir,
		LayoutFile:          layoutFile,
		FusionMethod:        "Linear Blending",
		RegressionThreshold: 0.30,
		MaxAvgDisplacement:  2.50,
		AbsDisplacement:     3.50,
		ComputeOverlap:      true,
		OutputDirectory:     outputDir,
	}
}

// optionString serializes the options in the plugin's key=[value] form.
func (o StitchOptions) optionString() string {
	var b strings.Builder
	b.WriteString("type=[Positions from file] order=[Defined by TileConfiguration]")
	fmt.Fprintf(&b, " directory=[%s]", o.Directory)
	fmt.Fprintf(&b, " layout_file=[%s]", o.LayoutFile)
	fmt.Fprintf(&b, " fusion_method=[%s]", o.FusionMethod)
	fmt.Fprintf(&b, " regression_threshold=%.2f", o.RegressionThreshold)
	fmt.Fprintf(&b, " max/avg_displacement_threshold=%.2f", o.MaxAvgDisplacement)
	fmt.Fprintf(&b, " absolute_displacement_threshold=%.2f", o.AbsDisplacement)
	if o.ComputeOverlap {
		b.WriteString(" compute_overlap")
	}
	b.WriteString(" computation_parameters=[Save computation time (but use more RAM)]")
	fmt.Fprintf(&b, " image_output=[Write to disk] output_directory=[%s]", o.OutputDirectory)
	return b.String()
}

// macro wraps the option string in the one-line macro the headless host
// evaluates.
func (o StitchOptions) macro() string {
	return fmt.Sprintf(`run("Grid/Collection stitching", "%s");`, o.optionString())
}

// Stitch runs the host's stitching plugin to completion. The host writes the
// fused image itself; nothing is parsed from its output beyond the exit
// status.
func (r *Runner) Stitch(ctx context.Context, o StitchOptions) error {
	macro := o.macro()
	if r.DryRun {
		monitoring.Logf("[DRY-RUN] would run: %s --headless --console -eval %q", r.Executable, macro)
		return nil
	}

	cmd := exec.CommandContext(ctx, r.Executable, "--headless", "--console", "-eval", macro)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	monitoring.Logf("running %s headless stitch (layout %s)", r.Executable, o.LayoutFile)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("stitching host failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
