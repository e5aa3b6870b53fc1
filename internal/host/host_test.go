package host

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flimlab/flimtools/internal/monitoring"
)

func TestReadCoordinates(t *testing.T) {
	in := "100.5,-200.25,3\n0,0,0\n"
	coords, err := ReadCoordinates(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCoordinates failed: %v", err)
	}
	want := []Coordinate{
		{X: 100.5, Y: -200.25, Z: 3},
		{X: 0, Y: 0, Z: 0},
	}
	if diff := cmp.Diff(want, coords); diff != "" {
		t.Errorf("coordinates mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCoordinatesErrors(t *testing.T) {
	if _, err := ReadCoordinates(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ReadCoordinates(strings.NewReader("1,2\n")); err == nil {
		t.Error("expected error for short row")
	}
	if _, err := ReadCoordinates(strings.NewReader("a,b,c\n")); err == nil {
		t.Error("expected error for non-numeric row")
	}
}

func TestTileConfigWrite(t *testing.T) {
	coords := []Coordinate{
		{X: 700, Y: -1400, Z: 5},
		{X: 0, Y: 70, Z: 5},
	}
	var sb strings.Builder
	tc := TileConfig{PixelSizeUM: 0.7, Suffix: "_color_image"}
	if err := tc.Write(&sb, coords); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got := sb.String()
	want := "# Define the number of dimensions we are working on\n" +
		"dim = 2\n" +
		"\n" +
		"# Define the image coordinates\n" +
		"pos_0000_color_image.tif ; ; (-1000, 2000)\n" +
		"pos_0001_color_image.tif ; ; (-0, -100)\n"
	if got != want {
		t.Errorf("tile config mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTileConfigDefaults(t *testing.T) {
	var sb strings.Builder
	if err := (TileConfig{}).Write(&sb, []Coordinate{{X: -3, Y: -4}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(sb.String(), "pos_0000.tif ; ; (3, 4)") {
		t.Errorf("defaults not applied:\n%s", sb.String())
	}
}

func TestStitchOptionString(t *testing.T) {
	o := DefaultStitchOptions("/data/tiles", "TileConfiguration.txt", "/data/fused")
	s := o.optionString()

	for _, want := range []string{
		"type=[Positions from file]",
		"order=[Defined by TileConfiguration]",
		"directory=[/data/tiles]",
		"layout_file=[TileConfiguration.txt]",
		"fusion_method=[Linear Blending]",
		"regression_threshold=0.30",
		"max/avg_displacement_threshold=2.50",
		"absolute_displacement_threshold=3.50",
		"compute_overlap",
		"output_directory=[/data/fused]",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("option string missing %q:\n%s", want, s)
		}
	}

	o.ComputeOverlap = false
	if strings.Contains(o.optionString(), "compute_overlap") {
		t.Error("compute_overlap emitted when disabled")
	}
}

func TestRunnerDryRun(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	var logged []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logged = append(logged, format)
	})

	r := &Runner{Executable: "ImageJ-linux64", DryRun: true}
	o := DefaultStitchOptions("d", "layout.txt", "out")
	if err := r.Stitch(context.Background(), o); err != nil {
		t.Fatalf("dry-run Stitch failed: %v", err)
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "DRY-RUN") {
		t.Errorf("dry run did not log the command: %v", logged)
	}
}
