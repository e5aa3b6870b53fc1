package flim

import (
	"math"
	"testing"

	"github.com/flimlab/flimtools/internal/asc"
)

func gridOf(w, h int, vals ...float64) *asc.Grid {
	g := asc.NewGrid(w, h)
	copy(g.Data, vals)
	return g
}

func TestInvalidate(t *testing.T) {
	data := gridOf(2, 2, 1, 2, 3, 4)
	chi := gridOf(2, 2, 1.0, 0.5, 2.0, 1.2)

	n, err := Invalidate(data, chi, 0.75, 1.5)
	if err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if n != 2 {
		t.Errorf("invalidated %d pixels, want 2", n)
	}
	if !math.IsNaN(data.Data[1]) || !math.IsNaN(data.Data[2]) {
		t.Error("out-of-window pixels not NaN")
	}
	if data.Data[0] != 1 || data.Data[3] != 4 {
		t.Error("in-window pixels modified")
	}
}

func TestInvalidateSizeMismatch(t *testing.T) {
	if _, err := Invalidate(gridOf(2, 1), gridOf(1, 2), 0, 1); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestApplyRulesSkipsAbsentVariables(t *testing.T) {
	dataset := map[string]*asc.Grid{
		"t1":  gridOf(2, 1, 100, 200),
		"chi": gridOf(2, 1, 1.0, 9.0),
	}
	n, err := ApplyRules(dataset, DefaultRules)
	if err != nil {
		t.Fatalf("ApplyRules failed: %v", err)
	}
	if n != 1 {
		t.Errorf("invalidated %d pixels, want 1", n)
	}
	if !math.IsNaN(dataset["t1"].Data[1]) {
		t.Error("t1 pixel with bad chi not invalidated")
	}
}

func TestFreeBoundRatio(t *testing.T) {
	a1 := gridOf(2, 2, 10, 0, -5, 8)
	a2 := gridOf(2, 2, 5, 2, 2, 0)

	r, err := FreeBoundRatio(a1, a2, -1)
	if err != nil {
		t.Fatalf("FreeBoundRatio failed: %v", err)
	}
	if r.Data[0] != 2 {
		t.Errorf("ratio = %v, want 2", r.Data[0])
	}
	for _, i := range []int{1, 2, 3} {
		if r.Data[i] != -1 {
			t.Errorf("pixel %d: got %v, want invalid marker", i, r.Data[i])
		}
	}
}

func TestValidSamples(t *testing.T) {
	g := gridOf(2, 2, 1, math.NaN(), -1, 4)
	s := ValidSamples(g, -1)
	if len(s) != 2 || s[0] != 1 || s[1] != 4 {
		t.Errorf("ValidSamples = %v, want [1 4]", s)
	}
}
