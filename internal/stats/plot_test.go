package stats

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenderLatticeWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), latticePlotFile)
	if err := RenderLattice("-LLL", "HPPH", 160, out); err != nil {
		t.Fatalf("render lattice: %v", err)
	}
	assertPNG(t, out)
}

func TestRenderLatticeRejectsBadInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), latticePlotFile)
	if err := RenderLattice("-LL", "HPPH", 0, out); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if err := RenderLattice("", "", 0, out); err == nil {
		t.Fatal("expected empty fold error")
	}
}

func TestPlotFitnessHistoryWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), fitnessPlotFile)
	history := FitnessHistory{
		MeanByGeneration: []float64{300, 250, 220, 219},
		BestByGeneration: []float64{200, 160, 160, 120},
	}
	if err := PlotFitnessHistory(history, "HPPH", out); err != nil {
		t.Fatalf("plot fitness: %v", err)
	}
	assertPNG(t, out)

	if err := PlotFitnessHistory(FitnessHistory{}, "empty", out); err == nil {
		t.Fatal("expected empty history error")
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatalf("%s is not a PNG", path)
	}
}
