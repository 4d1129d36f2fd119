package stats

import (
	"os"
	"path/filepath"
	"testing"

	"hpfold/internal/model"
)

func sampleArtifacts(runID string) RunArtifacts {
	history := FitnessHistory{
		MeanByGeneration: []float64{120, 95.5, 80},
		BestByGeneration: []float64{60, 40, 40},
		FinalBestFitness: 40,
	}
	best := model.ScoredFold{Fold: "-LLL", Fitness: 40}
	return RunArtifacts{
		Config: RunConfig{
			RunID:          runID,
			Protein:        "MPPM",
			Sequence:       "HPPH",
			Energy:         "custodio",
			W2:             10,
			W3:             40,
			PopulationSize: 4,
			Generations:    2,
			Epsilon:        1e-5,
			Seed:           1,
			Workers:        1,
		},
		History: history,
		GenerationDiagnostics: []model.GenerationDiagnostics{
			{Generation: 1, MeanFitness: 95.5, BestFitness: 40},
			{Generation: 2, MeanFitness: 80, BestFitness: 40},
		},
		FinalPopulation: []model.ScoredFold{best, {Fold: "-RRR", Fitness: 40}},
		Summary:         Summarize(runID, best, history, 2, false, 12),
	}
}

func TestWriteAndExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")

	runID := "run-123"
	runDir, err := WriteRunArtifacts(baseDir, sampleArtifacts(runID))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	for _, file := range runFiles {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("expected file %s: %v", file, err)
		}
	}

	exportedDir, err := ExportRunArtifacts(baseDir, runID, outDir)
	if err != nil {
		t.Fatalf("export artifacts: %v", err)
	}
	for _, file := range runFiles {
		if _, err := os.Stat(filepath.Join(exportedDir, file)); err != nil {
			t.Fatalf("expected exported file %s: %v", file, err)
		}
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}); err == nil {
		t.Fatal("expected run id error")
	}
}

func TestOptimalFoldingFile(t *testing.T) {
	baseDir := t.TempDir()
	if _, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-opt")); err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(baseDir, "run-opt", optimalFoldingFile))
	if err != nil {
		t.Fatalf("read optimal folding: %v", err)
	}
	if string(data) != "MPPM\n-LLL\n" {
		t.Fatalf("unexpected optimal folding content: %q", data)
	}

	protein, fold, ok, err := ReadOptimalFolding(baseDir, "run-opt")
	if err != nil || !ok {
		t.Fatalf("read optimal folding: ok=%t err=%v", ok, err)
	}
	if protein != "MPPM" || fold != "-LLL" {
		t.Fatalf("unexpected optimal folding: %s %s", protein, fold)
	}

	if _, _, ok, err := ReadOptimalFolding(baseDir, "missing"); err != nil || ok {
		t.Fatalf("expected missing result, ok=%t err=%v", ok, err)
	}
}

func TestReadRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	if _, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-read")); err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	cfg, ok, err := ReadRunConfig(baseDir, "run-read")
	if err != nil || !ok {
		t.Fatalf("read config: ok=%t err=%v", ok, err)
	}
	if cfg.Sequence != "HPPH" || cfg.PopulationSize != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	history, ok, err := ReadFitnessHistory(baseDir, "run-read")
	if err != nil || !ok {
		t.Fatalf("read history: ok=%t err=%v", ok, err)
	}
	if len(history.MeanByGeneration) != 3 || history.FinalBestFitness != 40 {
		t.Fatalf("unexpected history: %+v", history)
	}

	series, ok, err := ReadFitnessSeries(baseDir, "run-read")
	if err != nil || !ok {
		t.Fatalf("read series: ok=%t err=%v", ok, err)
	}
	if len(series.MeanByGeneration) != 3 || series.MeanByGeneration[1] != 95.5 || series.BestByGeneration[0] != 60 {
		t.Fatalf("unexpected series: %+v", series)
	}

	diagnostics, ok, err := ReadGenerationDiagnostics(baseDir, "run-read")
	if err != nil || !ok || len(diagnostics) != 2 {
		t.Fatalf("read diagnostics: ok=%t err=%v diagnostics=%+v", ok, err, diagnostics)
	}

	population, ok, err := ReadFinalPopulation(baseDir, "run-read")
	if err != nil || !ok || len(population) != 2 {
		t.Fatalf("read population: ok=%t err=%v population=%+v", ok, err, population)
	}

	summary, ok, err := ReadRunSummary(baseDir, "run-read")
	if err != nil || !ok {
		t.Fatalf("read summary: ok=%t err=%v", ok, err)
	}
	if summary.InitialBest != 60 || summary.Improvement != 20 || summary.Evaluations != 12 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if _, ok, err := ReadRunConfig(baseDir, "missing"); err != nil || ok {
		t.Fatalf("expected missing config, ok=%t err=%v", ok, err)
	}
}

func TestRunIndexAppendAndList(t *testing.T) {
	baseDir := t.TempDir()

	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "run-a", CreatedAtUTC: "2026-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("append run-a: %v", err)
	}
	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "run-b", CreatedAtUTC: "2026-01-02T00:00:00Z"}); err != nil {
		t.Fatalf("append run-b: %v", err)
	}
	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "run-a", CreatedAtUTC: "2026-01-01T00:00:00Z", FinalBestFitness: 12}); err != nil {
		t.Fatalf("update run-a: %v", err)
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list run index: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 index entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-b" {
		t.Fatalf("expected newest run first, got %s", entries[0].RunID)
	}
	if entries[1].FinalBestFitness != 12 {
		t.Fatalf("expected updated run-a entry, got %+v", entries[1])
	}

	latest, err := LatestRunID(baseDir)
	if err != nil || latest != "run-b" {
		t.Fatalf("latest run: %s err=%v", latest, err)
	}
}

func TestListRunIndexEmpty(t *testing.T) {
	entries, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list run index: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty index, got %+v", entries)
	}
	if _, err := LatestRunID(t.TempDir()); err == nil {
		t.Fatal("expected no runs error")
	}
}
